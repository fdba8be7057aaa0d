package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"auto-thumbnail/internal/handlers"
	"auto-thumbnail/internal/mediatest"
	"auto-thumbnail/internal/mediatypes"
	"auto-thumbnail/internal/startup"
	"auto-thumbnail/thumbnailer"
)

func newTestHandlers(t *testing.T) (*handlers.Handlers, string) {
	t.Helper()

	mediaDir := t.TempDir()
	thumbDir := filepath.Join(t.TempDir(), "thumbnails")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		t.Fatal(err)
	}

	config := &startup.Config{
		MediaDir:              mediaDir,
		Size:                  thumbnailer.SizeSmall,
		Quality:               85,
		Format:                mediatypes.JPEG,
		ThumbnailDir:          thumbDir,
		ThumbnailCacheEnabled: true,
	}
	return handlers.New(config, startup.NativeDependencies{}, nil), mediaDir
}

func TestSetupRouter(t *testing.T) {
	h, mediaDir := newTestHandlers(t)
	if err := os.MkdirAll(filepath.Join(mediaDir, "2024", "trip"), 0o755); err != nil {
		t.Fatal(err)
	}
	mediatest.WriteImage(t, filepath.Join(mediaDir, "2024", "trip", "beach.png"), 300, 200, "png")

	router := setupRouter(h, true)

	tests := []struct {
		name        string
		method      string
		path        string
		wantCode    int
		wantContent string
	}{
		{"healthz", http.MethodGet, "/healthz", http.StatusOK, "application/json"},
		{"healthz head", http.MethodHead, "/healthz", http.StatusOK, "application/json"},
		{"livez", http.MethodGet, "/livez", http.StatusOK, "application/json"},
		{"readyz", http.MethodGet, "/readyz", http.StatusOK, "application/json"},
		{"version", http.MethodGet, "/version", http.StatusOK, "application/json"},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, "text/plain"},
		{"nested thumbnail", http.MethodGet, "/api/thumbnail/2024/trip/beach.png?format=png", http.StatusOK, "image/png"},
		{"missing thumbnail", http.MethodGet, "/api/thumbnail/2024/none.png", http.StatusNotFound, ""},
		{"wrong method", http.MethodPost, "/api/thumbnail/2024/trip/beach.png", http.StatusMethodNotAllowed, ""},
		{"unknown route", http.MethodGet, "/api/files", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, http.NoBody))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d (body %q)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantContent != "" && !strings.HasPrefix(rec.Header().Get("Content-Type"), tt.wantContent) {
				t.Errorf("Content-Type = %q, want %s", rec.Header().Get("Content-Type"), tt.wantContent)
			}
		})
	}
}

func TestSetupRouterWithoutMetrics(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := setupRouter(h, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	if rec.Code != http.StatusNotFound {
		t.Errorf("/metrics status = %d, want 404 when metrics are disabled", rec.Code)
	}
}

func TestRoutesAreListed(t *testing.T) {
	h, _ := newTestHandlers(t)

	routes, err := startup.GetRoutes(setupRouter(h, true))
	if err != nil {
		t.Fatalf("GetRoutes() error = %v", err)
	}

	want := map[string]bool{
		"/healthz":                 false,
		"/metrics":                 false,
		"/api/thumbnail/{path:.*}": false,
	}
	for _, r := range routes {
		if _, ok := want[r.Path]; ok {
			want[r.Path] = true
		}
	}
	for path, found := range want {
		if !found {
			t.Errorf("route %s not registered", path)
		}
	}
}
