package mediatypes

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		mime string
		want Category
	}{
		{name: "JPEG", mime: "image/jpeg", want: CategoryImage},
		{name: "TGA", mime: "image/x-tga", want: CategoryImage},
		{name: "animated PNG", mime: "image/vnd.mozilla.apng", want: CategoryImage},
		{name: "unlisted image by prefix", mime: "image/heic", want: CategoryImage},
		{name: "PDF", mime: "application/pdf", want: CategoryPDF},
		{name: "MP4", mime: "video/mp4", want: CategoryVideo},
		{name: "unlisted video by prefix", mime: "video/x-matroska", want: CategoryVideo},
		{name: "matroska application type", mime: "application/x-matroska", want: CategoryVideo},
		{name: "flash", mime: "application/x-shockwave-flash", want: CategoryVideo},
		{name: "parameters stripped", mime: "image/png; charset=binary", want: CategoryImage},
		{name: "case insensitive", mime: "Application/PDF", want: CategoryPDF},
		{name: "plain text", mime: "text/plain; charset=utf-8", want: CategoryUnsupported},
		{name: "octet stream", mime: "application/octet-stream", want: CategoryUnsupported},
		{name: "pdf lookalike", mime: "application/pdf-x", want: CategoryUnsupported},
		{name: "empty", mime: "", want: CategoryUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.mime); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.mime, got, tt.want)
			}
		})
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		input   string
		want    Encoding
		wantErr bool
	}{
		{input: "JPEG", want: JPEG},
		{input: "jpeg", want: JPEG},
		{input: "PNG", want: PNG},
		{input: "Png", want: PNG},
		{input: "WEBP", want: WEBP},
		{input: "webp", want: WEBP},
		{input: "JPG", wantErr: true},
		{input: "GIF", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEncoding(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseEncoding(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEncoding(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseEncoding(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncodingStringRoundTrip(t *testing.T) {
	for _, enc := range Encodings {
		got, err := ParseEncoding(enc.String())
		if err != nil {
			t.Fatalf("ParseEncoding(%q): %v", enc.String(), err)
		}
		if got != enc {
			t.Errorf("round trip of %v gave %v", enc, got)
		}
	}
}

func TestEncodingFromPath(t *testing.T) {
	tests := []struct {
		path   string
		want   Encoding
		wantOK bool
	}{
		{path: "out.png", want: PNG, wantOK: true},
		{path: "out.PNG", want: PNG, wantOK: true},
		{path: "dir/out.webp", want: WEBP, wantOK: true},
		{path: "out.jpeg", want: JPEG, wantOK: true},
		{path: "out.jpg", wantOK: false},
		{path: "out.gif", wantOK: false},
		{path: "out", wantOK: false},
		{path: "dir.png/out", wantOK: false},
		{path: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := EncodingFromPath(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("EncodingFromPath(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("EncodingFromPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestEncodingAccessors(t *testing.T) {
	tests := []struct {
		enc         Encoding
		ext         string
		contentType string
	}{
		{JPEG, ".jpg", "image/jpeg"},
		{PNG, ".png", "image/png"},
		{WEBP, ".webp", "image/webp"},
	}

	for _, tt := range tests {
		t.Run(tt.enc.String(), func(t *testing.T) {
			if got := tt.enc.Extension(); got != tt.ext {
				t.Errorf("Extension() = %q, want %q", got, tt.ext)
			}
			if got := tt.enc.ContentType(); got != tt.contentType {
				t.Errorf("ContentType() = %q, want %q", got, tt.contentType)
			}
		})
	}

	if got := Encoding(7).String(); got != "Encoding(7)" {
		t.Errorf("unknown encoding String() = %q", got)
	}
}

func TestBaseMIME(t *testing.T) {
	if got := BaseMIME(" Text/Plain; charset=utf-8"); got != "text/plain" {
		t.Errorf("BaseMIME = %q, want text/plain", got)
	}
}
