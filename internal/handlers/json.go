package handlers

import (
	"encoding/json"
	"net/http"

	"auto-thumbnail/internal/logging"
)

// writeJSON sends v with the given status. Encoding failures can only be
// logged once the header is out.
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	writeJSON(w, code, map[string]string{"status": status})
}
