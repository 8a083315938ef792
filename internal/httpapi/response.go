package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/quakecase/engine/internal/apierr"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}

func writeAPIError(w http.ResponseWriter, err *apierr.APIError) {
	writeJSON(w, err.StatusCode, err.Response())
}
