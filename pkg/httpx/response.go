package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// WriteJSON encodes v with the given status. Nothing the booth returns may
// be cached: tokens, voter status and live tallies.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	h := w.Header()
	h.Set("Cache-Control", "no-store")
	h.Set("Pragma", "no-cache")
	h.Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// WriteError writes the {"error", "error_description"} body used by every
// non-2xx JSON response.
func WriteError(w http.ResponseWriter, code int, errCode, description string) {
	WriteJSON(w, code, errorBody{Error: errCode, ErrorDescription: description})
}

// ParseScopes splits a space-delimited scope claim. Blank input yields nil.
func ParseScopes(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
