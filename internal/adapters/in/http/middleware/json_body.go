// internal/adapters/in/http/middleware/json_body.go
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
)

const maxJSONBody = 1 << 20

// JSONBody rejects requests that declare a JSON body which does not parse,
// with 400 {"message":"Invalid JSON"}. Other bodies pass through untouched.
func JSONBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || r.Body == http.NoBody || !isJSON(r) {
			next.ServeHTTP(w, r)
			return
		}

		raw, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody+1))
		_ = r.Body.Close()
		if err != nil || len(raw) > maxJSONBody {
			writeMessage(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if len(bytes.TrimSpace(raw)) > 0 && !json.Valid(raw) {
			writeMessage(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(raw))
		next.ServeHTTP(w, r)
	})
}

func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && mt == "application/json"
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
