// internal/adapters/in/http/handlers/system_handler.go
package handlers

import (
	"net/http"
)

const rootMessage = "cartserver is running. See /docs for the API reference"

// express 互換の 404 ページ
const cannotGetHTTPS = `<!DOCTYPE html>
<html lang="en">
    <head>
        <meta charset="utf-8">
        <title>Error</title>
    </head>
    <body>
        <pre>Cannot GET /https</pre>
    </body>
</html>`

// Root: GET /
func Root(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, rootMessage)
}

// Healthz: GET /healthz
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HTTPSOnly answers only over TLS. Plain HTTP gets the same page an unknown
// route would.
func HTTPSOnly(w http.ResponseWriter, r *http.Request) {
	if r.TLS == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(cannotGetHTTPS))
		return
	}
	writeMessage(w, http.StatusOK, "This endpoint is only available through secure connection")
}
