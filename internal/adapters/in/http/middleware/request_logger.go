// internal/adapters/in/http/middleware/request_logger.go
package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/azaky/cartserver/internal/infra/metrics"
)

const maxLoggedBody = 4 << 10

// RequestLogger logs every request with its headers and (truncated) body,
// and records status and latency.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			var body []byte
			if r.Body != nil && r.Body != http.NoBody {
				// only the logged head is buffered; the rest streams to the handler
				head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
				r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(head), r.Body), Closer: r.Body}
				body = head
			}
			if len(body) > maxLoggedBody {
				body = body[:maxLoggedBody]
			}

			log.Info("[REQUEST LOGGER]",
				zap.String("method", r.Method),
				zap.String("url", r.URL.String()),
				zap.Any("headers", redactHeaders(r.Header)),
				zap.ByteString("body", body),
			)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Debug("request done",
				zap.String("method", r.Method),
				zap.String("url", r.URL.Path),
				zap.Int("status", statusOf(ww)),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}

// Metrics records one observation per request, labelled by chi route pattern.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			m.ObserveHTTP(r.Method, routePattern(r), statusOf(ww), time.Since(start))
		})
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

func statusOf(ww chimw.WrapResponseWriter) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		if k == "Authorization" || k == "Cookie" {
			out[k] = "***"
			continue
		}
		out[k] = h.Get(k)
	}
	return out
}
