// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

// TokenVerifier is satisfied by *auth.Client from the Firebase admin SDK.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// context key は衝突回避のため独自型を使用
type ctxKey struct{ name string }

var ctxKeyUID = ctxKey{name: "uid"}

// UIDFromContext returns the verified Firebase uid, if any.
func UIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyUID).(string)
	return v, ok && v != ""
}

// FirebaseAuth requires "Authorization: Bearer <ID_TOKEN>" and stores the uid
// in the request context. A nil verifier fails closed with 503.
func FirebaseAuth(verifier TokenVerifier, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				log.Error("firebase auth is required but not initialized", zap.String("path", r.URL.Path))
				writeMessage(w, http.StatusServiceUnavailable, "auth not initialized")
				return
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeMessage(w, http.StatusUnauthorized, "unauthorized: missing bearer token")
				return
			}
			idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if idToken == "" {
				writeMessage(w, http.StatusUnauthorized, "unauthorized: empty bearer token")
				return
			}

			token, err := verifier.VerifyIDToken(r.Context(), idToken)
			if err != nil {
				log.Warn("id token rejected", zap.Error(err))
				writeMessage(w, http.StatusUnauthorized, "invalid token")
				return
			}
			uid := strings.TrimSpace(token.UID)
			if uid == "" {
				writeMessage(w, http.StatusUnauthorized, "invalid uid in token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUID, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
