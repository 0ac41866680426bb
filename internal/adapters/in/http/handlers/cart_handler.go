// internal/adapters/in/http/handlers/cart_handler.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/azaky/cartserver/internal/adapters/in/http/middleware"
	cartdom "github.com/azaky/cartserver/internal/domain/cart"
)

// StateSetter is the manual actuator. *relay.Actuator satisfies it.
type StateSetter interface {
	SetState(ctx context.Context, open bool) error
}

// CartHandler serves manual cart control:
//   - POST /cart/open
//   - POST /cart/close
//   - GET  /cart
//
// Manual writes do not touch pending close timers of the watchers.
type CartHandler struct {
	setter StateSetter
	reader cartdom.Repository
	log    *zap.Logger
}

// NewCartHandler: reader は nil 可（GET /cart は 503 を返す）
func NewCartHandler(setter StateSetter, reader cartdom.Repository, log *zap.Logger) *CartHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartHandler{setter: setter, reader: reader, log: log}
}

func (h *CartHandler) Open(w http.ResponseWriter, r *http.Request) {
	h.set(w, r, true, "cart opened")
}

func (h *CartHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.set(w, r, false, "cart closed")
}

func (h *CartHandler) set(w http.ResponseWriter, r *http.Request, open bool, okMsg string) {
	if h.setter == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}
	if err := h.setter.SetState(r.Context(), open); err != nil {
		h.log.Error("failed to set cart state", zap.String("state", cartdom.LabelOf(open)), zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "failed to set cart state")
		return
	}
	fields := []zap.Field{zap.String("state", cartdom.LabelOf(open))}
	if uid, ok := middleware.UIDFromContext(r.Context()); ok {
		fields = append(fields, zap.String("uid", uid))
	}
	h.log.Info("cart state set manually", fields...)
	writeMessage(w, http.StatusOK, okMsg)
}

// Get returns the persisted state as {"data":{"cart":bool}}.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.reader == nil {
		writeMessage(w, http.StatusServiceUnavailable, "cart state is not readable")
		return
	}
	st, err := h.reader.Get(r.Context())
	switch {
	case errors.Is(err, cartdom.ErrStateNotFound):
		// never written yet: closed
		writeData(w, cartdom.State{Open: false})
	case err != nil:
		h.log.Error("failed to read cart state", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "failed to read cart state")
	default:
		writeData(w, st)
	}
}
