// internal/application/relay/actuator.go
package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	cartdom "github.com/azaky/cartserver/internal/domain/cart"
	"github.com/azaky/cartserver/internal/domain/watch"
	"github.com/azaky/cartserver/internal/infra/metrics"
)

const (
	defaultWriteTimeout = 10 * time.Second
	alertTimeout        = 10 * time.Second
)

// Alerter is told when a scheduled close failed and the cart stays open.
type Alerter interface {
	CartLeftOpen(ctx context.Context, watchName, triggerID string, cause error) error
}

// Actuator writes the cart state document and owns the delayed close.
type Actuator struct {
	repo         cartdom.Repository
	scheduler    *CloseScheduler
	writeTimeout time.Duration
	log          *zap.Logger
	metrics      *metrics.Metrics
	alerter      Alerter
}

type ActuatorOption func(*Actuator)

func WithWriteTimeout(d time.Duration) ActuatorOption {
	return func(a *Actuator) {
		if d > 0 {
			a.writeTimeout = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) ActuatorOption {
	return func(a *Actuator) { a.metrics = m }
}

func WithAlerter(al Alerter) ActuatorOption {
	return func(a *Actuator) { a.alerter = al }
}

func WithLogger(l *zap.Logger) ActuatorOption {
	return func(a *Actuator) {
		if l != nil {
			a.log = l
		}
	}
}

func NewActuator(repo cartdom.Repository, scheduler *CloseScheduler, opts ...ActuatorOption) (*Actuator, error) {
	if repo == nil {
		return nil, errors.New("relay: actuator repository is nil")
	}
	if scheduler == nil {
		scheduler = NewCloseScheduler(nil)
	}
	a := &Actuator{
		repo:         repo,
		scheduler:    scheduler,
		writeTimeout: defaultWriteTimeout,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// SetState writes open/closed. Failures are logged and returned.
func (a *Actuator) SetState(ctx context.Context, open bool) error {
	state := cartdom.LabelOf(open)

	ctx, cancel := context.WithTimeout(ctx, a.writeTimeout)
	defer cancel()

	err := a.repo.SetOpen(ctx, open)
	a.metrics.ObserveStateWrite(state, err)
	if err != nil {
		a.log.Error("setCartState failed", zap.String("state", state), zap.Error(err))
		return fmt.Errorf("relay: set cart state %s: %w", state, err)
	}
	a.log.Debug("cart state written", zap.String("state", state))
	return nil
}

// Open runs the open sequence for a trigger on w: write open, then schedule
// the close after w.CloseDelay. If the open write fails nothing is scheduled.
func (a *Actuator) Open(ctx context.Context, w watch.Collection, triggerID string) error {
	if err := a.SetState(ctx, true); err != nil {
		return err
	}

	replaced, scheduled := a.scheduler.Schedule(w.Name, w.CloseDelay, func() {
		a.closeAfterDelay(w.Name, triggerID)
	})
	a.metrics.SetPendingCloses(a.scheduler.Len())

	if !scheduled {
		// flushed during shutdown: nothing would revert this open later
		a.log.Warn("close scheduler is flushed; closing immediately",
			zap.String("watch", w.Name), zap.String("trigger", triggerID))
		a.closeAfterDelay(w.Name, triggerID)
		return nil
	}

	a.log.Info("cart opened; close scheduled",
		zap.String("watch", w.Name),
		zap.String("trigger", triggerID),
		zap.Duration("delay", w.CloseDelay),
		zap.Bool("replacedPending", replaced),
	)
	return nil
}

// closeAfterDelay is the timer body. It never panics and never retries.
func (a *Actuator) closeAfterDelay(watchName, triggerID string) {
	defer a.metrics.SetPendingCloses(a.scheduler.Len())

	if err := a.SetState(context.Background(), false); err != nil {
		a.log.Warn("scheduled close failed; cart left open until the next trigger or a manual close",
			zap.String("watch", watchName), zap.String("trigger", triggerID), zap.Error(err))
		a.alert(watchName, triggerID, err)
		return
	}
	a.log.Info("cart closed", zap.String("watch", watchName), zap.String("trigger", triggerID))
}

func (a *Actuator) alert(watchName, triggerID string, cause error) {
	if a.alerter == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
	defer cancel()
	if err := a.alerter.CartLeftOpen(ctx, watchName, triggerID, cause); err != nil {
		a.log.Error("cart-left-open alert failed",
			zap.String("watch", watchName), zap.String("trigger", triggerID), zap.Error(err))
	}
}

// PendingClose reports whether watchName has a close waiting to fire.
func (a *Actuator) PendingClose(watchName string) bool {
	return a.scheduler.Pending(watchName)
}

// Shutdown runs all pending closes immediately so the process does not exit
// with the cart left open. Returns the number of closes performed.
func (a *Actuator) Shutdown() int {
	n := a.scheduler.Flush()
	a.metrics.SetPendingCloses(0)
	if n > 0 {
		a.log.Info("flushed pending closes on shutdown", zap.Int("count", n))
	}
	return n
}
