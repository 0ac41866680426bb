// internal/application/relay/watcher.go
package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/azaky/cartserver/internal/domain/watch"
	"github.com/azaky/cartserver/internal/infra/metrics"
)

// Opener runs the open sequence for one trigger.
type Opener interface {
	Open(ctx context.Context, w watch.Collection, triggerID string) error
}

// Watcher follows one watched collection and triggers opens on growth.
type Watcher struct {
	target  watch.Collection
	source  watch.Source
	opener  Opener
	cmp     *Comparator
	log     *zap.Logger
	metrics *metrics.Metrics

	inflight sync.WaitGroup
}

func NewWatcher(target watch.Collection, source watch.Source, opener Opener, log *zap.Logger, m *metrics.Metrics) (*Watcher, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if source == nil || opener == nil {
		return nil, errors.New("relay: watcher needs a source and an opener")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		target:  target,
		source:  source,
		opener:  opener,
		cmp:     NewComparator(),
		log:     log.With(zap.String("watch", target.Name)),
		metrics: m,
	}, nil
}

func (w *Watcher) Target() watch.Collection { return w.target }

// Run subscribes and processes snapshots until the stream ends.
//
// Returns nil when ctx is cancelled or the stream is closed. A subscription
// error is logged and returned; the watch is not restarted.
// In-flight open sequences are awaited before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.inflight.Wait()

	stream, err := w.source.Subscribe(ctx, w.target)
	if err != nil {
		w.log.Error("subscribe failed", zap.Error(err))
		return fmt.Errorf("relay: subscribe %s: %w", w.target, err)
	}
	defer stream.Stop()

	w.log.Info("watching", zap.String("collection", w.target.Collection), zap.String("field", w.target.Field))

	for {
		snap, err := stream.Next()
		if err != nil {
			if errors.Is(err, watch.ErrStreamClosed) || ctx.Err() != nil {
				w.log.Info("watch stopped")
				return nil
			}
			w.log.Error("Encountered error", zap.Error(err))
			return fmt.Errorf("relay: watch %s: %w", w.target.Name, err)
		}
		w.handle(ctx, snap)
	}
}

// handle updates the comparator synchronously; the open sequence runs on its
// own goroutine so a slow write does not hold up the next snapshot.
func (w *Watcher) handle(ctx context.Context, snap watch.Snapshot) Decision {
	w.log.Info("Received query snapshot", zap.Int("size", snap.Size), zap.Int("changes", snap.Changes))
	w.metrics.ObserveSnapshot(w.target.Name, snap.Size)

	prev := w.cmp.LastSize()
	d := w.cmp.Observe(snap.Size)
	w.metrics.ObserveDecision(w.target.Name, d.String())
	if d != DecisionOpen {
		return d
	}

	triggerID := uuid.NewString()
	w.log.Info("Opening cart ...", zap.String("trigger", triggerID), zap.Int("size", snap.Size), zap.Int("previous", prev))

	// a write already on the wire must finish and get its close scheduled even
	// if the watch is being stopped; the actuator's write timeout bounds it
	openCtx := context.WithoutCancel(ctx)

	w.inflight.Add(1)
	go func() {
		defer w.inflight.Done()
		if err := w.opener.Open(openCtx, w.target, triggerID); err != nil {
			w.log.Warn("open sequence aborted; no close scheduled", zap.String("trigger", triggerID), zap.Error(err))
		}
	}()
	return d
}
