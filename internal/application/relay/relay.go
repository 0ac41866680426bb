// internal/application/relay/relay.go
package relay

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/azaky/cartserver/internal/domain/watch"
	"github.com/azaky/cartserver/internal/infra/metrics"
)

// Relay runs one Watcher per watched collection.
type Relay struct {
	watchers []*Watcher
	log      *zap.Logger
}

func New(targets []watch.Collection, source watch.Source, opener Opener, log *zap.Logger, m *metrics.Metrics) (*Relay, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no watched collections", watch.ErrInvalidWatch)
	}

	seen := make(map[string]struct{}, len(targets))
	r := &Relay{log: log}
	for _, t := range targets {
		if _, dup := seen[t.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate watch name %q", watch.ErrInvalidWatch, t.Name)
		}
		seen[t.Name] = struct{}{}

		w, err := NewWatcher(t, source, opener, log.Named("watcher"), m)
		if err != nil {
			return nil, err
		}
		r.watchers = append(r.watchers, w)
	}
	return r, nil
}

func (r *Relay) Watchers() []*Watcher {
	return append([]*Watcher(nil), r.watchers...)
}

// Run blocks until every watch has ended. A failed watch is logged and does
// not stop the others.
func (r *Relay) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range r.watchers {
		w := w
		g.Go(func() error {
			if err := w.Run(gctx); err != nil {
				r.log.Error("watch ended with error; not retried",
					zap.String("watch", w.Target().Name), zap.Error(err))
			}
			return nil
		})
	}
	return g.Wait()
}
