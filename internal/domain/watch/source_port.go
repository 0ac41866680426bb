// internal/domain/watch/source_port.go
package watch

import (
	"context"
	"errors"
)

// ErrStreamClosed is returned by Stream.Next after Stop or when the
// subscription context ends.
var ErrStreamClosed = errors.New("watch: stream closed")

// Source opens change subscriptions. The first snapshot of a stream is the
// current state at subscribe time.
type Source interface {
	Subscribe(ctx context.Context, c Collection) (Stream, error)
}

// Stream delivers snapshots one at a time in store order.
// Any error other than ErrStreamClosed is a subscription failure.
type Stream interface {
	Next() (Snapshot, error)
	Stop()
}
