// internal/adapters/out/firestore/snapshot_source_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/azaky/cartserver/internal/domain/watch"
)

// SnapshotSourceFS implements watch.Source with Firestore real-time listeners.
type SnapshotSourceFS struct {
	Client *firestore.Client
}

func NewSnapshotSourceFS(client *firestore.Client) *SnapshotSourceFS {
	return &SnapshotSourceFS{Client: client}
}

// Query builds the filtered query for c: Collection where Field > 0.
func (s *SnapshotSourceFS) Query(c watch.Collection) firestore.Query {
	return s.Client.Collection(c.Collection).Where(c.Field, ">", 0)
}

func (s *SnapshotSourceFS) Subscribe(ctx context.Context, c watch.Collection) (watch.Stream, error) {
	if s == nil || s.Client == nil {
		return nil, errors.New("snapshot_source_fs: firestore client is nil")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &snapshotStreamFS{ctx: ctx, it: s.Query(c).Snapshots(ctx), name: c.Name}, nil
}

type snapshotStreamFS struct {
	ctx  context.Context
	it   *firestore.QuerySnapshotIterator
	name string
}

func (s *snapshotStreamFS) Next() (watch.Snapshot, error) {
	qs, err := s.it.Next()
	if err != nil {
		if isStreamEnd(s.ctx, err) {
			return watch.Snapshot{}, watch.ErrStreamClosed
		}
		return watch.Snapshot{}, fmt.Errorf("snapshot_source_fs: %s: %w", s.name, err)
	}
	return watch.Snapshot{
		Size:     qs.Size,
		ReadTime: qs.ReadTime,
		Changes:  len(qs.Changes),
	}, nil
}

func (s *snapshotStreamFS) Stop() {
	s.it.Stop()
}

// isStreamEnd separates a normal end (Stop, ctx done) from a listen failure.
func isStreamEnd(ctx context.Context, err error) bool {
	if errors.Is(err, iterator.Done) {
		return true
	}
	if ctx != nil && ctx.Err() != nil {
		return true
	}
	// 呼び出し側の ctx が生きている DeadlineExceeded は RPC 側のタイムアウト
	if errors.Is(err, context.Canceled) {
		return true
	}
	return status.Code(err) == codes.Canceled
}
