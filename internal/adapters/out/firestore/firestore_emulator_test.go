package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "github.com/azaky/cartserver/internal/domain/cart"
	"github.com/azaky/cartserver/internal/domain/watch"
)

func TestIsStreamEnd(t *testing.T) {
	live := context.Background()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, isStreamEnd(live, iterator.Done))
	assert.True(t, isStreamEnd(live, context.Canceled))
	assert.True(t, isStreamEnd(live, status.Error(codes.Canceled, "stopped")))
	assert.True(t, isStreamEnd(cancelled, errors.New("anything")))
	assert.True(t, isStreamEnd(cancelled, context.DeadlineExceeded))

	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()
	assert.True(t, isStreamEnd(expired, context.DeadlineExceeded))

	assert.False(t, isStreamEnd(live, status.Error(codes.PermissionDenied, "rules")))
	assert.False(t, isStreamEnd(live, status.Error(codes.Unavailable, "down")))
	assert.False(t, isStreamEnd(live, context.DeadlineExceeded))
	assert.False(t, isStreamEnd(live, fmt.Errorf("listen: %w", context.DeadlineExceeded)))
}

// emulatorClient skips unless FIRESTORE_EMULATOR_HOST is set.
func emulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	c, err := firestore.NewClient(context.Background(), "cartserver-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCartStateRepositoryFS_Emulator(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	repo := NewCartStateRepositoryFS(client, "open", fmt.Sprintf("sesame-%d", time.Now().UnixNano()))

	_, err := repo.Get(ctx)
	require.ErrorIs(t, err, cartdom.ErrStateNotFound)

	require.NoError(t, repo.SetOpen(ctx, true))
	st, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, st.Open)

	require.NoError(t, repo.SetOpen(ctx, false))
	st, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, st.Open)
}

func TestSnapshotSourceFS_Emulator(t *testing.T) {
	client := emulatorClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	col := fmt.Sprintf("cart-%d", time.Now().UnixNano())
	w := watch.Collection{Name: "cart", Collection: col, Field: "price", CloseDelay: time.Second}

	_, err := client.Collection(col).Doc("free").Set(ctx, map[string]any{"price": 0})
	require.NoError(t, err)

	stream, err := NewSnapshotSourceFS(client).Subscribe(ctx, w)
	require.NoError(t, err)
	defer stream.Stop()

	first, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, first.Size)

	_, err = client.Collection(col).Doc("milk").Set(ctx, map[string]any{"price": 2500})
	require.NoError(t, err)

	second, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, second.Size)

	stream.Stop()
	_, err = stream.Next()
	assert.ErrorIs(t, err, watch.ErrStreamClosed)
}
