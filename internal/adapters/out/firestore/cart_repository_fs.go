// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "github.com/azaky/cartserver/internal/domain/cart"
)

const (
	defaultStateCollection = "open"
	defaultStateDocID      = "sesame"
)

// CartStateRepositoryFS implements cart.Repository on a single Firestore
// document (default open/sesame, field "cart").
type CartStateRepositoryFS struct {
	Client     *firestore.Client
	collection string
	docID      string
}

func NewCartStateRepositoryFS(client *firestore.Client, collection, docID string) *CartStateRepositoryFS {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		collection = defaultStateCollection
	}
	docID = strings.TrimSpace(docID)
	if docID == "" {
		docID = defaultStateDocID
	}
	return &CartStateRepositoryFS{Client: client, collection: collection, docID: docID}
}

func (r *CartStateRepositoryFS) doc() *firestore.DocumentRef {
	return r.Client.Collection(r.collection).Doc(r.docID)
}

// SetOpen overwrites the whole document with { cart: open }.
func (r *CartStateRepositoryFS) SetOpen(ctx context.Context, open bool) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_state_repository_fs: firestore client is nil")
	}
	if _, err := r.doc().Set(ctx, cartdom.State{Open: open}); err != nil {
		return fmt.Errorf("cart_state_repository_fs: set %s/%s: %w", r.collection, r.docID, err)
	}
	return nil
}

func (r *CartStateRepositoryFS) Get(ctx context.Context) (cartdom.State, error) {
	if r == nil || r.Client == nil {
		return cartdom.State{}, errors.New("cart_state_repository_fs: firestore client is nil")
	}

	snap, err := r.doc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return cartdom.State{}, cartdom.ErrStateNotFound
		}
		return cartdom.State{}, fmt.Errorf("cart_state_repository_fs: get %s/%s: %w", r.collection, r.docID, err)
	}

	// missing or non-bool "cart" is treated as closed
	var st cartdom.State
	if v, err := snap.DataAt("cart"); err == nil {
		if b, ok := v.(bool); ok {
			st.Open = b
		}
	}
	return st, nil
}
