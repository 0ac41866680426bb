// internal/domain/cart/repository_port.go
package cart

import "context"

// Repository is the persistence port for the singleton cart State.
//
// Storage (Firestore):
// - collection: open
// - docId: sesame
// - fields: cart(bool)
type Repository interface {
	// SetOpen overwrites the state document. Writes are idempotent.
	SetOpen(ctx context.Context, open bool) error

	// Get returns ErrStateNotFound if the document does not exist yet.
	Get(ctx context.Context) (State, error)
}
