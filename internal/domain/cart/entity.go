// internal/domain/cart/entity.go
package cart

import "errors"

var (
	// ErrStateNotFound is returned by Get when the state document was never written.
	ErrStateNotFound = errors.New("cart: state not found")
)

// State is the persisted actuator state of the physical cart.
//
// Stored as a single document { cart: bool }. Only the actuator writes it;
// the hardware side reads it.
type State struct {
	Open bool `json:"cart" firestore:"cart"`
}

// Label is used in log lines and HTTP messages.
func (s State) Label() string {
	return LabelOf(s.Open)
}

// LabelOf returns "open" or "closed".
func LabelOf(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}
