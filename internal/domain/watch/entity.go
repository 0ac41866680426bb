// internal/domain/watch/entity.go
package watch

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidWatch = errors.New("watch: invalid")
)

// Collection identifies a filtered view over a document collection:
// documents of Collection whose Field is > 0.
//
// Name is the key for per-watch state (last observed size, pending close).
type Collection struct {
	Name       string
	Collection string
	Field      string

	// CloseDelay is how long the cart stays open after a growth trigger.
	CloseDelay time.Duration
}

func (c Collection) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidWatch)
	}
	if strings.TrimSpace(c.Collection) == "" {
		return fmt.Errorf("%w: %s: collection is empty", ErrInvalidWatch, c.Name)
	}
	if strings.TrimSpace(c.Field) == "" {
		return fmt.Errorf("%w: %s: field is empty", ErrInvalidWatch, c.Name)
	}
	if c.CloseDelay <= 0 {
		return fmt.Errorf("%w: %s: close delay must be positive", ErrInvalidWatch, c.Name)
	}
	return nil
}

func (c Collection) String() string {
	return fmt.Sprintf("%s(%s where %s > 0)", c.Name, c.Collection, c.Field)
}

// Snapshot is one observation of a watched collection. Only Size drives the
// relay; ReadTime and Changes are informational.
type Snapshot struct {
	Size     int
	ReadTime time.Time
	Changes  int
}
