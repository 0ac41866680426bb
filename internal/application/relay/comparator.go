// internal/application/relay/comparator.go
package relay

// UnsetSize marks a comparator that has not seen a snapshot yet.
const UnsetSize = -1

// Decision is the outcome of one observed snapshot.
type Decision int

const (
	// DecisionSeed is returned for the first snapshot; it only records the size.
	DecisionSeed Decision = iota
	DecisionNone
	DecisionOpen
)

func (d Decision) String() string {
	switch d {
	case DecisionSeed:
		return "seed"
	case DecisionNone:
		return "none"
	case DecisionOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Comparator holds the last observed size of one watched collection.
// It is owned by a single Watcher goroutine and is not safe for concurrent use.
type Comparator struct {
	lastSize int
}

func NewComparator() *Comparator {
	return &Comparator{lastSize: UnsetSize}
}

// Observe records size and reports whether it grew past the previous one.
// Equal or smaller sizes never open.
func (c *Comparator) Observe(size int) Decision {
	prev := c.lastSize
	c.lastSize = size

	if prev == UnsetSize {
		return DecisionSeed
	}
	if size > prev {
		return DecisionOpen
	}
	return DecisionNone
}

func (c *Comparator) LastSize() int {
	return c.lastSize
}
