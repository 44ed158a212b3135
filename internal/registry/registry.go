package registry

import (
	"fmt"

	"github.com/arloliu/cbf/errs"
	"github.com/arloliu/cbf/internal/hash"
)

// Registry maps stream names to their position in the container's stream order.
//
// Names are indexed by their xxHash64 ID. Distinct names that hash to the same ID
// are kept side by side in the bucket and resolved by comparing the name, so a
// collision costs one extra string comparison and is never an error.
type Registry struct {
	buckets      map[uint64][]int // ID → positions of names with that ID
	names        []string         // names in registration order
	hasCollision bool
}

// New creates an empty registry with room for n names.
func New(n int) *Registry {
	return &Registry{
		buckets: make(map[uint64][]int, n),
		names:   make([]string, 0, n),
	}
}

// Add registers a name and returns its position.
//
// Returns:
//   - int: Zero-based position of the name (registration order)
//   - error: ErrInvalidStreamName for an empty name, ErrDuplicateStreamName if
//     the name was already registered
func (r *Registry) Add(name string) (int, error) {
	if name == "" {
		return -1, fmt.Errorf("%w: empty name", errs.ErrInvalidStreamName)
	}

	id := hash.ID(name)
	bucket := r.buckets[id]
	for _, pos := range bucket {
		if r.names[pos] == name {
			return -1, fmt.Errorf("%w: %q", errs.ErrDuplicateStreamName, name)
		}
	}

	if len(bucket) > 0 {
		r.hasCollision = true
	}

	pos := len(r.names)
	r.names = append(r.names, name)
	r.buckets[id] = append(bucket, pos)

	return pos, nil
}

// Lookup returns the position of a registered name.
func (r *Registry) Lookup(name string) (int, bool) {
	for _, pos := range r.buckets[hash.ID(name)] {
		if r.names[pos] == name {
			return pos, true
		}
	}

	return -1, false
}

// HasCollision reports whether two registered names share an ID.
func (r *Registry) HasCollision() bool {
	return r.hasCollision
}
