package sparrow

import (
	"fmt"
	"log/slog"
)

// NoSlot is returned by Checkout when every index is in use. Callers must
// fall back to a non-pooled instance.
const NoSlot = -1

// Registered pool ids.
const (
	PoolVertices  = "vertices"
	PoolTextLines = "textlines"

	// PoolParticlesPrefix is followed by the particle node's ID. Each
	// particle buffer registers its own stride-1 pool.
	PoolParticlesPrefix = "particles/"
)

// PoolIndexer is a fixed-capacity LIFO stack of free indices. It hands out
// integer slots into some caller-owned backing array and never allocates
// after construction. Not safe for concurrent use.
type PoolIndexer struct {
	indices []int
	cursor  int
}

// NewPoolIndexer creates an indexer with room for capacity indices. The
// stack starts filled with 0..capacity-1; call InitIndexes to change that.
func NewPoolIndexer(capacity int) *PoolIndexer {
	if capacity < 0 {
		panic("sparrow: negative pool capacity")
	}
	p := &PoolIndexer{indices: make([]int, capacity)}
	p.InitIndexes(0, 1)
	return p
}

// InitIndexes fills slot i with start + i*stride and marks every slot free.
func (p *PoolIndexer) InitIndexes(start, stride int) {
	for i := range p.indices {
		p.indices[i] = start + i*stride
	}
	p.cursor = 0
}

// Capacity returns the fixed number of slots.
func (p *PoolIndexer) Capacity() int { return len(p.indices) }

// Free returns the number of indices available for checkout.
func (p *PoolIndexer) Free() int { return len(p.indices) - p.cursor }

// InUse returns the number of indices currently checked out.
func (p *PoolIndexer) InUse() int { return p.cursor }

// Checkout pops the next free index, or NoSlot when the pool is exhausted.
func (p *PoolIndexer) Checkout() int {
	if p.cursor >= len(p.indices) {
		return NoSlot
	}
	idx := p.indices[p.cursor]
	p.cursor++
	return idx
}

// Checkin returns an index to the pool. Checking into a full pool means the
// same index was released twice and is always an error.
func (p *PoolIndexer) Checkin(index int) error {
	if index < 0 {
		return fmt.Errorf("sparrow: pool checkin %d: %w", index, ErrIndexOutOfRange)
	}
	if p.cursor <= 0 {
		return fmt.Errorf("sparrow: pool checkin %d: %w", index, ErrPoolOverflow)
	}
	p.cursor--
	p.indices[p.cursor] = index
	return nil
}

// --- Registry ---

var pools = map[string]*PoolIndexer{}

// RegisterPool creates a named indexer whose slots are start + i*stride.
// Registering an id twice replaces the previous pool.
func RegisterPool(id string, capacity, start, stride int) (*PoolIndexer, error) {
	if id == "" {
		return nil, fmt.Errorf("sparrow: register pool: empty id: %w", ErrInvalidArgument)
	}
	if capacity < 0 || stride < 0 {
		return nil, fmt.Errorf("sparrow: register pool %q: capacity %d stride %d: %w",
			id, capacity, stride, ErrInvalidArgument)
	}
	p := &PoolIndexer{indices: make([]int, capacity)}
	p.InitIndexes(start, stride)
	pools[id] = p
	return p, nil
}

// UnregisterPool forgets the named pool. Outstanding slots become plain ints.
func UnregisterPool(id string) {
	delete(pools, id)
}

// Pool returns the named indexer or nil.
func Pool(id string) *PoolIndexer {
	return pools[id]
}

// AcquirePoolSlot checks out a slot from the named pool. Unknown ids and
// exhausted pools both return NoSlot.
func AcquirePoolSlot(id string) int {
	p := pools[id]
	if p == nil {
		return NoSlot
	}
	idx := p.Checkout()
	if idx == NoSlot {
		Logger().Debug("pool exhausted", slog.String("pool", id), slog.Int("capacity", p.Capacity()))
	}
	return idx
}

// ReleasePoolSlot returns a slot to the named pool.
func ReleasePoolSlot(id string, index int) error {
	p := pools[id]
	if p == nil {
		return fmt.Errorf("sparrow: release slot %d: unknown pool %q: %w", index, id, ErrIndexOutOfRange)
	}
	if err := p.Checkin(index); err != nil {
		Logger().Warn("pool release rejected", slog.String("pool", id), slog.Int("index", index))
		return err
	}
	return nil
}
