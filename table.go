package handletable

import (
	"fmt"
	"iter"

	"github.com/hupe1980/handletable/internal/occupancy"
)

// DefaultGrowthIncrement is the number of slots added per growth step.
const DefaultGrowthIncrement = 1024

// slot is one entry of the backing store: a generation counter plus a
// non-owning pointer to a caller-managed object, or nil when empty.
type slot[T any] struct {
	version uint64
	obj     *T
}

// Table maps handles to live objects of type T while detecting stale
// references to recycled slots. It is the sole authority on handle validity
// for the objects registered with it.
//
// The table never owns the objects: callers keep ownership and must Release
// the handle when the backing object goes away. Slots are recycled first-fit;
// each reuse bumps the slot's version so outstanding copies of old handles
// become detectably stale.
//
// A Table is NOT safe for concurrent use. All access must be serialized by
// the caller.
type Table[T any, H Handle] struct {
	lay      layout
	slots    []slot[T]
	occ      *occupancy.Vector
	grow     int
	logger   *Logger
	metrics  MetricsCollector
	acquires uint64
	releases uint64
	grows    uint64
}

// Stats is a point-in-time snapshot of table usage.
type Stats struct {
	Slots    int    // current table length
	Occupied int    // slots holding a live object
	Acquires uint64 // total successful acquisitions
	Releases uint64 // total releases
	Grows    uint64 // total growth steps, including the initial one
}

// New32 creates a table addressed by Handle32 values. The table starts with
// one growth increment of empty slots and can grow up to MaxIndices32 slots.
func New32[T any](optFns ...Option) *Table[T, Handle32] {
	return newTable[T, Handle32](layout32, optFns...)
}

// New64 creates a table addressed by Handle64 values. The table starts with
// one growth increment of empty slots and can grow up to MaxIndices64 slots.
func New64[T any](optFns ...Option) *Table[T, Handle64] {
	return newTable[T, Handle64](layout64, optFns...)
}

func newTable[T any, H Handle](lay layout, optFns ...Option) *Table[T, H] {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	t := &Table[T, H]{
		lay:     lay,
		occ:     occupancy.New(0),
		grow:    o.growthIncrement,
		logger:  o.logger,
		metrics: o.metrics,
	}
	t.growTable()

	return t
}

// Acquire registers obj and returns a handle for it. The first empty slot is
// reused (first-fit); if none exists the table grows by its increment first.
// The slot's version is incremented here, at acquisition time, wrapping past
// the layout's maximum back to MinVersion. This ordering guarantees a freshly
// grown, never-used slot stays at MinVersion until its first use.
//
// Acquire panics with ErrNilObject when obj is nil and with ErrTableExhausted
// when the table has reached the maximum index addressable by H.
func (t *Table[T, H]) Acquire(obj *T) H {
	if obj == nil {
		panic(ErrNilObject)
	}

	i, ok := t.occ.NextClear(len(t.slots))
	if !ok {
		// Table full: grow and occupy the first slot of the new region.
		i = len(t.slots)
		t.growTable()
	}

	s := &t.slots[i]
	s.obj = obj
	s.version = t.nextVersion(s.version)
	t.occ.Set(i)

	t.acquires++
	t.metrics.RecordAcquire()

	return H(t.lay.pack(uint64(i), s.version))
}

// Release marks the handle's slot as empty. The slot's version is left
// untouched; it was already bumped when the slot was acquired, and the next
// acquisition will bump it again. Any outstanding copy of h is expired from
// this point on.
//
// Releasing an out-of-range or stale handle is a programmer error: Release
// panics with ErrInvalidHandle rather than returning.
func (t *Table[T, H]) Release(h H) {
	raw := uint64(h)
	idx := t.lay.index(raw)
	if idx >= uint64(len(t.slots)) || t.slots[idx].version != t.lay.version(raw) {
		panic(fmt.Errorf("%w: %v", ErrInvalidHandle, h))
	}

	t.slots[idx].obj = nil
	t.occ.Clear(int(idx))

	t.releases++
	t.metrics.RecordRelease()
}

// Expired reports whether h no longer refers to a live object: its version
// differs from the slot's current version, or the slot has been released and
// not reacquired. The index is not bounds-checked; callers must keep it below
// Len() or use Get, which checks.
func (t *Table[T, H]) Expired(h H) bool {
	raw := uint64(h)
	s := &t.slots[t.lay.index(raw)]
	return s.version != t.lay.version(raw) || s.obj == nil
}

// At returns the handle that currently corresponds to the slot at index,
// packing the slot's present version. For empty slots the returned handle is
// already expired. At panics with ErrIndexOutOfRange when index is at or
// beyond the current table length.
func (t *Table[T, H]) At(index uint64) H {
	if index >= uint64(len(t.slots)) {
		panic(fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(t.slots)))
	}
	return H(t.lay.pack(index, t.slots[index].version))
}

// Get exchanges a handle for the live object pointer. A stale handle yields
// nil; callers treat that as "object no longer exists" without distinguishing
// why. Only an out-of-range index panics (ErrIndexOutOfRange), since a
// handle obtained from this table can never carry one.
func (t *Table[T, H]) Get(h H) *T {
	raw := uint64(h)
	idx := t.lay.index(raw)
	if idx >= uint64(len(t.slots)) {
		panic(fmt.Errorf("%w: %v", ErrIndexOutOfRange, h))
	}

	s := &t.slots[idx]
	if s.version != t.lay.version(raw) {
		t.metrics.RecordResolve(false)
		return nil
	}

	t.metrics.RecordResolve(s.obj != nil)
	return s.obj
}

// All iterates over the live (handle, object) pairs in slot order.
func (t *Table[T, H]) All() iter.Seq2[H, *T] {
	return func(yield func(H, *T) bool) {
		for i := range t.slots {
			s := &t.slots[i]
			if s.obj == nil {
				continue
			}
			if !yield(H(t.lay.pack(uint64(i), s.version)), s.obj) {
				return
			}
		}
	}
}

// Len returns the current table length in slots. The length only grows; the
// table never shrinks or compacts.
func (t *Table[T, H]) Len() int {
	return len(t.slots)
}

// Occupied returns the number of slots holding a live object.
func (t *Table[T, H]) Occupied() int {
	return t.occ.Count()
}

// MaxIndices returns the highest slot count addressable by H.
func (t *Table[T, H]) MaxIndices() uint64 {
	return t.lay.maxIndices
}

// GrowthIncrement returns the configured growth step in slots.
func (t *Table[T, H]) GrowthIncrement() int {
	return t.grow
}

// Stats returns a snapshot of table usage.
func (t *Table[T, H]) Stats() Stats {
	return Stats{
		Slots:    len(t.slots),
		Occupied: t.occ.Count(),
		Acquires: t.acquires,
		Releases: t.releases,
		Grows:    t.grows,
	}
}

// growTable extends the backing store by the growth increment, capped at the
// layout's maximum index count. New slots start at (MinVersion, empty).
func (t *Table[T, H]) growTable() {
	oldLen := uint64(len(t.slots))
	if oldLen >= t.lay.maxIndices {
		panic(fmt.Errorf("%w: %d slots", ErrTableExhausted, oldLen))
	}

	newLen := min(oldLen+uint64(t.grow), t.lay.maxIndices)
	t.slots = append(t.slots, make([]slot[T], newLen-oldLen)...)
	t.occ.Grow(int(newLen))

	t.grows++
	t.metrics.RecordGrow(int(oldLen), int(newLen))
	t.logger.LogGrow(int(oldLen), int(newLen))
}

func (t *Table[T, H]) nextVersion(v uint64) uint64 {
	if v+1 > t.lay.maxVersion {
		return MinVersion
	}
	return v + 1
}
