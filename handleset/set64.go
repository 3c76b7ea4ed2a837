package handleset

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/handletable"
)

// Set64 is a compressed set of Handle64 values.
// It wraps a 64-bit roaring bitmap of the raw handle words.
type Set64 struct {
	rb *roaring64.Bitmap
}

// NewSet64 creates a new empty set.
func NewSet64() *Set64 {
	return &Set64{
		rb: roaring64.New(),
	}
}

// Add adds a handle to the set.
func (s *Set64) Add(h handletable.Handle64) {
	s.rb.Add(uint64(h))
}

// Remove removes a handle from the set.
func (s *Set64) Remove(h handletable.Handle64) {
	s.rb.Remove(uint64(h))
}

// Contains checks if a handle is in the set.
func (s *Set64) Contains(h handletable.Handle64) bool {
	return s.rb.Contains(uint64(h))
}

// IsEmpty returns true if the set is empty.
func (s *Set64) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Len returns the number of handles in the set.
func (s *Set64) Len() uint64 {
	return s.rb.GetCardinality()
}

// Clone returns a deep copy of the set.
func (s *Set64) Clone() *Set64 {
	return &Set64{
		rb: s.rb.Clone(),
	}
}

// All returns an iterator over the handles in the set, in raw word order.
func (s *Set64) All() iter.Seq[handletable.Handle64] {
	return func(yield func(handletable.Handle64) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(handletable.Handle64(it.Next())) {
				return
			}
		}
	}
}

// Intersect keeps only handles present in both sets.
func (s *Set64) Intersect(other *Set64) {
	s.rb.And(other.rb)
}

// Union adds all handles from the other set.
func (s *Set64) Union(other *Set64) {
	s.rb.Or(other.rb)
}

// Difference removes all handles present in the other set.
func (s *Set64) Difference(other *Set64) {
	s.rb.AndNot(other.rb)
}

// Compact removes every handle for which stale returns true and reports how
// many were dropped.
func (s *Set64) Compact(stale func(handletable.Handle64) bool) int {
	var drop []uint64
	it := s.rb.Iterator()
	for it.HasNext() {
		raw := it.Next()
		if stale(handletable.Handle64(raw)) {
			drop = append(drop, raw)
		}
	}
	for _, raw := range drop {
		s.rb.Remove(raw)
	}
	return len(drop)
}

// Clear removes all handles from the set.
func (s *Set64) Clear() {
	s.rb.Clear()
}

// GetSizeInBytes returns the size of the underlying bitmap in bytes.
func (s *Set64) GetSizeInBytes() uint64 {
	return s.rb.GetSizeInBytes()
}
