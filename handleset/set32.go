package handleset

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/handletable"
)

// Set32 is a compressed set of Handle32 values.
// It wraps a roaring bitmap of the raw handle words.
type Set32 struct {
	rb *roaring.Bitmap
}

// NewSet32 creates a new empty set.
func NewSet32() *Set32 {
	return &Set32{
		rb: roaring.New(),
	}
}

// Add adds a handle to the set.
func (s *Set32) Add(h handletable.Handle32) {
	s.rb.Add(uint32(h))
}

// Remove removes a handle from the set.
func (s *Set32) Remove(h handletable.Handle32) {
	s.rb.Remove(uint32(h))
}

// Contains checks if a handle is in the set.
func (s *Set32) Contains(h handletable.Handle32) bool {
	return s.rb.Contains(uint32(h))
}

// IsEmpty returns true if the set is empty.
func (s *Set32) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Len returns the number of handles in the set.
func (s *Set32) Len() uint64 {
	return s.rb.GetCardinality()
}

// Clone returns a deep copy of the set.
func (s *Set32) Clone() *Set32 {
	return &Set32{
		rb: s.rb.Clone(),
	}
}

// All returns an iterator over the handles in the set, in raw word order.
func (s *Set32) All() iter.Seq[handletable.Handle32] {
	return func(yield func(handletable.Handle32) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(handletable.Handle32(it.Next())) {
				return
			}
		}
	}
}

// Intersect keeps only handles present in both sets.
func (s *Set32) Intersect(other *Set32) {
	s.rb.And(other.rb)
}

// Union adds all handles from the other set.
func (s *Set32) Union(other *Set32) {
	s.rb.Or(other.rb)
}

// Difference removes all handles present in the other set.
func (s *Set32) Difference(other *Set32) {
	s.rb.AndNot(other.rb)
}

// Compact removes every handle for which stale returns true and reports how
// many were dropped. Pass the owning table's Expired method to prune members
// whose referent has been released.
func (s *Set32) Compact(stale func(handletable.Handle32) bool) int {
	var drop []uint32
	it := s.rb.Iterator()
	for it.HasNext() {
		raw := it.Next()
		if stale(handletable.Handle32(raw)) {
			drop = append(drop, raw)
		}
	}
	for _, raw := range drop {
		s.rb.Remove(raw)
	}
	return len(drop)
}

// Clear removes all handles from the set.
func (s *Set32) Clear() {
	s.rb.Clear()
}

// GetSizeInBytes returns the size of the underlying bitmap in bytes.
func (s *Set32) GetSizeInBytes() uint64 {
	return s.rb.GetSizeInBytes()
}
