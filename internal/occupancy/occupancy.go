// Package occupancy tracks which slots of a table hold a live object, packed
// one bit per slot. It exists to serve first-fit allocation: NextClear finds
// the lowest empty slot a word at a time instead of probing slots one by one.
package occupancy

import "math/bits"

// Vector is a word-packed occupancy bitmap. A set bit means the slot is
// occupied. It is not safe for concurrent use.
type Vector struct {
	words []uint64
	count int
}

// New creates a Vector sized for capacity slots.
func New(capacity int) *Vector {
	return &Vector{
		words: make([]uint64, (capacity+63)/64),
	}
}

// Set marks slot i occupied. i must be within the grown capacity.
func (v *Vector) Set(i int) {
	wordIdx := i >> 6
	bitMask := uint64(1) << (i & 63)

	if v.words[wordIdx]&bitMask == 0 {
		v.words[wordIdx] |= bitMask
		v.count++
	}
}

// Clear marks slot i empty. i must be within the grown capacity.
func (v *Vector) Clear(i int) {
	wordIdx := i >> 6
	bitMask := uint64(1) << (i & 63)

	if v.words[wordIdx]&bitMask != 0 {
		v.words[wordIdx] &^= bitMask
		v.count--
	}
}

// Test returns true if slot i is occupied.
func (v *Vector) Test(i int) bool {
	wordIdx := i >> 6
	if wordIdx >= len(v.words) {
		return false
	}
	return v.words[wordIdx]&(uint64(1)<<(i&63)) != 0
}

// NextClear returns the lowest empty slot index below limit, scanning from
// the start of the vector (first-fit). The second result is false when every
// slot below limit is occupied.
func (v *Vector) NextClear(limit int) (int, bool) {
	for wordIdx := 0; wordIdx < len(v.words) && wordIdx<<6 < limit; wordIdx++ {
		inverted := ^v.words[wordIdx]
		if inverted == 0 {
			continue
		}
		i := wordIdx<<6 + bits.TrailingZeros64(inverted)
		if i >= limit {
			break
		}
		return i, true
	}
	return 0, false
}

// Grow ensures the vector can hold at least capacity slots. Existing bits are
// preserved; new slots start empty.
func (v *Vector) Grow(capacity int) {
	newLen := (capacity + 63) / 64
	if newLen <= len(v.words) {
		return
	}

	newCap := len(v.words) * 2
	if newCap < newLen {
		newCap = newLen
	}

	newWords := make([]uint64, newLen, newCap)
	copy(newWords, v.words)
	v.words = newWords
}

// Count returns the number of occupied slots.
func (v *Vector) Count() int {
	return v.count
}
