package handletable

import (
	"fmt"
	"math"
)

// Bit layout of the two preconfigured handle widths. The index occupies the
// low bits, the version the bits directly above it. The layouts are fixed at
// compile time; index bits + version bits always fill the full word.
const (
	// Index32Bits is the number of index bits in a Handle32.
	Index32Bits = 20
	// Version32Bits is the number of version bits in a Handle32.
	Version32Bits = 12

	// Index64Bits is the number of index bits in a Handle64.
	Index64Bits = 40
	// Version64Bits is the number of version bits in a Handle64.
	Version64Bits = 24

	// MinVersion is the version of a slot that has never been occupied.
	MinVersion = 0

	// MaxIndices32 is the highest slot index addressable by a Handle32.
	MaxIndices32 = 1<<Index32Bits - 1 // 1048575
	// MaxVersion32 is the highest version a Handle32 slot can carry before
	// the counter wraps back to MinVersion.
	MaxVersion32 = 1<<Version32Bits - 1 // 4095

	// MaxIndices64 is the highest slot index addressable by a Handle64.
	MaxIndices64 = 1<<Index64Bits - 1 // 1099511627775
	// MaxVersion64 is the highest version a Handle64 slot can carry before
	// the counter wraps back to MinVersion.
	MaxVersion64 = 1<<Version64Bits - 1 // 16777215
)

// Nil32 is the invalid Handle32 sentinel: the all-ones bit pattern. Its index
// field equals MaxIndices32, which a table never issues.
const Nil32 = Handle32(math.MaxUint32)

// Nil64 is the invalid Handle64 sentinel: the all-ones bit pattern.
const Nil64 = Handle64(math.MaxUint64)

// Handle32 packs a 20-bit slot index and a 12-bit version into a single
// uint32. It is a weak reference: holding one grants the right to ask a table
// for the object, never ownership of it. Two handles name the same live
// reference iff both index and version match; the index alone is not enough
// once slots are recycled.
//
// The zero value is a plausible handle (index 0, version 0); use Nil32 as the
// "no handle" sentinel.
type Handle32 uint32

// NewHandle32 packs index and version into a Handle32. Inputs are truncated
// to their bit widths; keeping them in range is the caller's contract, not a
// runtime-checked error.
func NewHandle32(index, version uint32) Handle32 {
	return Handle32(index&MaxIndices32) | Handle32(version&MaxVersion32)<<Index32Bits
}

// Index returns the slot index encoded in the handle.
func (h Handle32) Index() uint32 {
	return uint32(h) & MaxIndices32
}

// Version returns the generation counter encoded in the handle.
func (h Handle32) Version() uint32 {
	return uint32(h) >> Index32Bits
}

// IsNil reports whether the handle is the invalid sentinel.
func (h Handle32) IsNil() bool {
	return h == Nil32
}

// String implements fmt.Stringer.
func (h Handle32) String() string {
	if h.IsNil() {
		return "Handle32(nil)"
	}
	return fmt.Sprintf("Handle32(%d v%d)", h.Index(), h.Version())
}

// Handle64 packs a 40-bit slot index and a 24-bit version into a single
// uint64. See Handle32 for the reference semantics; Handle64 simply trades a
// larger address space for a wider word.
//
// The original design fell back to the 32-bit layout on platforms without a
// wide integer type; Go guarantees uint64 everywhere, so Handle64 is always
// the 40/24 layout.
type Handle64 uint64

// NewHandle64 packs index and version into a Handle64. Inputs are truncated
// to their bit widths; keeping them in range is the caller's contract.
func NewHandle64(index, version uint64) Handle64 {
	return Handle64(index&MaxIndices64) | Handle64(version&MaxVersion64)<<Index64Bits
}

// Index returns the slot index encoded in the handle.
func (h Handle64) Index() uint64 {
	return uint64(h) & MaxIndices64
}

// Version returns the generation counter encoded in the handle.
func (h Handle64) Version() uint64 {
	return uint64(h) >> Index64Bits
}

// IsNil reports whether the handle is the invalid sentinel.
func (h Handle64) IsNil() bool {
	return h == Nil64
}

// String implements fmt.Stringer.
func (h Handle64) String() string {
	if h.IsNil() {
		return "Handle64(nil)"
	}
	return fmt.Sprintf("Handle64(%d v%d)", h.Index(), h.Version())
}

// Handle is the constraint satisfied by the two preconfigured handle widths.
type Handle interface {
	Handle32 | Handle64
}

// layout carries the derived masks for one handle width. Tables hold a layout
// by value; it never changes after construction.
type layout struct {
	indexBits  uint
	maxIndices uint64
	maxVersion uint64
}

var (
	layout32 = layout{indexBits: Index32Bits, maxIndices: MaxIndices32, maxVersion: MaxVersion32}
	layout64 = layout{indexBits: Index64Bits, maxIndices: MaxIndices64, maxVersion: MaxVersion64}
)

func (l layout) pack(index, version uint64) uint64 {
	return index&l.maxIndices | version<<l.indexBits
}

func (l layout) index(raw uint64) uint64 {
	return raw & l.maxIndices
}

func (l layout) version(raw uint64) uint64 {
	return raw >> l.indexBits & l.maxVersion
}
