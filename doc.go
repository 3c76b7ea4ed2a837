// Package handletable provides generational handles: compact, bit-packed
// weak references to pooled objects, backed by a slot table that detects
// stale references to recycled slots.
//
// A handle packs a slot index and a generation version into a single machine
// word. Collaborators store handles instead of raw pointers; every access
// goes through the table, which compares the handle's embedded version with
// the slot's current version before handing the pointer back. Releasing an
// object empties its slot, so every outstanding copy of the handle becomes
// detectably stale.
//
// # Quick Start
//
//	type Enemy struct{ HP int }
//
//	table := handletable.New32[Enemy]()
//
//	e := &Enemy{HP: 100}
//	h := table.Acquire(e)
//
//	if enemy := table.Get(h); enemy != nil {
//	    enemy.HP -= 10
//	}
//
//	table.Release(h)
//	table.Get(h) // nil: the object is gone
//
// # Ownership
//
// The table never owns the objects it tracks. Callers keep ownership, decide
// when an object dies, and must Release its handle at that point; the table
// has no way to detect a dangling pointer on its own.
//
// # Error Model
//
// Two classes only. Programmer errors (releasing a stale handle, indexing
// past the table length, exhausting the handle's index space) panic with the
// sentinels in errors.go; there is no recovery path. Presenting a stale
// handle to Get is the expected, recoverable case and yields nil.
//
// # Versions Wrap
//
// Version counters are fixed width (12 bits for Handle32, 24 for Handle64).
// After MaxVersion+1 release/reacquire cycles on one slot the counter wraps,
// and an extremely long-lived stale handle could coincidentally match the
// slot's current version again. This is a documented, bounded-probability
// property of fixed-width generation counters, not a bug.
//
// # Concurrency
//
// Tables are single-threaded by design: no locks, no suspension, no I/O.
// Callers that share a table across goroutines must serialize every
// operation themselves.
package handletable
