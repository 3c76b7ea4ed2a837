// Package handleset provides compressed sets of handles.
//
// Collaborators that hold many handles at once (selection groups, damage
// lists, dirty sets) need cheap membership tests and set algebra over them.
// A handle is a single machine word, so a set of handles compresses well in
// a roaring bitmap of the raw words.
//
// Sets store raw handle words, not slot indices: two handles for the same
// slot but different generations are distinct members. Compact drops members
// whose referent is gone, using whatever validity predicate the owning table
// provides.
//
// Like the tables they mirror, sets are not safe for concurrent use.
package handleset
