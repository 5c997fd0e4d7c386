// Package task models the to-do list and its mutations.
//
// A List is an ordered collection of tasks, insertion order preserved.
// The persisted shape mirrors the in-memory one:
//
//	[
//	  {
//	    "id": 1735689600000,
//	    "text": "Buy milk",
//	    "completed": false,
//	    "created_at": "2024-01-01T00:00:00Z"
//	  }
//	]
//
// # Mutation model
//
// Add, Toggle, and Remove never mutate the receiver. Each returns a fresh
// List derived from the old one; callers treat a List as immutable once a
// successor exists. This keeps optimistic UI updates and background saves
// from ever observing a half-applied mutation.
//
// # IDs
//
// IDs are millisecond timestamps. An Allocator guarantees uniqueness when
// two adds land in the same millisecond by bumping past the last issued
// value, so IDs stay monotonically increasing within a process.
package task
