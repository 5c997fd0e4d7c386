// Package storage persists the to-do list as a single serialized blob.
//
// The to-do list is the unit of persistence: every save writes the whole
// list under one fixed key, and every load reads it back whole. The backing
// store is an opaque key-value collaborator behind the KV interface; filekv
// and sqlitekv provide the on-disk implementations.
//
// A missing key means a fresh install and loads as an empty list. A key
// that is present but does not parse, or parses but violates the embedded
// JSON Schema, is corrupt data: Load reports it as a *CorruptDataError so
// callers can surface it instead of silently discarding the stored list.
package storage
