// Package store provides the persistent attribute repository backed by
// SQLite (modernc.org/sqlite, no cgo).
//
// # Overview
//
// Two tables are managed:
//
//   - attribute_master: definitions of trackable attributes with their
//     judgment and extraction prompts
//   - attribute_records: append-only values extracted from user input,
//     keyed by a monotonically assigned sequence number
//
// The engine reads masters fresh each turn, fetches the latest record
// content per attribute during the judgment phase, and inserts new
// records during the extraction phase. Records are never updated or
// reordered by the engine.
//
// All failures surface as *RepositoryError so callers can attribute
// faults to the store without inspecting driver details.
package store
