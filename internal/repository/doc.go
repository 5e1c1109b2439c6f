// Package repository defines the data access interface for factbot.
//
// This package provides the FactStore abstraction over a relational
// backend holding categories, facts and the membership links between
// them. Two interchangeable implementations live in the sqlite and
// mysql subpackages.
//
// # FactStore Interface
//
// The FactStore interface covers the whole command surface: filing and
// unfiling facts, category management, substring search, and positional
// consultation.
//
// # Invariants
//
// Category names are unique. Fact text is unique store-wide: filing the
// same text under a second category links the existing fact rather than
// duplicating it. A fact whose last link disappears is removed by a
// database trigger, so orphaned facts never persist.
//
// # Error Contract
//
// Implementations return the sentinel errors defined here (matched with
// errors.Is) for duplicate categories, duplicate links, positional
// misses on the write path, and unreachable backends. The read path
// degrades instead: consulting a position past the end of a category
// yields an empty result, not an error.
//
// # Testing
//
// The sqlite implementation is exercised with in-memory databases; the
// mysql implementation shares the statement text through the dialect
// subpackage and is covered by error-mapping tests plus an env-guarded
// integration test against a live server.
package repository
