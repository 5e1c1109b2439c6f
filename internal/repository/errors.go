package repository

import (
	"errors"
)

// Sentinel errors returned by FactStore implementations. Callers match
// them with errors.Is; backends are responsible for translating their
// driver-specific failures onto these.
var (
	// ErrDuplicateCategory is returned by AddCategory when the name is
	// already taken.
	ErrDuplicateCategory = errors.New("category already exists")

	// ErrDuplicateEntry is returned by AddFact when the fact is already
	// filed under one of the requested categories.
	ErrDuplicateEntry = errors.New("fact already filed under category")

	// ErrNotFound is returned by RemoveFact when no fact exists at the
	// requested position.
	ErrNotFound = errors.New("no fact at that position")

	// ErrConnection wraps failures to reach the backend or to bootstrap
	// the schema at open time.
	ErrConnection = errors.New("backend unavailable")
)
