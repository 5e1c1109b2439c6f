package repository

import (
	"context"
)

// FactStore defines the interface for fact storage backends.
//
// Both backends (sqlite, mysql) must behave identically from the caller's
// point of view; only concurrency characteristics differ.
type FactStore interface {
	// AddFact files fact under every category in categories, creating
	// missing categories and the fact row as needed. It returns
	// ErrDuplicateEntry if the fact is already filed under any of the
	// requested categories. Links made before the conflict remain in
	// place: the call is not atomic across categories.
	AddFact(ctx context.Context, fact string, categories []string) error

	// AddCategory creates an empty category. Returns ErrDuplicateCategory
	// if the name is already taken.
	AddCategory(ctx context.Context, name string) error

	// RemoveCategory deletes a category and every entry filed under it.
	// Facts left with no remaining entry are removed as well. Removing a
	// category that does not exist is a no-op.
	RemoveCategory(ctx context.Context, name string) error

	// RemoveFact unfiles the fact at the 1-based position within category,
	// ordered by fact creation id. Returns ErrNotFound when no fact exists
	// at that position. The category itself is kept even if left empty.
	RemoveFact(ctx context.Context, category string, position int) error

	// Search returns the facts whose text contains pattern. The pattern is
	// passed to the backend's LIKE verbatim, so backend wildcard
	// characters (%, _) keep their meaning.
	Search(ctx context.Context, pattern string) ([]string, error)

	// ListCategories returns all category names in backend row order.
	ListCategories(ctx context.Context) ([]string, error)

	// Consult returns the facts filed under category in creation order.
	// A position greater than zero narrows the result to the single fact
	// at that 1-based position; out of range yields an empty slice, not
	// an error.
	Consult(ctx context.Context, category string, position int) ([]string, error)

	// Close releases the backend connection.
	Close() error
}
