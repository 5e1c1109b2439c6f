package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"factbot/internal/repository"
	"factbot/internal/repository/dialect"

	_ "modernc.org/sqlite"
)

// Store implements repository.FactStore using an embedded SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file at path and bootstraps the
// schema. Use ":memory:" for a throwaway in-memory store.
func Open(path string) (*Store, error) {
	// The entries cascade only works with foreign keys enforced, which
	// SQLite leaves off per connection by default. The pragmas ride in
	// the DSN so every connection the pool opens is armed, not just the
	// first one.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", repository.ErrConnection, path, err)
	}

	// A single connection keeps ":memory:" stores from splitting into
	// one empty database per pooled connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.bootstrap(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: bootstrap schema: %v", repository.ErrConnection, err)
	}

	return s, nil
}

// bootstrap creates the schema idempotently. Safe to run on every open.
func (s *Store) bootstrap() error {
	for _, stmt := range dialect.SQLite.CreateTables() {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	if _, err := s.db.Exec(dialect.SQLite.CreateOrphanTrigger()); err != nil {
		return err
	}
	return nil
}

// AddFact files fact under every category in categories.
//
// Fact and category creation absorb duplicates: the fact may already be
// filed elsewhere and categories may pre-exist. Only a duplicate entry
// link is an error, and links made before the conflicting one stay.
func (s *Store) AddFact(ctx context.Context, fact string, categories []string) error {
	if _, err := s.db.ExecContext(ctx, dialect.InsertFact, fact); err != nil && !isUniqueViolation(err) {
		return fmt.Errorf("insert fact: %w", err)
	}

	for _, category := range categories {
		if err := s.AddCategory(ctx, category); err != nil && !errors.Is(err, repository.ErrDuplicateCategory) {
			return err
		}
	}

	for _, category := range categories {
		if _, err := s.db.ExecContext(ctx, dialect.InsertEntry, fact, category); err != nil {
			if isUniqueViolation(err) {
				return repository.ErrDuplicateEntry
			}
			return fmt.Errorf("insert entry: %w", err)
		}
	}

	return nil
}

// AddCategory creates a category, returning ErrDuplicateCategory if the
// name is taken.
func (s *Store) AddCategory(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, dialect.InsertCategory, name); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateCategory
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// RemoveCategory deletes a category with all its entries; the orphan
// trigger disposes of facts left unreferenced. Unknown names are a no-op.
func (s *Store) RemoveCategory(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, dialect.DeleteCategory, name); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// RemoveFact unfiles the fact at the 1-based position within category.
// The position resolves against fact creation order; a miss returns
// ErrNotFound. The category survives even when emptied.
func (s *Store) RemoveFact(ctx context.Context, category string, position int) error {
	if position < 1 {
		return repository.ErrNotFound
	}

	facts, err := s.Consult(ctx, category, position)
	if err != nil {
		return err
	}
	if len(facts) == 0 {
		return repository.ErrNotFound
	}

	if _, err := s.db.ExecContext(ctx, dialect.DeleteEntry, facts[0], category); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// Search returns facts whose text contains pattern. LIKE metacharacters
// in the pattern keep their meaning.
func (s *Store) Search(ctx context.Context, pattern string) ([]string, error) {
	return queryNames(ctx, s.db, dialect.SearchFacts, "%"+pattern+"%")
}

// ListCategories returns every category name in row order.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	return queryNames(ctx, s.db, dialect.ListCategories)
}

// Consult returns the facts filed under category in creation order. A
// position greater than zero narrows to the single fact at that 1-based
// position; out of range yields an empty slice.
func (s *Store) Consult(ctx context.Context, category string, position int) ([]string, error) {
	if position > 0 {
		return queryNames(ctx, s.db, dialect.ConsultAt, category, position-1)
	}
	return queryNames(ctx, s.db, dialect.ConsultCategory, category)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
