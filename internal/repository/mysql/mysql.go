// Package mysql implements repository.FactStore against a MySQL or
// MariaDB server.
//
// The statement text is shared with the sqlite backend through the
// dialect package; what differs here is the connection handling and the
// commit discipline. No autocommit is assumed: every mutating statement
// runs inside an explicit transaction committed before the call returns.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"factbot/internal/repository"
	"factbot/internal/repository/dialect"

	mysqldrv "github.com/go-sql-driver/mysql"
)

// Config holds the connection parameters for the server.
type Config struct {
	Host     string
	User     string
	Password string
	Database string
}

// Store implements repository.FactStore using a MySQL server.
type Store struct {
	db *sql.DB
}

// Open connects to the server and bootstraps the schema. The server and
// database must already exist; unreachable servers surface as
// ErrConnection.
func Open(cfg Config) (*Store, error) {
	dsn := mysqldrv.NewConfig()
	dsn.Net = "tcp"
	dsn.Addr = cfg.Host
	dsn.User = cfg.User
	dsn.Passwd = cfg.Password
	dsn.DBName = cfg.Database

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", repository.ErrConnection, cfg.Host, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", repository.ErrConnection, cfg.Host, err)
	}

	s := &Store{db: db}
	if err := s.bootstrap(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: bootstrap schema: %v", repository.ErrConnection, err)
	}

	return s, nil
}

// bootstrap creates the schema idempotently. MySQL cannot guard trigger
// creation, so the trigger is created best-effort and a pre-existing one
// is not an error.
func (s *Store) bootstrap() error {
	for _, stmt := range dialect.MySQL.CreateTables() {
		if err := s.execCommit(context.Background(), stmt); err != nil {
			return err
		}
	}

	if err := s.execCommit(context.Background(), dialect.MySQL.CreateOrphanTrigger()); err != nil && !isTriggerExists(err) {
		return err
	}
	return nil
}

// AddFact files fact under every category in categories. Duplicate fact
// and category creation is absorbed; a duplicate entry link returns
// ErrDuplicateEntry with earlier links of the same call already
// committed.
func (s *Store) AddFact(ctx context.Context, fact string, categories []string) error {
	if err := s.execCommit(ctx, dialect.InsertFact, fact); err != nil && !isUniqueViolation(err) {
		return fmt.Errorf("insert fact: %w", err)
	}

	for _, category := range categories {
		if err := s.AddCategory(ctx, category); err != nil && !errors.Is(err, repository.ErrDuplicateCategory) {
			return err
		}
	}

	for _, category := range categories {
		if err := s.execCommit(ctx, dialect.InsertEntry, fact, category); err != nil {
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
	if err := s.execCommit(ctx, dialect.InsertCategory, name); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateCategory
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// RemoveCategory deletes a category with all its entries; the orphan
// trigger disposes of facts left unreferenced. Unknown names are a no-op.
//
// The entries are deleted explicitly before the category row. Leaving
// them to the FK_ENTRY_CATEGORY cascade would skip the orphan trigger,
// because MySQL does not activate triggers for cascaded deletes.
func (s *Store) RemoveCategory(ctx context.Context, name string) error {
	if err := s.execCommit(ctx, dialect.DeleteCategoryEntries, name); err != nil {
		return fmt.Errorf("delete category entries: %w", err)
	}
	if err := s.execCommit(ctx, dialect.DeleteCategory, name); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// RemoveFact unfiles the fact at the 1-based position within category,
// returning ErrNotFound on a miss.
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

	if err := s.execCommit(ctx, dialect.DeleteEntry, facts[0], category); err != nil {
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

// Consult returns the facts filed under category in creation order, or
// the single fact at a 1-based position when position is greater than
// zero.
func (s *Store) Consult(ctx context.Context, category string, position int) ([]string, error) {
	if position > 0 {
		return queryNames(ctx, s.db, dialect.ConsultAt, category, position-1)
	}
	return queryNames(ctx, s.db, dialect.ConsultCategory, category)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// execCommit runs a single mutating statement in its own transaction.
// The rollback on the error paths is what guarantees the connection is
// released even when the statement fails.
func (s *Store) execCommit(ctx context.Context, query string, args ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
