// Package service wires the fact store to the command surface.
//
// FactService adds what the storage layer deliberately leaves out:
// structured logging around every operation and the text projections
// (export, import, size) built on top of ListCategories and Consult.
package service

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"factbot/internal/repository"
)

// FactService exposes the fact store operations to the command layer.
type FactService struct {
	store repository.FactStore
	log   *slog.Logger
}

// NewFactService creates a service around the given store.
func NewFactService(store repository.FactStore, logger *slog.Logger) *FactService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FactService{store: store, log: logger}
}

// AddFact files fact under the given categories.
func (s *FactService) AddFact(ctx context.Context, fact string, categories []string) error {
	err := s.store.AddFact(ctx, fact, categories)
	if err != nil {
		s.log.Warn("add fact failed", "categories", categories, "err", err)
		return err
	}
	s.log.Info("fact added", "categories", categories)
	return nil
}

// AddCategory creates an empty category.
func (s *FactService) AddCategory(ctx context.Context, name string) error {
	return s.store.AddCategory(ctx, name)
}

// RemoveCategory deletes a category and everything filed only under it.
func (s *FactService) RemoveCategory(ctx context.Context, name string) error {
	err := s.store.RemoveCategory(ctx, name)
	if err != nil {
		s.log.Warn("remove category failed", "category", name, "err", err)
		return err
	}
	s.log.Info("category removed", "category", name)
	return nil
}

// RemoveFact unfiles the fact at a 1-based position within category.
func (s *FactService) RemoveFact(ctx context.Context, category string, position int) error {
	err := s.store.RemoveFact(ctx, category, position)
	if err != nil {
		s.log.Warn("remove fact failed", "category", category, "position", position, "err", err)
		return err
	}
	s.log.Info("fact removed", "category", category, "position", position)
	return nil
}

// Search returns facts containing pattern.
func (s *FactService) Search(ctx context.Context, pattern string) ([]string, error) {
	return s.store.Search(ctx, pattern)
}

// ListCategories returns all category names.
func (s *FactService) ListCategories(ctx context.Context) ([]string, error) {
	return s.store.ListCategories(ctx)
}

// Consult returns a category's facts, or the single fact at a 1-based
// position when position is greater than zero.
func (s *FactService) Consult(ctx context.Context, category string, position int) ([]string, error) {
	return s.store.Consult(ctx, category, position)
}

// Export writes the whole store as a text document:
//
//	[category]
//	1. fact
//	2. fact
//
// with a blank line after each category. The document is deterministic
// for an unmutated store because Consult orders facts by creation id.
func (s *FactService) Export(ctx context.Context, w io.Writer) error {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	for _, category := range categories {
		facts, err := s.store.Consult(ctx, category, 0)
		if err != nil {
			return fmt.Errorf("consult %s: %w", category, err)
		}

		if _, err := fmt.Fprintf(w, "[%s]\n", category); err != nil {
			return err
		}
		for i, fact := range facts {
			if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, fact); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}

// ExportSize returns the byte size of the export document.
func (s *FactService) ExportSize(ctx context.Context) (int, error) {
	var buf bytes.Buffer
	if err := s.Export(ctx, &buf); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}

// ImportStats summarizes an Import run.
type ImportStats struct {
	Added   int
	Skipped int
}

var (
	categoryHeader = regexp.MustCompile(`^\[(\S+)\]$`)
	numberedLine   = regexp.MustCompile(`^\d+\.\s(.*)$`)
)

// Import reads a document in the Export format and files every fact it
// finds. Facts already present under their category are counted as
// skipped; blank lines and lines outside a category block are ignored.
func (s *FactService) Import(ctx context.Context, r io.Reader) (ImportStats, error) {
	var stats ImportStats
	var category string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if m := categoryHeader.FindStringSubmatch(line); m != nil {
			category = m[1]
			continue
		}
		if category == "" || line == "" {
			continue
		}

		fact := line
		if m := numberedLine.FindStringSubmatch(line); m != nil {
			fact = m[1]
		}

		switch err := s.store.AddFact(ctx, fact, []string{category}); {
		case err == nil:
			stats.Added++
		case errors.Is(err, repository.ErrDuplicateEntry):
			stats.Skipped++
		default:
			return stats, fmt.Errorf("import %q: %w", fact, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read document: %w", err)
	}

	s.log.Info("import finished", "added", stats.Added, "skipped", stats.Skipped)
	return stats, nil
}
