package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factbot/internal/repository/sqlite"
)

func newTestService(t *testing.T) *FactService {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewFactService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestExportFormat(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.AddFact(ctx, "water is wet", []string{"science"}))
	require.NoError(t, svc.AddFact(ctx, "fire is hot", []string{"science"}))
	require.NoError(t, svc.AddFact(ctx, "water is wet", []string{"trivia"}))

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf))

	expected := "[science]\n" +
		"1. water is wet\n" +
		"2. fire is hot\n" +
		"\n" +
		"[trivia]\n" +
		"1. water is wet\n" +
		"\n"
	assert.Equal(t, expected, buf.String())
}

func TestExportEmptyStore(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf))
	assert.Empty(t, buf.String())
}

func TestExportDeterministic(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.AddFact(ctx, "water is wet", []string{"science", "trivia"}))
	require.NoError(t, svc.AddFact(ctx, "fire is hot", []string{"trivia"}))

	var first, second bytes.Buffer
	require.NoError(t, svc.Export(ctx, &first))
	require.NoError(t, svc.Export(ctx, &second))
	assert.Equal(t, first.String(), second.String())
}

func TestExportSize(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.AddFact(ctx, "water is wet", []string{"science"}))

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf))

	size, err := svc.ExportSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), size)
}

func TestImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestService(t)

	require.NoError(t, src.AddFact(ctx, "water is wet", []string{"science"}))
	require.NoError(t, src.AddFact(ctx, "fire is hot", []string{"science", "trivia"}))

	var doc bytes.Buffer
	require.NoError(t, src.Export(ctx, &doc))

	dst := newTestService(t)
	stats, err := dst.Import(ctx, &doc)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Added)
	assert.Equal(t, 0, stats.Skipped)

	// The imported store renders the exact same document, and the
	// shared fact stays a single row.
	var original, again bytes.Buffer
	require.NoError(t, src.Export(ctx, &original))
	require.NoError(t, dst.Export(ctx, &again))
	assert.Equal(t, original.String(), again.String())

	facts, err := dst.Search(ctx, "fire")
	require.NoError(t, err)
	assert.Equal(t, []string{"fire is hot"}, facts)
}

func TestImportSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.AddFact(ctx, "water is wet", []string{"science"}))

	doc := "[science]\n1. water is wet\n2. fire is hot\n\n"
	stats, err := svc.Import(ctx, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Added)
	assert.Equal(t, 1, stats.Skipped)
}

func TestImportIgnoresStrayLines(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	doc := "stray line before any category\n" +
		"[science]\n" +
		"\n" +
		"10. double digit positions parse too\n"
	stats, err := svc.Import(ctx, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Added)

	facts, err := svc.Consult(ctx, "science", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"double digit positions parse too"}, facts)
}

func TestImportUnnumberedLines(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	// Hand-written documents without position prefixes work as well.
	doc := "[science]\nwater is wet\n"
	stats, err := svc.Import(ctx, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Added)

	facts, err := svc.Consult(ctx, "science", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"water is wet"}, facts)
}
