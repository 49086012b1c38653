package render

import (
	"context"
	"errors"
)

// ErrTableNotFound is returned when the template has no table matching the
// expected line-item header row. It aborts the whole invoice-creation flow.
var ErrTableNotFound = errors.New("no table with the expected item columns found")

// TableHandle identifies one table of the document by its position and the
// trimmed cell texts of its first row.
type TableHandle struct {
	Index  int
	Header []string
}

// Document is an editable copy of an invoice template. The original template
// is never mutated; implementations operate on a per-invoice copy.
type Document interface {
	// ID returns the document id used for export.
	ID() string

	// URL returns the link to the document.
	URL() string

	// ReplaceAllText substitutes every occurrence of each literal token
	// with its value throughout the document body. Tokens are plain
	// strings, not patterns.
	ReplaceAllText(ctx context.Context, subs map[string]string) error

	// RemoveParagraphPair deletes the first paragraph containing marker
	// together with the paragraph immediately following it. Returns false
	// when no paragraph matches.
	RemoveParagraphPair(ctx context.Context, marker string) (bool, error)

	// Tables lists the document's tables in order.
	Tables(ctx context.Context) ([]TableHandle, error)

	// SetTableRows removes every row of the table except its header and
	// appends one row per entry of rows, in order.
	SetTableRows(ctx context.Context, tableIndex int, rows [][]string) error
}
