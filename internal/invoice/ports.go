package invoice

import (
	"context"

	"invoicer/internal/render"
	"invoicer/pkg/models"
)

// RowStore is the tabular persistence backing invoices.
type RowStore interface {
	// ReadSheet returns every row of the sheet as cell text.
	ReadSheet(ctx context.Context, sheetName string) ([][]string, error)

	// AppendRow writes cells as the next free row and returns its 1-based
	// row index.
	AppendRow(ctx context.Context, sheetName string, cells []string) (int64, error)

	// UpdateCells overwrites a contiguous cell range of one row. Row index
	// and start column are 1-based.
	UpdateCells(ctx context.Context, sheetName string, row, startColumn int64, cells []string) error

	// DeleteRow removes the row at the 1-based index.
	DeleteRow(ctx context.Context, sheetName string, row int64) error
}

// ProjectResolver looks up per-project billing defaults.
type ProjectResolver interface {
	Resolve(ctx context.Context, projectName string) (models.ProjectReference, error)
}

// DocumentSource copies an invoice template into an editable document.
type DocumentSource interface {
	CopyTemplate(ctx context.Context, templateID, name, folderID string) (render.Document, error)
}

// Renderer substitutes record data into a template copy.
type Renderer interface {
	Render(ctx context.Context, doc render.Document, record models.InvoiceRecord) error
}

// Exporter turns rendered documents into stored PDF artifacts and removes
// artifacts on deletion.
type Exporter interface {
	// ExportPDF renders the document to PDF bytes.
	ExportPDF(ctx context.Context, documentID string) ([]byte, error)

	// StorePDF saves the content under name in the folder and returns the
	// stored file's link.
	StorePDF(ctx context.Context, name, folderID string, content []byte) (string, error)

	// Trash moves a stored file to the trash.
	Trash(ctx context.Context, fileID string) error
}
