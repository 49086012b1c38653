// Package invoice builds canonical invoice records from form input and
// orchestrates their lifecycle: persistence to the invoice sheet, document
// rendering, PDF export and artifact cleanup.
package invoice

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"invoicer/internal/cache"
	"invoicer/internal/logger"
	"invoicer/internal/render"
	"invoicer/pkg/models"
)

// listCacheKey is the cache key of the invoice listing snapshot.
const listCacheKey = "invoiceList"

// fileIDPattern matches the file id token inside a Drive or Docs URL.
var fileIDPattern = regexp.MustCompile(`[-\w]{25,}`)

// Options configures the invoice service.
type Options struct {
	// InvoicesSheet is the sheet the invoice rows live in.
	InvoicesSheet string

	// FolderID is the Drive folder generated documents and PDFs go to.
	FolderID string

	// SettleDelay is a fixed wait between rendering and export, giving the
	// document host time to finish applying edits. Not a retry.
	SettleDelay time.Duration
}

// Service orchestrates invoice creation, listing, lookup and deletion.
type Service struct {
	resolver ProjectResolver
	store    RowStore
	docs     DocumentSource
	renderer Renderer
	exporter Exporter
	cache    cache.Cache
	opts     Options
	log      zerolog.Logger
}

// NewService wires the orchestrator from its collaborators.
func NewService(resolver ProjectResolver, store RowStore, docs DocumentSource, renderer Renderer, exporter Exporter, c cache.Cache, opts Options) *Service {
	return &Service{
		resolver: resolver,
		store:    store,
		docs:     docs,
		renderer: renderer,
		exporter: exporter,
		cache:    c,
		opts:     opts,
		log:      logger.WithComponent("invoice"),
	}
}

// CreateResult carries the artifact links of a created invoice.
type CreateResult struct {
	ID          string `json:"id"`
	DocumentURL string `json:"docUrl"`
	PDFURL      string `json:"pdfUrl"`
}

// DeleteResult reports the outcome of a deletion. Note carries advisory
// messages for artifacts that were already gone.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Note    string `json:"note,omitempty"`
}

// Create runs the full invoice-creation flow: resolve project defaults,
// build the record, persist the row, render the document, export the PDF and
// backfill the artifact links.
//
// The row is written before rendering; if a later step fails the row stays
// behind with blank link columns.
func (s *Service) Create(ctx context.Context, form models.InvoiceForm) (*CreateResult, error) {
	const op = "Create"

	s.log.Info().
		Str("project", form.ProjectName).
		Str("invoice_number", form.InvoiceNumber).
		Msg("Starting invoice creation")

	if form.ProjectName != "" {
		ref, err := s.resolver.Resolve(ctx, form.ProjectName)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		form.ApplyDefaults(ref)
	}

	record, err := Build(form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.ensureHeader(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	record.ID = uuid.NewString()

	rowIndex, err := s.store.AppendRow(ctx, s.opts.InvoicesSheet, rowFromRecord(record))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to write invoice row: %w", op, err)
	}
	s.cache.Invalidate(listCacheKey)

	s.log.Debug().
		Str("id", record.ID).
		Int64("row", rowIndex).
		Msg("Invoice row written")

	filename := render.InvoiceFileName(record)

	doc, err := s.docs.CopyTemplate(ctx, form.TemplateID, filename, s.opts.FolderID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to copy template: %w", op, err)
	}

	if err := s.renderer.Render(ctx, doc, record); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.settle(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	content, err := s.exporter.ExportPDF(ctx, doc.ID())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to export PDF: %w", op, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyExport)
	}

	pdfURL, err := s.exporter.StorePDF(ctx, filename+".pdf", s.opts.FolderID, content)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to store PDF: %w", op, err)
	}

	record.DocumentURL = doc.URL()
	record.PDFURL = pdfURL

	err = s.store.UpdateCells(ctx, s.opts.InvoicesSheet, rowIndex, docLinkColumn, []string{record.DocumentURL, record.PDFURL})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to write artifact links: %w", op, err)
	}
	s.cache.Invalidate(listCacheKey)

	s.log.Info().
		Str("id", record.ID).
		Str("doc_url", record.DocumentURL).
		Str("pdf_url", record.PDFURL).
		Msg("Invoice created")

	return &CreateResult{
		ID:          record.ID,
		DocumentURL: record.DocumentURL,
		PDFURL:      record.PDFURL,
	}, nil
}

// List returns the invoice listing, served from the snapshot cache when
// fresh.
func (s *Service) List(ctx context.Context) ([]models.InvoiceSummary, error) {
	const op = "List"

	if data, ok := s.cache.Get(listCacheKey); ok {
		var cached []models.InvoiceSummary
		if err := json.Unmarshal(data, &cached); err == nil {
			s.log.Debug().Int("invoices", len(cached)).Msg("Serving invoice list from cache")
			return cached, nil
		}
		s.cache.Invalidate(listCacheKey)
	}

	rows, err := s.store.ReadSheet(ctx, s.opts.InvoicesSheet)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read invoice sheet: %w", op, err)
	}
	if len(rows) < 2 {
		return []models.InvoiceSummary{}, nil
	}

	index := headerIndex(rows[0])
	for _, name := range []string{"ID", "Project Name", "Invoice Number", "Invoice Date", "Due Date", "Total", "Currency"} {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%s: %q: %w", op, name, ErrMissingColumn)
		}
	}

	get := func(row []string, name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	summaries := make([]models.InvoiceSummary, 0, len(rows)-1)
	for _, row := range rows[1:] {
		summaries = append(summaries, models.InvoiceSummary{
			ID:            get(row, "ID"),
			ProjectName:   get(row, "Project Name"),
			InvoiceNumber: get(row, "Invoice Number"),
			InvoiceDate:   displayOrRaw(get(row, "Invoice Date")),
			DueDate:       displayOrRaw(get(row, "Due Date")),
			Total:         totalOrBlank(get(row, "Total")),
			Currency:      get(row, "Currency"),
		})
	}

	if data, err := json.Marshal(summaries); err == nil {
		s.cache.Put(listCacheKey, data)
	}

	return summaries, nil
}

// Get returns the full invoice record stored under id.
func (s *Service) Get(ctx context.Context, id string) (models.InvoiceRecord, error) {
	const op = "Get"

	if id == "" {
		return models.InvoiceRecord{}, fmt.Errorf("%s: %w", op, ErrEmptyInvoiceID)
	}

	_, row, err := s.findRow(ctx, id)
	if err != nil {
		return models.InvoiceRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return row, nil
}

// Delete removes the invoice row and best-effort trashes its artifacts.
// Artifacts that are already gone produce advisory notes, not failures.
func (s *Service) Delete(ctx context.Context, id string) (DeleteResult, error) {
	const op = "Delete"

	if id == "" {
		return DeleteResult{Success: false, Message: "Invalid invoice ID provided"}, nil
	}

	rows, err := s.store.ReadSheet(ctx, s.opts.InvoicesSheet)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("%s: failed to read invoice sheet: %w", op, err)
	}
	if len(rows) == 0 {
		return DeleteResult{Success: false, Message: "Invoice not found."}, nil
	}

	index := headerIndex(rows[0])
	idCol, ok := index["ID"]
	if !ok {
		return DeleteResult{}, fmt.Errorf("%s: %q: %w", op, "ID", ErrMissingColumn)
	}

	rowIndex := int64(-1)
	var docURL, pdfURL string
	for i, row := range rows[1:] {
		if idCol < len(row) && row[idCol] == id {
			rowIndex = int64(i + 2) // 1-based, after the header
			if c, ok := index["Google Doc Link"]; ok && c < len(row) {
				docURL = row[c]
			}
			if c, ok := index["PDF Link"]; ok && c < len(row) {
				pdfURL = row[c]
			}
			break
		}
	}
	if rowIndex < 0 {
		return DeleteResult{Success: false, Message: "Invoice not found."}, nil
	}

	var notes []string
	if note := s.trashArtifact(ctx, docURL, "Google Doc already deleted or not found."); note != "" {
		notes = append(notes, note)
	}
	if note := s.trashArtifact(ctx, pdfURL, "PDF already deleted or not found."); note != "" {
		notes = append(notes, note)
	}

	if err := s.store.DeleteRow(ctx, s.opts.InvoicesSheet, rowIndex); err != nil {
		return DeleteResult{}, fmt.Errorf("%s: failed to delete invoice row: %w", op, err)
	}
	s.cache.Invalidate(listCacheKey)

	s.log.Info().
		Str("id", id).
		Strs("notes", notes).
		Msg("Invoice deleted")

	result := DeleteResult{Success: true}
	if len(notes) > 0 {
		result.Note = joinNotes(notes)
	}
	return result, nil
}

// ensureHeader writes the header row when the sheet is empty. The presence
// test runs before every append so a freshly created sheet gets its header
// exactly once.
func (s *Service) ensureHeader(ctx context.Context) error {
	rows, err := s.store.ReadSheet(ctx, s.opts.InvoicesSheet)
	if err != nil {
		return fmt.Errorf("failed to read invoice sheet: %w", err)
	}
	if len(rows) > 0 {
		return nil
	}

	if _, err := s.store.AppendRow(ctx, s.opts.InvoicesSheet, headerRow()); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	s.log.Info().Str("sheet", s.opts.InvoicesSheet).Msg("Invoice sheet was empty, header row created")
	return nil
}

func (s *Service) findRow(ctx context.Context, id string) (int64, models.InvoiceRecord, error) {
	rows, err := s.store.ReadSheet(ctx, s.opts.InvoicesSheet)
	if err != nil {
		return 0, models.InvoiceRecord{}, fmt.Errorf("failed to read invoice sheet: %w", err)
	}
	if len(rows) < 2 {
		return 0, models.InvoiceRecord{}, ErrInvoiceNotFound
	}

	index := headerIndex(rows[0])
	idCol, ok := index["ID"]
	if !ok {
		return 0, models.InvoiceRecord{}, fmt.Errorf("%q: %w", "ID", ErrMissingColumn)
	}

	for i, row := range rows[1:] {
		if idCol < len(row) && row[idCol] == id {
			return int64(i + 2), recordFromRow(index, row), nil
		}
	}
	return 0, models.InvoiceRecord{}, ErrInvoiceNotFound
}

// trashArtifact moves the file behind url to the trash. A missing file or an
// unrecognizable URL yields the advisory note instead of an error.
func (s *Service) trashArtifact(ctx context.Context, url, note string) string {
	if url == "" {
		return ""
	}
	fileID := FileIDFromURL(url)
	if fileID == "" {
		s.log.Info().Str("url", url).Msg("No file id found in artifact URL")
		return note
	}
	if err := s.exporter.Trash(ctx, fileID); err != nil {
		s.log.Info().Err(err).Str("file_id", fileID).Msg("Artifact already gone")
		return note
	}
	return ""
}

func (s *Service) settle(ctx context.Context) error {
	if s.opts.SettleDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.opts.SettleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FileIDFromURL extracts the file id token from a Drive or Docs URL.
// Returns "" when the URL carries no recognizable id.
func FileIDFromURL(url string) string {
	return fileIDPattern.FindString(url)
}

func joinNotes(notes []string) string {
	joined := notes[0]
	for _, note := range notes[1:] {
		joined += " " + note
	}
	return joined
}
