package gdocs

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/api/docs/v1"
	"invoicer/internal/render"
)

// googleDoc is a handle on one Docs document.
type googleDoc struct {
	service *Service
	id      string
	url     string
}

func (d *googleDoc) ID() string  { return d.id }
func (d *googleDoc) URL() string { return d.url }

// ReplaceAllText applies every substitution in a single batch. Matching is
// case sensitive.
func (d *googleDoc) ReplaceAllText(ctx context.Context, substitutions map[string]string) error {
	const op = "ReplaceAllText"

	if len(substitutions) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(substitutions))
	for token := range substitutions {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	requests := make([]*docs.Request, 0, len(tokens))
	for _, token := range tokens {
		requests = append(requests, &docs.Request{
			ReplaceAllText: &docs.ReplaceAllTextRequest{
				ContainsText: &docs.SubstringMatchCriteria{
					Text:      token,
					MatchCase: true,
				},
				ReplaceText: substitutions[token],
			},
		})
	}

	if err := d.batchUpdate(ctx, requests); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveParagraphPair deletes the paragraph containing marker together with
// the paragraph that follows it. Returns false when no paragraph matches.
func (d *googleDoc) RemoveParagraphPair(ctx context.Context, marker string) (bool, error) {
	const op = "RemoveParagraphPair"

	doc, err := d.service.docsService.Documents.Get(d.id).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("%s: failed to get document: %w", op, err)
	}

	content := doc.Body.Content
	for i, element := range content {
		if element.Paragraph == nil || !strings.Contains(paragraphText(element.Paragraph), marker) {
			continue
		}

		endIndex := element.EndIndex
		if i+1 < len(content) {
			endIndex = content[i+1].EndIndex
		}
		// The body's trailing newline cannot be deleted.
		if endIndex >= content[len(content)-1].EndIndex {
			endIndex = content[len(content)-1].EndIndex - 1
		}
		if endIndex <= element.StartIndex {
			return false, nil
		}

		err := d.batchUpdate(ctx, []*docs.Request{
			{
				DeleteContentRange: &docs.DeleteContentRangeRequest{
					Range: &docs.Range{
						StartIndex: element.StartIndex,
						EndIndex:   endIndex,
					},
				},
			},
		})
		if err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		return true, nil
	}

	return false, nil
}

// Tables lists the document's tables in body order with their header rows.
func (d *googleDoc) Tables(ctx context.Context) ([]render.TableHandle, error) {
	const op = "Tables"

	doc, err := d.service.docsService.Documents.Get(d.id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get document: %w", op, err)
	}

	var handles []render.TableHandle
	for _, element := range doc.Body.Content {
		if element.Table == nil {
			continue
		}
		handle := render.TableHandle{Index: len(handles)}
		if len(element.Table.TableRows) > 0 {
			for _, cell := range element.Table.TableRows[0].TableCells {
				handle.Header = append(handle.Header, cellText(cell))
			}
		}
		handles = append(handles, handle)
	}

	return handles, nil
}

// SetTableRows replaces the data rows of the table at tableIndex, keeping the
// header row in place.
func (d *googleDoc) SetTableRows(ctx context.Context, tableIndex int, rows [][]string) error {
	const op = "SetTableRows"

	table, tableStart, err := d.findTable(ctx, tableIndex)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Drop the existing data rows bottom-up so earlier deletions do not shift
	// the row indexes of later ones. The table's own start index is stable.
	var requests []*docs.Request
	for row := len(table.TableRows) - 1; row >= 1; row-- {
		requests = append(requests, &docs.Request{
			DeleteTableRow: &docs.DeleteTableRowRequest{
				TableCellLocation: &docs.TableCellLocation{
					TableStartLocation: &docs.Location{Index: tableStart},
					RowIndex:           int64(row),
				},
			},
		})
	}
	for i := range rows {
		requests = append(requests, &docs.Request{
			InsertTableRow: &docs.InsertTableRowRequest{
				TableCellLocation: &docs.TableCellLocation{
					TableStartLocation: &docs.Location{Index: tableStart},
					RowIndex:           int64(i),
				},
				InsertBelow: true,
			},
		})
	}
	if len(requests) > 0 {
		if err := d.batchUpdate(ctx, requests); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	// Refetch for the post-insert cell indexes, then fill the cells back to
	// front so insertions do not invalidate the remaining indexes.
	table, _, err = d.findTable(ctx, tableIndex)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(table.TableRows) < len(rows)+1 {
		return fmt.Errorf("%s: table has %d rows, expected %d", op, len(table.TableRows), len(rows)+1)
	}

	type insertion struct {
		index int64
		text  string
	}
	var insertions []insertion
	for i, row := range rows {
		cells := table.TableRows[i+1].TableCells
		for j, text := range row {
			if text == "" || j >= len(cells) {
				continue
			}
			insertions = append(insertions, insertion{index: cells[j].StartIndex + 1, text: text})
		}
	}
	sort.Slice(insertions, func(a, b int) bool { return insertions[a].index > insertions[b].index })

	requests = requests[:0]
	for _, ins := range insertions {
		requests = append(requests, &docs.Request{
			InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: ins.index},
				Text:     ins.text,
			},
		})
	}
	if len(requests) == 0 {
		return nil
	}
	if err := d.batchUpdate(ctx, requests); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (d *googleDoc) findTable(ctx context.Context, tableIndex int) (*docs.Table, int64, error) {
	doc, err := d.service.docsService.Documents.Get(d.id).Context(ctx).Do()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get document: %w", err)
	}

	seen := 0
	for _, element := range doc.Body.Content {
		if element.Table == nil {
			continue
		}
		if seen == tableIndex {
			return element.Table, element.StartIndex, nil
		}
		seen++
	}
	return nil, 0, fmt.Errorf("table %d not found", tableIndex)
}

func (d *googleDoc) batchUpdate(ctx context.Context, requests []*docs.Request) error {
	_, err := d.service.docsService.Documents.BatchUpdate(d.id, &docs.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to apply document update: %w", err)
	}
	return nil
}

func paragraphText(paragraph *docs.Paragraph) string {
	var sb strings.Builder
	for _, element := range paragraph.Elements {
		if element.TextRun != nil {
			sb.WriteString(element.TextRun.Content)
		}
	}
	return sb.String()
}

func cellText(cell *docs.TableCell) string {
	var sb strings.Builder
	for _, element := range cell.Content {
		if element.Paragraph != nil {
			sb.WriteString(paragraphText(element.Paragraph))
		}
	}
	return strings.TrimSpace(sb.String())
}
