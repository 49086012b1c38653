// Package sheetstore persists invoice and reference rows in Google Sheets.
package sheetstore

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"invoicer/internal/googleauth"
	"invoicer/internal/logger"
)

// updatedRowPattern pulls the 1-based row number out of an A1-notation range
// such as "Invoices!A42:Q42".
var updatedRowPattern = regexp.MustCompile(`![A-Z]+(\d+)`)

// spreadsheetIDPattern matches the id segment of a Google Sheets URL.
var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// Service reads and writes rows of a single spreadsheet.
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

// NewService creates a row store over the given spreadsheet. The spreadsheet
// may be referenced by bare id or by its full URL.
func NewService(ctx context.Context, spreadsheet string) (*Service, error) {
	const op = "NewService"

	log := logger.WithComponent("sheetstore")

	spreadsheetID := ExtractSpreadsheetID(spreadsheet)
	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Using spreadsheet")

	client, err := googleauth.NewHTTPClient(ctx, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		log:           log,
	}, nil
}

// ExtractSpreadsheetID returns the spreadsheet id embedded in a Google Sheets
// URL, or the input unchanged when it is already a bare id.
func ExtractSpreadsheetID(spreadsheet string) string {
	if matches := spreadsheetIDPattern.FindStringSubmatch(spreadsheet); len(matches) == 2 {
		return matches[1]
	}
	return spreadsheet
}

// ReadSheet returns every cell of the named sheet as text, row by row.
func (s *Service) ReadSheet(ctx context.Context, sheetName string) ([][]string, error) {
	const op = "ReadSheet"

	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, sheetName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read sheet %q: %w", op, sheetName, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		rows = append(rows, cells)
	}

	s.log.Debug().
		Str("sheet", sheetName).
		Int("rows", len(rows)).
		Msg("Read sheet")

	return rows, nil
}

// AppendRow appends one row after the sheet's current content and returns its
// 1-based row number.
func (s *Service) AppendRow(ctx context.Context, sheetName string, cells []string) (int64, error) {
	const op = "AppendRow"

	values := make([]interface{}, len(cells))
	for i, cell := range cells {
		values[i] = cell
	}

	resp, err := s.sheetsService.Spreadsheets.Values.Append(
		s.spreadsheetID,
		sheetName,
		&sheets.ValueRange{Values: [][]interface{}{values}},
	).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to append row to %q: %w", op, sheetName, err)
	}

	if resp.Updates == nil {
		return 0, fmt.Errorf("%s: append response carried no update range", op)
	}
	row, err := rowFromRange(resp.Updates.UpdatedRange)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug().
		Str("sheet", sheetName).
		Int64("row", row).
		Msg("Appended row")

	return row, nil
}

// UpdateCells overwrites len(cells) cells of the given row starting at the
// 1-based startColumn.
func (s *Service) UpdateCells(ctx context.Context, sheetName string, row, startColumn int64, cells []string) error {
	const op = "UpdateCells"

	values := make([]interface{}, len(cells))
	for i, cell := range cells {
		values[i] = cell
	}

	rangeSpec := fmt.Sprintf("%s!%s%d", sheetName, columnLetter(startColumn), row)
	_, err := s.sheetsService.Spreadsheets.Values.Update(
		s.spreadsheetID,
		rangeSpec,
		&sheets.ValueRange{Values: [][]interface{}{values}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to update %s: %w", op, rangeSpec, err)
	}

	return nil
}

// DeleteRow removes the 1-based row from the named sheet.
func (s *Service) DeleteRow(ctx context.Context, sheetName string, row int64) error {
	const op = "DeleteRow"

	sheetID, err := s.sheetID(ctx, sheetName)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "ROWS",
						StartIndex: row - 1,
						EndIndex:   row,
					},
				},
			},
		},
	}

	_, err = s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to delete row %d of %q: %w", op, row, sheetName, err)
	}

	s.log.Debug().
		Str("sheet", sheetName).
		Int64("row", row).
		Msg("Deleted row")

	return nil
}

// sheetID resolves the numeric sheet id of a sheet title.
func (s *Service) sheetID(ctx context.Context, sheetName string) (int64, error) {
	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == sheetName {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", sheetName)
}

func rowFromRange(updatedRange string) (int64, error) {
	matches := updatedRowPattern.FindStringSubmatch(updatedRange)
	if len(matches) != 2 {
		return 0, fmt.Errorf("unexpected update range %q", updatedRange)
	}
	row, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected update range %q: %w", updatedRange, err)
	}
	return row, nil
}

// columnLetter converts a 1-based column number to its A1-notation letters.
func columnLetter(column int64) string {
	letters := ""
	for column > 0 {
		column--
		letters = string(rune('A'+column%26)) + letters
		column /= 26
	}
	return letters
}
