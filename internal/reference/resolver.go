// Package reference resolves per-project billing configuration from the
// lookup sheet: client details, tax rate, currency, bank details and the
// invoice template to render from.
package reference

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

// Positional columns of the lookup sheet (0-indexed). The sheet doubles as
// three tables: the project rows, a bank short-code map and a template map,
// each living in its own column pair.
const (
	colProjectName    = 0
	colClientName     = 1
	colContactPart1   = 2
	colContactPart2   = 3
	colClientAddress  = 4
	colTaxRate        = 5
	colBankShort1     = 6
	colBankShort2     = 7
	colCurrency       = 8
	colDayType        = 9
	colPaymentDelay   = 10
	colTemplateName   = 13
	colOurCompany     = 14
	colBankMapShort   = 16
	colBankMapFull    = 17
	colTemplateMapKey = 19
	colTemplateMapID  = 20
)

// currencySymbols maps currency codes to display symbols. Unmapped codes
// pass through verbatim.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"UAH": "₴",
}

// RowSource reads a sheet as rows of cell text.
type RowSource interface {
	ReadSheet(ctx context.Context, sheetName string) ([][]string, error)
}

// Resolver looks up project references in the lists sheet.
type Resolver struct {
	source RowSource
	sheet  string
	log    zerolog.Logger
}

// NewResolver creates a resolver over the given row source and lists sheet.
func NewResolver(source RowSource, sheetName string) *Resolver {
	return &Resolver{
		source: source,
		sheet:  sheetName,
		log:    logger.WithComponent("reference"),
	}
}

// Resolve returns the project reference for projectName.
//
// A single pass over the sheet builds the bank and template maps and locates
// the project row. The first matching row wins, but the scan always runs to
// the end because the maps can be defined below the project row. Duplicate
// map keys resolve to the last occurrence scanned.
func (r *Resolver) Resolve(ctx context.Context, projectName string) (models.ProjectReference, error) {
	const op = "Resolve"

	want := strings.ToLower(strings.TrimSpace(projectName))
	if want == "" {
		return models.ProjectReference{}, fmt.Errorf("%s: %w", op, ErrEmptyProjectName)
	}

	rows, err := r.source.ReadSheet(ctx, r.sheet)
	if err != nil {
		return models.ProjectReference{}, fmt.Errorf("%s: failed to read sheet %q: %w", op, r.sheet, err)
	}

	bankMap := make(map[string]string)
	templateMap := make(map[string]string)
	var projectRow []string

	for i, row := range rows {
		if i == 0 {
			continue // header row
		}

		if projectRow == nil && strings.ToLower(cell(row, colProjectName)) == want {
			projectRow = row
		}

		if short, full := cell(row, colBankMapShort), cell(row, colBankMapFull); short != "" && full != "" {
			bankMap[short] = full
		}
		if name, id := cell(row, colTemplateMapKey), cell(row, colTemplateMapID); name != "" && id != "" {
			templateMap[strings.ToLower(name)] = id
		}
	}

	if projectRow == nil {
		return models.ProjectReference{}, fmt.Errorf("%s: project %q: %w", op, projectName, ErrProjectNotFound)
	}

	templateName := cell(projectRow, colTemplateName)
	if templateName == "" {
		return models.ProjectReference{}, fmt.Errorf("%s: project %q: %w", op, projectName, ErrNoTemplateName)
	}
	templateID, ok := templateMap[strings.ToLower(templateName)]
	if !ok {
		return models.ProjectReference{}, fmt.Errorf("%s: template %q: %w", op, templateName, ErrNoTemplateFound)
	}

	ref := models.ProjectReference{
		ClientName:       cell(projectRow, colClientName),
		ClientContact:    strings.TrimSpace(cell(projectRow, colContactPart1) + " " + cell(projectRow, colContactPart2)),
		ClientAddress:    cell(projectRow, colClientAddress),
		TaxRate:          normalizeTaxRate(cell(projectRow, colTaxRate)),
		CurrencySymbol:   currencySymbol(cell(projectRow, colCurrency)),
		PaymentDelayDays: parseDelay(cell(projectRow, colPaymentDelay)),
		DayType:          strings.ToUpper(cell(projectRow, colDayType)),
		BankDetails1:     bankMap[cell(projectRow, colBankShort1)],
		BankDetails2:     bankMap[cell(projectRow, colBankShort2)],
		OurCompany:       cell(projectRow, colOurCompany),
		TemplateID:       templateID,
	}

	r.log.Debug().
		Str("project", projectName).
		Str("template_id", templateID).
		Str("currency", ref.CurrencySymbol).
		Msg("Resolved project reference")

	return ref, nil
}

// ProjectNames returns the distinct project names from the lookup sheet,
// sorted alphabetically.
func (r *Resolver) ProjectNames(ctx context.Context) ([]string, error) {
	const op = "ProjectNames"

	rows, err := r.source.ReadSheet(ctx, r.sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read sheet %q: %w", op, r.sheet, err)
	}

	seen := make(map[string]struct{})
	var names []string
	for i, row := range rows {
		if i == 0 {
			continue
		}
		name := cell(row, colProjectName)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

// cell returns the trimmed cell at index i, or "" when the row is short.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// normalizeTaxRate converts the sheet's tax cell to integer-percent text.
// Sheets store the rate either as a fraction (0.19) or as a percent (19);
// fractional values are scaled up.
func normalizeTaxRate(raw string) string {
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return "0"
	}
	if rate.Abs().LessThan(decimal.NewFromInt(1)) {
		rate = rate.Mul(decimal.NewFromInt(100))
	}
	return rate.StringFixed(0)
}

func currencySymbol(code string) string {
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	return code
}

func parseDelay(raw string) int {
	delay, err := strconv.Atoi(raw)
	if err != nil || delay < 0 {
		return 0
	}
	return delay
}
