// Package render substitutes invoice data into a copied document template:
// scalar placeholders, the line-item table and the currency-dependent
// exchange-rate section.
package render

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

// exchangeRateMarker starts the paragraph pair that is removed for
// non-USD invoices.
const exchangeRateMarker = "Exchange Rate Notice"

// itemTableHeader is the exact first row of the line-item table, matched
// case-sensitively against trimmed cell texts.
var itemTableHeader = []string{"#", "Services", "Period", "Quantity", "Rate/hour", "Amount"}

// Engine renders invoice records into template documents.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates a substitution engine.
func NewEngine() *Engine {
	return &Engine{log: logger.WithComponent("render")}
}

// Render fills doc with the record's data. Order matters: the exchange-rate
// section is resolved first, then the line-item table is rebuilt, then all
// placeholders are substituted in a single pass. Substitution consumes the
// tokens, so re-running on an already rendered document is a no-op.
func (e *Engine) Render(ctx context.Context, doc Document, record models.InvoiceRecord) error {
	const op = "Render"

	subs := scalarSubstitutions(record)

	if record.CurrencySymbol == "$" {
		subs["{Exchange Rate}"] = record.ExchangeRate
		subs["{Amount in EUR}"] = "€" + record.AmountInEUR
	} else {
		removed, err := doc.RemoveParagraphPair(ctx, exchangeRateMarker)
		if err != nil {
			return fmt.Errorf("%s: failed to remove exchange rate section: %w", op, err)
		}
		if !removed {
			e.log.Warn().
				Str("marker", exchangeRateMarker).
				Msg("Exchange rate marker paragraph not found, leaving document as is")
		}
	}

	if err := e.rebuildItemTable(ctx, doc, record); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	addItemSubstitutions(subs, record)

	if err := doc.ReplaceAllText(ctx, subs); err != nil {
		return fmt.Errorf("%s: failed to replace placeholders: %w", op, err)
	}

	e.log.Info().
		Str("invoice_number", record.InvoiceNumber).
		Str("doc_id", doc.ID()).
		Int("items", len(record.Items)).
		Msg("Rendered invoice document")

	return nil
}

// rebuildItemTable clears the line-item table and appends one row per item.
func (e *Engine) rebuildItemTable(ctx context.Context, doc Document, record models.InvoiceRecord) error {
	tables, err := doc.Tables(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	target := -1
	for _, table := range tables {
		if matchesItemHeader(table.Header) {
			target = table.Index
			break
		}
	}
	if target < 0 {
		return ErrTableNotFound
	}

	rows := make([][]string, 0, len(record.Items))
	for _, item := range record.Items {
		rows = append(rows, []string{
			strconv.Itoa(item.Index),
			item.Service,
			item.Period,
			item.Quantity,
			FormatAmount(item.Rate, record.CurrencySymbol),
			FormatAmount(item.Amount, record.CurrencySymbol),
		})
	}

	if err := doc.SetTableRows(ctx, target, rows); err != nil {
		return fmt.Errorf("failed to rebuild item table: %w", err)
	}
	return nil
}

func matchesItemHeader(header []string) bool {
	if len(header) < len(itemTableHeader) {
		return false
	}
	for i, want := range itemTableHeader {
		if header[i] != want {
			return false
		}
	}
	return true
}

// scalarSubstitutions builds the fixed placeholder map for a record.
func scalarSubstitutions(record models.InvoiceRecord) map[string]string {
	return map[string]string{
		"{Project Name}":   record.ProjectName,
		"{Client Name}":    record.ClientName,
		"{Client Address}": record.ClientAddress,
		"{Client Number}":  record.ClientContact,
		"{Invoice Number}": record.InvoiceNumber,
		"{Invoice Date}":   models.DisplayDate(record.InvoiceDate),
		"{Due date}":       models.DisplayDate(record.DueDate),
		"{VAT%}":           record.TaxRate.StringFixed(0),
		"{Tax Amount}":     record.CurrencySymbol + record.TaxAmount.StringFixed(2),
		"{Total Amount}":   record.CurrencySymbol + record.Total.StringFixed(2),
		"{Bank Details 1}": record.BankDetails1,
		"{Bank Details 2}": record.BankDetails2,
		"{Comment}":        record.Comment,
	}
}

// addItemSubstitutions fills the positional per-item tokens for every slot
// that has an item. Rate and amount tokens are only substituted when the
// source value is non-empty.
func addItemSubstitutions(subs map[string]string, record models.InvoiceRecord) {
	for i := 0; i < models.MaxLineItems && i < len(record.Items); i++ {
		item := record.Items[i]
		n := strconv.Itoa(i + 1)
		subs["{Service-"+n+"}"] = item.Service
		subs["{Period-"+n+"}"] = item.Period
		subs["{Quantity-"+n+"}"] = item.Quantity
		if item.Rate != "" {
			subs["{Rate-"+n+"}"] = FormatAmount(item.Rate, record.CurrencySymbol)
		}
		if item.Amount != "" {
			subs["{Amount-"+n+"}"] = FormatAmount(item.Amount, record.CurrencySymbol)
		}
	}
}

// FormatAmount renders a decimal text with the currency symbol and two
// decimal places. Empty or unparsable input renders blank.
func FormatAmount(raw, currencySymbol string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return currencySymbol + amount.StringFixed(2)
}

// CleanFileName strips characters that are unsafe in file names.
func CleanFileName(name string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, name))
}

// InvoiceFileName generates the artifact name for a record.
func InvoiceFileName(record models.InvoiceRecord) string {
	return fmt.Sprintf("%s_Invoice%s_%s-%s",
		models.InputDate(record.InvoiceDate),
		record.InvoiceNumber,
		CleanFileName(record.OurCompany),
		CleanFileName(record.ClientName),
	)
}
