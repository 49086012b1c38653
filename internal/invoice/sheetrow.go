package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"invoicer/pkg/models"
)

// baseHeaders is the fixed invoice-level column layout of the invoice sheet.
// The 20 item slots follow, 6 cells each.
var baseHeaders = []string{
	"ID",
	"Project Name",
	"Invoice Number",
	"Client Name",
	"Client Address",
	"Client Number",
	"Invoice Date",
	"Due Date",
	"Tax Rate (%)",
	"Subtotal",
	"Tax Amount",
	"Total",
	"Exchange Rate",
	"Currency",
	"Amount in EUR",
	"Bank Details 1",
	"Bank Details 2",
	"Our Company",
	"Comment",
	"Google Doc Link",
	"PDF Link",
}

// 1-based column positions of the artifact link cells.
const (
	docLinkColumn = 20
	pdfLinkColumn = 21
)

// headerRow builds the full header: base columns plus the labeled item block.
func headerRow() []string {
	headers := make([]string, 0, len(baseHeaders)+flatCellCount)
	headers = append(headers, baseHeaders...)
	for i := 1; i <= models.MaxLineItems; i++ {
		headers = append(headers,
			fmt.Sprintf("Row %d #", i),
			fmt.Sprintf("Row %d Service", i),
			fmt.Sprintf("Row %d Period", i),
			fmt.Sprintf("Row %d Quantity", i),
			fmt.Sprintf("Row %d Rate/hour", i),
			fmt.Sprintf("Row %d Amount", i),
		)
	}
	return headers
}

// rowFromRecord flattens a record into its persisted row. The two link
// columns stay blank as placeholders; the orchestrator backfills them after
// export.
func rowFromRecord(record models.InvoiceRecord) []string {
	row := []string{
		record.ID,
		record.ProjectName,
		record.InvoiceNumber,
		record.ClientName,
		record.ClientAddress,
		record.ClientContact,
		models.InputDate(record.InvoiceDate),
		models.InputDate(record.DueDate),
		record.TaxRate.StringFixed(0),
		record.Subtotal.StringFixed(2),
		record.TaxAmount.StringFixed(2),
		record.Total.StringFixed(2),
		record.ExchangeRate,
		record.CurrencySymbol,
		record.AmountInEUR,
		record.BankDetails1,
		record.BankDetails2,
		record.OurCompany,
		record.Comment,
		"", // Google Doc Link
		"", // PDF Link
	}
	return append(row, FlattenItems(record.Items)...)
}

// headerIndex maps trimmed header names to their column positions.
func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.TrimSpace(h)] = i
	}
	return index
}

// recordFromRow rebuilds a record from its persisted row using the sheet's
// own header positions.
func recordFromRow(index map[string]int, row []string) models.InvoiceRecord {
	get := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	record := models.InvoiceRecord{
		ID:             get("ID"),
		ProjectName:    get("Project Name"),
		InvoiceNumber:  get("Invoice Number"),
		ClientName:     get("Client Name"),
		ClientAddress:  get("Client Address"),
		ClientContact:  get("Client Number"),
		InvoiceDate:    parseStoredDate(get("Invoice Date")),
		DueDate:        parseStoredDate(get("Due Date")),
		TaxRate:        decimalOrZero(get("Tax Rate (%)")),
		Subtotal:       decimalOrZero(get("Subtotal")),
		TaxAmount:      decimalOrZero(get("Tax Amount")),
		Total:          decimalOrZero(get("Total")),
		ExchangeRate:   get("Exchange Rate"),
		CurrencySymbol: get("Currency"),
		AmountInEUR:    get("Amount in EUR"),
		BankDetails1:   get("Bank Details 1"),
		BankDetails2:   get("Bank Details 2"),
		OurCompany:     get("Our Company"),
		Comment:        get("Comment"),
		DocumentURL:    get("Google Doc Link"),
		PDFURL:         get("PDF Link"),
	}

	if len(row) > len(baseHeaders) {
		record.Items = UnflattenItems(row[len(baseHeaders):])
	}

	return record
}

// parseStoredDate accepts the stored YYYY-MM-DD form as well as the display
// DD/MM/YYYY form older rows may carry.
func parseStoredDate(raw string) time.Time {
	for _, layout := range []string{invoiceDateLayout, dueDateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func decimalOrZero(raw string) decimal.Decimal {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return value
}

// displayOrRaw renders a stored date cell as DD/MM/YYYY, passing unparsable
// text through untouched.
func displayOrRaw(raw string) string {
	if raw == "" {
		return ""
	}
	if t := parseStoredDate(raw); !t.IsZero() {
		return models.DisplayDate(t)
	}
	return raw
}

// totalOrBlank renders a stored total with two decimal places, or "" for
// blank and unparsable cells.
func totalOrBlank(raw string) string {
	if raw == "" {
		return ""
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return ""
	}
	return value.StringFixed(2)
}
