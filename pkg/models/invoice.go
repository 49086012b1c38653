package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// MaxLineItems is the number of item slots the persisted row layout allocates.
	MaxLineItems = 20

	// ItemCellCount is the number of flat cells each line item occupies.
	ItemCellCount = 6
)

// InvoiceLineItem is one billable row in an invoice's service table.
//
// Rate and Amount are kept as decimal text exactly as entered; they may be
// empty, in which case the rendered cell stays blank.
type InvoiceLineItem struct {
	Index    int    // 1-based position, reassigned at save time
	Service  string // service description
	Period   string // billing period (free text)
	Quantity string
	Rate     string
	Amount   string
}

// InvoiceRecord is the canonical invoice entity. It is created once per
// invoice and immutable after creation, except for the artifact links which
// the orchestrator fills in exactly once after export completes.
type InvoiceRecord struct {
	ID            string // assigned at save time, never reused
	ProjectName   string
	InvoiceNumber string

	ClientName    string
	ClientAddress string
	ClientContact string

	InvoiceDate time.Time
	DueDate     time.Time

	// Monetary fields. TaxAmount and Total are always recomputed from
	// Subtotal and TaxRate, never taken from the caller.
	TaxRate   decimal.Decimal // percent, 0-100
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal

	CurrencySymbol string

	// ExchangeRate (4 decimal places) and AmountInEUR (2 decimal places)
	// are populated only for USD invoices and stay blank otherwise.
	ExchangeRate string
	AmountInEUR  string

	BankDetails1 string
	BankDetails2 string
	OurCompany   string
	Comment      string

	Items []InvoiceLineItem

	DocumentURL string
	PDFURL      string
}

// InvoiceSummary is one row of the invoice listing.
type InvoiceSummary struct {
	ID            string `json:"id"`
	ProjectName   string `json:"project_name"`
	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date"` // DD/MM/YYYY
	DueDate       string `json:"due_date"`     // DD/MM/YYYY
	Total         string `json:"total"`        // 2 decimal places, empty when the cell is blank
	Currency      string `json:"currency"`
}

// DisplayDate formats a date the way invoices show it.
func DisplayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// InputDate formats a date for HTML-style date inputs and generated file names.
func InputDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
