package invoice

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"invoicer/pkg/models"
)

// Date layouts of the form payload. Due dates arrive as DD/MM/YYYY text,
// invoice dates as YYYY-MM-DD.
const (
	dueDateLayout     = "02/01/2006"
	invoiceDateLayout = "2006-01-02"
)

var oneHundred = decimal.NewFromInt(100)

// Build validates a form payload and assembles the canonical invoice record.
//
// Every rule is checked and all violations are collected before the build
// fails. Tax amount and total are recomputed from subtotal and tax rate; a
// caller-supplied total is never trusted. Item indexes are reassigned to
// their 1-based positions. Exchange-rate fields are kept only for USD.
//
// The record leaves without an id; the orchestrator assigns one at save time.
func Build(form models.InvoiceForm) (models.InvoiceRecord, error) {
	verr := &ValidationError{}

	requireField(verr, "projectName", form.ProjectName)
	requireField(verr, "invoiceNumber", form.InvoiceNumber)
	requireField(verr, "invoiceDate", form.InvoiceDate)
	requireField(verr, "dueDate", form.DueDate)
	requireField(verr, "subtotal", form.Subtotal)
	requireField(verr, "tax", form.Tax)

	subtotal, err := decimal.NewFromString(strings.TrimSpace(form.Subtotal))
	if strings.TrimSpace(form.Subtotal) != "" && err != nil {
		verr.add("subtotal must be a valid number")
	}
	if err == nil && subtotal.IsNegative() {
		verr.add("subtotal must not be negative")
	}

	taxRate, err := decimal.NewFromString(strings.TrimSpace(form.Tax))
	if strings.TrimSpace(form.Tax) != "" && err != nil {
		verr.add("tax rate must be a valid number")
	}

	var invoiceDate, dueDate time.Time
	if strings.TrimSpace(form.InvoiceDate) != "" {
		invoiceDate, err = time.Parse(invoiceDateLayout, strings.TrimSpace(form.InvoiceDate))
		if err != nil {
			verr.add("invoiceDate must be a YYYY-MM-DD date")
		}
	}
	if strings.TrimSpace(form.DueDate) != "" {
		dueDate, err = time.Parse(dueDateLayout, strings.TrimSpace(form.DueDate))
		if err != nil {
			verr.add("dueDate must be a DD/MM/YYYY date")
		}
	}

	if len(form.Items) == 0 {
		verr.add("at least one invoice item is required")
	}
	if len(form.Items) > models.MaxLineItems {
		verr.add("at most %d invoice items are allowed, got %d", models.MaxLineItems, len(form.Items))
	}

	if strings.TrimSpace(form.TemplateID) == "" {
		verr.add("templateId is required")
	}

	if !verr.empty() {
		return models.InvoiceRecord{}, verr
	}

	taxAmount := subtotal.Mul(taxRate).Div(oneHundred)
	total := subtotal.Add(taxAmount)

	items := make([]models.InvoiceLineItem, 0, len(form.Items))
	for i, item := range form.Items {
		items = append(items, models.InvoiceLineItem{
			Index:    i + 1,
			Service:  strings.TrimSpace(item.Service),
			Period:   strings.TrimSpace(item.Period),
			Quantity: strings.TrimSpace(item.Quantity),
			Rate:     strings.TrimSpace(item.Rate),
			Amount:   strings.TrimSpace(item.Amount),
		})
	}

	record := models.InvoiceRecord{
		ProjectName:    strings.TrimSpace(form.ProjectName),
		InvoiceNumber:  strings.TrimSpace(form.InvoiceNumber),
		ClientName:     strings.TrimSpace(form.ClientName),
		ClientAddress:  strings.TrimSpace(form.ClientAddress),
		ClientContact:  strings.TrimSpace(form.ClientNumber),
		InvoiceDate:    invoiceDate,
		DueDate:        dueDate,
		TaxRate:        taxRate,
		Subtotal:       subtotal,
		TaxAmount:      taxAmount,
		Total:          total,
		CurrencySymbol: strings.TrimSpace(form.Currency),
		BankDetails1:   form.BankDetails1,
		BankDetails2:   form.BankDetails2,
		OurCompany:     strings.TrimSpace(form.OurCompany),
		Comment:        form.Comment,
		Items:          items,
	}

	if record.CurrencySymbol == "$" {
		record.ExchangeRate = fixedOrBlank(form.ExchangeRate, 4)
		record.AmountInEUR = fixedOrBlank(form.AmountInEUR, 2)
	}

	return record, nil
}

func requireField(verr *ValidationError, name, value string) {
	if strings.TrimSpace(value) == "" {
		verr.add("%s is required", name)
	}
}

// fixedOrBlank formats a decimal text with the given number of places, or
// returns "" when the input does not parse.
func fixedOrBlank(raw string, places int32) string {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return value.StringFixed(places)
}
