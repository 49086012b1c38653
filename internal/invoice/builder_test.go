package invoice

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicer/pkg/models"
)

func validForm() models.InvoiceForm {
	return models.InvoiceForm{
		ProjectName:   "Acme Website",
		InvoiceNumber: "2025-041",
		InvoiceDate:   "2025-01-01",
		DueDate:       "31/01/2025",
		Subtotal:      "1000",
		Tax:           "19",
		Currency:      "€",
		ClientName:    "Acme GmbH",
		ClientAddress: "1 Main St",
		ClientNumber:  "DE 12345",
		BankDetails1:  "IBAN DE11 2222",
		OurCompany:    "Our Co LLC",
		TemplateID:    "tmpl-123",
		Items: []models.LineItemForm{
			{Service: "Development", Period: "Jan 2025", Quantity: "80", Rate: "50", Amount: "4000"},
		},
	}
}

func TestBuildComputesDerivedAmounts(t *testing.T) {
	record, err := Build(validForm())
	require.NoError(t, err)

	assert.Equal(t, "190.00", record.TaxAmount.StringFixed(2))
	assert.Equal(t, "1190.00", record.Total.StringFixed(2))
}

func TestBuildNeverTrustsCallerTotals(t *testing.T) {
	// The form has no total field at all; whatever a caller claims, the
	// derived amounts come from subtotal and tax rate only.
	form := validForm()
	form.Subtotal = "200"
	form.Tax = "10"

	record, err := Build(form)
	require.NoError(t, err)

	assert.Equal(t, "20.00", record.TaxAmount.StringFixed(2))
	assert.Equal(t, "220.00", record.Total.StringFixed(2))
}

func TestBuildParsesDates(t *testing.T) {
	record, err := Build(validForm())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), record.InvoiceDate)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), record.DueDate)
	assert.Equal(t, "01/01/2025", models.DisplayDate(record.InvoiceDate))
}

func TestBuildReassignsItemIndexes(t *testing.T) {
	form := validForm()
	form.Items = []models.LineItemForm{
		{Service: "A"},
		{Service: "B"},
		{Service: "C"},
	}

	record, err := Build(form)
	require.NoError(t, err)

	require.Len(t, record.Items, 3)
	for i, item := range record.Items {
		assert.Equal(t, i+1, item.Index)
	}
}

func TestBuildCollectsAllViolations(t *testing.T) {
	form := models.InvoiceForm{}

	_, err := Build(form)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	msgs := verr.Messages()
	assert.Contains(t, msgs, "projectName is required")
	assert.Contains(t, msgs, "invoiceNumber is required")
	assert.Contains(t, msgs, "invoiceDate is required")
	assert.Contains(t, msgs, "dueDate is required")
	assert.Contains(t, msgs, "subtotal is required")
	assert.Contains(t, msgs, "tax is required")
	assert.Contains(t, msgs, "at least one invoice item is required")
	assert.Contains(t, msgs, "templateId is required")
}

func TestBuildRejectsNonNumericAmounts(t *testing.T) {
	form := validForm()
	form.Subtotal = "lots"
	form.Tax = "some"

	_, err := Build(form)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Messages(), "subtotal must be a valid number")
	assert.Contains(t, verr.Messages(), "tax rate must be a valid number")
}

func TestBuildRejectsBadDates(t *testing.T) {
	form := validForm()
	form.InvoiceDate = "01/01/2025" // wrong order
	form.DueDate = "2025-01-31"     // wrong order

	_, err := Build(form)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Messages(), "invoiceDate must be a YYYY-MM-DD date")
	assert.Contains(t, verr.Messages(), "dueDate must be a DD/MM/YYYY date")
}

func TestBuildRejectsTooManyItems(t *testing.T) {
	form := validForm()
	form.Items = make([]models.LineItemForm, models.MaxLineItems+1)

	_, err := Build(form)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Messages(), "at most 20 invoice items are allowed, got 21")
}

func TestBuildAcceptsExactlyMaxItems(t *testing.T) {
	form := validForm()
	form.Items = make([]models.LineItemForm, models.MaxLineItems)

	record, err := Build(form)
	require.NoError(t, err)
	assert.Len(t, record.Items, models.MaxLineItems)
}

func TestBuildUSDKeepsExchangeFields(t *testing.T) {
	form := validForm()
	form.Currency = "$"
	form.ExchangeRate = "1.085"
	form.AmountInEUR = "1096.774"

	record, err := Build(form)
	require.NoError(t, err)

	assert.Equal(t, "1.0850", record.ExchangeRate)
	assert.Equal(t, "1096.77", record.AmountInEUR)
}

func TestBuildNonUSDBlanksExchangeFields(t *testing.T) {
	form := validForm()
	form.Currency = "€"
	form.ExchangeRate = "1.085"
	form.AmountInEUR = "1096.77"

	record, err := Build(form)
	require.NoError(t, err)

	assert.Empty(t, record.ExchangeRate)
	assert.Empty(t, record.AmountInEUR)
}

func TestApplyDefaultsFillsOnlyBlanks(t *testing.T) {
	form := models.InvoiceForm{
		ProjectName: "Acme Website",
		ClientName:  "Caller Client",
	}
	form.ApplyDefaults(models.ProjectReference{
		ClientName:     "Ref Client",
		ClientAddress:  "Ref Address",
		TaxRate:        "19",
		CurrencySymbol: "€",
		TemplateID:     "tmpl-123",
	})

	assert.Equal(t, "Caller Client", form.ClientName, "caller value must win")
	assert.Equal(t, "Ref Address", form.ClientAddress)
	assert.Equal(t, "19", form.Tax)
	assert.Equal(t, "€", form.Currency)
	assert.Equal(t, "tmpl-123", form.TemplateID)
}
