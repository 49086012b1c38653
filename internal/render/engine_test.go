package render

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicer/pkg/models"
)

// fakeDocument records every edit the engine performs.
type fakeDocument struct {
	tables []TableHandle

	subs          map[string]string
	setTableIndex int
	setRows       [][]string
	removedMarker string
	markerFound   bool
}

func newFakeDocument() *fakeDocument {
	return &fakeDocument{
		tables: []TableHandle{
			{Index: 0, Header: []string{"From", "To"}},
			{Index: 1, Header: []string{"#", "Services", "Period", "Quantity", "Rate/hour", "Amount"}},
		},
		markerFound:   true,
		setTableIndex: -1,
	}
}

func (d *fakeDocument) ID() string  { return "doc-1" }
func (d *fakeDocument) URL() string { return "https://docs.example/doc-1" }

func (d *fakeDocument) ReplaceAllText(ctx context.Context, subs map[string]string) error {
	d.subs = subs
	return nil
}

func (d *fakeDocument) RemoveParagraphPair(ctx context.Context, marker string) (bool, error) {
	d.removedMarker = marker
	return d.markerFound, nil
}

func (d *fakeDocument) Tables(ctx context.Context) ([]TableHandle, error) {
	return d.tables, nil
}

func (d *fakeDocument) SetTableRows(ctx context.Context, tableIndex int, rows [][]string) error {
	d.setTableIndex = tableIndex
	d.setRows = rows
	return nil
}

func testRecord(currency string) models.InvoiceRecord {
	return models.InvoiceRecord{
		ProjectName:    "Acme Website",
		InvoiceNumber:  "2025-041",
		ClientName:     "Acme GmbH",
		ClientAddress:  "1 Main St",
		ClientContact:  "DE 12345",
		InvoiceDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		TaxRate:        decimal.NewFromInt(19),
		Subtotal:       decimal.NewFromInt(1000),
		TaxAmount:      decimal.NewFromInt(190),
		Total:          decimal.NewFromInt(1190),
		CurrencySymbol: currency,
		ExchangeRate:   "1.0850",
		AmountInEUR:    "1096.77",
		BankDetails1:   "IBAN DE11 2222",
		BankDetails2:   "IBAN DE33 4444",
		OurCompany:     "Our Co LLC",
		Comment:        "Thank you",
		Items: []models.InvoiceLineItem{
			{Index: 1, Service: "Development", Period: "Jan 2025", Quantity: "80", Rate: "50", Amount: "4000"},
			{Index: 2, Service: "Support", Period: "Jan 2025", Quantity: "", Rate: "", Amount: ""},
		},
	}
}

func TestRenderUSDPopulatesExchangeSection(t *testing.T) {
	doc := newFakeDocument()
	engine := NewEngine()

	err := engine.Render(context.Background(), doc, testRecord("$"))
	require.NoError(t, err)

	assert.Empty(t, doc.removedMarker, "USD render must leave the notice paragraphs intact")
	assert.Equal(t, "1.0850", doc.subs["{Exchange Rate}"])
	assert.Equal(t, "€1096.77", doc.subs["{Amount in EUR}"])
}

func TestRenderNonUSDRemovesExchangeSection(t *testing.T) {
	doc := newFakeDocument()
	engine := NewEngine()

	err := engine.Render(context.Background(), doc, testRecord("€"))
	require.NoError(t, err)

	assert.Equal(t, exchangeRateMarker, doc.removedMarker)
	assert.NotContains(t, doc.subs, "{Exchange Rate}")
	assert.NotContains(t, doc.subs, "{Amount in EUR}")
}

func TestRenderMissingMarkerIsNotFatal(t *testing.T) {
	doc := newFakeDocument()
	doc.markerFound = false
	engine := NewEngine()

	err := engine.Render(context.Background(), doc, testRecord("€"))
	assert.NoError(t, err)
}

func TestRenderRebuildsItemTable(t *testing.T) {
	doc := newFakeDocument()
	engine := NewEngine()

	err := engine.Render(context.Background(), doc, testRecord("€"))
	require.NoError(t, err)

	assert.Equal(t, 1, doc.setTableIndex)
	require.Len(t, doc.setRows, 2)
	assert.Equal(t, []string{"1", "Development", "Jan 2025", "80", "€50.00", "€4000.00"}, doc.setRows[0])
	// Empty rate and amount cells stay blank instead of rendering a bare symbol.
	assert.Equal(t, []string{"2", "Support", "Jan 2025", "", "", ""}, doc.setRows[1])
}

func TestRenderTableNotFound(t *testing.T) {
	doc := newFakeDocument()
	doc.tables = []TableHandle{{Index: 0, Header: []string{"Nope"}}}
	engine := NewEngine()

	err := engine.Render(context.Background(), doc, testRecord("€"))
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestRenderHeaderMatchIsCaseSensitive(t *testing.T) {
	doc := newFakeDocument()
	doc.tables = []TableHandle{
		{Index: 0, Header: []string{"#", "services", "period", "quantity", "rate/hour", "amount"}},
	}
	engine := NewEngine()

	err := engine.Render(context.Background(), doc, testRecord("€"))
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestRenderScalarSubstitutions(t *testing.T) {
	doc := newFakeDocument()
	engine := NewEngine()

	err := engine.Render(context.Background(), doc, testRecord("€"))
	require.NoError(t, err)

	assert.Equal(t, "Acme Website", doc.subs["{Project Name}"])
	assert.Equal(t, "2025-041", doc.subs["{Invoice Number}"])
	assert.Equal(t, "01/01/2025", doc.subs["{Invoice Date}"])
	assert.Equal(t, "31/01/2025", doc.subs["{Due date}"])
	assert.Equal(t, "19", doc.subs["{VAT%}"])
	assert.Equal(t, "€190.00", doc.subs["{Tax Amount}"])
	assert.Equal(t, "€1190.00", doc.subs["{Total Amount}"])
	assert.Equal(t, "IBAN DE11 2222", doc.subs["{Bank Details 1}"])
	assert.Equal(t, "Thank you", doc.subs["{Comment}"])
}

func TestRenderItemSubstitutions(t *testing.T) {
	doc := newFakeDocument()
	engine := NewEngine()

	err := engine.Render(context.Background(), doc, testRecord("€"))
	require.NoError(t, err)

	assert.Equal(t, "Development", doc.subs["{Service-1}"])
	assert.Equal(t, "Jan 2025", doc.subs["{Period-1}"])
	assert.Equal(t, "80", doc.subs["{Quantity-1}"])
	assert.Equal(t, "€50.00", doc.subs["{Rate-1}"])
	assert.Equal(t, "€4000.00", doc.subs["{Amount-1}"])

	// Second item has no rate or amount; those tokens must stay unconsumed.
	assert.Equal(t, "Support", doc.subs["{Service-2}"])
	assert.NotContains(t, doc.subs, "{Rate-2}")
	assert.NotContains(t, doc.subs, "{Amount-2}")

	// No third item, no third-slot tokens.
	assert.NotContains(t, doc.subs, "{Service-3}")
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		currency string
		want     string
	}{
		{"plain", "50", "€", "€50.00"},
		{"fraction", "49.5", "$", "$49.50"},
		{"empty", "", "€", ""},
		{"blank", "   ", "€", ""},
		{"garbage", "n/a", "€", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.raw, tt.currency))
		})
	}
}

func TestCleanFileName(t *testing.T) {
	assert.Equal(t, "Acme Co", CleanFileName(`Acme/ Co:*?"<>|`))
	assert.Equal(t, "plain", CleanFileName("plain"))
}

func TestInvoiceFileName(t *testing.T) {
	record := testRecord("€")
	record.OurCompany = `Our/Co`
	record.ClientName = `Acme:GmbH`

	assert.Equal(t, "2025-01-01_Invoice2025-041_OurCo-AcmeGmbH", InvoiceFileName(record))
}
