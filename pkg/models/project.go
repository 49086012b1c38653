package models

// ProjectReference is the per-client configuration row resolved from the
// lookup sheet: billing defaults, bank details and the invoice template to
// render from. Values are kept as display text because they pre-fill the
// invoice form verbatim.
type ProjectReference struct {
	ClientName    string `json:"clientName"`
	ClientContact string `json:"clientNumber"`
	ClientAddress string `json:"clientAddress"`

	// TaxRate is the integer percent as text (e.g. "19").
	TaxRate string `json:"tax"`

	// CurrencySymbol is the display symbol ("$", "€", "₴"); currency codes
	// without a known symbol pass through verbatim.
	CurrencySymbol string `json:"currency"`

	PaymentDelayDays int    `json:"paymentDelay"`
	DayType          string `json:"dayType"`

	BankDetails1 string `json:"bankDetails1"`
	BankDetails2 string `json:"bankDetails2"`
	OurCompany   string `json:"ourCompany"`

	// TemplateID is the document id of the invoice template to copy.
	TemplateID string `json:"templateId"`
}

// InvoiceForm is the raw form payload an invoice is created from. Every
// field arrives as text; the builder validates and converts.
type InvoiceForm struct {
	ProjectName   string `json:"projectName"`
	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceDate   string `json:"invoiceDate"` // YYYY-MM-DD
	DueDate       string `json:"dueDate"`     // DD/MM/YYYY
	Subtotal      string `json:"subtotal"`
	Tax           string `json:"tax"` // percent

	Currency     string `json:"currency"`
	ExchangeRate string `json:"exchangeRate"`
	AmountInEUR  string `json:"amountInEUR"`

	ClientName    string `json:"clientName"`
	ClientAddress string `json:"clientAddress"`
	ClientNumber  string `json:"clientNumber"`

	BankDetails1 string `json:"bankDetails1"`
	BankDetails2 string `json:"bankDetails2"`
	OurCompany   string `json:"ourCompany"`
	Comment      string `json:"comment"`

	TemplateID string `json:"templateId"`

	Items []LineItemForm `json:"items"`
}

// LineItemForm is one service row of the form payload.
type LineItemForm struct {
	Service  string `json:"service"`
	Period   string `json:"period"`
	Quantity string `json:"quantity"`
	Rate     string `json:"rate"`
	Amount   string `json:"amount"`
}

// ApplyDefaults fills form fields the caller left blank from the resolved
// project reference. Caller-supplied values win.
func (f *InvoiceForm) ApplyDefaults(ref ProjectReference) {
	if f.ClientName == "" {
		f.ClientName = ref.ClientName
	}
	if f.ClientAddress == "" {
		f.ClientAddress = ref.ClientAddress
	}
	if f.ClientNumber == "" {
		f.ClientNumber = ref.ClientContact
	}
	if f.Tax == "" {
		f.Tax = ref.TaxRate
	}
	if f.Currency == "" {
		f.Currency = ref.CurrencySymbol
	}
	if f.BankDetails1 == "" {
		f.BankDetails1 = ref.BankDetails1
	}
	if f.BankDetails2 == "" {
		f.BankDetails2 = ref.BankDetails2
	}
	if f.OurCompany == "" {
		f.OurCompany = ref.OurCompany
	}
	if f.TemplateID == "" {
		f.TemplateID = ref.TemplateID
	}
}
