package cmd

import (
	"github.com/spf13/cobra"
	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

var getCmd = &cobra.Command{
	Use:   "get [invoice-id]",
	Short: "Show the full record of one invoice",
	Long: `Show the full record of one invoice as JSON, including client
details, amounts, service items and the generated artifact links.`,
	Example: `  invoicer get 6ba7b810-9dad-11d1-80b4-00c04fd430c8`,
	Args:    cobra.ExactArgs(1),
	RunE:    runGet,
}

// InvoiceDetail is the JSON output of a single invoice lookup. Amounts and
// dates are rendered as display text.
type InvoiceDetail struct {
	ID            string `json:"id"`
	ProjectName   string `json:"project_name"`
	InvoiceNumber string `json:"invoice_number"`

	ClientName    string `json:"client_name"`
	ClientAddress string `json:"client_address"`
	ClientContact string `json:"client_contact"`

	InvoiceDate string `json:"invoice_date"` // YYYY-MM-DD
	DueDate     string `json:"due_date"`     // DD/MM/YYYY

	TaxRate   string `json:"tax_rate"`
	Subtotal  string `json:"subtotal"`
	TaxAmount string `json:"tax_amount"`
	Total     string `json:"total"`
	Currency  string `json:"currency"`

	ExchangeRate string `json:"exchange_rate,omitempty"`
	AmountInEUR  string `json:"amount_in_eur,omitempty"`

	BankDetails1 string `json:"bank_details_1,omitempty"`
	BankDetails2 string `json:"bank_details_2,omitempty"`
	OurCompany   string `json:"our_company,omitempty"`
	Comment      string `json:"comment,omitempty"`

	Items []ItemDetail `json:"items"`

	DocumentURL string `json:"doc_url,omitempty"`
	PDFURL      string `json:"pdf_url,omitempty"`
}

// ItemDetail is one service row of the lookup output.
type ItemDetail struct {
	Index    int    `json:"index"`
	Service  string `json:"service"`
	Period   string `json:"period,omitempty"`
	Quantity string `json:"quantity,omitempty"`
	Rate     string `json:"rate,omitempty"`
	Amount   string `json:"amount,omitempty"`
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	getCmd.Flags().Int("timeout", 60, "Processing timeout in seconds")
}

func runGet(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("get")

	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	ctx, cancel := commandContext(timeoutSecs, log)
	defer cancel()

	app, err := buildApp(ctx, log)
	if err != nil {
		return err
	}

	record, err := app.service.Get(ctx, args[0])
	if err != nil {
		return handleServiceError(err, log)
	}

	log.Info().
		Str("id", record.ID).
		Str("invoice_number", record.InvoiceNumber).
		Msg("Invoice found")

	return outputJSON(convertToDetail(record), outputPath, log)
}

// convertToDetail renders a record for JSON output.
func convertToDetail(record models.InvoiceRecord) InvoiceDetail {
	detail := InvoiceDetail{
		ID:            record.ID,
		ProjectName:   record.ProjectName,
		InvoiceNumber: record.InvoiceNumber,
		ClientName:    record.ClientName,
		ClientAddress: record.ClientAddress,
		ClientContact: record.ClientContact,
		InvoiceDate:   models.InputDate(record.InvoiceDate),
		DueDate:       models.DisplayDate(record.DueDate),
		TaxRate:       record.TaxRate.StringFixed(0),
		Subtotal:      record.Subtotal.StringFixed(2),
		TaxAmount:     record.TaxAmount.StringFixed(2),
		Total:         record.Total.StringFixed(2),
		Currency:      record.CurrencySymbol,
		ExchangeRate:  record.ExchangeRate,
		AmountInEUR:   record.AmountInEUR,
		BankDetails1:  record.BankDetails1,
		BankDetails2:  record.BankDetails2,
		OurCompany:    record.OurCompany,
		Comment:       record.Comment,
		DocumentURL:   record.DocumentURL,
		PDFURL:        record.PDFURL,
	}

	for _, item := range record.Items {
		detail.Items = append(detail.Items, ItemDetail{
			Index:    item.Index,
			Service:  item.Service,
			Period:   item.Period,
			Quantity: item.Quantity,
			Rate:     item.Rate,
			Amount:   item.Amount,
		})
	}

	return detail
}
