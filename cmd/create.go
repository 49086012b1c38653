package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

var createCmd = &cobra.Command{
	Use:   "create [form-file]",
	Short: "Create an invoice from a JSON form payload",
	Long: `Create an invoice from a JSON form payload.

The payload names the project and carries the invoice number, dates, subtotal
and service items. Fields left blank are pre-filled from the project's row in
the reference sheet (client details, tax rate, currency, bank accounts and the
document template).

The full flow records the invoice in the invoice sheet, copies the project's
Google Docs template, substitutes the invoice data into it, exports it as a
PDF into the configured Drive folder and writes both artifact links back to
the invoice row.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  INVOICE_SPREADSHEET_ID - Spreadsheet holding invoices and reference data
  INVOICE_FOLDER_ID - Drive folder generated documents go to`,
	Example: `  # Create an invoice from a payload file
  invoicer create invoice.json

  # Read the payload from stdin
  cat invoice.json | invoicer create -

  # Save the resulting artifact links to a file
  invoicer create invoice.json -o result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	createCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("create")

	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	form, err := readForm(args[0])
	if err != nil {
		log.Error().Err(err).Str("file", args[0]).Msg("Failed to read form payload")
		return err
	}

	log.Info().
		Str("project", form.ProjectName).
		Str("invoice_number", form.InvoiceNumber).
		Int("items", len(form.Items)).
		Msg("Starting invoice creation")

	ctx, cancel := commandContext(timeoutSecs, log)
	defer cancel()

	app, err := buildApp(ctx, log)
	if err != nil {
		return err
	}

	result, err := app.service.Create(ctx, form)
	if err != nil {
		return handleServiceError(err, log)
	}

	log.Info().
		Str("id", result.ID).
		Str("doc_url", result.DocumentURL).
		Str("pdf_url", result.PDFURL).
		Msg("Invoice created successfully")

	return outputJSON(result, outputPath, log)
}

// readForm parses the JSON form payload from a file, or stdin when the
// argument is "-".
func readForm(path string) (models.InvoiceForm, error) {
	var form models.InvoiceForm

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return form, fmt.Errorf("failed to read payload from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return form, fmt.Errorf("failed to read payload file: %w", err)
		}
	}

	if err := json.Unmarshal(data, &form); err != nil {
		return form, fmt.Errorf("payload is not valid JSON: %w", err)
	}
	return form, nil
}
