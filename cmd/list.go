package cmd

import (
	"github.com/spf13/cobra"
	"invoicer/internal/logger"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recorded invoices",
	Long: `List all recorded invoices as JSON.

Each entry carries the invoice id, project, number, dates, total and
currency. The listing is served from a short-lived cache; creating or
deleting an invoice refreshes it.`,
	Example: `  # List invoices to stdout
  invoicer list

  # Save the listing to a file
  invoicer list -o invoices.json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	listCmd.Flags().Int("timeout", 60, "Processing timeout in seconds")
}

func runList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("list")

	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	ctx, cancel := commandContext(timeoutSecs, log)
	defer cancel()

	app, err := buildApp(ctx, log)
	if err != nil {
		return err
	}

	summaries, err := app.service.List(ctx)
	if err != nil {
		return handleServiceError(err, log)
	}

	log.Info().Int("invoices", len(summaries)).Msg("Listed invoices")

	return outputJSON(summaries, outputPath, log)
}
