package cmd

import (
	"github.com/spf13/cobra"
	"invoicer/internal/logger"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [invoice-id]",
	Short: "Delete an invoice and its generated documents",
	Long: `Delete an invoice row and move its generated Google Doc and PDF to
the Drive trash.

Artifacts that were already removed by hand do not fail the deletion; the
result carries an advisory note instead.`,
	Example: `  invoicer delete 6ba7b810-9dad-11d1-80b4-00c04fd430c8`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	deleteCmd.Flags().Int("timeout", 60, "Processing timeout in seconds")
}

func runDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("delete")

	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	ctx, cancel := commandContext(timeoutSecs, log)
	defer cancel()

	app, err := buildApp(ctx, log)
	if err != nil {
		return err
	}

	result, err := app.service.Delete(ctx, args[0])
	if err != nil {
		return handleServiceError(err, log)
	}

	if result.Success {
		log.Info().Str("id", args[0]).Msg("Invoice deleted")
	} else {
		log.Warn().Str("id", args[0]).Str("message", result.Message).Msg("Invoice not deleted")
	}

	return outputJSON(result, outputPath, log)
}
