package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"invoicer/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicer",
	Short: "Invoicer CLI - create and manage invoices backed by Google Sheets",
	Long: `Invoicer CLI generates client invoices from project reference data.

Project defaults (client details, tax rate, currency, bank accounts and the
document template) live in a Google Sheet. Creating an invoice records it in
the invoice sheet, fills a Google Docs template and exports the result as a
PDF into a Drive folder.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Invoicer CLI executed")

		fmt.Println("Welcome to Invoicer CLI!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
