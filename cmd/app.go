package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"invoicer/internal/cache"
	"invoicer/internal/config"
	"invoicer/internal/gdocs"
	"invoicer/internal/invoice"
	"invoicer/internal/reference"
	"invoicer/internal/render"
	"invoicer/internal/sheetstore"
)

// app bundles the collaborators a command needs after wiring.
type app struct {
	cfg      *config.Config
	service  *invoice.Service
	resolver *reference.Resolver
}

// buildApp wires the full invoice stack from the environment configuration.
func buildApp(ctx context.Context, log zerolog.Logger) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Configuration is incomplete")
		return nil, fmt.Errorf("configuration is incomplete. Please check your .env file:\n"+
			"  INVOICE_SPREADSHEET_ID - the spreadsheet holding invoices and reference data\n"+
			"  INVOICE_FOLDER_ID - the Drive folder generated documents go to\n"+
			"Original error: %w", err)
	}

	store, err := sheetstore.NewService(ctx, cfg.SpreadsheetID)
	if err != nil {
		return nil, handleCredentialError(err, log)
	}

	docsService, err := gdocs.NewService(ctx)
	if err != nil {
		return nil, handleCredentialError(err, log)
	}

	resolver := reference.NewResolver(store, cfg.ListsSheet)

	service := invoice.NewService(
		resolver,
		store,
		docsService,
		render.NewEngine(),
		docsService,
		cache.NewMemory(cfg.ListCacheTTL),
		invoice.Options{
			InvoicesSheet: cfg.InvoicesSheet,
			FolderID:      cfg.OutputFolderID,
			SettleDelay:   cfg.ExportSettleDelay,
		},
	)

	return &app{cfg: cfg, service: service, resolver: resolver}, nil
}

// commandContext creates a context with timeout and signal handling.
func commandContext(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handleCredentialError turns Google bootstrap failures into actionable
// messages.
func handleCredentialError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Failed to create Google API client")

	errStr := err.Error()
	if strings.Contains(errStr, "GOOGLE_APPLICATION_CREDENTIALS") ||
		strings.Contains(errStr, "GOOGLE_CREDENTIALS") ||
		strings.Contains(errStr, "credentials") {
		return fmt.Errorf("missing Google credentials. Please set one of:\n"+
			"  GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n"+
			"  GOOGLE_CREDENTIALS='<json-credentials>'\n"+
			"Original error: %w", err)
	}
	return fmt.Errorf("failed to create Google API client: %w", err)
}

// handleServiceError provides user-friendly messages for invoice failures.
func handleServiceError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Invoice operation failed")

	var verr *invoice.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Errorf("the invoice payload is invalid:\n  - %s",
			strings.Join(verr.Messages(), "\n  - "))
	case errors.Is(err, reference.ErrProjectNotFound):
		return fmt.Errorf("project not found in the reference sheet. Run 'invoicer projects' to list known projects")
	case errors.Is(err, reference.ErrNoTemplateName),
		errors.Is(err, reference.ErrNoTemplateFound):
		return fmt.Errorf("the project has no usable invoice template configured: %w", err)
	case errors.Is(err, invoice.ErrInvoiceNotFound):
		return fmt.Errorf("invoice not found")
	case errors.Is(err, invoice.ErrEmptyExport):
		return fmt.Errorf("the exported PDF came back empty. The document may still be rendering, try increasing EXPORT_SETTLE_DELAY")
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("the operation timed out. Try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("the operation was canceled")
	default:
		return err
	}
}

// outputJSON pretty-prints v to the output file, or stdout when path is "".
func outputJSON(v interface{}, outputPath string, log zerolog.Logger) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal output to JSON")
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(jsonData)).
			Msg("Output written to file")
		return nil
	}

	if _, err := os.Stdout.Write(jsonData); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Println()
	return nil
}
