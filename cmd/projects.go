package cmd

import (
	"github.com/spf13/cobra"
	"invoicer/internal/logger"
)

var projectsCmd = &cobra.Command{
	Use:   "projects [project-name]",
	Short: "List known projects or show one project's invoice defaults",
	Long: `List the project names found in the reference sheet, or show the
resolved invoice defaults of one project: client details, tax rate,
currency, payment terms, bank accounts and the document template.`,
	Example: `  # List all project names
  invoicer projects

  # Show the resolved defaults of one project
  invoicer projects "Acme Website"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)

	projectsCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	projectsCmd.Flags().Int("timeout", 60, "Processing timeout in seconds")
}

func runProjects(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("projects")

	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	ctx, cancel := commandContext(timeoutSecs, log)
	defer cancel()

	app, err := buildApp(ctx, log)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		ref, err := app.resolver.Resolve(ctx, args[0])
		if err != nil {
			return handleServiceError(err, log)
		}
		log.Info().Str("project", args[0]).Msg("Resolved project defaults")
		return outputJSON(ref, outputPath, log)
	}

	names, err := app.resolver.ProjectNames(ctx)
	if err != nil {
		return handleServiceError(err, log)
	}
	log.Info().Int("projects", len(names)).Msg("Listed projects")
	return outputJSON(names, outputPath, log)
}
