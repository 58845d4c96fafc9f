package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jiralog/jiralog/internal/config"
	"github.com/jiralog/jiralog/internal/console"
	"github.com/jiralog/jiralog/internal/jira"
	"github.com/jiralog/jiralog/internal/timesheet"
)

var (
	csvPath string
	dryRun  bool
	limit   int
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "jiralog",
	Short: "Log timesheet entries from a CSV file to Jira",
	Long: `jiralog reads timesheet rows from a CSV file and creates one worklog
per row via the Jira Cloud REST API v3.

Credentials are read from the JIRA_EMAIL, JIRA_API_TOKEN and JIRA_DOMAIN
environment variables, or from a .env file in the working directory.`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&csvPath, "csv", "timesheet_data.csv", "CSV file to read")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be logged without calling Jira")
	rootCmd.Flags().IntVar(&limit, "limit", 0, "Process at most this many entries (0 = all)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	printer := console.NewPrinter(os.Stdout)
	printer.Header()
	if dryRun {
		printer.DryRunBanner()
	}
	printer.Blank()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false, Prefix: "jiralog"})
	logger.SetLevel(log.WarnLevel)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		printer.Errorf("%v", err)
		printer.Hint("Please check your .env file and ensure all required fields are filled in")
		printer.Hint("You can create an API token at: " + config.TokenManagementURL)
		os.Exit(1)
	}
	printer.Config(cfg.Domain, cfg.Email)

	ctx := context.Background()
	client := jira.NewClient(ctx, cfg, jira.WithLogger(logger))
	processor := timesheet.NewProcessor(client, printer, logger)

	result, err := processor.Run(ctx, timesheet.Options{
		CSVPath: csvPath,
		DryRun:  dryRun,
		Limit:   limit,
	})
	if err != nil {
		printer.Errorf("%v", err)
		os.Exit(1)
	}

	if dryRun {
		printer.DryRunTrailer()
	}
	if !dryRun && result.Failed > 0 {
		os.Exit(2)
	}
	return nil
}
