package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odysseus0/headlines/internal/config"
)

// Execute runs the command line in os.Args with the config found on disk.
func Execute() error {
	return newRootCmd(config.LoadConfig).Execute()
}

// NewRootCmd builds the command tree around an already-loaded config. A
// --config flag on the command line replaces it with that file's config.
func NewRootCmd(cfg config.Config) *cobra.Command {
	return newRootCmd(func(path string) (config.Config, error) {
		if path == "" {
			return cfg, nil
		}
		return config.LoadConfig(path)
	})
}

func newRootCmd(loadConfig func(path string) (config.Config, error)) *cobra.Command {
	var configPath string
	var outDir string
	var dbPath string
	var output string
	var verbose bool
	var outFmt OutputFormat
	var app *App

	output = string(OutputTable)

	getApp := func() *App { return app }
	getOutput := func() OutputFormat { return outFmt }

	cmd := &cobra.Command{
		Use:   "headlines [per_source|global|global_top]",
		Short: "Fetch news headlines from configured feeds into CSV and XLSX",
		Long: `Fetch headlines from every configured source, trying each source's feed
URLs in order until one yields entries. Results are deduplicated and written
to news_headlines.csv and news_headlines.xlsx.

With "global" (or "global_top") only the most recent dated headlines across
all sources are kept.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			parsedFmt, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			outFmt = parsedFmt
			if !requiresApp(cmd) || app != nil {
				return nil
			}

			cfg, err := loadConfig(strings.TrimSpace(configPath))
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("out-dir") {
				cfg.OutDir = outDir
			}
			if flags.Changed("db") {
				cfg.DBPath = dbPath
			}

			a, err := NewApp(cfg, newLogger(cmd.ErrOrStderr(), verbose))
			if err != nil {
				return err
			}
			app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				_ = app.Close()
				app = nil
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			return runHeadlines(cmd, app, token, getOutput())
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&outDir, "out-dir", "", "Directory for the CSV and XLSX files")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite history database path (empty disables history)")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", output, "Output format: table, json, opml")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every fetch attempt in detail")

	cmd.AddCommand(newSourcesCmd(getApp, getOutput))
	cmd.AddCommand(newHistoryCmd(getApp, getOutput))

	return cmd
}

func parseOutputFormat(raw string) (OutputFormat, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch OutputFormat(s) {
	case OutputTable, OutputJSON, OutputOPML:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("invalid output format %q (expected table|json|opml)", raw)
	}
}

func requiresApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		name := c.Name()
		if name == "help" || name == "completion" {
			return false
		}
	}
	return true
}
