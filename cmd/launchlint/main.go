package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ormasoftchile/launchlint/pkg/schemas"
	"github.com/ormasoftchile/launchlint/pkg/validator"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

var (
	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

var (
	flagIsolated bool
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "launchlint [paths...]",
	Short: "Validate ROS 2 YAML launch and config files",
	Long: `launchlint — validate ROS 2 YAML launch and parameter config files.

Parses each file with duplicate-key detection, checks its shape against a
JSON Schema, resolves $(find-pkg-share ...) style substitutions and
verifies that referenced files exist. YAML files are collected from
launch/, test/, config/ and configs/ directories.

Exit codes:
  0 — no error-severity issues (including: no files found)
  1 — at least one error-severity issue
  2 — fatal startup problem (schema compilation failed)`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	level := log.WarnLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})

	files := validator.CollectFiles(args)
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "No YAML files found.")
		return nil
	}

	runner, err := validator.New(validator.Options{
		Isolated: flagIsolated,
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "launchlint: %v\n", err)
		os.Exit(2)
	}

	result := runner.Run(files)

	for _, issue := range result.Issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", issue.Path, issue.Kind, issue.Message)
	}

	if result.HasErrors() {
		fmt.Fprintln(os.Stderr, failStyle.Render(fmt.Sprintf(
			"✗ %d error(s) in %d file(s) (%d launch, %d config checked)",
			result.ErrorCount(), len(result.FilesWithErrors()),
			result.LaunchFiles, result.ConfigFiles)))
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, okStyle.Render(fmt.Sprintf(
		"✓ %d launch file(s), %d config file(s) validated, no errors",
		result.LaunchFiles, result.ConfigFiles)))
	return nil
}

// --- schema export ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Schema operations",
}

var schemaExportConfig bool

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the launch (or, with --config, the parameter-config) JSON Schema to stdout",
	RunE:  runSchemaExport,
}

func runSchemaExport(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if schemaExportConfig {
		data = schemas.ConfigSchemaJSON()
	} else {
		data, err = schemas.GenerateLaunchSchema()
	}
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	var out json.RawMessage = data
	formatted, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(string(formatted))
	return nil
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("launchlint %s (build: %s)\n", version, commit)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&flagIsolated, "isolated", false,
		"Suppress existence and package-resolution failures (for checkouts without the ROS environment)")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false,
		"List every collected file before processing")

	schemaExportCmd.Flags().BoolVar(&schemaExportConfig, "config", false,
		"Export the parameter-config schema instead of the launch schema")
	schemaCmd.AddCommand(schemaExportCmd)

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "launchlint: %v\n", err)
		os.Exit(1)
	}
}
