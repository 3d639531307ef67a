package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/hbstree/internal/config"
	"github.com/kjourdan1/hbstree/internal/exitcode"
	"github.com/kjourdan1/hbstree/internal/output"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate project configuration",
	Long: `Runs a validation suite:

  1. hbstree.yaml schema validation
  2. Cross-validation (directories exist, patterns match, destination
     outside the source tree)

Used in CI as the first gate before build.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

var (
	validateStrict bool
)

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "fail on warnings")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	output.Init(verbosity > 0, jsonOutput)

	configPath := localConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		return exitcode.Wrap(exitcode.Config, fmt.Errorf("reading config %q: %w", configPath, err))
	}
	cfg, err := config.Parse(data)
	if err != nil {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("loading config %q: %w", configPath, err))
	}

	// The raw document is validated so that unknown keys are reported.
	schemaResult, err := config.ValidateYAML(data)
	if err != nil {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("schema validation error: %w", err))
	}

	checks := make([]config.CrossCheck, 0, 16)
	if schemaResult.Valid {
		checks = append(checks, config.CrossCheck{Name: "schema", Status: "pass", Message: "hbstree.yaml matches schema"})
	} else {
		for _, e := range schemaResult.Errors {
			checks = append(checks, config.CrossCheck{Name: "schema", Status: "error", Message: fmt.Sprintf("%s: %s", e.Field, e.Description)})
		}
	}

	crossChecks, err := config.ValidateCross(cfg, filepath.Dir(configPath))
	if err != nil {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("cross validation failed: %w", err))
	}
	checks = append(checks, crossChecks...)

	errorsCount := 0
	warningsCount := 0
	for _, c := range checks {
		switch c.Status {
		case "error":
			errorsCount++
		case "warning":
			warningsCount++
		}
	}

	if jsonOutput {
		output.JSON(map[string]interface{}{
			"config":   configPath,
			"checks":   checks,
			"errors":   errorsCount,
			"warnings": warningsCount,
		})
	} else {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "🔎 Validating: %s\n\n", configPath)
		for _, c := range checks {
			icon := "✅"
			if c.Status == "warning" {
				icon = "⚠️"
			}
			if c.Status == "error" {
				icon = "❌"
			}
			fmt.Fprintf(out, "  %s %s: %s\n", icon, c.Name, c.Message)
		}
		fmt.Fprintln(out)
	}

	if errorsCount > 0 {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("%d validation error(s) found", errorsCount))
	}
	if warningsCount > 0 && validateStrict {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("%d warning(s) found (strict mode)", warningsCount))
	}

	if !jsonOutput {
		color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(), "✅ Validation passed (%d checks, %d warnings)\n", len(checks), warningsCount)
	}

	return nil
}
