package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kjourdan1/hbstree/internal/doctor"
	"github.com/kjourdan1/hbstree/internal/exitcode"
	"github.com/kjourdan1/hbstree/internal/output"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the project is ready to build",
	Long: `Verify that hbstree.yaml loads and matches the schema, that the source,
destination and optional directories are usable, and that every partial,
helper and template compiles.

Each check reports ✅ (pass), ❌ (fail), ⚠️ (warning) or ⏭️ (skipped) with an
actionable fix suggestion.

Exit code 0 if all critical checks pass, 2 otherwise.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	output.Init(verbosity > 0, jsonOutput)

	configPath := localConfigPath()
	summary := doctor.RunAll(cmd.Context(), doctor.Env{
		Root:       filepath.Dir(configPath),
		ConfigPath: configPath,
	})

	doctor.PrintResults(cmd.OutOrStdout(), summary)

	if summary.HasFailure {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("doctor found %d failing check(s)", summary.TotalFail))
	}
	return nil
}
