package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kjourdan1/hbstree/internal/exitcode"
	"github.com/kjourdan1/hbstree/internal/output"
	"github.com/kjourdan1/hbstree/internal/template"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the source tree into the destination",
	Long: `Runs one write cycle: loads partials and helpers, matches the configured
patterns in the source directory and renders every match into the
destination, creating parent directories as needed.

The first template that fails stops the build; files already written are
left in place. With --dry-run every template is rendered but nothing is
written.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var buildClean bool

func init() {
	buildCmd.Flags().BoolVar(&buildClean, "clean", false, "remove the destination directory before rendering")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	output.Init(verbosity > 0, jsonOutput)

	p, err := loadProject()
	if err != nil {
		return err
	}
	if isWithin(p.cfg.Source, p.cfg.Destination) {
		return exitcode.Wrap(exitcode.Validation,
			fmt.Errorf("destination %s must not be inside source %s", p.cfg.Destination, p.cfg.Source))
	}

	if buildClean && !dryRun {
		if isWithin(p.cfg.Destination, p.cfg.Source) || isWithin(p.cfg.Destination, p.root) {
			return exitcode.Wrap(exitcode.Validation,
				fmt.Errorf("refusing to clean %s: it contains the project", p.cfg.Destination))
		}
		output.Debug("cleaning destination", "dir", p.cfg.Destination)
		if err := os.RemoveAll(p.cfg.Destination); err != nil {
			return fmt.Errorf("cleaning %s: %w", p.cfg.Destination, err)
		}
	}

	w, err := p.writer()
	if err != nil {
		return err
	}
	var report *template.CycleReport
	err = output.WithSpinner("Rendering templates", func() error {
		var cerr error
		report, cerr = cycle(cmd.Context(), w, p.cfg.Destination)
		return cerr
	})
	if err != nil {
		return err
	}
	output.PrintCycle(cmd.OutOrStdout(), report)
	return nil
}
