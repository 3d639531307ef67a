package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kjourdan1/hbstree/internal/exitcode"
	"github.com/kjourdan1/hbstree/internal/output"
	"github.com/kjourdan1/hbstree/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever templates, partials, helpers or data change",
	Long: `Runs a build, then watches the source, partials, helpers and context
directories and rebuilds after each burst of changes. A failing rebuild is
reported and watching continues. Stop with Ctrl+C.

Changes to hbstree.yaml itself need a restart.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchDebounce time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before a rebuild")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	output.Init(verbosity > 0, jsonOutput)

	p, err := loadProject()
	if err != nil {
		return err
	}
	if isWithin(p.cfg.Source, p.cfg.Destination) {
		return exitcode.Wrap(exitcode.Validation,
			fmt.Errorf("destination %s must not be inside source %s", p.cfg.Destination, p.cfg.Source))
	}
	w, err := p.writer()
	if err != nil {
		return err
	}

	rebuild := func(ctx context.Context, changed []string) error {
		if len(changed) > 0 {
			output.Step(fmt.Sprintf("%d change(s) detected, rebuilding", len(changed)))
		}
		report, err := cycle(ctx, w, p.cfg.Destination)
		if err != nil {
			return err
		}
		output.PrintCycle(cmd.OutOrStdout(), report)
		return nil
	}

	ctx := cmd.Context()
	if err := rebuild(ctx, nil); err != nil {
		output.PrintError(err)
	}

	dirs := []string{p.cfg.Source}
	for _, d := range []string{p.cfg.Partials, p.cfg.Helpers, p.cfg.ContextDir} {
		if d == "" {
			continue
		}
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			dirs = append(dirs, d)
		}
	}

	watcher := &watch.Watcher{
		Dirs:     dirs,
		Debounce: watchDebounce,
		Ignore:   watch.Within(p.cfg.Destination),
		Logger:   output.Logger(),
	}
	output.Info("watching for changes", "dirs", len(dirs))
	return watcher.Run(ctx, rebuild)
}
