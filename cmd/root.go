// Package cmd implements the Cobra-based CLI for hbstree.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kjourdan1/hbstree/internal/config"
)

var (
	cfgFile    string
	rootDir    string
	verbosity  int
	dryRun     bool
	jsonOutput bool // --json flag for machine-readable output
	ciMode     bool

	// settings layers HBSTREE_* environment variables over hbstree.yaml.
	settings = viper.New()
)

// rootCmd is the top-level command for hbstree.
var rootCmd = &cobra.Command{
	Use:   "hbstree",
	Short: "hbstree – render a tree of Handlebars templates",
	Long: `hbstree renders every template of a source directory that matches a set of
glob patterns into a destination directory, mirroring the relative layout.

Templates are rendered with Handlebars. Partials are loaded from a directory
of .hbs/.handlebars files and helpers from a directory of CommonJS .js files;
nested files register under their relative path (forms/input).

Project configuration lives in hbstree.yaml.

Workflow: init → validate → build (or watch)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Cancelling ctx stops long-running commands
// such as watch.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: hbstree.yaml in --root)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "project root directory")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v, -vv)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "render without writing any file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output results as JSON (machine-readable)")
	rootCmd.PersistentFlags().BoolVar(&ciMode, "ci", false, "strict non-interactive mode (never prompts)")
}

func effectiveCIMode() bool {
	if ciMode {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(os.Getenv("CI")), "true")
}

// initConfig rebuilds settings for this invocation so that nothing leaks
// between commands run in the same process.
func initConfig() {
	settings = viper.New()
	if cfgFile != "" {
		settings.SetConfigFile(cfgFile)
	} else {
		settings.SetConfigName(strings.TrimSuffix(config.DefaultFileName, filepath.Ext(config.DefaultFileName)))
		settings.SetConfigType("yaml")
		settings.AddConfigPath(rootDir)
		settings.AddConfigPath("$HOME")
	}
	settings.SetEnvPrefix("HBSTREE")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	_ = settings.BindPFlag("dry-run", rootCmd.PersistentFlags().Lookup("dry-run"))
	_ = settings.BindPFlag("ci", rootCmd.PersistentFlags().Lookup("ci"))

	if err := settings.ReadInConfig(); err == nil && verbosity > 0 {
		fmt.Fprintln(os.Stderr, "Using config file:", settings.ConfigFileUsed())
	}
	dryRun = settings.GetBool("dry-run")
	ciMode = settings.GetBool("ci")
}

// localConfigPath returns the config file for this invocation: --config,
// then the file viper located, then hbstree.yaml under --root.
func localConfigPath() string {
	if strings.TrimSpace(cfgFile) != "" {
		return cfgFile
	}
	if used := settings.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(rootDir, config.DefaultFileName)
}
