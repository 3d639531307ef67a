package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kjourdan1/hbstree/internal/config"
	"github.com/kjourdan1/hbstree/internal/output"
	"github.com/kjourdan1/hbstree/internal/wizard"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new hbstree project",
	Long: `Writes hbstree.yaml in --root and, unless --no-samples is given, a sample
template plus one sample file per optional directory.

Without flags, an interactive wizard asks for each setting. Passing any
setting flag, --yes, --ci or CI=true skips the wizard; unset values fall back
to HBSTREE_* environment variables, then to defaults.

Generated structure (all optional directories selected):
  hbstree.yaml
  src/index.hbs
  partials/header.hbs
  helpers/shout.js
  data/index.yaml

This command will not overwrite an existing hbstree.yaml unless --force is
specified, and never overwrites existing sample files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd)
	},
}

var (
	initSource      string
	initDestination string
	initFiles       string
	initExtension   string
	initWith        string
	initNoBuiltins  bool
	initNoSamples   bool
	initForce       bool
	initYes         bool
)

var initSettingFlags = []string{"source", "destination", "files", "output-extension", "with", "no-builtins", "no-samples"}

func init() {
	initCmd.Flags().StringVar(&initSource, "source", config.DefaultSource, "source directory")
	initCmd.Flags().StringVar(&initDestination, "destination", config.DefaultDestination, "destination directory")
	initCmd.Flags().StringVar(&initFiles, "files", config.DefaultFilePattern, "comma-separated template patterns")
	initCmd.Flags().StringVar(&initExtension, "output-extension", config.DefaultOutputExtension, "extension replacing .hbs/.handlebars")
	initCmd.Flags().StringVar(&initWith, "with", wizard.FeaturePartials, "comma-separated optional directories (partials,helpers,data)")
	initCmd.Flags().BoolVar(&initNoBuiltins, "no-builtins", false, "do not register the built-in helpers")
	initCmd.Flags().BoolVar(&initNoSamples, "no-samples", false, "only write hbstree.yaml")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing hbstree.yaml")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "accept defaults without prompting")

	rootCmd.AddCommand(initCmd)
}

func resolveInitValue(cmd *cobra.Command, flagName, flagValue, envName, defaultValue string) string {
	if cmd != nil && cmd.Flags().Changed(flagName) {
		return strings.TrimSpace(flagValue)
	}
	if envValue := strings.TrimSpace(os.Getenv(envName)); envValue != "" {
		return envValue
	}
	if strings.TrimSpace(flagValue) != "" {
		return strings.TrimSpace(flagValue)
	}
	return defaultValue
}

func validateInitEnum(name, value string, allowed []string) error {
	v := strings.TrimSpace(strings.ToLower(value))
	for _, candidate := range allowed {
		if v == candidate {
			return nil
		}
	}
	return fmt.Errorf("invalid value for --%s: %q (allowed: %s)", name, value, strings.Join(allowed, ", "))
}

func interactiveInit(cmd *cobra.Command) bool {
	if initYes || effectiveCIMode() {
		return false
	}
	for _, name := range initSettingFlags {
		if cmd.Flags().Changed(name) {
			return false
		}
	}
	return true
}

func initFromFlags(cmd *cobra.Command) (*wizard.InitConfig, error) {
	in := &wizard.InitConfig{
		Source:          resolveInitValue(cmd, "source", initSource, "HBSTREE_SOURCE", config.DefaultSource),
		Destination:     resolveInitValue(cmd, "destination", initDestination, "HBSTREE_DESTINATION", config.DefaultDestination),
		Files:           wizard.SplitPatterns(resolveInitValue(cmd, "files", initFiles, "HBSTREE_FILES", config.DefaultFilePattern)),
		OutputExtension: strings.TrimPrefix(resolveInitValue(cmd, "output-extension", initExtension, "HBSTREE_OUTPUT_EXTENSION", config.DefaultOutputExtension), "."),
		Features:        wizard.SplitPatterns(resolveInitValue(cmd, "with", initWith, "HBSTREE_WITH", "")),
		BuiltinHelpers:  !initNoBuiltins,
		Samples:         !initNoSamples,
	}

	for _, v := range []struct{ flag, value string }{{"source", in.Source}, {"destination", in.Destination}} {
		if err := wizard.ValidateRelativeDir(v.value); err != nil {
			return nil, fmt.Errorf("invalid value for --%s: %w", v.flag, err)
		}
	}
	if err := wizard.ValidatePatterns(strings.Join(in.Files, ",")); err != nil {
		return nil, fmt.Errorf("invalid value for --files: %w", err)
	}
	if err := validateInitEnum("output-extension", in.OutputExtension, wizard.OutputExtensions); err != nil {
		return nil, err
	}
	for _, f := range in.Features {
		if err := validateInitEnum("with", f, []string{wizard.FeaturePartials, wizard.FeatureHelpers, wizard.FeatureData}); err != nil {
			return nil, err
		}
	}
	return in, nil
}

func runInit(cmd *cobra.Command) error {
	output.Init(verbosity > 0, jsonOutput)

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}
	if _, err := os.Stat(filepath.Join(absRoot, config.DefaultFileName)); err == nil && !initForce {
		return fmt.Errorf("%s already exists, use --force to overwrite", config.DefaultFileName)
	}

	var in *wizard.InitConfig
	if interactiveInit(cmd) {
		in, err = wizard.NewInitWizard(nil).Run()
		if err != nil {
			if errors.Is(err, wizard.ErrCancelled) {
				output.Warn("init wizard cancelled")
				return nil
			}
			return fmt.Errorf("running init wizard: %w", err)
		}
	} else {
		in, err = initFromFlags(cmd)
		if err != nil {
			return err
		}
	}

	cfg := in.ToConfig()
	validation, err := config.Validate(cfg)
	if err != nil {
		return fmt.Errorf("validating generated config: %w", err)
	}
	if !validation.Valid {
		return fmt.Errorf("generated config is invalid: %s: %s", validation.Errors[0].Field, validation.Errors[0].Description)
	}

	if dryRun {
		output.Info("dry run: nothing written", "root", absRoot)
		return nil
	}

	created, err := wizard.Scaffold(absRoot, cfg, in.Samples, initForce)
	if err != nil {
		return err
	}

	if jsonOutput {
		output.JSON(map[string]interface{}{"root": absRoot, "created": created})
		return nil
	}
	for _, f := range created {
		fmt.Fprintf(cmd.OutOrStdout(), "  created %s\n", f)
	}
	output.Success(fmt.Sprintf("project initialized in %s; next: hbstree build", absRoot))
	return nil
}
