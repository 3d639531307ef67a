package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/kjourdan1/hbstree/internal/config"
)

// Optional project directories offered by the wizard.
const (
	FeaturePartials = "partials"
	FeatureHelpers  = "helpers"
	FeatureData     = "data"
)

// InitConfig captures all inputs collected by the init wizard.
type InitConfig struct {
	Source          string
	Destination     string
	Files           []string
	OutputExtension string
	Features        []string
	BuiltinHelpers  bool
	Samples         bool
}

// Has reports whether an optional directory was selected.
func (c InitConfig) Has(feature string) bool {
	for _, f := range c.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// ToConfig converts wizard input to the config model.
func (c InitConfig) ToConfig() *config.Config {
	builtins := c.BuiltinHelpers
	cfg := &config.Config{
		APIVersion:      config.APIVersion,
		Source:          strings.TrimSpace(c.Source),
		Destination:     strings.TrimSpace(c.Destination),
		Files:           append([]string(nil), c.Files...),
		OutputExtension: c.OutputExtension,
		BuiltinHelpers:  &builtins,
	}
	if c.Has(FeaturePartials) {
		cfg.Partials = FeaturePartials
	}
	if c.Has(FeatureHelpers) {
		cfg.Helpers = FeatureHelpers
	}
	if c.Has(FeatureData) {
		cfg.ContextDir = FeatureData
	}

	config.ApplyDefaults(cfg)
	return cfg
}

// InitWizard drives the interactive init flow.
type InitWizard struct {
	prompter Prompter
}

// NewInitWizard returns an init wizard; if p is nil, survey is used.
func NewInitWizard(p Prompter) *InitWizard {
	if p == nil {
		p = NewSurveyPrompter()
	}
	return &InitWizard{prompter: p}
}

// Run collects wizard input in order.
func (w *InitWizard) Run() (*InitConfig, error) {
	cfg := &InitConfig{}
	var err error

	cfg.Source, err = w.prompter.Input("Source directory", config.DefaultSource, survey.ComposeValidators(ValidateRelativeDir))
	if err != nil {
		return nil, handlePromptErr(err)
	}

	cfg.Destination, err = w.prompter.Input("Destination directory", config.DefaultDestination, survey.ComposeValidators(ValidateRelativeDir))
	if err != nil {
		return nil, handlePromptErr(err)
	}

	patterns, err := w.prompter.Input("Template patterns (comma-separated)", config.DefaultFilePattern, survey.ComposeValidators(ValidatePatterns))
	if err != nil {
		return nil, handlePromptErr(err)
	}
	cfg.Files = SplitPatterns(patterns)

	cfg.OutputExtension, err = w.prompter.Select("Output extension", OutputExtensions, config.DefaultOutputExtension)
	if err != nil {
		return nil, handlePromptErr(err)
	}

	cfg.Features, err = w.prompter.MultiSelect("Optional directories",
		[]string{FeaturePartials, FeatureHelpers, FeatureData},
		[]string{FeaturePartials})
	if err != nil {
		return nil, handlePromptErr(err)
	}

	cfg.BuiltinHelpers, err = w.prompter.Confirm("Register built-in helpers (upper, lower, json, ...)?", true)
	if err != nil {
		return nil, handlePromptErr(err)
	}

	cfg.Samples, err = w.prompter.Confirm("Create sample files?", true)
	if err != nil {
		return nil, handlePromptErr(err)
	}

	return cfg, nil
}

func handlePromptErr(err error) error {
	if errors.Is(err, ErrCancelled) {
		return fmt.Errorf("wizard cancelled: %w", ErrCancelled)
	}
	return err
}
