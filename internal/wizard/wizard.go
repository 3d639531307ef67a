// Package wizard drives the interactive prompts of hbstree init.
package wizard

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/bmatcuk/doublestar/v4"
)

// ErrCancelled is returned when the user aborts the wizard with Ctrl+C.
var ErrCancelled = terminal.InterruptErr

// OutputExtensions are the destination extensions offered by the wizard.
var OutputExtensions = []string{"html", "htm", "md", "txt", "xml", "json", "yaml"}

// ValidateNonEmpty ensures a required value is provided.
func ValidateNonEmpty(value interface{}) error {
	if strings.TrimSpace(fmt.Sprintf("%v", value)) == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}

// ValidateRelativeDir accepts a non-empty path that stays inside the project.
func ValidateRelativeDir(value interface{}) error {
	v := strings.TrimSpace(fmt.Sprintf("%v", value))
	if v == "" {
		return fmt.Errorf("value is required")
	}
	if filepath.IsAbs(v) {
		return fmt.Errorf("path must be relative to the project root")
	}
	clean := filepath.ToSlash(filepath.Clean(v))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("path must stay inside the project root")
	}
	return nil
}

// ValidatePatterns accepts a comma-separated list of relative glob patterns.
func ValidatePatterns(value interface{}) error {
	patterns := SplitPatterns(fmt.Sprintf("%v", value))
	if len(patterns) == 0 {
		return fmt.Errorf("at least one pattern is required")
	}
	for _, p := range patterns {
		if path.IsAbs(p) {
			return fmt.Errorf("pattern %q must be relative", p)
		}
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid pattern %q", p)
		}
	}
	return nil
}

// SplitPatterns splits a comma-separated pattern list, dropping blanks.
func SplitPatterns(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, filepath.ToSlash(p))
		}
	}
	return out
}

// Prompter abstracts user interaction for testing.
type Prompter interface {
	Input(label, defaultValue string, validator survey.Validator) (string, error)
	Select(label string, options []string, defaultValue string) (string, error)
	Confirm(label string, defaultValue bool) (bool, error)
	MultiSelect(label string, options []string, defaults []string) ([]string, error)
}

// SurveyPrompter implements Prompter with survey/v2.
type SurveyPrompter struct{}

// NewSurveyPrompter returns a survey-based prompter.
func NewSurveyPrompter() *SurveyPrompter {
	return &SurveyPrompter{}
}

func (p *SurveyPrompter) Input(label, defaultValue string, validator survey.Validator) (string, error) {
	var value string
	err := survey.AskOne(&survey.Input{
		Message: label,
		Default: defaultValue,
	}, &value, survey.WithValidator(validator))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func (p *SurveyPrompter) Select(label string, options []string, defaultValue string) (string, error) {
	var value string
	err := survey.AskOne(&survey.Select{
		Message: label,
		Options: options,
		Default: defaultValue,
	}, &value)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (p *SurveyPrompter) Confirm(label string, defaultValue bool) (bool, error) {
	var value bool
	err := survey.AskOne(&survey.Confirm{
		Message: label,
		Default: defaultValue,
	}, &value)
	if err != nil {
		return false, err
	}
	return value, nil
}

func (p *SurveyPrompter) MultiSelect(label string, options []string, defaults []string) ([]string, error) {
	var selected []string
	err := survey.AskOne(&survey.MultiSelect{
		Message: label,
		Options: options,
		Default: defaults,
	}, &selected)
	if err != nil {
		return nil, err
	}
	return selected, nil
}
