// Package config provides the schema, loader, validator and default values
// for hbstree.yaml, the project file describing what to render and where.
package config

// Config is the root struct matching hbstree.yaml.
type Config struct {
	APIVersion  string   `yaml:"apiVersion" json:"apiVersion"` // "hbstree/v1"
	Source      string   `yaml:"source" json:"source"`
	Destination string   `yaml:"destination" json:"destination"`
	Files       []string `yaml:"files" json:"files"`

	// Partials and Helpers are optional directories.
	Partials string `yaml:"partials,omitempty" json:"partials,omitempty"`
	Helpers  string `yaml:"helpers,omitempty" json:"helpers,omitempty"`

	// Context is shared by every template. ContextDir holds per-template data
	// files (pages/a.hbs -> ContextDir/pages/a.yaml) merged over it.
	Context    map[string]interface{} `yaml:"context,omitempty" json:"context,omitempty"`
	ContextDir string                 `yaml:"contextDir,omitempty" json:"contextDir,omitempty"`

	OutputExtension          string `yaml:"outputExtension" json:"outputExtension"`
	PreserveLeadingSeparator bool   `yaml:"preserveLeadingSeparator,omitempty" json:"preserveLeadingSeparator,omitempty"`
	BuiltinHelpers           *bool  `yaml:"builtinHelpers,omitempty" json:"builtinHelpers,omitempty"`
	Concurrency              int    `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
}

// UseBuiltinHelpers reports whether the bundled helper set is registered.
func (c *Config) UseBuiltinHelpers() bool {
	return c.BuiltinHelpers == nil || *c.BuiltinHelpers
}
