package config

const (
	APIVersion             = "hbstree/v1"
	DefaultFileName        = "hbstree.yaml"
	DefaultSource          = "src"
	DefaultDestination     = "dist"
	DefaultFilePattern     = "**/*.hbs"
	DefaultOutputExtension = "html"
)

// ApplyDefaults fills in default values for optional fields that were not
// specified in the YAML. It is called after parsing and before validation.
func ApplyDefaults(cfg *Config) {
	if cfg.APIVersion == "" {
		cfg.APIVersion = APIVersion
	}
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}
	if cfg.Destination == "" {
		cfg.Destination = DefaultDestination
	}
	if len(cfg.Files) == 0 {
		cfg.Files = []string{DefaultFilePattern}
	}
	if cfg.OutputExtension == "" {
		cfg.OutputExtension = DefaultOutputExtension
	}
	if cfg.BuiltinHelpers == nil {
		v := true
		cfg.BuiltinHelpers = &v
	}
	if cfg.Context == nil {
		cfg.Context = map[string]interface{}{}
	}
}
