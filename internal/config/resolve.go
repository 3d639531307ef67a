package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/kjourdan1/hbstree/internal/datactx"
	"github.com/kjourdan1/hbstree/internal/template"
)

// Resolve returns a copy of cfg whose directory fields are absolute, taking
// relative paths from root.
func Resolve(cfg *Config, root string) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving config root %s: %w", root, err)
	}

	out := *cfg
	out.Files = append([]string(nil), cfg.Files...)
	out.Source = resolvePath(absRoot, cfg.Source)
	out.Destination = resolvePath(absRoot, cfg.Destination)
	out.Partials = resolvePath(absRoot, cfg.Partials)
	out.Helpers = resolvePath(absRoot, cfg.Helpers)
	out.ContextDir = resolvePath(absRoot, cfg.ContextDir)
	return &out, nil
}

func resolvePath(root, p string) string {
	if strings.TrimSpace(p) == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, filepath.FromSlash(p))
}

// WriterOptions builds writer options from a resolved config.
func (c *Config) WriterOptions(logger *log.Logger) (template.Options, error) {
	engine := template.NewHandlebars()
	if c.UseBuiltinHelpers() {
		if err := engine.RegisterHelpers(template.BuiltinHelpers()); err != nil {
			return template.Options{}, fmt.Errorf("registering built-in helpers: %w", err)
		}
	}

	opts := template.Options{
		DestFile:                 template.DestFileWithExtension(c.OutputExtension),
		Engine:                   engine,
		PreserveLeadingSeparator: c.PreserveLeadingSeparator,
		Concurrency:              c.Concurrency,
		Logger:                   logger,
	}

	if c.ContextDir != "" {
		opts.Context = template.PerFileContext(datactx.Loader{Static: c.Context, Dir: c.ContextDir}.Context)
	} else {
		opts.Context = template.StaticContext(c.Context)
	}
	if c.Partials != "" {
		opts.Partials = template.PartialsFromDir(c.Partials)
	}
	if c.Helpers != "" {
		opts.Helpers = template.HelpersFromDir(c.Helpers)
	}
	return opts, nil
}
