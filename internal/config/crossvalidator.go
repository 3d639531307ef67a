package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kjourdan1/hbstree/internal/template"
)

// CrossCheck is a validation result entry for filesystem and cross-field checks.
type CrossCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // pass | warning | error
	Message string `json:"message"`
}

// ValidateCross runs checks the JSON schema cannot express: directories must
// exist, patterns must be usable and the destination must stay out of the
// source tree. Relative paths are taken from root.
func ValidateCross(cfg *Config, root string) ([]CrossCheck, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	checks := make([]CrossCheck, 0, 8)
	add := func(name, status, message string) {
		checks = append(checks, CrossCheck{Name: name, Status: status, Message: message})
	}

	source := resolvePath(root, cfg.Source)
	sourceOK := dirExists(source)
	if sourceOK {
		add("source-dir", "pass", fmt.Sprintf("source directory %s exists", cfg.Source))
	} else {
		add("source-dir", "error", fmt.Sprintf("source directory not found: %s", cfg.Source))
	}

	dest := resolvePath(root, cfg.Destination)
	if strings.TrimSpace(cfg.Destination) != "" && isWithin(source, dest) {
		add("destination-dir", "error", fmt.Sprintf("destination %s must not be inside source %s", cfg.Destination, cfg.Source))
	} else {
		add("destination-dir", "pass", "destination is outside the source tree")
	}

	for _, opt := range []struct{ name, dir string }{
		{"partials-dir", cfg.Partials},
		{"helpers-dir", cfg.Helpers},
		{"context-dir", cfg.ContextDir},
	} {
		if strings.TrimSpace(opt.dir) == "" {
			continue
		}
		if dirExists(resolvePath(root, opt.dir)) {
			add(opt.name, "pass", fmt.Sprintf("%s exists", opt.dir))
		} else {
			add(opt.name, "error", fmt.Sprintf("directory not found: %s", opt.dir))
		}
	}

	patternsOK := true
	for _, p := range cfg.Files {
		p = filepath.ToSlash(strings.TrimSpace(p))
		switch {
		case p == "":
			add("file-patterns", "error", "file patterns must not be empty")
			patternsOK = false
		case path.IsAbs(p) || filepath.IsAbs(p):
			add("file-patterns", "error", fmt.Sprintf("pattern %q must be relative to the source directory", p))
			patternsOK = false
		case !doublestar.ValidatePattern(p):
			add("file-patterns", "error", fmt.Sprintf("invalid file pattern %q", p))
			patternsOK = false
		}
	}
	if patternsOK && sourceOK {
		if matched, err := template.Match(cfg.Files, source); err != nil {
			add("file-patterns", "warning", err.Error())
		} else {
			add("file-patterns", "pass", fmt.Sprintf("%d template(s) matched", len(matched)))
		}
	}

	ext := strings.TrimPrefix(cfg.OutputExtension, ".")
	if ext == "hbs" || ext == "handlebars" {
		add("output-extension", "warning", fmt.Sprintf("output extension %q is itself a template extension", cfg.OutputExtension))
	}

	if !hasStatus(checks, "error") {
		add("cross-check-summary", "pass", "cross checks passed")
	}

	return checks, nil
}

func hasStatus(checks []CrossCheck, status string) bool {
	for _, c := range checks {
		if c.Status == status {
			return true
		}
	}
	return false
}

func dirExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, statErr := os.Stat(path)
	return statErr == nil && info.IsDir()
}

// isWithin reports whether target equals base or lies below it.
func isWithin(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
