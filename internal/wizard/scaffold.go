package wizard

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kjourdan1/hbstree/internal/config"
)

const sampleIndex = `<!doctype html>
<html>
<body>
{{#if title}}<h1>{{title}}</h1>{{/if}}
<p>Rendered by hbstree.</p>
</body>
</html>
`

const sampleIndexWithPartial = `<!doctype html>
<html>
<body>
{{> header}}
<p>Rendered by hbstree.</p>
</body>
</html>
`

const sampleHeader = `<header><h1>{{title}}</h1></header>
`

const sampleHelper = `module.exports = function (value) {
  return String(value).toUpperCase();
};
`

const sampleHelperUse = `<p>{{shout "hello"}}</p>
`

const sampleData = `title: Welcome
`

// ErrConfigExists is returned when hbstree.yaml exists and force is off.
var ErrConfigExists = fmt.Errorf("%s already exists", config.DefaultFileName)

// Scaffold writes hbstree.yaml under root and, when samples is set, a sample
// template plus one file per configured optional directory. Existing sample
// files are left alone. It returns the paths it created, relative to root.
func Scaffold(root string, cfg *config.Config, samples, force bool) ([]string, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	configPath := filepath.Join(root, config.DefaultFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return nil, ErrConfigExists
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", root, err)
	}
	if err := config.Save(cfg, configPath); err != nil {
		return nil, err
	}
	created := []string{config.DefaultFileName}
	if !samples {
		return created, nil
	}

	files := map[string]string{}
	index := sampleIndex
	if cfg.Partials != "" {
		index = sampleIndexWithPartial
		files[filepath.Join(cfg.Partials, "header.hbs")] = sampleHeader
	}
	if cfg.Helpers != "" {
		index += sampleHelperUse
		files[filepath.Join(cfg.Helpers, "shout.js")] = sampleHelper
	}
	if cfg.ContextDir != "" {
		files[filepath.Join(cfg.ContextDir, "index.yaml")] = sampleData
	}
	files[filepath.Join(cfg.Source, "index.hbs")] = index

	for _, rel := range sortedPaths(files) {
		path := filepath.Join(root, rel)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return created, fmt.Errorf("creating directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(path, []byte(files[rel]), 0o644); err != nil {
			return created, fmt.Errorf("writing %s: %w", rel, err)
		}
		created = append(created, filepath.ToSlash(rel))
	}
	return created, nil
}

func sortedPaths(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
