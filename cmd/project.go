package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kjourdan1/hbstree/internal/config"
	"github.com/kjourdan1/hbstree/internal/exitcode"
	"github.com/kjourdan1/hbstree/internal/output"
	"github.com/kjourdan1/hbstree/internal/template"
)

// project is a loaded, schema-checked and resolved hbstree.yaml.
type project struct {
	configPath string
	root       string
	cfg        *config.Config
}

// loadProject loads the config file, applies HBSTREE_* overrides, checks it
// against the schema and resolves its paths against the config file's
// directory.
func loadProject() (*project, error) {
	path, err := filepath.Abs(localConfigPath())
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Config, err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Config,
			output.WrapErrorWithFix(err, "cannot load project configuration", "Run: hbstree init"))
	}
	applyOverrides(cfg)

	res, err := config.Validate(cfg)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Validation, fmt.Errorf("schema validation error: %w", err))
	}
	if !res.Valid {
		msgs := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Description))
		}
		return nil, exitcode.Wrap(exitcode.Validation,
			output.NewErrorWithFix(fmt.Sprintf("%s is invalid: %s", filepath.Base(path), strings.Join(msgs, "; ")), "Run: hbstree validate"))
	}

	root := filepath.Dir(path)
	resolved, err := config.Resolve(cfg, root)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Config, err)
	}
	return &project{configPath: path, root: root, cfg: resolved}, nil
}

// applyOverrides lets HBSTREE_DESTINATION and HBSTREE_CONCURRENCY replace the
// file values.
func applyOverrides(cfg *config.Config) {
	if v := strings.TrimSpace(settings.GetString("destination")); v != "" {
		cfg.Destination = v
	}
	if settings.IsSet("concurrency") {
		cfg.Concurrency = settings.GetInt("concurrency")
	}
}

func (p *project) writer() (*template.Writer, error) {
	opts, err := p.cfg.WriterOptions(output.Logger())
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Config, err)
	}
	opts.DryRun = dryRun

	w, err := template.New(template.DirTree(p.cfg.Source), p.cfg.Files, opts)
	if err != nil {
		var optErr *template.ConfigurationError
		if errors.As(err, &optErr) {
			return nil, exitcode.Wrap(exitcode.Config, err)
		}
		return nil, exitcode.Wrap(exitcode.Render, err)
	}
	return w, nil
}

func cycle(ctx context.Context, w *template.Writer, dest string) (*template.CycleReport, error) {
	report, err := w.Write(ctx, template.ResolveDirTree, dest)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Render, err)
	}
	return report, nil
}

// isWithin reports whether target equals base or lies below it.
func isWithin(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
