// Package doctor implements readiness checks for an hbstree project.
//
// It verifies that hbstree.yaml loads and matches the schema, that the source
// tree and configured directories exist, and that every template, partial
// and helper compiles before a build is attempted.
package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/kjourdan1/hbstree/internal/config"
	"github.com/kjourdan1/hbstree/internal/template"
)

// Status represents the outcome of a single check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusWarn Status = "warn"
	StatusSkip Status = "skip"
)

// CheckResult is the outcome of running a single check.
type CheckResult struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Status   Status `json:"status"`
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Env locates the project under inspection.
type Env struct {
	Root       string
	ConfigPath string
}

// Project carries what earlier checks learned to the ones that follow.
type Project struct {
	Env      Env
	Config   *config.Config
	Resolved *config.Config
	Matched  []string
	Engine   template.Engine
}

// Check defines a single readiness check.
type Check struct {
	Name     string
	Category string // "config", "layout", "templates"
	Critical bool   // if true, failure => non-zero exit
	Run      func(ctx context.Context, p *Project) CheckResult
}

// Summary holds the aggregated results of all checks.
type Summary struct {
	Results    []CheckResult `json:"results"`
	TotalPass  int           `json:"totalPass"`
	TotalFail  int           `json:"totalFail"`
	TotalWarn  int           `json:"totalWarn"`
	TotalSkip  int           `json:"totalSkip"`
	HasFailure bool          `json:"hasFailure"`
}

// RunAll executes all checks in order and returns a summary.
func RunAll(ctx context.Context, env Env) Summary {
	checks := AllChecks()
	p := &Project{Env: env}
	results := make([]CheckResult, 0, len(checks))
	for _, c := range checks {
		r := c.Run(ctx, p)
		r.Name = c.Name
		r.Category = c.Category
		results = append(results, r)
	}
	return buildSummary(results, checks)
}

func buildSummary(results []CheckResult, checks []Check) Summary {
	s := Summary{Results: results}
	for i, r := range results {
		switch r.Status {
		case StatusPass:
			s.TotalPass++
		case StatusFail:
			s.TotalFail++
			if checks[i].Critical {
				s.HasFailure = true
			}
		case StatusWarn:
			s.TotalWarn++
		case StatusSkip:
			s.TotalSkip++
		}
	}
	return s
}

// AllChecks returns the ordered list of checks. Later checks depend on the
// Project state filled in by earlier ones and skip when it is missing.
func AllChecks() []Check {
	return []Check{
		checkConfigFile(),
		checkConfigSchema(),
		checkSourceDir(),
		checkFilePatterns(),
		checkDestination(),
		checkContextDir(),
		checkPartialsAndHelpers(),
		checkTemplatesCompile(),
	}
}

func skipped(msg string) CheckResult {
	return CheckResult{Status: StatusSkip, Message: msg}
}

// --- Configuration checks ---

func checkConfigFile() Check {
	return Check{
		Name:     "config-file",
		Category: "config",
		Critical: true,
		Run: func(_ context.Context, p *Project) CheckResult {
			cfg, err := config.Load(p.Env.ConfigPath)
			if err != nil {
				return CheckResult{
					Status:  StatusFail,
					Message: fmt.Sprintf("cannot load %s", p.Env.ConfigPath),
					Fix:     "Run: hbstree init",
				}
			}
			resolved, err := config.Resolve(cfg, p.Env.Root)
			if err != nil {
				return CheckResult{Status: StatusFail, Message: err.Error()}
			}
			p.Config, p.Resolved = cfg, resolved
			return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%s loaded", filepath.Base(p.Env.ConfigPath))}
		},
	}
}

func checkConfigSchema() Check {
	return Check{
		Name:     "config-schema",
		Category: "config",
		Critical: true,
		Run: func(_ context.Context, p *Project) CheckResult {
			if p.Config == nil {
				return skipped("schema check skipped (no config)")
			}
			res, err := config.Validate(p.Config)
			if err != nil {
				return CheckResult{Status: StatusFail, Message: err.Error()}
			}
			if !res.Valid {
				first := res.Errors[0]
				return CheckResult{
					Status:  StatusFail,
					Message: fmt.Sprintf("%d schema error(s), first: %s: %s", len(res.Errors), first.Field, first.Description),
					Fix:     "Run: hbstree validate",
				}
			}
			return CheckResult{Status: StatusPass, Message: "config matches schema " + config.APIVersion}
		},
	}
}

// --- Layout checks ---

func checkSourceDir() Check {
	return Check{
		Name:     "source-dir",
		Category: "layout",
		Critical: true,
		Run: func(_ context.Context, p *Project) CheckResult {
			if p.Resolved == nil {
				return skipped("source check skipped (no config)")
			}
			if !isDir(p.Resolved.Source) {
				return CheckResult{
					Status:  StatusFail,
					Message: fmt.Sprintf("source directory %s not found", p.Config.Source),
					Fix:     fmt.Sprintf("Create %s or update source in hbstree.yaml", p.Config.Source),
				}
			}
			return CheckResult{Status: StatusPass, Message: fmt.Sprintf("source directory %s exists", p.Config.Source)}
		},
	}
}

func checkFilePatterns() Check {
	return Check{
		Name:     "file-patterns",
		Category: "layout",
		Critical: true,
		Run: func(_ context.Context, p *Project) CheckResult {
			if p.Resolved == nil || !isDir(p.Resolved.Source) {
				return skipped("pattern check skipped (no source directory)")
			}
			matched, err := template.Match(p.Resolved.Files, p.Resolved.Source)
			if err != nil {
				return CheckResult{
					Status:  StatusFail,
					Message: err.Error(),
					Fix:     "Adjust files in hbstree.yaml so every pattern matches a template",
				}
			}
			p.Matched = matched
			return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%d template(s) matched", len(matched))}
		},
	}
}

func checkDestination() Check {
	return Check{
		Name:     "destination",
		Category: "layout",
		Critical: true,
		Run: func(_ context.Context, p *Project) CheckResult {
			if p.Resolved == nil {
				return skipped("destination check skipped (no config)")
			}
			dir := nearestExistingDir(p.Resolved.Destination)
			f, err := os.CreateTemp(dir, ".hbstree-doctor-*")
			if err != nil {
				return CheckResult{
					Status:  StatusFail,
					Message: fmt.Sprintf("destination %s is not writable", p.Config.Destination),
					Fix:     fmt.Sprintf("Check permissions on %s", dir),
				}
			}
			name := f.Name()
			_ = f.Close()
			_ = os.Remove(name)
			return CheckResult{Status: StatusPass, Message: fmt.Sprintf("destination %s is writable", p.Config.Destination)}
		},
	}
}

func checkContextDir() Check {
	return Check{
		Name:     "context-dir",
		Category: "layout",
		Critical: false,
		Run: func(_ context.Context, p *Project) CheckResult {
			if p.Resolved == nil || p.Resolved.ContextDir == "" {
				return skipped("no contextDir configured")
			}
			if !isDir(p.Resolved.ContextDir) {
				return CheckResult{
					Status:  StatusWarn,
					Message: fmt.Sprintf("context directory %s not found; templates get the static context only", p.Config.ContextDir),
					Fix:     fmt.Sprintf("Create %s or remove contextDir", p.Config.ContextDir),
				}
			}
			return CheckResult{Status: StatusPass, Message: fmt.Sprintf("context directory %s exists", p.Config.ContextDir)}
		},
	}
}

// --- Template checks ---

func checkPartialsAndHelpers() Check {
	return Check{
		Name:     "partials-helpers",
		Category: "templates",
		Critical: true,
		Run: func(_ context.Context, p *Project) CheckResult {
			if p.Resolved == nil {
				return skipped("partial and helper check skipped (no config)")
			}
			opts, err := p.Resolved.WriterOptions(log.New(io.Discard))
			if err != nil {
				return CheckResult{Status: StatusFail, Message: err.Error()}
			}
			w, err := template.New(template.DirTree(p.Resolved.Source), p.Resolved.Files, opts)
			if err != nil {
				return CheckResult{
					Status:  StatusFail,
					Message: err.Error(),
					Fix:     "Fix the partial or helper named in the message",
				}
			}
			p.Engine = w.Engine()
			h, _ := p.Engine.(*template.Handlebars)
			if h == nil {
				return CheckResult{Status: StatusPass, Message: "partials and helpers loaded"}
			}
			return CheckResult{
				Status:  StatusPass,
				Message: fmt.Sprintf("%d partial(s) and %d helper(s) loaded", len(h.Partials()), len(h.Helpers())),
			}
		},
	}
}

func checkTemplatesCompile() Check {
	return Check{
		Name:     "templates-compile",
		Category: "templates",
		Critical: true,
		Run: func(ctx context.Context, p *Project) CheckResult {
			if p.Engine == nil || len(p.Matched) == 0 {
				return skipped("compile check skipped (no templates or engine)")
			}
			for _, file := range p.Matched {
				if err := ctx.Err(); err != nil {
					return CheckResult{Status: StatusFail, Message: err.Error()}
				}
				src, err := os.ReadFile(filepath.Join(p.Resolved.Source, filepath.FromSlash(file)))
				if err != nil {
					return CheckResult{Status: StatusFail, Message: err.Error()}
				}
				if _, err := p.Engine.Compile(string(src)); err != nil {
					return CheckResult{
						Status:  StatusFail,
						Message: fmt.Sprintf("%s does not compile: %v", file, err),
						Fix:     "Fix the Handlebars syntax in " + file,
					}
				}
			}
			return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%d template(s) compile", len(p.Matched))}
		},
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func nearestExistingDir(path string) string {
	for dir := path; ; dir = filepath.Dir(dir) {
		if isDir(dir) {
			return dir
		}
		if parent := filepath.Dir(dir); parent == dir {
			return dir
		}
	}
}
