package doctor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjourdan1/hbstree/internal/config"
	"github.com/kjourdan1/hbstree/internal/output"
)

func loadSchema(t *testing.T) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "schemas", "hbstree-v1.schema.json"))
	require.NoError(t, err)
	config.SetSchema(data)
}

func project(t *testing.T, files map[string]string) Env {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return Env{Root: root, ConfigPath: filepath.Join(root, config.DefaultFileName)}
}

const validConfig = `apiVersion: hbstree/v1
source: src
destination: dist
files: ["**/*.hbs"]
partials: partials
helpers: helpers
`

func resultFor(s Summary, name string) CheckResult {
	for _, r := range s.Results {
		if r.Name == name {
			return r
		}
	}
	return CheckResult{}
}

func TestRunAll_HealthyProject(t *testing.T) {
	loadSchema(t)
	env := project(t, map[string]string{
		"hbstree.yaml":        validConfig,
		"src/index.hbs":       "{{> header}}{{shout name}}",
		"partials/header.hbs": "<h1>hi</h1>",
		"helpers/shout.js":    "module.exports = function (s) { return String(s).toUpperCase(); };",
	})

	s := RunAll(context.Background(), env)
	assert.False(t, s.HasFailure, "%+v", s.Results)
	assert.Equal(t, StatusPass, resultFor(s, "templates-compile").Status)
	assert.Equal(t, StatusSkip, resultFor(s, "context-dir").Status)
	assert.Contains(t, resultFor(s, "partials-helpers").Message, "1 partial(s)")
	assert.Len(t, s.Results, len(AllChecks()))
}

func TestRunAll_MissingConfig(t *testing.T) {
	loadSchema(t)
	env := project(t, nil)

	s := RunAll(context.Background(), env)
	assert.True(t, s.HasFailure)
	r := resultFor(s, "config-file")
	assert.Equal(t, StatusFail, r.Status)
	assert.Equal(t, "Run: hbstree init", r.Fix)
	assert.Equal(t, StatusSkip, resultFor(s, "source-dir").Status)
	assert.Equal(t, StatusSkip, resultFor(s, "templates-compile").Status)
}

func TestRunAll_SchemaError(t *testing.T) {
	loadSchema(t)
	env := project(t, map[string]string{
		"hbstree.yaml":  "apiVersion: hbstree/v9\nsource: src\ndestination: dist\nfiles: ['*.hbs']\n",
		"src/index.hbs": "ok",
	})

	s := RunAll(context.Background(), env)
	assert.True(t, s.HasFailure)
	assert.Equal(t, StatusFail, resultFor(s, "config-schema").Status)
}

func TestRunAll_UnmatchedPattern(t *testing.T) {
	loadSchema(t)
	env := project(t, map[string]string{
		"hbstree.yaml":  "apiVersion: hbstree/v1\nsource: src\ndestination: dist\nfiles: ['*.hbs']\n",
		"src/readme.md": "not a template",
	})

	s := RunAll(context.Background(), env)
	assert.True(t, s.HasFailure)
	assert.Equal(t, StatusFail, resultFor(s, "file-patterns").Status)
	assert.Equal(t, StatusSkip, resultFor(s, "templates-compile").Status)
}

func TestRunAll_BrokenHelperAndTemplate(t *testing.T) {
	loadSchema(t)

	env := project(t, map[string]string{
		"hbstree.yaml":   validConfig,
		"src/index.hbs":  "x",
		"partials/p.hbs": "p",
		"helpers/bad.js": "module.exports = function ( {",
	})
	s := RunAll(context.Background(), env)
	assert.Equal(t, StatusFail, resultFor(s, "partials-helpers").Status)
	assert.Contains(t, resultFor(s, "partials-helpers").Message, "bad.js")

	env = project(t, map[string]string{
		"hbstree.yaml":   validConfig,
		"src/index.hbs":  "{{#if x}}unterminated",
		"partials/p.hbs": "p",
		"helpers/ok.js":  "module.exports = function () { return 1; };",
	})
	s = RunAll(context.Background(), env)
	r := resultFor(s, "templates-compile")
	assert.Equal(t, StatusFail, r.Status)
	assert.Contains(t, r.Message, "index.hbs")
}

func TestRunAll_MissingContextDirWarns(t *testing.T) {
	loadSchema(t)
	env := project(t, map[string]string{
		"hbstree.yaml":  "apiVersion: hbstree/v1\nsource: src\ndestination: dist\nfiles: ['*.hbs']\ncontextDir: data\n",
		"src/index.hbs": "x",
	})

	s := RunAll(context.Background(), env)
	assert.False(t, s.HasFailure)
	assert.Equal(t, StatusWarn, resultFor(s, "context-dir").Status)
}

func TestNearestExistingDir(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, root, nearestExistingDir(filepath.Join(root, "a", "b", "c")))
	assert.Equal(t, root, nearestExistingDir(root))
}

func TestPrintResults(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	output.Init(false, false)

	var buf bytes.Buffer
	PrintResults(&buf, Summary{
		Results: []CheckResult{
			{Name: "config-file", Category: "config", Status: StatusPass, Message: "hbstree.yaml loaded"},
			{Name: "source-dir", Category: "layout", Status: StatusFail, Message: "source directory src not found", Fix: "Create src"},
		},
		TotalPass: 1, TotalFail: 1, HasFailure: true,
	})

	out := buf.String()
	assert.Contains(t, out, "--- Configuration ---")
	assert.Contains(t, out, "--- Project Layout ---")
	assert.Contains(t, out, "[PASS]  hbstree.yaml loaded")
	assert.Contains(t, out, "[FAIL]  source directory src not found")
	assert.Contains(t, out, "Fix: Create src")
}

func TestStatusIcon_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, "[WARN]", StatusIcon(StatusWarn))
	assert.Equal(t, "[SKIP]", StatusIcon(StatusSkip))
}
