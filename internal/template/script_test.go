package template

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scriptHelpersWriter(t *testing.T, helpers map[string]string, opts Options) (*Writer, *Handlebars) {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, helpers)
	engine := NewHandlebars()
	opts.Engine = engine
	opts.Helpers = HelpersFromDir(dir)
	w, err := New(DirTree(t.TempDir()), []string{"*.hbs"}, opts)
	require.NoError(t, err)
	return w, engine
}

func render(t *testing.T, engine *Handlebars, source string, ctx interface{}) string {
	t.Helper()
	tpl, err := engine.Compile(source)
	require.NoError(t, err)
	out, err := tpl.Render(ctx)
	require.NoError(t, err)
	return out
}

func TestScriptHelpers_FunctionExport(t *testing.T) {
	_, engine := scriptHelpersWriter(t, map[string]string{
		"shout.js": `module.exports = function (s) { return s.toUpperCase(); };`,
	}, Options{})

	assert.Equal(t, []string{"shout"}, engine.Helpers())
	assert.Equal(t, "HI", render(t, engine, `{{shout "hi"}}`, map[string]interface{}{}))
}

func TestScriptHelpers_ObjectExport(t *testing.T) {
	_, engine := scriptHelpersWriter(t, map[string]string{
		"text.js": `
exports.wrap = function (s, options) { return options.hash.left + s + options.hash.right; };
exports.twice = function (s) { return s + s; };
exports.version = 3;
`,
	}, Options{})

	assert.Equal(t, []string{"twice", "wrap"}, engine.Helpers())
	assert.Equal(t, "[x]", render(t, engine, `{{wrap "x" left="[" right="]"}}`, map[string]interface{}{}))
	assert.Equal(t, "abab", render(t, engine, `{{twice name}}`, map[string]interface{}{"name": "ab"}))
}

func TestScriptHelpers_IgnoresOtherExports(t *testing.T) {
	_, engine := scriptHelpersWriter(t, map[string]string{
		"answer.js":  `module.exports = 42;`,
		"nothing.js": `module.exports = null;`,
		"readme.md":  `not a helper`,
	}, Options{})

	assert.Empty(t, engine.Helpers())
}

func TestScriptHelpers_NestedNames(t *testing.T) {
	files := map[string]string{
		"format/date.js": `module.exports = function (d) { return "date:" + d; };`,
	}

	_, engine := scriptHelpersWriter(t, files, Options{})
	assert.Equal(t, []string{"format/date"}, engine.Helpers())

	_, engine = scriptHelpersWriter(t, files, Options{PreserveLeadingSeparator: true})
	assert.Equal(t, []string{"/format/date"}, engine.Helpers())
}

func TestScriptHelpers_BlockHelper(t *testing.T) {
	_, engine := scriptHelpersWriter(t, map[string]string{
		"loud.js": `module.exports = function (options) { return options.fn().toUpperCase(); };`,
	}, Options{})

	out := render(t, engine, `{{#loud}}hi {{name}}{{/loud}}`, map[string]interface{}{"name": "bob"})
	assert.Equal(t, "HI BOB", out)
}

func TestScriptHelpers_ExceptionFailsRender(t *testing.T) {
	_, engine := scriptHelpersWriter(t, map[string]string{
		"boom.js": `module.exports = function () { throw new Error("kaboom"); };`,
	}, Options{})

	tpl, err := engine.Compile(`{{boom}}`)
	require.NoError(t, err)
	_, err = tpl.Render(map[string]interface{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestScriptHelpers_SyntaxErrorFailsLoad(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"bad.js": `module.exports = function (`})

	_, err := New(DirTree(t.TempDir()), []string{"*.hbs"}, Options{Helpers: HelpersFromDir(dir)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.js")
}

func TestScriptHelpers_UndeclaredArgumentsFailLoad(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"function export", map[string]string{"sum.js": `module.exports = function () { return arguments.length; };`}, `"sum"`},
		{"object export", map[string]string{"math.js": `exports.max = function () { return Math.max.apply(null, arguments); };`}, `"max"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTree(t, dir, tt.files)

			_, err := New(DirTree(t.TempDir()), []string{"*.hbs"}, Options{Helpers: HelpersFromDir(dir)})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "declares no parameters")
		})
	}
}

func TestScriptHelpers_NoParameters(t *testing.T) {
	_, engine := scriptHelpersWriter(t, map[string]string{
		"year.js": `module.exports = function () { return "2024"; };`,
	}, Options{})

	assert.Equal(t, "(c) 2024", render(t, engine, `(c) {{year}}`, map[string]interface{}{}))
}

func TestScriptHelpers_ParallelRender(t *testing.T) {
	helpers := t.TempDir()
	writeTree(t, helpers, map[string]string{
		"label.js": `var count = 0; module.exports = function (n) { count++; return "item-" + n; };`,
	})
	src := t.TempDir()
	files := map[string]string{}
	want := map[string]string{}
	for i := 0; i < 40; i++ {
		files[fmt.Sprintf("p%02d.hbs", i)] = fmt.Sprintf(`{{label %d}}`, i)
		want[fmt.Sprintf("p%02d.html", i)] = fmt.Sprintf("item-%d", i)
	}
	writeTree(t, src, files)
	dest := t.TempDir()

	w, err := New(DirTree(src), []string{"*.hbs"}, Options{Helpers: HelpersFromDir(helpers), Concurrency: 8})
	require.NoError(t, err)

	_, err = w.Write(context.Background(), ResolveDirTree, dest)
	require.NoError(t, err)
	assert.Equal(t, want, readTree(t, dest))
}
