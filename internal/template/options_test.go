package template

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDestFile(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"page.hbs", "page.html"},
		{"docs/guide.handlebars", "docs/guide.html"},
		{"notes.txt", "notes.txt"},
		{"archive.hbs.bak", "archive.hbs.bak"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultDestFile(tt.in))
		})
	}
}

func TestDestFileWithExtension(t *testing.T) {
	assert.Equal(t, "feed.xml", DestFileWithExtension(".xml")("feed.hbs"))
	assert.Equal(t, "README.md", DestFileWithExtension("md")("README.handlebars"))
	assert.Equal(t, "Makefile", DestFileWithExtension("")("Makefile.hbs"))
}

func TestParseOptions_Context(t *testing.T) {
	ctx := context.Background()

	t.Run("static", func(t *testing.T) {
		opts, err := ParseOptions(map[string]interface{}{"context": map[string]interface{}{"a": 1}})
		require.NoError(t, err)
		assert.False(t, opts.Context.IsFunc())
		v, err := opts.Context.Resolve(ctx, "x.hbs")
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"a": 1}, v)
	})

	t.Run("absent", func(t *testing.T) {
		opts, err := ParseOptions(map[string]interface{}{})
		require.NoError(t, err)
		v, err := opts.Context.Resolve(ctx, "x.hbs")
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{}, v)
	})

	t.Run("function with error", func(t *testing.T) {
		opts, err := ParseOptions(map[string]interface{}{
			"context": func(name string) (interface{}, error) { return nil, errors.New(name) },
		})
		require.NoError(t, err)
		assert.True(t, opts.Context.IsFunc())
		_, err = opts.Context.Resolve(ctx, "x.hbs")
		assert.EqualError(t, err, "x.hbs")
	})

	t.Run("context aware function", func(t *testing.T) {
		opts, err := ParseOptions(map[string]interface{}{
			"context": func(c context.Context, name string) (interface{}, error) { return name, c.Err() },
		})
		require.NoError(t, err)
		v, err := opts.Context.Resolve(ctx, "y.hbs")
		require.NoError(t, err)
		assert.Equal(t, "y.hbs", v)
	})

	t.Run("map returning function", func(t *testing.T) {
		opts, err := ParseOptions(map[string]interface{}{
			"context": func(name string) map[string]interface{} { return map[string]interface{}{"name": name} },
		})
		require.NoError(t, err)
		assert.True(t, opts.Context.IsFunc())
		v, err := opts.Context.Resolve(ctx, "z.hbs")
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"name": "z.hbs"}, v)
	})

	t.Run("typed function with error", func(t *testing.T) {
		type page struct{ Name string }
		opts, err := ParseOptions(map[string]interface{}{
			"context": func(c context.Context, name string) (page, error) {
				if name == "bad.hbs" {
					return page{}, errors.New("no data for " + name)
				}
				return page{Name: name}, nil
			},
		})
		require.NoError(t, err)
		v, err := opts.Context.Resolve(ctx, "a.hbs")
		require.NoError(t, err)
		assert.Equal(t, page{Name: "a.hbs"}, v)
		_, err = opts.Context.Resolve(ctx, "bad.hbs")
		assert.EqualError(t, err, "no data for bad.hbs")
	})
}

func TestParseOptions_Errors(t *testing.T) {
	tests := []struct {
		name   string
		raw    map[string]interface{}
		option string
	}{
		{"partials number", map[string]interface{}{"partials": 1}, "partials"},
		{"partials map", map[string]interface{}{"partials": map[string]interface{}{}}, "partials"},
		{"helpers number", map[string]interface{}{"helpers": 7}, "helpers"},
		{"destFile string", map[string]interface{}{"destFile": "out.html"}, "destFile"},
		{"handlebars string", map[string]interface{}{"handlebars": "raymond"}, "handlebars"},
		{"concurrency string", map[string]interface{}{"concurrency": "4"}, "concurrency"},
		{"dryRun string", map[string]interface{}{"dryRun": "yes"}, "dryRun"},
		{"preserveLeadingSeparator number", map[string]interface{}{"preserveLeadingSeparator": 1}, "preserveLeadingSeparator"},
		{"context without file name", map[string]interface{}{"context": func() string { return "x" }}, "context"},
		{"context with int argument", map[string]interface{}{"context": func(int) string { return "x" }}, "context"},
		{"context without result", map[string]interface{}{"context": func(string) {}}, "context"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions(tt.raw)
			require.Error(t, err)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.option, cfgErr.Option)
		})
	}
}

func TestParseOptions_Sources(t *testing.T) {
	opts, err := ParseOptions(map[string]interface{}{
		"partials":                 "partials",
		"helpers":                  "helpers",
		"preserveLeadingSeparator": true,
		"concurrency":              2,
		"dryRun":                   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "partials", opts.Partials.Dir())
	assert.Equal(t, "helpers", opts.Helpers.Dir())
	assert.True(t, opts.PreserveLeadingSeparator)
	assert.Equal(t, 2, opts.Concurrency)
	assert.True(t, opts.DryRun)

	opts, err = ParseOptions(map[string]interface{}{"partials": nil, "helpers": nil})
	require.NoError(t, err)
	assert.True(t, opts.Partials.IsZero())
	assert.True(t, opts.Helpers.IsZero())
}
