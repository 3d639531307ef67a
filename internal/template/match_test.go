package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"index.hbs":             "",
		"about.hbs":             "",
		"blog/post.hbs":         "",
		"blog/draft.txt":        "",
		"assets/site.css":       "",
		"legacy/old.handlebars": "",
	})

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"top level", []string{"*.hbs"}, []string{"about.hbs", "index.hbs"}},
		{"recursive", []string{"**/*.hbs"}, []string{"about.hbs", "blog/post.hbs", "index.hbs"}},
		{"pattern order kept", []string{"index.hbs", "*.hbs"}, []string{"index.hbs", "about.hbs"}},
		{"alternation", []string{"**/*.{hbs,handlebars}"}, []string{"about.hbs", "blog/post.hbs", "index.hbs", "legacy/old.handlebars"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Match(tt.patterns, root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatch_Errors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"index.hbs": ""})

	tests := []struct {
		name     string
		patterns []string
		wantErr  string
	}{
		{"no match", []string{"*.md"}, "did not match any files"},
		{"absolute", []string{"/etc/*.hbs"}, "must be relative"},
		{"invalid", []string{"[a-"}, "invalid file pattern"},
		{"empty", []string{" "}, "empty file pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Match(tt.patterns, root)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
