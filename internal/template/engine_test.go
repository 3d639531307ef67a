package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlebars_LastRegistrationWins(t *testing.T) {
	h := NewHandlebars()
	require.NoError(t, h.RegisterHelper("who", func() string { return "one" }))
	require.NoError(t, h.RegisterHelper("who", func() string { return "two" }))
	h.RegisterPartial("p", "first")
	h.RegisterPartial("p", "second")

	tpl, err := h.Compile("{{who}} {{> p}}")
	require.NoError(t, err)
	out, err := tpl.Render(map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "two second", out)
}

func TestHandlebars_CompiledTemplatesKeepTheirSnapshot(t *testing.T) {
	h := NewHandlebars()
	h.RegisterPartial("p", "before")
	tpl, err := h.Compile("{{> p}}")
	require.NoError(t, err)

	h.RegisterPartial("p", "after")
	out, err := tpl.Render(map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "before", out)
}

func TestHandlebars_RegisterHelperValidation(t *testing.T) {
	h := NewHandlebars()
	assert.Error(t, h.RegisterHelper("", func() string { return "" }))
	assert.Error(t, h.RegisterHelper("str", "not a func"))
	assert.Error(t, h.RegisterHelper("pair", func() (string, error) { return "", nil }))
	assert.Empty(t, h.Helpers())
}

func TestHandlebars_CompileError(t *testing.T) {
	_, err := NewHandlebars().Compile("{{#each items}}")
	assert.Error(t, err)
}

func TestHandlebars_MissingPartial(t *testing.T) {
	tpl, err := NewHandlebars().Compile("{{> nowhere}}")
	require.NoError(t, err)
	_, err = tpl.Render(map[string]interface{}{})
	assert.Error(t, err)
}
