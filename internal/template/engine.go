package template

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/aymerick/raymond"
)

// Engine compiles template sources and owns the helper and partial
// registries those templates are rendered with.
type Engine interface {
	RegisterHelper(name string, helper interface{}) error
	RegisterPartial(name, source string)
	Compile(source string) (Template, error)
}

// Template is a compiled template ready to be rendered against a context.
type Template interface {
	Render(ctx interface{}) (string, error)
}

// Registry is implemented by engines whose registries can be listed and
// pruned. Writers use it to drop partials and helpers whose files went away
// between cycles.
type Registry interface {
	HelperFuncs() map[string]interface{}
	PartialSources() map[string]string
	UnregisterHelper(name string)
	UnregisterPartial(name string)
}

// Handlebars is the default Engine. It keeps its own registries and applies
// them to every template it compiles, so two instances never see each
// other's helpers or partials.
type Handlebars struct {
	mu       sync.RWMutex
	helpers  map[string]interface{}
	partials map[string]string
}

// NewHandlebars returns an engine with empty registries.
func NewHandlebars() *Handlebars {
	return &Handlebars{
		helpers:  map[string]interface{}{},
		partials: map[string]string{},
	}
}

// RegisterHelper registers fn under name, replacing any previous helper of
// that name. fn must be a function returning exactly one value.
func (h *Handlebars) RegisterHelper(name string, fn interface{}) error {
	if name == "" {
		return fmt.Errorf("helper name cannot be empty")
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("helper %q must be a function, got %T", name, fn)
	}
	if v.Type().NumOut() != 1 {
		return fmt.Errorf("helper %q must return exactly one value", name)
	}

	h.mu.Lock()
	h.helpers[name] = fn
	h.mu.Unlock()
	return nil
}

// RegisterHelpers registers every entry of helpers.
func (h *Handlebars) RegisterHelpers(helpers map[string]interface{}) error {
	for _, name := range sortedKeys(helpers) {
		if err := h.RegisterHelper(name, helpers[name]); err != nil {
			return err
		}
	}
	return nil
}

// RegisterPartial registers source under name, replacing any previous
// partial of that name.
func (h *Handlebars) RegisterPartial(name, source string) {
	h.mu.Lock()
	h.partials[name] = source
	h.mu.Unlock()
}

// UnregisterHelper removes the helper registered under name, if any.
func (h *Handlebars) UnregisterHelper(name string) {
	h.mu.Lock()
	delete(h.helpers, name)
	h.mu.Unlock()
}

// UnregisterPartial removes the partial registered under name, if any.
func (h *Handlebars) UnregisterPartial(name string) {
	h.mu.Lock()
	delete(h.partials, name)
	h.mu.Unlock()
}

// HelperFuncs returns a copy of the helper registry.
func (h *Handlebars) HelperFuncs() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]interface{}, len(h.helpers))
	for name, fn := range h.helpers {
		out[name] = fn
	}
	return out
}

// PartialSources returns a copy of the partial registry.
func (h *Handlebars) PartialSources() map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]string, len(h.partials))
	for name, src := range h.partials {
		out[name] = src
	}
	return out
}

// Helpers returns the registered helper names, sorted.
func (h *Handlebars) Helpers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return sortedKeys(h.helpers)
}

// Partials returns the registered partial names, sorted.
func (h *Handlebars) Partials() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.partials))
	for name := range h.partials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compile parses source and binds a snapshot of the current registries to it.
func (h *Handlebars) Compile(source string) (Template, error) {
	tpl, err := raymond.Parse(source)
	if err != nil {
		return nil, err
	}

	tpl.RegisterHelpers(h.HelperFuncs())
	tpl.RegisterPartials(h.PartialSources())
	return &compiled{tpl: tpl}, nil
}

type compiled struct {
	tpl *raymond.Template
}

func (c *compiled) Render(ctx interface{}) (string, error) {
	return c.tpl.Exec(ctx)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
