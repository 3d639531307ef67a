package template

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/charmbracelet/log"
)

// ConfigurationError reports writer options that cannot be used.
type ConfigurationError struct {
	Option  string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("options.%s %s", e.Option, e.Message)
}

func configErrorf(option, format string, args ...interface{}) error {
	return &ConfigurationError{Option: option, Message: fmt.Sprintf(format, args...)}
}

// ContextFunc computes the render context for one matched file. It may block.
type ContextFunc func(ctx context.Context, filename string) (interface{}, error)

// ContextSource is either a static value shared by every file or a function
// evaluated per file.
type ContextSource struct {
	static interface{}
	fn     ContextFunc
}

// StaticContext renders every file against v.
func StaticContext(v interface{}) ContextSource {
	return ContextSource{static: v}
}

// PerFileContext renders each file against the value fn returns for it.
func PerFileContext(fn ContextFunc) ContextSource {
	return ContextSource{fn: fn}
}

// IsFunc reports whether the context is computed per file.
func (c ContextSource) IsFunc() bool { return c.fn != nil }

// Resolve returns the context for filename.
func (c ContextSource) Resolve(ctx context.Context, filename string) (interface{}, error) {
	if c.fn == nil {
		if c.static == nil {
			return map[string]interface{}{}, nil
		}
		return c.static, nil
	}
	return c.fn(ctx, filename)
}

type helperKind int

const (
	helpersNone helperKind = iota
	helpersDir
	helpersMap
	helpersFactory
)

// HelperSource says where helpers come from.
type HelperSource struct {
	kind    helperKind
	dir     string
	funcs   map[string]interface{}
	factory func() (map[string]interface{}, error)
}

// HelpersFromDir loads .js helper files below dir.
func HelpersFromDir(dir string) HelperSource {
	return HelperSource{kind: helpersDir, dir: dir}
}

// HelpersFromMap registers each entry of funcs.
func HelpersFromMap(funcs map[string]interface{}) HelperSource {
	return HelperSource{kind: helpersMap, funcs: funcs}
}

// HelpersFromFactory calls factory on every load and registers its result.
func HelpersFromFactory(factory func() (map[string]interface{}, error)) HelperSource {
	return HelperSource{kind: helpersFactory, factory: factory}
}

// IsZero reports whether no helper source is configured.
func (s HelperSource) IsZero() bool { return s.kind == helpersNone }

// Dir returns the helper directory, if helpers are loaded from one.
func (s HelperSource) Dir() string { return s.dir }

// PartialSource says where partials come from.
type PartialSource struct {
	dir string
}

// PartialsFromDir loads .hbs and .handlebars files below dir.
func PartialsFromDir(dir string) PartialSource {
	return PartialSource{dir: dir}
}

// IsZero reports whether no partial source is configured.
func (s PartialSource) IsZero() bool { return s.dir == "" }

// Dir returns the partial directory.
func (s PartialSource) Dir() string { return s.dir }

// DestFileFunc maps a matched source file to its path under the destination.
type DestFileFunc func(filename string) string

var templateExtensions = []string{".hbs", ".handlebars"}

// DefaultDestFile replaces a trailing .hbs or .handlebars with .html.
func DefaultDestFile(filename string) string {
	return DestFileWithExtension("html")(filename)
}

// DestFileWithExtension replaces a trailing .hbs or .handlebars with ext.
// Other file names are returned unchanged.
func DestFileWithExtension(ext string) DestFileFunc {
	ext = strings.TrimPrefix(ext, ".")
	return func(filename string) string {
		for _, te := range templateExtensions {
			if strings.HasSuffix(filename, te) {
				base := strings.TrimSuffix(filename, te)
				if ext == "" {
					return base
				}
				return base + "." + ext
			}
		}
		return filename
	}
}

// Options configures a Writer.
type Options struct {
	Context  ContextSource
	DestFile DestFileFunc
	// Engine defaults to a fresh Handlebars instance per writer.
	Engine   Engine
	Partials PartialSource
	Helpers  HelperSource

	// PreserveLeadingSeparator keeps a leading "/" on helper and partial
	// names derived from nested files ("/forms/input" instead of "forms/input").
	PreserveLeadingSeparator bool

	// Concurrency bounds the number of files rendered at once; <= 0 uses NumCPU.
	Concurrency int

	// DryRun renders every file but writes nothing.
	DryRun bool

	Logger *log.Logger
}

// ParseOptions resolves a loosely typed option map into Options. The
// recognized keys are context, destFile, handlebars, partials, helpers,
// preserveLeadingSeparator, concurrency and dryRun.
func ParseOptions(raw map[string]interface{}) (Options, error) {
	var opts Options
	var err error

	if opts.Context, err = parseContext(raw["context"]); err != nil {
		return opts, err
	}
	if opts.DestFile, err = parseDestFile(raw["destFile"]); err != nil {
		return opts, err
	}
	if opts.Engine, err = parseEngine(raw["handlebars"]); err != nil {
		return opts, err
	}
	if opts.Partials, err = parsePartials(raw["partials"]); err != nil {
		return opts, err
	}
	if opts.Helpers, err = parseHelpers(raw["helpers"]); err != nil {
		return opts, err
	}

	if v, ok := raw["preserveLeadingSeparator"]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return opts, configErrorf("preserveLeadingSeparator", "must be a boolean")
		}
		opts.PreserveLeadingSeparator = b
	}
	if v, ok := raw["concurrency"]; ok && v != nil {
		n, ok := v.(int)
		if !ok {
			return opts, configErrorf("concurrency", "must be an integer")
		}
		opts.Concurrency = n
	}
	if v, ok := raw["dryRun"]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return opts, configErrorf("dryRun", "must be a boolean")
		}
		opts.DryRun = b
	}
	return opts, nil
}

func parseContext(v interface{}) (ContextSource, error) {
	switch c := v.(type) {
	case ContextSource:
		return c, nil
	case ContextFunc:
		return PerFileContext(c), nil
	case func(context.Context, string) (interface{}, error):
		return PerFileContext(c), nil
	case func(string) (interface{}, error):
		return PerFileContext(func(_ context.Context, name string) (interface{}, error) {
			return c(name)
		}), nil
	case func(string) interface{}:
		return PerFileContext(func(_ context.Context, name string) (interface{}, error) {
			return c(name), nil
		}), nil
	default:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Func {
			return reflectContext(rv)
		}
		return StaticContext(v), nil
	}
}

var (
	stringType  = reflect.TypeOf("")
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// reflectContext adapts any func([context.Context,] string) T or
// func([context.Context,] string) (T, error) to a per-file context.
func reflectContext(fn reflect.Value) (ContextSource, error) {
	t := fn.Type()
	withCtx := t.NumIn() == 2 && t.In(0) == contextType
	takesName := !t.IsVariadic() && (t.NumIn() == 1 || withCtx) && stringType.AssignableTo(t.In(t.NumIn()-1))
	if !takesName {
		return ContextSource{}, configErrorf("context", "function must take a file name, got %s", t)
	}
	if t.NumOut() == 0 || t.NumOut() > 2 || (t.NumOut() == 2 && t.Out(1) != errorType) {
		return ContextSource{}, configErrorf("context", "function must return a value and an optional error, got %s", t)
	}

	return PerFileContext(func(ctx context.Context, name string) (interface{}, error) {
		args := []reflect.Value{reflect.ValueOf(name).Convert(t.In(t.NumIn() - 1))}
		if withCtx {
			args = append([]reflect.Value{reflect.ValueOf(&ctx).Elem()}, args...)
		}
		out := fn.Call(args)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}), nil
}

func parseDestFile(v interface{}) (DestFileFunc, error) {
	switch fn := v.(type) {
	case nil:
		return DefaultDestFile, nil
	case DestFileFunc:
		return fn, nil
	case func(string) string:
		return fn, nil
	default:
		return nil, configErrorf("destFile", "must be a function mapping a file name to a destination name, got %T", v)
	}
}

func parseEngine(v interface{}) (Engine, error) {
	switch e := v.(type) {
	case nil:
		return nil, nil
	case Engine:
		return e, nil
	default:
		return nil, configErrorf("handlebars", "must be a template engine, got %T", v)
	}
}

func parsePartials(v interface{}) (PartialSource, error) {
	switch p := v.(type) {
	case nil:
		return PartialSource{}, nil
	case PartialSource:
		return p, nil
	case string:
		return PartialsFromDir(p), nil
	default:
		return PartialSource{}, configErrorf("partials", "must be a string, got %T", v)
	}
}

func parseHelpers(v interface{}) (HelperSource, error) {
	switch h := v.(type) {
	case nil:
		return HelperSource{}, nil
	case HelperSource:
		return h, nil
	case string:
		if h == "" {
			return HelperSource{}, nil
		}
		return HelpersFromDir(h), nil
	case map[string]interface{}:
		return HelpersFromMap(h), nil
	case func() map[string]interface{}:
		return HelpersFromFactory(func() (map[string]interface{}, error) { return h(), nil }), nil
	case func() (map[string]interface{}, error):
		return HelpersFromFactory(h), nil
	default:
		return HelperSource{}, configErrorf("helpers", "must be a map of functions, a function that returns one, or a directory path, got %T", v)
	}
}
