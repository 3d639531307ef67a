package template

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"sync"

	"github.com/aymerick/raymond"
	"github.com/dop251/goja"
)

var (
	anyType = reflect.TypeOf((*interface{})(nil)).Elem()
)

// scriptModule is a compiled CommonJS helper file. goja runtimes are not safe
// for concurrent use, so every helper call borrows its own instance from a
// pool; nested calls made through options.fn simply borrow another one.
type scriptModule struct {
	path    string
	program *goja.Program
	pool    sync.Pool
}

type scriptInstance struct {
	vm      *goja.Runtime
	exports goja.Value
}

func compileScript(path string) (*scriptModule, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading helper %s: %w", path, err)
	}
	wrapped := "(function (module, exports) {\n" + string(src) + "\n})"
	program, err := goja.Compile(path, wrapped, false)
	if err != nil {
		return nil, fmt.Errorf("compiling helper %s: %w", path, err)
	}
	return &scriptModule{path: path, program: program}, nil
}

func (m *scriptModule) instantiate() (*scriptInstance, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	wrapper, err := vm.RunProgram(m.program)
	if err != nil {
		return nil, fmt.Errorf("evaluating helper %s: %w", m.path, err)
	}
	fn, ok := goja.AssertFunction(wrapper)
	if !ok {
		return nil, fmt.Errorf("evaluating helper %s: module wrapper is not callable", m.path)
	}

	module := vm.NewObject()
	exports := vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, err
	}
	if _, err := fn(goja.Undefined(), module, exports); err != nil {
		return nil, fmt.Errorf("evaluating helper %s: %w", m.path, err)
	}
	return &scriptInstance{vm: vm, exports: module.Get("exports")}, nil
}

func (m *scriptModule) acquire() (*scriptInstance, error) {
	if inst, ok := m.pool.Get().(*scriptInstance); ok {
		return inst, nil
	}
	return m.instantiate()
}

func (m *scriptModule) release(inst *scriptInstance) {
	m.pool.Put(inst)
}

// helpers returns the helpers the module exports. A module exporting a single
// function yields one helper under name; a module exporting an object yields
// one helper per function-valued key. Anything else yields nothing.
func (m *scriptModule) helpers(name string) (map[string]interface{}, error) {
	inst, err := m.instantiate()
	if err != nil {
		return nil, err
	}
	defer m.release(inst)

	out := map[string]interface{}{}
	if _, ok := goja.AssertFunction(inst.exports); ok {
		if err := m.checkArity(name, inst.exports); err != nil {
			return nil, err
		}
		out[name] = m.helper("", arity(inst.exports))
		return out, nil
	}

	obj, ok := inst.exports.(*goja.Object)
	if !ok {
		return out, nil
	}
	for _, key := range obj.Keys() {
		v := obj.Get(key)
		if _, ok := goja.AssertFunction(v); ok {
			if err := m.checkArity(key, v); err != nil {
				return nil, err
			}
			out[key] = m.helper(key, arity(v))
		}
	}
	return out, nil
}

var argumentsRef = regexp.MustCompile(`\barguments\b`)

// checkArity rejects helpers that declare no parameters but read arguments.
// The engine calls helpers with exactly their declared parameters, so such a
// helper would fail on every call that passes one.
func (m *scriptModule) checkArity(name string, fn goja.Value) error {
	if arity(fn) == 0 && argumentsRef.MatchString(fn.String()) {
		return fmt.Errorf("helper %q in %s reads arguments but declares no parameters: name each parameter it takes", name, m.path)
	}
	return nil
}

func arity(v goja.Value) int {
	obj, ok := v.(*goja.Object)
	if !ok {
		return 0
	}
	n := obj.Get("length")
	if n == nil {
		return 0
	}
	if l := int(n.ToInteger()); l > 0 {
		return l
	}
	return 0
}

// helper builds a Go function of the declared JS arity. The engine passes
// either that many arguments, or one fewer followed by its options value.
func (m *scriptModule) helper(key string, n int) interface{} {
	in := make([]reflect.Type, n)
	for i := range in {
		in[i] = anyType
	}
	fnType := reflect.FuncOf(in, []reflect.Type{anyType}, false)

	return reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		params := make([]interface{}, len(args))
		for i, a := range args {
			params[i] = a.Interface()
		}
		result, err := m.call(key, params)
		if err != nil {
			panic(err)
		}
		return []reflect.Value{reflect.ValueOf(&result).Elem()}
	}).Interface()
}

func (m *scriptModule) call(key string, params []interface{}) (interface{}, error) {
	inst, err := m.acquire()
	if err != nil {
		return nil, err
	}
	defer m.release(inst)

	target := inst.exports
	if key != "" {
		target = inst.exports.ToObject(inst.vm).Get(key)
	}
	fn, ok := goja.AssertFunction(target)
	if !ok {
		return nil, fmt.Errorf("helper %q in %s is not a function", key, m.path)
	}

	args := make([]goja.Value, len(params))
	for i, p := range params {
		if opts, ok := p.(*raymond.Options); ok {
			args[i] = inst.options(opts)
			continue
		}
		args[i] = inst.vm.ToValue(p)
	}

	res, err := fn(goja.Undefined(), args...)
	if err != nil {
		return nil, fmt.Errorf("helper %s: %w", m.path, err)
	}
	if res == nil || goja.IsUndefined(res) || goja.IsNull(res) {
		return "", nil
	}
	return res.Export(), nil
}

// options exposes the engine's helper options the way Handlebars helpers
// expect them: hash, fn and inverse.
func (s *scriptInstance) options(opts *raymond.Options) goja.Value {
	obj := s.vm.NewObject()
	_ = obj.Set("hash", opts.Hash())
	_ = obj.Set("fn", func(call goja.FunctionCall) goja.Value {
		if ctx := call.Argument(0); !goja.IsUndefined(ctx) {
			return s.vm.ToValue(opts.FnWith(ctx.Export()))
		}
		return s.vm.ToValue(opts.Fn())
	})
	_ = obj.Set("inverse", func(goja.FunctionCall) goja.Value {
		return s.vm.ToValue(opts.Inverse())
	})
	return obj
}
