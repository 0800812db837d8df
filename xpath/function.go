package xpath

import "sync"

// Func is the shape every built-in and user-registered XPath function
// implements: it receives the evaluation Context (for position()/last()/
// current()-style functions) and its already-evaluated arguments.
type Func func(ctx *Context, args []Value) (Value, error)

// ArgSpec declares the expected kind of one positional parameter. Variadic
// marks the last entry of a FuncSpec.Args as repeating for every argument
// beyond len(Args)-1 (spec.md §4.E's "rep" parameter flag).
type ArgSpec struct {
	Kind     Kind
	Variadic bool
}

// FuncSpec declaratively names a function's arity bounds, its per-argument
// expected kinds and its return kind, alongside its implementation, so the
// registry enforces all of it centrally instead of every function
// hand-rolling its own arity/conversion checks (spec.md §4.E: "the
// evaluator enforces min-arity, max-arity ... and per-argument
// convertibility before calling; after the call, it checks the returned
// value is ... convertible to ret"). MaxArgs of -1 means unbounded.
type FuncSpec struct {
	Name    string
	MinArgs int
	MaxArgs int
	Args    []ArgSpec
	Ret     Kind
	Fn      Func
}

// FuncRegistry is the customXPathFunction extension point of spec.md §6:
// a name-keyed table of FuncSpecs, seeded with the built-in library and
// mutable at runtime via RegisterFunction/UnregisterFunction.
type FuncRegistry struct {
	mu    sync.RWMutex
	specs map[string]FuncSpec
}

// NewFuncRegistry returns a registry preloaded with every built-in
// function (funcs_core.go, funcs_odk.go).
func NewFuncRegistry() *FuncRegistry {
	r := &FuncRegistry{specs: map[string]FuncSpec{}}
	for _, spec := range coreFuncSpecs {
		r.specs[spec.Name] = spec
	}
	for _, spec := range odkFuncSpecs {
		r.specs[spec.Name] = spec
	}
	return r
}

// RegisterFunction adds or replaces a function under name, bypassing any
// namespace: the library is called by bare local name, matching how
// XForms/ODK expressions invoke it (spec.md §6). Arguments and the return
// value are left permissive (every Kind converts to String), since a
// caller registering a function this way declares no per-argument/return
// kinds; use RegisterFunctionSpec for the fully declarative form.
func (r *FuncRegistry) RegisterFunction(name string, minArgs, maxArgs int, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs[name] = FuncSpec{Name: name, MinArgs: minArgs, MaxArgs: maxArgs, Ret: String, Fn: fn}
}

// RegisterFunctionSpec registers a fully declarative FuncSpec, mirroring
// spec.md §6's customXPathFunction.add(name, {fn, args, ret}).
func (r *FuncRegistry) RegisterFunctionSpec(spec FuncSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs[spec.Name] = spec
}

// UnregisterFunction removes name from the registry, built-in or custom.
func (r *FuncRegistry) UnregisterFunction(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.specs, name)
}

// boundFunc pairs a resolved FuncSpec with the arity/argument-kind/
// return-kind enforcement eval.go needs around invoking it.
type boundFunc struct{ spec FuncSpec }

func (b *boundFunc) Call(ctx *Context, args []Value) (Value, error) {
	if len(args) < b.spec.MinArgs || (b.spec.MaxArgs >= 0 && len(args) > b.spec.MaxArgs) {
		return Value{}, newError(InvalidExpressionErr,
			"%s() expects between %d and %d arguments, got %d",
			b.spec.Name, b.spec.MinArgs, maxArgsOrSame(b.spec), len(args))
	}
	for i, a := range args {
		want := argKindAt(b.spec.Args, i)
		if !a.CanConvertTo(want) {
			return Value{}, newError(TypeErr,
				"%s(): argument %d of kind %s is not convertible to %s",
				b.spec.Name, i+1, a.Kind, want)
		}
	}
	result, err := b.spec.Fn(ctx, args)
	if err != nil {
		return Value{}, err
	}
	if !result.CanConvertTo(b.spec.Ret) {
		return Value{}, newError(TypeErr,
			"%s(): result of kind %s is not convertible to declared return kind %s",
			b.spec.Name, result.Kind, b.spec.Ret)
	}
	return result, nil
}

// argKindAt resolves the expected Kind for positional argument i against a
// FuncSpec's declared Args: arguments beyond the declared list repeat the
// last entry when it is Variadic. A FuncSpec with no declared Args (the
// convenience RegisterFunction path) is fully permissive.
func argKindAt(specs []ArgSpec, i int) Kind {
	if len(specs) == 0 {
		return String
	}
	if i < len(specs) {
		return specs[i].Kind
	}
	last := specs[len(specs)-1]
	if last.Variadic {
		return last.Kind
	}
	return String
}

func maxArgsOrSame(spec FuncSpec) int {
	if spec.MaxArgs < 0 {
		return spec.MinArgs
	}
	return spec.MaxArgs
}

// Lookup resolves a (prefix, local) function name against r. The ODK/
// XForms function library this module implements is unprefixed in
// practice, so prefix is accepted but otherwise ignored; nsMap is kept in
// the signature so a future namespace-qualified extension function can be
// added without changing every call site.
func (r *FuncRegistry) Lookup(prefix, local string, nsMap map[string]string) (*boundFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[local]
	if !ok {
		return nil, false
	}
	return &boundFunc{spec: spec}, true
}
