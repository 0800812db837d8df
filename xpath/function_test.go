package xpath

import (
	"testing"

	"github.com/p-netm/enketo-xpath/domtree"
)

func TestFuncRegistryArityEnforcement(t *testing.T) {
	r := NewFuncRegistry()
	fn, ok := r.Lookup("", "concat", nil)
	if !ok {
		t.Fatal("concat should be a built-in")
	}
	if _, err := fn.Call(nil, []Value{}); err == nil {
		t.Errorf("concat() with 0 args should fail arity enforcement (min 1)")
	}
	// spec.md §4.F overrides standard XPath 1.0 here: concat accepts a
	// single argument.
	v, err := fn.Call(nil, []Value{StringValue("only-one")})
	if err != nil {
		t.Fatalf("concat(\"only-one\") should succeed with min arity 1: %v", err)
	}
	if v.ToStringValue() != "only-one" {
		t.Errorf("concat(\"only-one\") = %q, want %q", v.ToStringValue(), "only-one")
	}
}

func TestFuncRegistryArgumentKindEnforcement(t *testing.T) {
	r := NewFuncRegistry()
	fn, ok := r.Lookup("", "count", nil)
	if !ok {
		t.Fatal("count should be a built-in")
	}
	// count() requires a node-set argument; a bare number must be
	// rejected before fnCount ever runs, per spec.md §4.E.
	if _, err := fn.Call(nil, []Value{NumberValue(5)}); err == nil {
		t.Errorf("count(5) should fail per-argument convertibility enforcement")
	}
}

func TestFuncRegistryRoundWithDecimalPlaces(t *testing.T) {
	r := NewFuncRegistry()
	fn, ok := r.Lookup("", "round", nil)
	if !ok {
		t.Fatal("round should be a built-in")
	}
	v, err := fn.Call(nil, []Value{NumberValue(1.2345), NumberValue(2)})
	if err != nil {
		t.Fatalf("round(1.2345, 2): %v", err)
	}
	if v.ToNumber() != 1.23 {
		t.Errorf("round(1.2345, 2) = %v, want 1.23", v.ToNumber())
	}
}

func TestFuncRegistryPositionXFormsSingleNodeForm(t *testing.T) {
	doc, err := domtree.Parse([]byte(`<root><item/><item/><item/></root>`))
	if err != nil {
		t.Fatalf("domtree.Parse: %v", err)
	}
	root := doc.DocumentElement()
	third := root.FirstChild.NextSibling.NextSibling

	r := NewFuncRegistry()
	fn, ok := r.Lookup("", "position", nil)
	if !ok {
		t.Fatal("position should be a built-in")
	}
	ctx := NewContext(NodeFromTree(root), nil, r, nil, NewOptions())
	set := NewNodeSet([]Node{NodeFromTree(third)}, DocumentOrder)
	v, err := fn.Call(ctx, []Value{NodeSetValue(set)})
	if err != nil {
		t.Fatalf("position(nodeset): %v", err)
	}
	if v.ToNumber() != 3 {
		t.Errorf("position() of the 3rd <item> among its same-named siblings = %v, want 3", v.ToNumber())
	}

	multi := NewNodeSet([]Node{NodeFromTree(root.FirstChild), NodeFromTree(third)}, DocumentOrder)
	if _, err := fn.Call(ctx, []Value{NodeSetValue(multi)}); err == nil {
		t.Errorf("position() with a multi-node argument should be an error")
	}
}

func TestFuncRegistryRegisterAndUnregister(t *testing.T) {
	r := NewFuncRegistry()
	r.RegisterFunction("double", 1, 1, func(ctx *Context, args []Value) (Value, error) {
		return NumberValue(args[0].ToNumber() * 2), nil
	})
	fn, ok := r.Lookup("", "double", nil)
	if !ok {
		t.Fatal("double should be registered")
	}
	v, err := fn.Call(nil, []Value{NumberValue(21)})
	if err != nil {
		t.Fatalf("double(21): %v", err)
	}
	if v.ToNumber() != 42 {
		t.Errorf("double(21) = %v, want 42", v.ToNumber())
	}

	r.UnregisterFunction("double")
	if _, ok := r.Lookup("", "double", nil); ok {
		t.Errorf("double should no longer be registered after UnregisterFunction")
	}
}

func TestFuncRegistryRegisterFunctionSpecEnforcesDeclaredKinds(t *testing.T) {
	r := NewFuncRegistry()
	r.RegisterFunctionSpec(FuncSpec{
		Name: "double-count", MinArgs: 1, MaxArgs: 1,
		Args: []ArgSpec{{Kind: NodeSetKind}}, Ret: Number,
		Fn: func(ctx *Context, args []Value) (Value, error) {
			set, _ := args[0].ToNodeSet()
			return NumberValue(float64(set.Len()) * 2), nil
		},
	})
	fn, ok := r.Lookup("", "double-count", nil)
	if !ok {
		t.Fatal("double-count should be registered")
	}
	if _, err := fn.Call(nil, []Value{NumberValue(3)}); err == nil {
		t.Errorf("double-count(3) should fail: declared Args require a node-set")
	}
	v, err := fn.Call(nil, []Value{NodeSetValue(EmptyNodeSet())})
	if err != nil {
		t.Fatalf("double-count(emptyset): %v", err)
	}
	if v.ToNumber() != 0 {
		t.Errorf("double-count(emptyset) = %v, want 0", v.ToNumber())
	}
}

func TestFuncRegistryLookupIgnoresPrefix(t *testing.T) {
	r := NewFuncRegistry()
	// The ODK/XForms library is unprefixed in practice; Lookup resolves
	// purely on local name regardless of what prefix is supplied.
	_, ok1 := r.Lookup("", "round", nil)
	_, ok2 := r.Lookup("fn", "round", map[string]string{"fn": "http://www.w3.org/2005/xpath-functions"})
	if !ok1 || !ok2 {
		t.Errorf("round() should resolve regardless of prefix: ok1=%v ok2=%v", ok1, ok2)
	}
}

func TestFuncRegistryUnknownFunction(t *testing.T) {
	r := NewFuncRegistry()
	if _, ok := r.Lookup("", "not-a-real-function", nil); ok {
		t.Errorf("unknown function should not be found")
	}
}
