package xpath

import "testing"

func TestResolveVarKeyUnprefixed(t *testing.T) {
	ctx := NewContext(Node{}, nil, nil, map[string]string{}, NewOptions())
	if got := ctx.ResolveVarKey("", "count"); got != "count" {
		t.Errorf("ResolveVarKey(\"\", \"count\") = %q, want %q", got, "count")
	}
}

func TestResolveVarKeyResolvedPrefix(t *testing.T) {
	nsMap := map[string]string{"h": "http://example.com/h"}
	ctx := NewContext(Node{}, nil, nil, nsMap, NewOptions())
	got := ctx.ResolveVarKey("h", "count")
	want := "http://example.com/h count"
	if got != want {
		t.Errorf("ResolveVarKey(\"h\", \"count\") = %q, want %q", got, want)
	}
}

func TestResolveVarKeyUnboundPrefixFallsBack(t *testing.T) {
	ctx := NewContext(Node{}, nil, nil, map[string]string{}, NewOptions())
	got := ctx.ResolveVarKey("x", "count")
	if got != "x:count" {
		t.Errorf("ResolveVarKey(\"x\", \"count\") = %q, want %q", got, "x:count")
	}
}

func TestContextCloneSharesCollaborators(t *testing.T) {
	vars := map[string]Value{"a": NumberValue(1)}
	funcs := NewFuncRegistry()
	nsMap := map[string]string{}
	root := NewContext(Node{}, vars, funcs, nsMap, NewOptions())

	clone := root.Clone(Node{Kind: KindText}, 2, 5)
	if clone.Position != 2 || clone.Size != 5 {
		t.Errorf("Clone should set the new Position/Size, got %d/%d", clone.Position, clone.Size)
	}
	if clone.Funcs != root.Funcs {
		t.Errorf("Clone should share the same FuncRegistry instance")
	}
	clone.Vars["b"] = NumberValue(2)
	if _, ok := root.Vars["b"]; !ok {
		t.Errorf("Clone should share the same Vars map by reference, mutation should be visible on root")
	}
}
