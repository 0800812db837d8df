package xpath

import "testing"

func TestAsResultCoercions(t *testing.T) {
	v := StringValue("3.5")

	num, err := AsResult(v, NumberType)
	if err != nil {
		t.Fatalf("AsResult NumberType: %v", err)
	}
	if num.NumberValue() != 3.5 {
		t.Errorf("NumberValue() = %v, want 3.5", num.NumberValue())
	}

	b, err := AsResult(v, BooleanType)
	if err != nil {
		t.Fatalf("AsResult BooleanType: %v", err)
	}
	if !b.BooleanValue() {
		t.Errorf("non-empty string should convert to true")
	}
}

func TestAsResultAnyTypePicksNaturalKind(t *testing.T) {
	r, err := AsResult(NumberValue(5), AnyType)
	if err != nil {
		t.Fatalf("AsResult AnyType: %v", err)
	}
	if r.Kind != NumberType {
		t.Errorf("AnyType over a Number value should resolve to NumberType, got %v", r.Kind)
	}
}

func TestAsResultNodeSetRequiresNodeSetKind(t *testing.T) {
	_, err := AsResult(NumberValue(5), UnorderedNodeIteratorType)
	if err == nil {
		t.Fatal("requesting a node-set result from a number value should fail")
	}
}

func TestResultSnapshotAccessors(t *testing.T) {
	doc := parseSmallDoc(t)
	root := doc.DocumentElement()
	set := NewNodeSet([]Node{NodeFromTree(root.FirstChild), NodeFromTree(root.FirstChild.NextSibling)}, DocumentOrder)

	r, err := AsResult(NodeSetValue(set), OrderedNodeSnapshotType)
	if err != nil {
		t.Fatalf("AsResult OrderedNodeSnapshotType: %v", err)
	}
	if r.SnapshotLength() != 2 {
		t.Fatalf("SnapshotLength() = %d, want 2", r.SnapshotLength())
	}
	if _, ok := r.SnapshotItem(0); !ok {
		t.Errorf("SnapshotItem(0) should be present")
	}
	if _, ok := r.SnapshotItem(5); ok {
		t.Errorf("SnapshotItem(5) should be out of range")
	}
}

func TestResultIterateNext(t *testing.T) {
	doc := parseSmallDoc(t)
	root := doc.DocumentElement()
	set := NewNodeSet([]Node{NodeFromTree(root.FirstChild)}, DocumentOrder)

	r, err := AsResult(NodeSetValue(set), UnorderedNodeIteratorType)
	if err != nil {
		t.Fatalf("AsResult: %v", err)
	}
	if _, ok := r.IterateNext(); !ok {
		t.Fatal("expected one node from IterateNext")
	}
	if _, ok := r.IterateNext(); ok {
		t.Errorf("IterateNext should be exhausted after the single node")
	}
}
