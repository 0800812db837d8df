package xpath

import (
	"math"
	"testing"

	"github.com/p-netm/enketo-xpath/domtree"
)

func TestParseGeopoint(t *testing.T) {
	p, ok := parseGeopoint("38.253 21.756 10 5")
	if !ok {
		t.Fatal("parseGeopoint should accept a 4-field geopoint string")
	}
	if p.Lat != 38.253 || p.Lon != 21.756 || p.Altitude != 10 || p.Accuracy != 5 {
		t.Errorf("parseGeopoint = %+v, unexpected fields", p)
	}

	if _, ok := parseGeopoint("38.253"); ok {
		t.Errorf("a single-field string should not parse as a geopoint")
	}
	if _, ok := parseGeopoint("not a number at all"); ok {
		t.Errorf("a non-numeric string should not parse as a geopoint")
	}
}

func TestFnDistanceOverGeopointNodeSet(t *testing.T) {
	doc, err := domtree.Parse([]byte(`<root><p>0 0 0 0</p><p>0 1 0 0</p></root>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root := doc.DocumentElement()
	set := NewNodeSet([]Node{NodeFromTree(root.FirstChild), NodeFromTree(root.FirstChild.NextSibling)}, DocumentOrder)

	ctx := &Context{}
	v, err := fnDistance(ctx, []Value{NodeSetValue(set)})
	if err != nil {
		t.Fatalf("fnDistance: %v", err)
	}
	if got := v.ToNumber(); got < 100000 || got > 120000 {
		t.Errorf("distance over 1 degree of longitude at the equator = %v, want ~111km", got)
	}
}

func TestFnMaxMinOverVarargs(t *testing.T) {
	ctx := &Context{}
	v, _ := fnMax(ctx, []Value{NumberValue(1), NumberValue(5), NumberValue(3)})
	if v.ToNumber() != 5 {
		t.Errorf("max(1,5,3) = %v, want 5", v.ToNumber())
	}
	v, _ = fnMin(ctx, []Value{NumberValue(1), NumberValue(5), NumberValue(3)})
	if v.ToNumber() != 1 {
		t.Errorf("min(1,5,3) = %v, want 1", v.ToNumber())
	}
}

func TestFnMaxOverNodeSetAlongsideScalar(t *testing.T) {
	doc, err := domtree.Parse([]byte(`<root><n>1</n><n>9</n></root>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root := doc.DocumentElement()
	set := NewNodeSet([]Node{NodeFromTree(root.FirstChild), NodeFromTree(root.FirstChild.NextSibling)}, DocumentOrder)

	ctx := &Context{}
	v, err := fnMax(ctx, []Value{NodeSetValue(set), NumberValue(5)})
	if err != nil {
		t.Fatalf("fnMax: %v", err)
	}
	if v.ToNumber() != 9 {
		t.Errorf("max(nodeset{1,9}, 5) = %v, want 9 (every node-set member must be considered, not just its first)", v.ToNumber())
	}

	v, err = fnMin(ctx, []Value{NumberValue(5), NodeSetValue(set)})
	if err != nil {
		t.Fatalf("fnMin: %v", err)
	}
	if v.ToNumber() != 1 {
		t.Errorf("min(5, nodeset{1,9}) = %v, want 1", v.ToNumber())
	}
}

func TestFnMaxEmptyNodeSetIsNaN(t *testing.T) {
	ctx := &Context{}
	set := EmptyNodeSet()
	v, _ := fnMax(ctx, []Value{NodeSetValue(set)})
	if !math.IsNaN(v.ToNumber()) {
		t.Errorf("max() of an empty node-set should be NaN, got %v", v.ToNumber())
	}
}

func TestFnWeightedChecklist(t *testing.T) {
	ctx := &Context{}
	v, err := fnWeightedChecklist(ctx, []Value{
		NumberValue(1), NumberValue(5),
		BoolValue(true), NumberValue(2),
		BoolValue(false), NumberValue(10),
		BoolValue(true), NumberValue(1),
	})
	if err != nil {
		t.Fatalf("fnWeightedChecklist: %v", err)
	}
	if !v.ToBoolean() {
		t.Errorf("weighted-checklist total of 3 should fall within [1,5]")
	}
}
