package xpath

import (
	"testing"
	"time"

	"github.com/p-netm/enketo-xpath/xpath/ast"
)

func TestCompareNumberPriorityOverString(t *testing.T) {
	// "08" == 8 numerically once either side is a Number, even though the
	// strings themselves differ.
	if !Compare(ast.Eq, StringValue("08"), NumberValue(8)) {
		t.Errorf("'08' = 8 should compare numerically and succeed")
	}
}

func TestCompareBooleanPriority(t *testing.T) {
	if !Compare(ast.Eq, BoolValue(true), StringValue("x")) {
		t.Errorf("true = 'x' should coerce 'x' to boolean(true) and succeed")
	}
	if Compare(ast.Eq, BoolValue(false), StringValue("x")) {
		t.Errorf("false = 'x' should coerce 'x' to boolean(true) and fail")
	}
}

func TestCompareDatePromotion(t *testing.T) {
	if !Compare(ast.Lt, StringValue("2020-01-01"), StringValue("2020-06-01")) {
		t.Errorf("date-like strings should compare as dates, not lexically")
	}
	// Lexical comparison of these two numeric strings would disagree with
	// date comparison if the '-' were treated as subtraction; confirm the
	// date path is actually taken instead of a numeric NaN short-circuit.
	if Compare(ast.Gt, StringValue("2020-01-01"), StringValue("2020-06-01")) {
		t.Errorf("2020-01-01 should not be after 2020-06-01")
	}
}

func TestCompareNodeSetExistential(t *testing.T) {
	doc := parseSmallDoc(t)
	root := doc.DocumentElement()
	set := NewNodeSet([]Node{NodeFromTree(root.FirstChild), NodeFromTree(root.FirstChild.NextSibling)}, Unsorted)
	// root's children have string-values "1" and "2".
	if !Compare(ast.Eq, NodeSetValue(set), NumberValue(2)) {
		t.Errorf("node-set = 2 should succeed since one member's string-value converts to 2")
	}
	if Compare(ast.Eq, NodeSetValue(set), NumberValue(99)) {
		t.Errorf("node-set = 99 should fail, no member matches")
	}
}

func TestFlipReversesRelationalOperators(t *testing.T) {
	cases := map[ast.Kind]ast.Kind{
		ast.Lt: ast.Gt,
		ast.Gt: ast.Lt,
		ast.Le: ast.Ge,
		ast.Ge: ast.Le,
		ast.Eq: ast.Eq,
	}
	for op, want := range cases {
		if got := flip(op); got != want {
			t.Errorf("flip(%v) = %v, want %v", op, got, want)
		}
	}
}

func TestCompareDatesEquality(t *testing.T) {
	t1 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if !compareDates(ast.Eq, t1, t2) {
		t.Errorf("identical instants should compare equal")
	}
	if compareDates(ast.Ne, t1, t2) {
		t.Errorf("identical instants should not compare unequal")
	}
}
