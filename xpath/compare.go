package xpath

import (
	"time"

	"github.com/p-netm/enketo-xpath/xpath/ast"
)

// Compare implements the cross-kind comparison engine of spec.md §4.D:
// the three-case decision table (both node-sets, one node-set, neither)
// that every relational and equality operator in eval.go funnels through.
func Compare(op ast.Kind, a, b Value) bool {
	if a.Kind == NodeSetKind && b.Kind == NodeSetKind {
		return compareNodeSets(op, a.Set, b.Set)
	}
	if a.Kind == NodeSetKind {
		return compareNodeSetAgainst(op, a.Set, b, false)
	}
	if b.Kind == NodeSetKind {
		return compareNodeSetAgainst(op, b.Set, a, true)
	}
	return comparePrimitives(op, a, b)
}

// compareNodeSets implements case 1: true if there exist n1 in s1, n2 in
// s2 whose string-values satisfy op (numerically for relational
// operators, with date promotion; as plain strings for = and !=).
func compareNodeSets(op ast.Kind, s1, s2 *NodeSet) bool {
	for _, v1 := range s1.StringValues() {
		for _, v2 := range s2.StringValues() {
			if compareStrings(op, v1, v2) {
				return true
			}
		}
	}
	return false
}

// compareNodeSetAgainst implements case 2: one side is a node-set, the
// other a primitive value. swapped indicates the node-set was originally
// the right-hand operand, so the operator's direction must be flipped
// when consulting it (a < b with a the node-set means "exists n: n < b").
func compareNodeSetAgainst(op ast.Kind, set *NodeSet, other Value, swapped bool) bool {
	if swapped {
		op = flip(op)
	}
	switch other.Kind {
	case Boolean:
		return comparePrimitives(op, BoolValue(set.Len() > 0), other)
	case Number:
		for _, s := range set.StringValues() {
			if compareNumberLike(op, StringValue(s).ToNumber(), other.Num) {
				return true
			}
		}
		return false
	case DateKind:
		for _, s := range set.StringValues() {
			if t, ok := StringValue(s).ToDate(); ok {
				if compareDates(op, t, other.Date) {
					return true
				}
			}
		}
		return false
	default: // String
		for _, s := range set.StringValues() {
			if compareStrings(op, s, other.Str) {
				return true
			}
		}
		return false
	}
}

// comparePrimitives implements case 3: neither side is a node-set. Per
// spec.md §4.D, equality operators apply the boolean > number > string
// coercion priority; relational operators always compare numerically,
// with date promotion when both sides are date-like, so that an ordinary
// numeric string comparison is never silently reinterpreted as a date
// comparison just because one side happens to parse as one.
func comparePrimitives(op ast.Kind, a, b Value) bool {
	switch op {
	case ast.Eq, ast.Ne:
		if a.Kind == Boolean || b.Kind == Boolean {
			return boolEq(op, a.ToBoolean(), b.ToBoolean())
		}
		if a.Kind == Number || b.Kind == Number {
			return numEq(op, a.ToNumber(), b.ToNumber())
		}
		if a.Kind == DateKind || b.Kind == DateKind {
			if ta, ok := a.ToDate(); ok {
				if tb, ok := b.ToDate(); ok {
					return dateEq(op, ta, tb)
				}
			}
		}
		return strEq(op, a.ToStringValue(), b.ToStringValue())
	default:
		if isDateLike(a) && isDateLike(b) {
			if ta, ok := a.ToDate(); ok {
				if tb, ok := b.ToDate(); ok {
					return compareDates(op, ta, tb)
				}
			}
		}
		return compareNumberLike(op, a.ToNumber(), b.ToNumber())
	}
}

func isDateLike(v Value) bool {
	switch v.Kind {
	case DateKind:
		return true
	case String:
		return IsDateString(v.Str)
	case NodeSetKind:
		return v.Set.Len() > 0 && IsDateString(v.Set.StringValue())
	}
	return false
}

func compareStrings(op ast.Kind, a, b string) bool {
	switch op {
	case ast.Eq:
		return a == b
	case ast.Ne:
		return a != b
	default:
		return compareNumberLike(op, StringValue(a).ToNumber(), StringValue(b).ToNumber())
	}
}

func compareNumberLike(op ast.Kind, a, b float64) bool {
	switch op {
	case ast.Eq:
		return a == b
	case ast.Ne:
		return a != b
	case ast.Lt:
		return a < b
	case ast.Le:
		return a <= b
	case ast.Gt:
		return a > b
	case ast.Ge:
		return a >= b
	}
	return false
}

func compareDates(op ast.Kind, a, b time.Time) bool {
	switch op {
	case ast.Eq:
		return a.Equal(b)
	case ast.Ne:
		return !a.Equal(b)
	case ast.Lt:
		return a.Before(b)
	case ast.Le:
		return a.Before(b) || a.Equal(b)
	case ast.Gt:
		return a.After(b)
	case ast.Ge:
		return a.After(b) || a.Equal(b)
	}
	return false
}

func boolEq(op ast.Kind, a, b bool) bool {
	if op == ast.Eq {
		return a == b
	}
	return a != b
}

func numEq(op ast.Kind, a, b float64) bool {
	if op == ast.Eq {
		return a == b
	}
	return a != b
}

func dateEq(op ast.Kind, a, b time.Time) bool {
	if op == ast.Eq {
		return a.Equal(b)
	}
	return !a.Equal(b)
}

func strEq(op ast.Kind, a, b string) bool {
	if op == ast.Eq {
		return a == b
	}
	return a != b
}

func flip(op ast.Kind) ast.Kind {
	switch op {
	case ast.Lt:
		return ast.Gt
	case ast.Le:
		return ast.Ge
	case ast.Gt:
		return ast.Lt
	case ast.Ge:
		return ast.Le
	default:
		return op
	}
}
