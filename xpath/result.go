package xpath

// ResultKind mirrors the ten XPathResult type constants of the DOM Level
// 3 XPath recommendation that spec.md §6 derives its external result
// contract from.
type ResultKind int

const (
	AnyType ResultKind = iota
	NumberType
	StringType
	BooleanType
	UnorderedNodeIteratorType
	OrderedNodeIteratorType
	UnorderedNodeSnapshotType
	OrderedNodeSnapshotType
	AnyUnorderedNodeType
	FirstOrderedNodeType
)

// Result wraps an evaluated Value as the requested ResultKind, exposing
// the iterator/snapshot/single-node access patterns of the DOM contract
// on top of this package's own Value/NodeSet types.
type Result struct {
	Kind  ResultKind
	value Value
	nodes []Node
	pos   int
}

// AsResult coerces value into kind, converting between value kinds where
// the target demands it (e.g. requesting NumberType from a node-set
// result converts via Value.ToNumber).
func AsResult(value Value, kind ResultKind) (*Result, error) {
	switch kind {
	case NumberType:
		return &Result{Kind: kind, value: NumberValue(value.ToNumber())}, nil
	case StringType:
		return &Result{Kind: kind, value: StringValue(value.ToStringValue())}, nil
	case BooleanType:
		return &Result{Kind: kind, value: BoolValue(value.ToBoolean())}, nil
	case UnorderedNodeIteratorType, UnorderedNodeSnapshotType:
		set, err := value.ToNodeSet()
		if err != nil {
			return nil, err
		}
		return &Result{Kind: kind, nodes: set.Nodes()}, nil
	case OrderedNodeIteratorType, OrderedNodeSnapshotType:
		set, err := value.ToNodeSet()
		if err != nil {
			return nil, err
		}
		set.SortDocumentOrder()
		return &Result{Kind: kind, nodes: set.Nodes()}, nil
	case AnyUnorderedNodeType:
		set, err := value.ToNodeSet()
		if err != nil {
			return nil, err
		}
		var nodes []Node
		if n, ok := set.First(); ok {
			nodes = []Node{n}
		}
		return &Result{Kind: kind, nodes: nodes}, nil
	case FirstOrderedNodeType:
		set, err := value.ToNodeSet()
		if err != nil {
			return nil, err
		}
		var nodes []Node
		if n, ok := set.First(); ok {
			nodes = []Node{n}
		}
		return &Result{Kind: kind, nodes: nodes}, nil
	default: // AnyType: pick the natural representation of value's own kind
		switch value.Kind {
		case NodeSetKind:
			return AsResult(value, UnorderedNodeIteratorType)
		case Number:
			return AsResult(value, NumberType)
		case Boolean:
			return AsResult(value, BooleanType)
		default:
			return AsResult(value, StringType)
		}
	}
}

// NumberValue returns r's value as a number. Valid for NumberType.
func (r *Result) NumberValue() float64 { return r.value.ToNumber() }

// StringValue returns r's value as a string. Valid for StringType.
func (r *Result) StringValue() string { return r.value.ToStringValue() }

// BooleanValue returns r's value as a boolean. Valid for BooleanType.
func (r *Result) BooleanValue() bool { return r.value.ToBoolean() }

// IterateNext advances an iterator-kind Result and returns its next node,
// or ok=false once exhausted.
func (r *Result) IterateNext() (Node, bool) {
	if r.pos >= len(r.nodes) {
		return Node{}, false
	}
	n := r.nodes[r.pos]
	r.pos++
	return n, true
}

// SnapshotLength returns the number of nodes in a snapshot-kind Result.
func (r *Result) SnapshotLength() int { return len(r.nodes) }

// SnapshotItem returns the i'th node of a snapshot-kind Result.
func (r *Result) SnapshotItem(i int) (Node, bool) {
	if i < 0 || i >= len(r.nodes) {
		return Node{}, false
	}
	return r.nodes[i], true
}

// SingleNodeValue returns the sole node of an AnyUnorderedNodeType or
// FirstOrderedNodeType Result, or ok=false if it matched nothing.
func (r *Result) SingleNodeValue() (Node, bool) {
	if len(r.nodes) == 0 {
		return Node{}, false
	}
	return r.nodes[0], true
}
