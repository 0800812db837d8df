package xpath

import "sort"

// DocOrder tags how a NodeSet's underlying slice is currently ordered,
// so that a sort is only ever paid for once and only when actually
// needed (spec.md §4.C invariant 1).
type DocOrder int

const (
	Unsorted DocOrder = iota
	DocumentOrder
	ReverseDocumentOrder
)

// NodeSet is an XPath node-set: a deduplicated collection of Node values
// carrying a DocOrder tag describing its current ordering.
type NodeSet struct {
	nodes []Node
	order DocOrder
}

// NewNodeSet wraps nodes, already known to be in the given order (callers
// constructing from a single axis step know their order up front; callers
// merging multiple sources should pass Unsorted).
func NewNodeSet(nodes []Node, order DocOrder) *NodeSet {
	return &NodeSet{nodes: nodes, order: order}
}

// EmptyNodeSet returns a new, empty node-set.
func EmptyNodeSet() *NodeSet { return &NodeSet{order: DocumentOrder} }

// Len reports the number of nodes in s.
func (s *NodeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

// Nodes returns s's nodes in their current order (see Order).
func (s *NodeSet) Nodes() []Node {
	if s == nil {
		return nil
	}
	return s.nodes
}

// Order reports s's current DocOrder tag.
func (s *NodeSet) Order() DocOrder {
	if s == nil {
		return DocumentOrder
	}
	return s.order
}

// SortDocumentOrder sorts s's nodes into document order in place, unless
// it is already tagged DocumentOrder.
func (s *NodeSet) SortDocumentOrder() {
	if s == nil || s.order == DocumentOrder {
		return
	}
	sort.Slice(s.nodes, func(i, j int) bool {
		return compareOrder(s.nodes[i], s.nodes[j]) < 0
	})
	s.order = DocumentOrder
}

// SortReverseDocumentOrder sorts s's nodes into reverse document order in
// place, unless it is already tagged ReverseDocumentOrder.
func (s *NodeSet) SortReverseDocumentOrder() {
	if s == nil || s.order == ReverseDocumentOrder {
		return
	}
	sort.Slice(s.nodes, func(i, j int) bool {
		return compareOrder(s.nodes[i], s.nodes[j]) > 0
	})
	s.order = ReverseDocumentOrder
}

// Append merges other into s, eliminating duplicate nodes (spec.md §4.C
// invariant 2: union is a deduplicating merge, not a concatenation). The
// result is tagged Unsorted since the merge does not preserve either
// side's ordering.
func (s *NodeSet) Append(other *NodeSet) *NodeSet {
	if s == nil {
		s = EmptyNodeSet()
	}
	if other.Len() == 0 {
		return s
	}
	seen := make(map[Node]bool, s.Len())
	out := make([]Node, 0, s.Len()+other.Len())
	for _, n := range s.nodes {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range other.nodes {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return &NodeSet{nodes: out, order: Unsorted}
}

// First returns s's first node in document order and true, or the zero
// Node and false if s is empty.
func (s *NodeSet) First() (Node, bool) {
	if s.Len() == 0 {
		return Node{}, false
	}
	s.SortDocumentOrder()
	return s.nodes[0], true
}

// StringValue is the XPath string-value of a node-set: the string-value
// of its first node in document order, or "" if empty (spec.md §4.B).
func (s *NodeSet) StringValue() string {
	n, ok := s.First()
	if !ok {
		return ""
	}
	return stringValueOf(n)
}

// StringValues returns the string-value of every node in s, in s's
// current order, for functions such as join() that fold over a whole
// node-set rather than just its first member.
func (s *NodeSet) StringValues() []string {
	out := make([]string, s.Len())
	for i, n := range s.Nodes() {
		out[i] = stringValueOf(n)
	}
	return out
}
