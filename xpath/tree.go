package xpath

import (
	"strings"

	"github.com/p-netm/enketo-xpath/domtree"
)

// This file is the component A "tree adapter": a uniform, purely
// functional view over the host domtree.Node tree, extended with
// synthesized namespace nodes. Every function here is read-only.

func childrenOf(n Node) []Node {
	if n.Kind != KindElement && n.Kind != KindDocument {
		return nil
	}
	var out []Node
	for c := n.Tree.FirstChild; c != nil; c = c.NextSibling {
		if n.Kind == KindDocument && (c.Kind == domtree.Text || c.Kind == domtree.CDATA) {
			// spec.md §4.A: the document root's children are its
			// element/PI/comment nodes only.
			continue
		}
		out = append(out, NodeFromTree(c))
	}
	return out
}

// descendantsOf returns n's descendants in pre-order.
func descendantsOf(n Node) []Node {
	var out []Node
	var walk func(Node)
	walk = func(cur Node) {
		for _, c := range childrenOf(cur) {
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	return out
}

func attributesOf(n Node) []Node {
	if n.Kind != KindElement {
		return nil
	}
	out := make([]Node, len(n.Tree.Attrs))
	for i, a := range n.Tree.Attrs {
		out[i] = NodeFromTree(a)
	}
	return out
}

// parentOf returns n's parent per spec.md §4.A: the tree parent for most
// kinds; an attribute's or namespace node's owner element (domtree
// already links an attribute Node's Parent to its owner element at parse
// time, so no document-wide fallback scan is needed here).
func parentOf(n Node) (Node, bool) {
	if n.Kind == KindNamespace {
		return NodeFromTree(n.Tree), true
	}
	if n.Tree.Parent == nil {
		return Node{}, false
	}
	return NodeFromTree(n.Tree.Parent), true
}

// ancestorsOf returns n's ancestors, nearest first (reverse document
// order, matching the ancestor axis's docOrder tag).
func ancestorsOf(n Node) []Node {
	var out []Node
	cur := n
	for {
		p, ok := parentOf(cur)
		if !ok {
			return out
		}
		out = append(out, p)
		cur = p
	}
}

func followingSiblingsOf(n Node) []Node {
	if n.Kind == KindAttribute || n.Kind == KindNamespace || n.Tree == nil {
		return nil
	}
	var out []Node
	for s := n.Tree.NextSibling; s != nil; s = s.NextSibling {
		out = append(out, NodeFromTree(s))
	}
	return out
}

func precedingSiblingsOf(n Node) []Node {
	if n.Kind == KindAttribute || n.Kind == KindNamespace || n.Tree == nil {
		return nil
	}
	var out []Node
	for s := n.Tree.PrevSibling; s != nil; s = s.PrevSibling {
		out = append(out, NodeFromTree(s))
	}
	return out
}

// selfAndAncestors returns n followed by its ancestors, nearest first.
func selfAndAncestors(n Node) []Node {
	return append([]Node{n}, ancestorsOf(n)...)
}

// followingOf gathers, for n and each of its ancestors, that node's
// following siblings and their descendants (spec.md §4.A), returned in
// document order (the raw traversal order is irrelevant; the axis step
// sorts candidates by document-order index, see axis.go).
func followingOf(n Node) []Node {
	var out []Node
	for _, anc := range selfAndAncestors(n) {
		for _, sib := range followingSiblingsOf(anc) {
			out = append(out, sib)
			out = append(out, descendantsOf(sib)...)
		}
	}
	return out
}

// precedingOf is followingOf's mirror: preceding siblings and their
// descendants of n and each ancestor. The axis step sorts the result into
// reverse document order.
func precedingOf(n Node) []Node {
	var out []Node
	for _, anc := range selfAndAncestors(n) {
		for _, sib := range precedingSiblingsOf(anc) {
			out = append(out, sib)
			out = append(out, descendantsOf(sib)...)
		}
	}
	return out
}

// stringValueOf computes the XPath string-value of n, per spec.md §4.A:
// for document/element, the concatenation of all descendant text/CDATA
// data in document order; for attribute, its value; for namespace, its
// URI; for PI/comment/text/CDATA, their own data.
func stringValueOf(n Node) string {
	switch n.Kind {
	case KindDocument, KindElement:
		var b strings.Builder
		for _, d := range descendantsOf(n) {
			if d.Kind == KindText || d.Kind == KindCDATA {
				b.WriteString(d.Tree.Value)
			}
		}
		return b.String()
	case KindAttribute:
		return n.Tree.Value
	case KindNamespace:
		return n.NSURI
	case KindProcInst, KindComment, KindText, KindCDATA:
		return n.Tree.Value
	}
	return ""
}

// ExpandedName is a resolved (namespace URI, local name) pair.
type ExpandedName struct {
	URI   string
	Local string
}

// expandedNameOf returns n's (namespace URI, local name) pair. It does not
// split names itself: encoding/xml has already resolved a declared prefix
// into Name.Space, so a non-empty Name.Space is taken as the URI. An
// element with an empty Name.Space takes the URI of the in-scope default
// namespace entry, if any; attribute names never default.
func expandedNameOf(ec *evalCtx, n Node) (ExpandedName, error) {
	switch n.Kind {
	case KindElement:
		if n.Tree.Name.Space != "" {
			return ExpandedName{URI: n.Tree.Name.Space, Local: n.Tree.Name.Local}, nil
		}
		owner := n.Tree
		entries := ec.namespaceNodesOf(owner)
		for _, e := range entries {
			if e.NSPrefix == "" {
				return ExpandedName{URI: e.NSURI, Local: n.Tree.Name.Local}, nil
			}
		}
		return ExpandedName{URI: "", Local: n.Tree.Name.Local}, nil
	case KindAttribute:
		return ExpandedName{URI: n.Tree.Name.Space, Local: n.Tree.Name.Local}, nil
	case KindProcInst:
		return ExpandedName{URI: "", Local: n.Tree.Name.Local}, nil
	case KindNamespace:
		return ExpandedName{URI: "", Local: n.NSPrefix}, nil
	default:
		return ExpandedName{}, newError(TypeErr, "node kind %s has no expanded name", n.Kind)
	}
}

// compareOrder returns a negative number if a precedes b in document
// order, a positive number if a follows b, or 0 if a and b denote the
// same node. This is a simplification of spec.md §4.A's
// compareDocumentPosition bitfield, which additionally distinguishes
// "contains"/"contained-by" from plain precedes/follows: nothing in the
// module's testable properties (spec.md §8) needs that finer distinction,
// only a total order and an equality test, so the bitfield collapses to
// a tri-state comparator here.
func compareOrder(a, b Node) int {
	if a.Kind == KindNamespace && b.Kind == KindNamespace && a.Tree == b.Tree {
		return a.nsIndex - b.nsIndex
	}
	if a.Kind == KindNamespace {
		return compareOwnerAware(NodeFromTree(a.Tree), b, true)
	}
	if b.Kind == KindNamespace {
		return compareOwnerAware(a, NodeFromTree(b.Tree), false)
	}
	if a.Tree == b.Tree {
		return 0
	}
	return a.Tree.Order() - b.Tree.Order()
}

// compareOwnerAware compares a namespace node's owner element against a
// plain node. When the owner and the other node coincide, the namespace
// node is ordered immediately after its owner's start tag (before the
// owner's attributes and children), matching the glossary's "namespaces
// precede children" rule while still sorting after the element itself.
func compareOwnerAware(owner, other Node, ownerIsNamespaceSide bool) int {
	if owner.Tree == other.Tree {
		if ownerIsNamespaceSide {
			return 1
		}
		return -1
	}
	return owner.Tree.Order() - other.Tree.Order()
}

// EqualNode reports whether a and b denote the same node.
func EqualNode(a, b Node) bool { return compareOrder(a, b) == 0 }
