package xpath

import "github.com/p-netm/enketo-xpath/domtree"

// NodeKind is the XPath node kind of a Node, extending domtree.Kind with
// the synthetic Namespace kind the host tree never materializes
// (spec.md §3).
type NodeKind int

const (
	KindDocument NodeKind = iota
	KindElement
	KindAttribute
	KindText
	KindCDATA
	KindComment
	KindProcInst
	KindNamespace
)

func (k NodeKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindElement:
		return "element"
	case KindAttribute:
		return "attribute"
	case KindText:
		return "text"
	case KindCDATA:
		return "cdata"
	case KindComment:
		return "comment"
	case KindProcInst:
		return "processing-instruction"
	case KindNamespace:
		return "namespace"
	default:
		return "unknown"
	}
}

func domtreeKind(k domtree.Kind) NodeKind {
	switch k {
	case domtree.Document:
		return KindDocument
	case domtree.Element:
		return KindElement
	case domtree.Attribute:
		return KindAttribute
	case domtree.Text:
		return KindText
	case domtree.CDATA:
		return KindCDATA
	case domtree.Comment:
		return KindComment
	case domtree.ProcInst:
		return KindProcInst
	default:
		return KindDocument
	}
}

// Node is the adapter's node handle: either a direct view of a domtree.Node
// (Tree set, NSPrefix/NSURI empty), or a synthesized namespace node
// (Tree is the owner element, NSPrefix/NSURI hold the declaration, nsIndex
// its position in that owner's synthesized namespace list). Node is a
// small comparable value type so node-sets can dedupe and order nodes
// with plain == rather than an identity map.
type Node struct {
	Kind     NodeKind
	Tree     *domtree.Node
	NSPrefix string
	NSURI    string
	nsIndex  int
}

// NodeFromTree wraps a domtree.Node as a Node of the corresponding kind.
// It never produces a KindNamespace node; those are only synthesized by
// the namespace axis (see namespace.go).
func NodeFromTree(n *domtree.Node) Node {
	return Node{Kind: domtreeKind(n.Kind), Tree: n}
}

// IsNamespace reports whether n is a synthesized namespace node.
func (n Node) IsNamespace() bool { return n.Kind == KindNamespace }
