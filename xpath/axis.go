package xpath

import "sort"

// axisNodes returns the raw candidate nodes of axis starting from ctx,
// already in that axis's own traversal order (position 1 first), plus
// the DocOrder the result is tagged with. This is the table spec.md §4.A
// assigns to each axis: reverse document order for ancestor, preceding,
// preceding-sibling and ancestor-or-self; document order for everything
// else.
func axisNodes(ec *evalCtx, axis string, ctx Node) ([]Node, DocOrder) {
	switch axis {
	case "self":
		return []Node{ctx}, DocumentOrder
	case "child":
		return childrenOf(ctx), DocumentOrder
	case "descendant":
		return descendantsOf(ctx), DocumentOrder
	case "descendant-or-self":
		return append([]Node{ctx}, descendantsOf(ctx)...), DocumentOrder
	case "parent":
		if p, ok := parentOf(ctx); ok {
			return []Node{p}, DocumentOrder
		}
		return nil, DocumentOrder
	case "ancestor":
		return ancestorsOf(ctx), ReverseDocumentOrder
	case "ancestor-or-self":
		return append([]Node{ctx}, ancestorsOf(ctx)...), ReverseDocumentOrder
	case "following-sibling":
		return followingSiblingsOf(ctx), DocumentOrder
	case "preceding-sibling":
		return precedingSiblingsOf(ctx), ReverseDocumentOrder
	case "following":
		nodes := followingOf(ctx)
		sort.Slice(nodes, func(i, j int) bool { return compareOrder(nodes[i], nodes[j]) < 0 })
		return nodes, DocumentOrder
	case "preceding":
		nodes := precedingOf(ctx)
		sort.Slice(nodes, func(i, j int) bool { return compareOrder(nodes[i], nodes[j]) > 0 })
		return nodes, ReverseDocumentOrder
	case "attribute":
		return attributesOf(ctx), DocumentOrder
	case "namespace":
		if ctx.Kind != KindElement {
			return nil, DocumentOrder
		}
		return ec.namespaceNodesOf(ctx.Tree), DocumentOrder
	default:
		return nil, DocumentOrder
	}
}

// principalNodeKind is the node kind a NameTest on axis matches against
// (spec.md §4.A): attribute nodes on the attribute axis, namespace nodes
// on the namespace axis, element nodes everywhere else.
func principalNodeKind(axis string) NodeKind {
	switch axis {
	case "attribute":
		return KindAttribute
	case "namespace":
		return KindNamespace
	default:
		return KindElement
	}
}

func isForwardAxis(axis string) bool {
	switch axis {
	case "ancestor", "preceding", "preceding-sibling", "ancestor-or-self":
		return false
	default:
		return true
	}
}
