package xpath

import (
	"strings"

	"github.com/p-netm/enketo-xpath/xpath/ast"
)

// matchesTest reports whether n (produced by axis) satisfies test.
func matchesTest(ctx *Context, axis string, n Node, test ast.Test) bool {
	switch test.Kind {
	case ast.AnyNode:
		return true
	case ast.TextTest:
		return n.Kind == KindText || n.Kind == KindCDATA
	case ast.CommentTest:
		return n.Kind == KindComment
	case ast.PITest:
		if n.Kind != KindProcInst {
			return false
		}
		return test.PITarget == "" || n.Tree.Name.Local == test.PITarget
	case ast.NameTest:
		return matchesNameTest(ctx, axis, n, test)
	}
	return false
}

func matchesNameTest(ctx *Context, axis string, n Node, test ast.Test) bool {
	if n.Kind != principalNodeKind(axis) {
		return false
	}

	if axis == "namespace" {
		return test.Local == "*" || foldEq(ctx, n.NSPrefix, test.Local)
	}

	if test.Local == "*" && test.Prefix == "" {
		return true
	}

	name, err := expandedNameOf(ctx.ec, n)
	if err != nil {
		return false
	}

	// Per XPath 1.0, an unprefixed QName node test expands to "no
	// namespace", never to the context's default xmlns declaration
	// (only a node's own unprefixed name picks up the default
	// namespace, in expandedNameOf) -- a well-known asymmetry that
	// requires an explicit prefix in the expression to match elements
	// in a default-namespaced document.
	wantURI := ""
	if test.Prefix != "" {
		uri, ok := ctx.NSMap[test.Prefix]
		if !ok {
			return false
		}
		wantURI = uri
	}

	if test.Local == "*" {
		return foldEq(ctx, name.URI, wantURI)
	}
	return foldEq(ctx, name.URI, wantURI) && foldEq(ctx, name.Local, test.Local)
}

func foldEq(ctx *Context, a, b string) bool {
	if ctx.ec.opts.CaseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}
