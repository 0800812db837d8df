package xpath

import (
	"testing"

	"github.com/p-netm/enketo-xpath/domtree"
	"github.com/p-netm/enketo-xpath/xpath/ast"
)

// TestUnprefixedNameTestIgnoresDefaultNamespace pins the corrected XPath
// 1.0 behavior: an unprefixed QName node test always expands to "no
// namespace", even inside an element carrying a default xmlns
// declaration. Only a node's own (unprefixed) name picks up the default
// namespace; a bare node test in the expression never does.
func TestUnprefixedNameTestIgnoresDefaultNamespace(t *testing.T) {
	doc, err := domtree.Parse([]byte(`<root xmlns="urn:example"><child>x</child></root>`))
	if err != nil {
		t.Fatalf("domtree.Parse: %v", err)
	}
	root := doc.DocumentElement()
	child := NodeFromTree(root.FirstChild)

	ctx := NewContext(NodeFromTree(root), nil, NewFuncRegistry(), map[string]string{}, NewOptions())

	test := ast.Test{Kind: ast.NameTest, Local: "child"}
	if matchesNameTest(ctx, "child", child, test) {
		t.Errorf("unprefixed node test 'child' should not match an element in the default namespace")
	}
}

func TestWildcardNameTestMatchesAnyElement(t *testing.T) {
	doc, err := domtree.Parse([]byte(`<root xmlns="urn:example"><child>x</child></root>`))
	if err != nil {
		t.Fatalf("domtree.Parse: %v", err)
	}
	root := doc.DocumentElement()
	child := NodeFromTree(root.FirstChild)
	ctx := NewContext(NodeFromTree(root), nil, NewFuncRegistry(), map[string]string{}, NewOptions())

	test := ast.Test{Kind: ast.NameTest, Local: "*"}
	if !matchesNameTest(ctx, "child", child, test) {
		t.Errorf("bare wildcard '*' should match any element regardless of namespace")
	}
}
