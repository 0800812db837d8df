package domtree

import (
	"testing"

	"github.com/kr/pretty"
)

func TestParseBasic(t *testing.T) {
	doc, err := Parse([]byte(`<r><a>1</a><a>2</a><a>3</a></r>`))
	if err != nil {
		t.Fatal(err)
	}
	root := doc.DocumentElement()
	if root == nil || root.Name.Local != "r" {
		t.Fatalf("expected root element r, got %# v", pretty.Formatter(root))
	}
	children := root.Children()
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d: %# v", len(children), pretty.Formatter(children))
	}
	for i, c := range children {
		if c.Kind != Element || c.Name.Local != "a" {
			t.Fatalf("child %d: expected element a, got %# v", i, pretty.Formatter(c))
		}
	}
}

func TestParseOrderMonotonic(t *testing.T) {
	doc, err := Parse([]byte(`<r x="1"><a/><b/></r>`))
	if err != nil {
		t.Fatal(err)
	}
	root := doc.DocumentElement()
	prev := root.Order()
	for _, a := range root.Attrs {
		if a.Order() <= prev {
			t.Fatalf("attribute order %d did not increase past %d", a.Order(), prev)
		}
		prev = a.Order()
	}
	for _, c := range root.Children() {
		if c.Order() <= prev {
			t.Fatalf("child order %d did not increase past %d", c.Order(), prev)
		}
		prev = c.Order()
	}
}

func TestNamespaceDecl(t *testing.T) {
	doc, err := Parse([]byte(`<r xmlns="http://default/" xmlns:p="http://p/"><a/></r>`))
	if err != nil {
		t.Fatal(err)
	}
	root := doc.DocumentElement()
	if len(root.NSDecl) != 2 {
		t.Fatalf("expected 2 ns decls, got %d", len(root.NSDecl))
	}
	if len(root.Attrs) != 0 {
		t.Fatalf("xmlns attrs should not appear in Attrs, got %d", len(root.Attrs))
	}
}

func TestParentAndSiblingLinks(t *testing.T) {
	doc, err := Parse([]byte(`<r><a/><b/><c/></r>`))
	if err != nil {
		t.Fatal(err)
	}
	root := doc.DocumentElement()
	kids := root.Children()
	if kids[1].PrevSibling != kids[0] || kids[1].NextSibling != kids[2] {
		t.Fatalf("sibling links broken: %# v", pretty.Formatter(kids))
	}
	if kids[0].Parent != root {
		t.Fatalf("parent link broken")
	}
	if !root.IsAncestorOf(kids[0]) {
		t.Fatalf("expected root to be ancestor of child")
	}
	if kids[0].IsAncestorOf(root) {
		t.Fatalf("child must not be ancestor of root")
	}
}

func TestMalformedDocument(t *testing.T) {
	if _, err := Parse([]byte(`<r><a></r>`)); err == nil {
		t.Fatalf("expected error for mismatched end tag")
	}
}
