package xpath

import (
	"testing"

	"github.com/p-netm/enketo-xpath/domtree"
)

func parseSmallDoc(t *testing.T) *domtree.Node {
	t.Helper()
	doc, err := domtree.Parse([]byte(`<root><a>1</a><b>2</b><c>3</c></root>`))
	if err != nil {
		t.Fatalf("domtree.Parse: %v", err)
	}
	return doc
}

func TestNodeSetAppendDedup(t *testing.T) {
	doc := parseSmallDoc(t)
	root := doc.DocumentElement()
	a := root.FirstChild
	b := a.NextSibling

	s1 := NewNodeSet([]Node{NodeFromTree(a), NodeFromTree(b)}, Unsorted)
	s2 := NewNodeSet([]Node{NodeFromTree(b)}, Unsorted)

	merged := s1.Append(s2)
	if merged.Len() != 2 {
		t.Errorf("Append should dedupe repeated nodes, got Len()=%d", merged.Len())
	}
}

func TestNodeSetSortDocumentOrder(t *testing.T) {
	doc := parseSmallDoc(t)
	root := doc.DocumentElement()
	a := root.FirstChild
	b := a.NextSibling
	c := b.NextSibling

	set := NewNodeSet([]Node{NodeFromTree(c), NodeFromTree(a), NodeFromTree(b)}, Unsorted)
	set.SortDocumentOrder()
	nodes := set.Nodes()
	if nodes[0].Tree != a || nodes[1].Tree != b || nodes[2].Tree != c {
		t.Errorf("SortDocumentOrder did not restore document order: %v", nodes)
	}
}

func TestNodeSetSortReverseDocumentOrder(t *testing.T) {
	doc := parseSmallDoc(t)
	root := doc.DocumentElement()
	a := root.FirstChild
	b := a.NextSibling
	c := b.NextSibling

	set := NewNodeSet([]Node{NodeFromTree(a), NodeFromTree(b), NodeFromTree(c)}, Unsorted)
	set.SortReverseDocumentOrder()
	nodes := set.Nodes()
	if nodes[0].Tree != c || nodes[1].Tree != b || nodes[2].Tree != a {
		t.Errorf("SortReverseDocumentOrder did not reverse document order: %v", nodes)
	}
}

func TestEmptyNodeSet(t *testing.T) {
	set := EmptyNodeSet()
	if set.Len() != 0 {
		t.Errorf("EmptyNodeSet().Len() = %d, want 0", set.Len())
	}
	if _, ok := set.First(); ok {
		t.Errorf("EmptyNodeSet().First() should report ok=false")
	}
}
