package xpath

import (
	"testing"

	"github.com/p-netm/enketo-xpath/domtree"
)

func TestNamespaceNodeListFirstOccurrenceWins(t *testing.T) {
	doc, err := domtree.Parse([]byte(
		`<root xmlns:h="urn:outer"><child xmlns:h="urn:inner">x</child></root>`))
	if err != nil {
		t.Fatalf("domtree.Parse: %v", err)
	}
	child := doc.DocumentElement().FirstChild

	entries := namespaceNodeList(child, false)
	found := false
	for _, e := range entries {
		if e.Prefix == "h" {
			found = true
			if e.URI != "urn:inner" {
				t.Errorf("nearest declaration should win: got %q, want urn:inner", e.URI)
			}
		}
	}
	if !found {
		t.Fatal("expected an 'h' prefix entry")
	}
}

func TestNamespaceNodeListAlwaysHasXML(t *testing.T) {
	doc, err := domtree.Parse([]byte(`<root></root>`))
	if err != nil {
		t.Fatalf("domtree.Parse: %v", err)
	}
	entries := namespaceNodeList(doc.DocumentElement(), false)
	found := false
	for _, e := range entries {
		if e.Prefix == "xml" && e.URI == NamespaceURIXML {
			found = true
		}
	}
	if !found {
		t.Error("namespace node list should always include the implicit xml prefix")
	}
}

func TestNamespaceNodeListDropsEmptyDefault(t *testing.T) {
	doc, err := domtree.Parse([]byte(`<root xmlns="">child</root>`))
	if err != nil {
		t.Fatalf("domtree.Parse: %v", err)
	}
	entries := namespaceNodeList(doc.DocumentElement(), false)
	for _, e := range entries {
		if e.Prefix == "" {
			t.Errorf("an empty-URI default namespace declaration should be dropped, found entry %+v", e)
		}
	}
}

func TestNSResolverReservedPrefixes(t *testing.T) {
	r := NewResolver(nil)
	uri, ok := r.LookupNamespaceURI("xml")
	if !ok || uri != NamespaceURIXML {
		t.Errorf("xml prefix should resolve to %q, got %q, ok=%v", NamespaceURIXML, uri, ok)
	}
	uri, ok = r.LookupNamespaceURI("xmlns")
	if !ok || uri != NamespaceURIXMLNS {
		t.Errorf("xmlns prefix should resolve to %q, got %q, ok=%v", NamespaceURIXMLNS, uri, ok)
	}
}

func TestSortNSPrefixesDeterministic(t *testing.T) {
	entries := []nsEntry{{Prefix: "b"}, {Prefix: "a"}, {Prefix: "c"}}
	got := sortNSPrefixes(entries)
	if got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("sortNSPrefixes = %v, want [a b c]", got)
	}
}
