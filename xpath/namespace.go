package xpath

import (
	"sort"
	"strings"

	"github.com/p-netm/enketo-xpath/domtree"
)

// Resolver resolves a namespace prefix to a URI, the collaborator
// Compile consults to pre-resolve an expression's namespace prefixes
// (spec.md §4.H/§6). *NSResolver is the tree-backed implementation; a
// caller that needs to layer extra bindings on top of a document (as
// cmd/xpatheval's -ns flag does) can supply its own.
type Resolver interface {
	LookupNamespaceURI(prefix string) (string, bool)
}

// NSResolver resolves namespace prefixes to URIs using the in-scope
// declarations of a reference node (spec.md §4.H), grounded on
// xmltree.Scope.Resolve/pushNS's "walk up, first occurrence wins"
// algorithm.
type NSResolver struct {
	ref *domtree.Node
}

// NewResolver wraps node as a namespace resolver.
func NewResolver(node *domtree.Node) *NSResolver {
	return &NSResolver{ref: node}
}

// LookupNamespaceURI resolves prefix against the in-scope declarations of
// the resolver's reference node. xml and xmlns are always reserved.
func (r *NSResolver) LookupNamespaceURI(prefix string) (string, bool) {
	switch prefix {
	case "xml":
		return NamespaceURIXML, true
	case "xmlns":
		return NamespaceURIXMLNS, true
	}

	cur := r.ref
	if cur == nil {
		return "", false
	}
	if cur.Kind == domtree.Document {
		el := cur.DocumentElement()
		if el == nil {
			return "", false
		}
		cur = el
	} else if cur.Kind != domtree.Element {
		cur = cur.Parent
		for cur != nil && cur.Kind != domtree.Element {
			cur = cur.Parent
		}
		if cur == nil {
			return "", false
		}
	}

	for cur != nil && cur.Kind == domtree.Element {
		for _, decl := range cur.NSDecl {
			if decl.Prefix == prefix {
				return decl.URI, true
			}
		}
		cur = cur.Parent
	}
	return "", false
}

// nsEntry is one resolved (prefix, URI) pair in a synthesized namespace
// node list, in the deterministic order namespaceNodeList produces.
type nsEntry struct {
	Prefix string
	URI    string
}

// namespaceNodeList computes the synthesized namespace-node list for el,
// per spec.md §4.A: walk from el to the document collecting xmlns/
// xmlns:prefix declarations, first occurrence of a prefix wins, the empty
// default namespace is dropped if its URI is empty, xml is always
// appended, and prefixes are lower-cased unless caseSensitive.
func namespaceNodeList(el *domtree.Node, caseSensitive bool) []nsEntry {
	seen := map[string]bool{}
	var order []string
	uris := map[string]string{}

	for cur := el; cur != nil && cur.Kind == domtree.Element; cur = cur.Parent {
		for _, decl := range cur.NSDecl {
			prefix := decl.Prefix
			if !caseSensitive {
				prefix = strings.ToLower(prefix)
			}
			if seen[prefix] {
				continue
			}
			seen[prefix] = true
			uris[prefix] = decl.URI
			order = append(order, prefix)
		}
	}

	if uri, ok := uris[""]; ok && uri == "" {
		delete(uris, "")
		filtered := order[:0:0]
		for _, p := range order {
			if p != "" {
				filtered = append(filtered, p)
			}
		}
		order = filtered
	}

	if _, ok := uris["xml"]; !ok {
		order = append(order, "xml")
	}
	uris["xml"] = NamespaceURIXML

	out := make([]nsEntry, 0, len(order))
	for _, p := range order {
		out = append(out, nsEntry{Prefix: p, URI: uris[p]})
	}
	return out
}

// evalCtx is the comparator context (the "cyclic current expression
// pointer" design note resolved): it is constructed once per Expr.Evaluate
// call and threaded explicitly instead of stashed in a package variable,
// and it owns this evaluation's namespace-node interning cache (per
// design note, scoped per evaluation rather than process-wide).
type evalCtx struct {
	opts    Options
	nsCache map[*domtree.Node][]nsEntry
	locale  *localeFormatter
}

func newEvalCtx(opts Options) *evalCtx {
	return &evalCtx{opts: opts, nsCache: map[*domtree.Node][]nsEntry{}, locale: activeLocale()}
}

func (ec *evalCtx) namespaceNodesOf(el *domtree.Node) []Node {
	entries, ok := ec.nsCache[el]
	if !ok {
		entries = namespaceNodeList(el, ec.opts.CaseSensitive)
		ec.nsCache[el] = entries
	}
	out := make([]Node, len(entries))
	for i, e := range entries {
		out[i] = Node{Kind: KindNamespace, Tree: el, NSPrefix: e.Prefix, NSURI: e.URI, nsIndex: i}
	}
	return out
}

// sortNSPrefixes is used by tests to get a deterministic iteration order
// over a namespace list independent of map ordering.
func sortNSPrefixes(entries []nsEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Prefix
	}
	sort.Strings(out)
	return out
}
