package xpath

import (
	"github.com/p-netm/enketo-xpath/domtree"
	"github.com/p-netm/enketo-xpath/xpath/ast"
	"github.com/p-netm/enketo-xpath/xpath/parser"
)

// Expr is a compiled XPath expression: its AST plus the namespace-prefix
// map resolved once at Compile time (spec.md §6's "pre-resolve every
// nsPrefix against a document before evaluation") and the function
// registry it evaluates against.
type Expr struct {
	ast   *ast.Expr
	nsMap map[string]string
	funcs *FuncRegistry
	opts  Options
}

// Compile parses source and resolves every namespace prefix it
// references against resolver, failing with NamespaceErr on the first
// miss. A nil funcs uses a fresh registry seeded with the built-in
// function library.
func Compile(source string, resolver Resolver, opts Options, funcs *FuncRegistry) (*Expr, error) {
	parsed, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	nsMap := map[string]string{}
	for _, prefix := range parsed.NSPrefixes {
		uri, ok := resolver.LookupNamespaceURI(prefix)
		if !ok {
			return nil, newError(NamespaceErr, "unresolved namespace prefix %q", prefix)
		}
		nsMap[prefix] = uri
	}

	if funcs == nil {
		funcs = NewFuncRegistry()
	}
	return &Expr{ast: parsed, nsMap: nsMap, funcs: funcs, opts: opts}, nil
}

// Evaluate runs e against ctxNode as the context node, coercing the
// result to kind.
func (e *Expr) Evaluate(ctxNode *domtree.Node, kind ResultKind) (*Result, error) {
	root := NodeFromTree(ctxNode)
	c := NewContext(root, nil, e.funcs, e.nsMap, e.opts)
	val, err := Eval(c, e.ast.Root)
	if err != nil {
		return nil, err
	}
	return AsResult(val, kind)
}

// NSPrefixes reports the namespace prefixes e's source expression
// references, already resolved to URIs via the resolver passed to
// Compile.
func (e *Expr) NSPrefixes() map[string]string { return e.nsMap }

// Funcs returns e's function registry, so a caller can
// RegisterFunction/UnregisterFunction against the exact registry this
// expression will evaluate against.
func (e *Expr) Funcs() *FuncRegistry { return e.funcs }

// Evaluate is a one-shot convenience wrapping Compile and Expr.Evaluate
// for a single evaluation of source against ctxNode.
func Evaluate(source string, ctxNode *domtree.Node, resolver Resolver, opts Options, kind ResultKind) (*Result, error) {
	expr, err := Compile(source, resolver, opts, nil)
	if err != nil {
		return nil, err
	}
	return expr.Evaluate(ctxNode, kind)
}
