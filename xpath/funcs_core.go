package xpath

import (
	"math"
	"strings"

	"github.com/p-netm/enketo-xpath/domtree"
)

// coreFuncSpecs is the standard XPath 1.0 function library (spec.md
// §4.F), grounded on the expression grammar of the W3C recommendation
// this package's parser already implements.
var coreFuncSpecs = []FuncSpec{
	{Name: "last", MinArgs: 0, MaxArgs: 0, Ret: Number, Fn: fnLast},
	{Name: "position", MinArgs: 0, MaxArgs: 1, Args: []ArgSpec{{Kind: NodeSetKind}}, Ret: Number, Fn: fnPosition},
	{Name: "count", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: NodeSetKind}}, Ret: Number, Fn: fnCount},
	{Name: "id", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: String}}, Ret: NodeSetKind, Fn: fnID},
	{Name: "local-name", MinArgs: 0, MaxArgs: 1, Args: []ArgSpec{{Kind: NodeSetKind}}, Ret: String, Fn: fnLocalName},
	{Name: "namespace-uri", MinArgs: 0, MaxArgs: 1, Args: []ArgSpec{{Kind: NodeSetKind}}, Ret: String, Fn: fnNamespaceURI},
	{Name: "name", MinArgs: 0, MaxArgs: 1, Args: []ArgSpec{{Kind: NodeSetKind}}, Ret: String, Fn: fnName},
	{Name: "string", MinArgs: 0, MaxArgs: 1, Args: []ArgSpec{{Kind: String}}, Ret: String, Fn: fnString},
	{Name: "concat", MinArgs: 1, MaxArgs: -1, Args: []ArgSpec{{Kind: String, Variadic: true}}, Ret: String, Fn: fnConcat},
	{Name: "starts-with", MinArgs: 2, MaxArgs: 2, Args: []ArgSpec{{Kind: String}, {Kind: String}}, Ret: Boolean, Fn: fnStartsWith},
	{Name: "contains", MinArgs: 2, MaxArgs: 2, Args: []ArgSpec{{Kind: String}, {Kind: String}}, Ret: Boolean, Fn: fnContains},
	{Name: "substring-before", MinArgs: 2, MaxArgs: 2, Args: []ArgSpec{{Kind: String}, {Kind: String}}, Ret: String, Fn: fnSubstringBefore},
	{Name: "substring-after", MinArgs: 2, MaxArgs: 2, Args: []ArgSpec{{Kind: String}, {Kind: String}}, Ret: String, Fn: fnSubstringAfter},
	{Name: "substring", MinArgs: 2, MaxArgs: 3, Args: []ArgSpec{{Kind: String}, {Kind: Number}, {Kind: Number}}, Ret: String, Fn: fnSubstring},
	{Name: "string-length", MinArgs: 0, MaxArgs: 1, Args: []ArgSpec{{Kind: String}}, Ret: Number, Fn: fnStringLength},
	{Name: "normalize-space", MinArgs: 0, MaxArgs: 1, Args: []ArgSpec{{Kind: String}}, Ret: String, Fn: fnNormalizeSpace},
	{Name: "translate", MinArgs: 3, MaxArgs: 3, Args: []ArgSpec{{Kind: String}, {Kind: String}, {Kind: String}}, Ret: String, Fn: fnTranslate},
	{Name: "boolean", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Boolean}}, Ret: Boolean, Fn: fnBoolean},
	{Name: "not", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Boolean}}, Ret: Boolean, Fn: fnNot},
	{Name: "true", MinArgs: 0, MaxArgs: 0, Ret: Boolean, Fn: fnTrue},
	{Name: "false", MinArgs: 0, MaxArgs: 0, Ret: Boolean, Fn: fnFalse},
	{Name: "lang", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: String}}, Ret: Boolean, Fn: fnLang},
	{Name: "number", MinArgs: 0, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: fnNumber},
	{Name: "sum", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: NodeSetKind}}, Ret: Number, Fn: fnSum},
	{Name: "floor", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: fnFloor},
	{Name: "ceiling", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: fnCeiling},
	{Name: "round", MinArgs: 1, MaxArgs: 2, Args: []ArgSpec{{Kind: Number}, {Kind: Number}}, Ret: Number, Fn: fnRound},
}

func fnLast(ctx *Context, args []Value) (Value, error) { return NumberValue(float64(ctx.Size)), nil }

// fnPosition implements the dual-arity position() of spec.md §4.F and
// §8's REDESIGN FLAGS note: with no argument, the XPath 1.0 context
// position; with a single-node node-set, the non-standard XForms
// semantic of the 1-based index of that element among preceding siblings
// sharing its tag name. A multi-node argument is an error.
func fnPosition(ctx *Context, args []Value) (Value, error) {
	if len(args) == 0 {
		return NumberValue(float64(ctx.Position)), nil
	}
	set, err := args[0].ToNodeSet()
	if err != nil {
		return Value{}, err
	}
	if set.Len() != 1 {
		return Value{}, newError(InvalidExpressionErr,
			"position(): argument must be a single node, got %d", set.Len())
	}
	n, _ := set.First()
	return NumberValue(float64(xformsPositionOf(ctx.ec, n))), nil
}

// xformsPositionOf counts n among the preceding siblings (plus itself)
// that share its expanded name, 1-based, mirroring XForms's repeat
// position() rather than XPath 1.0's proximity position.
func xformsPositionOf(ec *evalCtx, n Node) int {
	if n.Kind != KindElement || n.Tree == nil {
		return 1
	}
	name, err := expandedNameOf(ec, n)
	if err != nil {
		return 1
	}
	pos := 1
	for sib := n.Tree.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Kind != domtree.Element {
			continue
		}
		sibName, err := expandedNameOf(ec, NodeFromTree(sib))
		if err == nil && sibName == name {
			pos++
		}
	}
	return pos
}

func fnCount(ctx *Context, args []Value) (Value, error) {
	set, err := args[0].ToNodeSet()
	if err != nil {
		return Value{}, err
	}
	return NumberValue(float64(set.Len())), nil
}

func fnID(ctx *Context, args []Value) (Value, error) {
	var tokens []string
	if args[0].Kind == NodeSetKind {
		for _, s := range args[0].Set.StringValues() {
			tokens = append(tokens, strings.Fields(s)...)
		}
	} else {
		tokens = strings.Fields(args[0].ToStringValue())
	}

	doc := ctx.ctxNode.Tree.Document()
	var found []Node
	seen := map[*domtree.Node]bool{}
	for _, tok := range tokens {
		if el := findByID(ctx.ec, doc, tok); el != nil && !seen[el] {
			seen[el] = true
			found = append(found, NodeFromTree(el))
		}
	}
	return NodeSetValue(NewNodeSet(found, Unsorted)), nil
}

func findByID(ec *evalCtx, n *domtree.Node, id string) *domtree.Node {
	if n.Kind == domtree.Element {
		for _, a := range n.Attrs {
			if local, ok := ec.opts.UniqueIDs[a.Name.Space]; ok && a.Name.Local == local && a.Value == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(ec, c, id); found != nil {
			return found
		}
	}
	return nil
}

func contextOrFirstArgNode(ctx *Context, args []Value) (Node, bool, error) {
	if len(args) == 0 {
		return ctx.ctxNode, true, nil
	}
	set, err := args[0].ToNodeSet()
	if err != nil {
		return Node{}, false, err
	}
	n, ok := set.First()
	return n, ok, nil
}

func fnLocalName(ctx *Context, args []Value) (Value, error) {
	n, ok, err := contextOrFirstArgNode(ctx, args)
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return StringValue(""), nil
	}
	name, err := expandedNameOf(ctx.ec, n)
	if err != nil {
		return StringValue(""), nil
	}
	return StringValue(name.Local), nil
}

func fnNamespaceURI(ctx *Context, args []Value) (Value, error) {
	n, ok, err := contextOrFirstArgNode(ctx, args)
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return StringValue(""), nil
	}
	name, err := expandedNameOf(ctx.ec, n)
	if err != nil {
		return StringValue(""), nil
	}
	return StringValue(name.URI), nil
}

func fnName(ctx *Context, args []Value) (Value, error) {
	n, ok, err := contextOrFirstArgNode(ctx, args)
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return StringValue(""), nil
	}
	return StringValue(qualifiedName(ctx.ec, n)), nil
}

// qualifiedName reconstructs the lexical QName of n (prefix:local, or
// just local when n has no namespace) by finding a prefix bound to n's
// namespace URI among its in-scope declarations.
func qualifiedName(ec *evalCtx, n Node) string {
	switch n.Kind {
	case KindNamespace:
		return n.NSPrefix
	case KindProcInst:
		return n.Tree.Name.Local
	case KindElement, KindAttribute:
		name, err := expandedNameOf(ec, n)
		if err != nil || name.URI == "" {
			if err == nil {
				return name.Local
			}
			return n.Tree.Name.Local
		}
		owner := n.Tree
		if n.Kind == KindAttribute {
			owner = n.Tree.Parent
		}
		for _, e := range ec.namespaceNodesOf(owner) {
			if e.NSURI == name.URI && e.NSPrefix != "" {
				return e.NSPrefix + ":" + name.Local
			}
		}
		return name.Local
	default:
		return ""
	}
}

func fnString(ctx *Context, args []Value) (Value, error) {
	if len(args) == 0 {
		return StringValue(stringValueOf(ctx.ctxNode)), nil
	}
	return StringValue(args[0].ToStringValue()), nil
}

func fnConcat(ctx *Context, args []Value) (Value, error) {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.ToStringValue())
	}
	return StringValue(b.String()), nil
}

func fnStartsWith(ctx *Context, args []Value) (Value, error) {
	return BoolValue(strings.HasPrefix(args[0].ToStringValue(), args[1].ToStringValue())), nil
}

func fnContains(ctx *Context, args []Value) (Value, error) {
	return BoolValue(strings.Contains(args[0].ToStringValue(), args[1].ToStringValue())), nil
}

func fnSubstringBefore(ctx *Context, args []Value) (Value, error) {
	s, sep := args[0].ToStringValue(), args[1].ToStringValue()
	if i := strings.Index(s, sep); i >= 0 {
		return StringValue(s[:i]), nil
	}
	return StringValue(""), nil
}

func fnSubstringAfter(ctx *Context, args []Value) (Value, error) {
	s, sep := args[0].ToStringValue(), args[1].ToStringValue()
	if i := strings.Index(s, sep); i >= 0 {
		return StringValue(s[i+len(sep):]), nil
	}
	return StringValue(""), nil
}

// fnSubstring implements XPath 1.0's substring(), whose 1-based, rounded
// start/length semantics famously tolerate NaN and infinite arguments by
// clamping against the rune sequence rather than erroring.
func fnSubstring(ctx *Context, args []Value) (Value, error) {
	runes := []rune(args[0].ToStringValue())
	start := roundXPath(args[1].ToNumber())
	length := math.Inf(1)
	if len(args) == 3 {
		length = roundXPath(args[2].ToNumber())
	}
	if math.IsNaN(start) || (len(args) == 3 && math.IsNaN(start+length)) {
		return StringValue(""), nil
	}

	first := int(math.Max(1, start))
	var last float64
	if math.IsInf(length, 1) {
		last = math.Inf(1)
	} else {
		last = start + length
	}
	lastIdx := len(runes) + 1
	if !math.IsInf(last, 1) {
		lastIdx = int(math.Min(float64(len(runes)+1), last))
	}
	if first >= lastIdx || first > len(runes) {
		return StringValue(""), nil
	}
	if first < 1 {
		first = 1
	}
	return StringValue(string(runes[first-1 : lastIdx-1])), nil
}

func fnStringLength(ctx *Context, args []Value) (Value, error) {
	s := stringValueOf(ctx.ctxNode)
	if len(args) == 1 {
		s = args[0].ToStringValue()
	}
	return NumberValue(float64(len([]rune(s)))), nil
}

func fnNormalizeSpace(ctx *Context, args []Value) (Value, error) {
	s := stringValueOf(ctx.ctxNode)
	if len(args) == 1 {
		s = args[0].ToStringValue()
	}
	return StringValue(strings.Join(strings.Fields(s), " ")), nil
}

func fnTranslate(ctx *Context, args []Value) (Value, error) {
	s, from, to := args[0].ToStringValue(), []rune(args[1].ToStringValue()), []rune(args[2].ToStringValue())
	mapping := make(map[rune]rune, len(from))
	deleted := make(map[rune]bool, len(from))
	for i, r := range from {
		if i < len(to) {
			mapping[r] = to[i]
		} else {
			deleted[r] = true
		}
	}
	var b strings.Builder
	for _, r := range s {
		if deleted[r] {
			continue
		}
		if m, ok := mapping[r]; ok {
			b.WriteRune(m)
			continue
		}
		b.WriteRune(r)
	}
	return StringValue(b.String()), nil
}

func fnBoolean(ctx *Context, args []Value) (Value, error) { return BoolValue(args[0].ToBoolean()), nil }

func fnNot(ctx *Context, args []Value) (Value, error) { return BoolValue(!args[0].ToBoolean()), nil }

func fnTrue(ctx *Context, args []Value) (Value, error) { return BoolValue(true), nil }

func fnFalse(ctx *Context, args []Value) (Value, error) { return BoolValue(false), nil }

// fnLang implements lang(): true if the nearest xml:lang declaration in
// scope for the context node matches the requested language, by exact
// match or as a more specific subtag (e.g. xml:lang="en-US" satisfies
// lang("en")).
func fnLang(ctx *Context, args []Value) (Value, error) {
	want := strings.ToLower(args[0].ToStringValue())
	for _, n := range selfAndAncestors(ctx.ctxNode) {
		if n.Kind != KindElement {
			continue
		}
		for _, a := range n.Tree.Attrs {
			if a.Name.Space == NamespaceURIXML && a.Name.Local == "lang" {
				got := strings.ToLower(a.Value)
				return BoolValue(got == want || strings.HasPrefix(got, want+"-")), nil
			}
		}
	}
	return BoolValue(false), nil
}

func fnNumber(ctx *Context, args []Value) (Value, error) {
	if len(args) == 0 {
		return NumberValue(StringValue(stringValueOf(ctx.ctxNode)).ToNumber()), nil
	}
	return NumberValue(args[0].ToNumber()), nil
}

func fnSum(ctx *Context, args []Value) (Value, error) {
	set, err := args[0].ToNodeSet()
	if err != nil {
		return Value{}, err
	}
	total := 0.0
	for _, s := range set.StringValues() {
		total += StringValue(s).ToNumber()
	}
	return NumberValue(total), nil
}

func fnFloor(ctx *Context, args []Value) (Value, error) {
	return NumberValue(math.Floor(args[0].ToNumber())), nil
}

func fnCeiling(ctx *Context, args []Value) (Value, error) {
	return NumberValue(math.Ceil(args[0].ToNumber())), nil
}

// fnRound implements round(n, d?): d (itself rounded to an integer,
// default 0) decimal places, per spec.md §4.F and the literal §8 scenario
// round(1.2345, 2) → 1.23.
func fnRound(ctx *Context, args []Value) (Value, error) {
	n := args[0].ToNumber()
	if len(args) == 1 {
		return NumberValue(roundXPath(n)), nil
	}
	d := roundXPath(args[1].ToNumber())
	if math.IsNaN(n) || math.IsInf(n, 0) || math.IsNaN(d) || math.IsInf(d, 0) {
		return NumberValue(roundXPath(n)), nil
	}
	scale := math.Pow(10, d)
	return NumberValue(roundXPath(n*scale) / scale), nil
}

// roundXPath implements XPath 1.0's round(): the integer closest to n,
// with ties broken toward positive infinity (unlike roundHalfAwayFromZero
// in date.go, which breaks ties away from zero for the date functions
// that use it).
func roundXPath(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return n
	}
	return math.Floor(n + 0.5)
}
