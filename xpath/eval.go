package xpath

import (
	"math"

	"github.com/p-netm/enketo-xpath/domtree"
	"github.com/p-netm/enketo-xpath/xpath/ast"
)

// Eval walks n and returns its value under ctx. This is component E: the
// evaluator mirrors xsd/walk.go's single-dispatch-by-tag walk, switching
// on ast.Kind exactly as that file switches on xml.Token's concrete type.
func Eval(ctx *Context, n *ast.Node) (Value, error) {
	switch n.Kind {
	case ast.Path:
		return evalPath(ctx, n)
	case ast.Step:
		set, err := evalLocationStep(ctx, n, []Node{ctx.ctxNode})
		if err != nil {
			return Value{}, err
		}
		return NodeSetValue(set), nil
	case ast.Filter:
		return evalFilter(ctx, n)
	case ast.Union:
		return evalUnion(ctx, n)
	case ast.Or:
		left, err := Eval(ctx, n.Left)
		if err != nil {
			return Value{}, err
		}
		if left.ToBoolean() {
			return BoolValue(true), nil
		}
		right, err := Eval(ctx, n.Right)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(right.ToBoolean()), nil
	case ast.And:
		left, err := Eval(ctx, n.Left)
		if err != nil {
			return Value{}, err
		}
		if !left.ToBoolean() {
			return BoolValue(false), nil
		}
		right, err := Eval(ctx, n.Right)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(right.ToBoolean()), nil
	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge:
		left, err := Eval(ctx, n.Left)
		if err != nil {
			return Value{}, err
		}
		right, err := Eval(ctx, n.Right)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(Compare(n.Kind, left, right)), nil
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Mod:
		left, err := Eval(ctx, n.Left)
		if err != nil {
			return Value{}, err
		}
		right, err := Eval(ctx, n.Right)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(arith(n.Kind, left.ToNumber(), right.ToNumber())), nil
	case ast.Negate:
		right, err := Eval(ctx, n.Right)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(-right.ToNumber()), nil
	case ast.StringLit:
		return StringValue(n.Str), nil
	case ast.NumberLit:
		return NumberValue(n.Num), nil
	case ast.VarRef:
		key := ctx.ResolveVarKey(n.Prefix, n.Local)
		v, ok := ctx.Vars[key]
		if !ok {
			return Value{}, newError(TypeErr, "undefined variable $%s", key)
		}
		return v, nil
	case ast.FuncCall:
		return evalFuncCall(ctx, n)
	}
	return Value{}, newError(InvalidExpressionErr, "unevaluable node kind %d", n.Kind)
}

func arith(op ast.Kind, a, b float64) float64 {
	switch op {
	case ast.Add:
		return a + b
	case ast.Sub:
		return a - b
	case ast.Mul:
		return a * b
	case ast.Div:
		return a / b
	case ast.Mod:
		return math.Mod(a, b)
	}
	return math.NaN()
}

// evalPath evaluates a LocationPath (or a FilterExpr with a trailing
// path): Left establishes the input node-set (nil means the document
// root, otherwise Left is evaluated as an ordinary expression that must
// yield a node-set), and Right is walked relative to it.
func evalPath(ctx *Context, n *ast.Node) (Value, error) {
	var input []Node
	if n.Left == nil {
		input = []Node{NodeFromTree(documentOf(ctx.ctxNode.Tree))}
	} else {
		leftVal, err := Eval(ctx, n.Left)
		if err != nil {
			return Value{}, err
		}
		leftSet, err := leftVal.ToNodeSet()
		if err != nil {
			return Value{}, err
		}
		leftSet.SortDocumentOrder()
		input = leftSet.Nodes()
	}
	if n.Right == nil {
		return NodeSetValue(NewNodeSet(input, DocumentOrder)), nil
	}
	set, err := evalRelative(ctx, n.Right, input)
	if err != nil {
		return Value{}, err
	}
	return NodeSetValue(set), nil
}

func documentOf(n *domtree.Node) *domtree.Node { return n.Document() }

// evalRelative evaluates a Step or a chained Path of Steps against an
// input set of context nodes, unioning the per-node results.
func evalRelative(ctx *Context, n *ast.Node, input []Node) (*NodeSet, error) {
	switch n.Kind {
	case ast.Step:
		return evalLocationStep(ctx, n, input)
	case ast.Path:
		left, err := evalRelative(ctx, n.Left, input)
		if err != nil {
			return nil, err
		}
		left.SortDocumentOrder()
		return evalRelative(ctx, n.Right, left.Nodes())
	default:
		return nil, newError(InvalidExpressionErr, "expected a location step")
	}
}

// evalLocationStep evaluates one axis::test step against every node in
// input, filters by n.Test, applies n.Predicates with axis-aware
// proximity position, and unions the per-input-node results.
func evalLocationStep(ctx *Context, n *ast.Node, input []Node) (*NodeSet, error) {
	var all []Node
	seen := make(map[Node]bool)
	var resultOrder DocOrder

	for _, cn := range input {
		raw, order := axisNodes(ctx.ec, n.Axis, cn)
		if len(input) == 1 {
			resultOrder = order
		} else {
			resultOrder = Unsorted
		}

		var filtered []Node
		for _, cand := range raw {
			if matchesTest(ctx, n.Axis, cand, n.Test) {
				filtered = append(filtered, cand)
			}
		}

		for idx, cand := range filtered {
			predCtx := ctx.Clone(cand, idx+1, len(filtered))
			keep := true
			for _, pred := range n.Predicates {
				ok, err := evalPredicate(predCtx, pred)
				if err != nil {
					return nil, err
				}
				if !ok {
					keep = false
					break
				}
			}
			if keep && !seen[cand] {
				seen[cand] = true
				all = append(all, cand)
			}
		}
	}

	return NewNodeSet(all, resultOrder), nil
}

// evalPredicate implements the predicate truth-value rule (spec.md §4.E):
// a numeric predicate value tests against the context's proximity
// position; any other value is converted to boolean.
func evalPredicate(ctx *Context, pred *ast.Node) (bool, error) {
	v, err := Eval(ctx, pred)
	if err != nil {
		return false, err
	}
	if v.Kind == Number {
		return v.Num == float64(ctx.Position), nil
	}
	return v.ToBoolean(), nil
}

// evalFilter evaluates a FilterExpr: Left must be a node-set, sorted into
// document order before its Predicates are applied (unlike a Step's
// predicates, a Filter's proximity position is never axis-direction
// aware).
func evalFilter(ctx *Context, n *ast.Node) (Value, error) {
	baseVal, err := Eval(ctx, n.Left)
	if err != nil {
		return Value{}, err
	}
	base, err := baseVal.ToNodeSet()
	if err != nil {
		return Value{}, err
	}
	base.SortDocumentOrder()
	nodes := base.Nodes()

	var kept []Node
	for idx, cand := range nodes {
		predCtx := ctx.Clone(cand, idx+1, len(nodes))
		keep := true
		for _, pred := range n.Predicates {
			ok, err := evalPredicate(predCtx, pred)
			if err != nil {
				return Value{}, err
			}
			if !ok {
				keep = false
				break
			}
		}
		if keep {
			kept = append(kept, cand)
		}
	}
	return NodeSetValue(NewNodeSet(kept, DocumentOrder)), nil
}

func evalUnion(ctx *Context, n *ast.Node) (Value, error) {
	leftVal, err := Eval(ctx, n.Left)
	if err != nil {
		return Value{}, err
	}
	leftSet, err := leftVal.ToNodeSet()
	if err != nil {
		return Value{}, err
	}
	rightVal, err := Eval(ctx, n.Right)
	if err != nil {
		return Value{}, err
	}
	rightSet, err := rightVal.ToNodeSet()
	if err != nil {
		return Value{}, err
	}
	return NodeSetValue(leftSet.Append(rightSet)), nil
}

// evalFuncCall dispatches a function call. "if" and "coalesce" are
// special forms evaluated lazily (only the selected branch runs) since
// XForms expressions commonly guard an otherwise-erroring branch behind
// them; every other function is looked up in ctx.Funcs and its arguments
// evaluated eagerly.
func evalFuncCall(ctx *Context, n *ast.Node) (Value, error) {
	if n.Prefix == "" {
		switch n.Local {
		case "if":
			if len(n.Args) != 3 {
				return Value{}, newError(InvalidExpressionErr, "if() takes 3 arguments")
			}
			cond, err := Eval(ctx, n.Args[0])
			if err != nil {
				return Value{}, err
			}
			if cond.ToBoolean() {
				return Eval(ctx, n.Args[1])
			}
			return Eval(ctx, n.Args[2])
		case "coalesce":
			if len(n.Args) != 2 {
				return Value{}, newError(InvalidExpressionErr, "coalesce() takes 2 arguments")
			}
			first, err := Eval(ctx, n.Args[0])
			if err != nil {
				return Value{}, err
			}
			if first.ToStringValue() != "" {
				return first, nil
			}
			return Eval(ctx, n.Args[1])
		}
	}

	fn, ok := ctx.Funcs.Lookup(n.Prefix, n.Local, ctx.NSMap)
	if !ok {
		name := n.Local
		if n.Prefix != "" {
			name = n.Prefix + ":" + name
		}
		return Value{}, newError(NotSupportedErr, "unknown function %s()", name)
	}

	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := Eval(ctx, a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return fn.Call(ctx, args)
}
