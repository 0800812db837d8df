// Package ast defines the abstract syntax tree produced by xpath/parser
// and consumed by the xpath evaluator. This is the Go expression of the
// parser contract from the specification: a recursive node carrying a
// kind tag and the arguments appropriate to that kind, plus the list of
// namespace prefixes the expression references (so the caller can
// pre-resolve them against a document before evaluation).
package ast

// Kind tags the shape of a Node. It corresponds to the parser contract's
// string-typed "type" field ('/','step','predicate','function','|','or',
// 'and','=','!=','<=','<','>=','>','+','-','div','mod','*','string',
// 'number','$','name','nodeType').
type Kind int

const (
	// Path is a location path: Left '/' Right. Left may be nil (an
	// absolute path rooted at the context node's document).
	Path Kind = iota
	// Step is one axis::nodetest step, with zero or more Predicates.
	// Its Left is always nil: steps are chained by Path nodes (a full
	// location path is a left-leaning chain of Paths with Steps as
	// operands).
	Step
	// Filter is a FilterExpr: Left is a primary expression (a variable
	// reference, parenthesized expression, or function call) that must
	// evaluate to a node-set, filtered by Predicates in sequence. Unlike
	// Step, Filter does no axis traversal.
	Filter
	// Union is Left '|' Right, both must evaluate to node-sets.
	Union
	Or
	And
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Add
	Sub
	Mul
	Div
	Mod
	// Negate is unary minus: Right holds the operand.
	Negate
	// FuncCall is a function call: Prefix/Local name the function,
	// Args its argument expressions.
	FuncCall
	// StringLit is a string literal, value in Str.
	StringLit
	// NumberLit is a number literal, value in Num.
	NumberLit
	// VarRef is a $name variable reference, Prefix/Local name it.
	VarRef
	// Name is a bare qname kind kept for the parser contract's 'name'
	// type. The parser never produces it (node tests are carried in
	// Step.Test) and the evaluator does not evaluate it.
	Name
)

// TestKind tags the kind of node test attached to a Step.
type TestKind int

const (
	// AnyNode matches node() - every node of the axis's principal kind.
	AnyNode TestKind = iota
	// TextTest matches text() and CDATA nodes.
	TextTest
	// CommentTest matches comment().
	CommentTest
	// PITest matches processing-instruction(), optionally restricted
	// to a target via PITarget.
	PITest
	// NameTest matches a (possibly prefixed, possibly wildcarded) qname
	// against the axis's principal node kind.
	NameTest
)

// Test is the node test of a Step.
type Test struct {
	Kind     TestKind
	PITarget string // set only for PITest with a literal target argument
	Prefix   string // set only for NameTest; "" means no prefix
	Local    string // set only for NameTest; "*" is the wildcard
}

// Node is one AST node. Only the fields relevant to Kind are populated;
// this mirrors the spec's tagged-variant {type, args} shape while staying
// a single concrete Go type so the evaluator can switch on Kind instead of
// doing type assertions.
type Node struct {
	Kind Kind

	// Binary operators (Path, Union, Or, And, Eq, Ne, Lt, Le, Gt, Ge,
	// Add, Sub, Mul, Div, Mod) and Negate (Right only).
	Left, Right *Node

	// Step.
	Axis       string
	Test       Test
	Predicates []*Node

	// FuncCall / VarRef.
	Prefix string
	Local  string
	Args   []*Node

	// Literals.
	Str string
	Num float64
}

// Expr is the parsed representation of a source string: the AST root plus
// every namespace prefix referenced anywhere in it (function names, name
// tests, variable references), deduplicated but otherwise unordered. This
// is the {tree, nsPrefixes} pair the parser contract specifies.
type Expr struct {
	Root       *Node
	NSPrefixes []string
}
