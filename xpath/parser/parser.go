// Package parser implements a hand-written recursive-descent parser for
// XPath 1.0 expressions, producing the xpath/ast tree that the xpath
// package's evaluator walks. Its grammar is the standard XPath 1.0
// grammar (https://www.w3.org/TR/1999/REC-xpath-19991116/); it is not
// redesigned here, only given a concrete Go implementation so the rest of
// the module is runnable end to end. Structurally it mirrors xsd/parse.go's
// hand-written scanner and xsd/walk.go's panic/recover error-bubbling
// idiom, adapted from walking decoded xml.Tokens to walking a lexed
// expression-string token stream.
package parser

import (
	"fmt"

	"github.com/p-netm/enketo-xpath/xpath/ast"
)

// SyntaxError reports a parse failure with the 1-based line and column at
// which it was detected, per the parser contract of the specification.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("xpath syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
}

var nodeTypeKeywords = map[string]bool{
	"comment": true, "text": true, "node": true, "processing-instruction": true,
}

var axisNames = map[string]bool{
	"ancestor": true, "ancestor-or-self": true, "attribute": true, "child": true,
	"descendant": true, "descendant-or-self": true, "following": true,
	"following-sibling": true, "namespace": true, "parent": true, "preceding": true,
	"preceding-sibling": true, "self": true,
}

type parser struct {
	src  string
	toks []token
	i    int
	ns   map[string]bool
}

// Parse parses source into an ast.Expr. On a syntax error, it returns a
// *SyntaxError carrying the offending line and column.
func Parse(source string) (expr *ast.Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			if le, ok := r.(lexError); ok {
				line, col := lineCol(source, le.pos)
				err = &SyntaxError{Message: le.msg, Line: line, Column: col}
				return
			}
			if pe, ok := r.(parseErr); ok {
				line, col := lineCol(source, pe.pos)
				err = &SyntaxError{Message: pe.msg, Line: line, Column: col}
				return
			}
			panic(r)
		}
	}()

	toks, err := tokenizeAll(source)
	if err != nil {
		return nil, err
	}
	p := &parser{src: source, toks: toks, ns: map[string]bool{}}
	root := p.parseExpr()
	if p.cur().kind != tokEOF {
		p.errf("unexpected trailing input")
	}
	prefixes := make([]string, 0, len(p.ns))
	for pre := range p.ns {
		prefixes = append(prefixes, pre)
	}
	return &ast.Expr{Root: root, NSPrefixes: prefixes}, nil
}

func tokenizeAll(src string) (toks []token, err error) {
	defer func() {
		if r := recover(); r != nil {
			if le, ok := r.(lexError); ok {
				line, col := lineCol(src, le.pos)
				err = &SyntaxError{Message: le.msg, Line: line, Column: col}
				return
			}
			panic(r)
		}
	}()
	l := newLexer(src)
	for {
		t := l.next()
		toks = append(toks, t)
		if t.kind == tokEOF {
			break
		}
	}
	return toks, nil
}

func lineCol(src string, pos int) (line, col int) {
	line = 1
	col = 1
	for i := 0; i < pos && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

type parseErr struct {
	msg string
	pos int
}

func (p *parser) errf(format string, args ...interface{}) {
	pos := len(p.src)
	if p.i < len(p.toks) {
		pos = p.toks[p.i].pos
	}
	panic(parseErr{msg: fmt.Sprintf(format, args...), pos: pos})
}

func (p *parser) cur() token  { return p.toks[p.i] }
func (p *parser) peek(n int) token {
	if p.i+n < len(p.toks) {
		return p.toks[p.i+n]
	}
	return p.toks[len(p.toks)-1]
}
func (p *parser) advance() token {
	t := p.toks[p.i]
	if p.i+1 < len(p.toks) {
		p.i++
	}
	return t
}

func (p *parser) expect(k tokKind, what string) token {
	if p.cur().kind != k {
		p.errf("expected %s", what)
	}
	return p.advance()
}

// isOperatorName reports whether a name-token's text is one of the
// keyword operators ('and','or','div','mod') that only act as operators
// between two expressions, never as a step's NCName.
func isOperatorName(s string) bool {
	switch s {
	case "and", "or", "div", "mod":
		return true
	}
	return false
}

func (p *parser) parseExpr() *ast.Node { return p.parseOr() }

func (p *parser) parseOr() *ast.Node {
	left := p.parseAnd()
	for p.cur().kind == tokName && p.cur().text == "or" {
		p.advance()
		right := p.parseAnd()
		left = &ast.Node{Kind: ast.Or, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseAnd() *ast.Node {
	left := p.parseEquality()
	for p.cur().kind == tokName && p.cur().text == "and" {
		p.advance()
		right := p.parseEquality()
		left = &ast.Node{Kind: ast.And, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseEquality() *ast.Node {
	left := p.parseRelational()
	for {
		switch p.cur().kind {
		case tokEq:
			p.advance()
			left = &ast.Node{Kind: ast.Eq, Left: left, Right: p.parseRelational()}
		case tokNe:
			p.advance()
			left = &ast.Node{Kind: ast.Ne, Left: left, Right: p.parseRelational()}
		default:
			return left
		}
	}
}

func (p *parser) parseRelational() *ast.Node {
	left := p.parseAdditive()
	for {
		switch p.cur().kind {
		case tokLt:
			p.advance()
			left = &ast.Node{Kind: ast.Lt, Left: left, Right: p.parseAdditive()}
		case tokLe:
			p.advance()
			left = &ast.Node{Kind: ast.Le, Left: left, Right: p.parseAdditive()}
		case tokGt:
			p.advance()
			left = &ast.Node{Kind: ast.Gt, Left: left, Right: p.parseAdditive()}
		case tokGe:
			p.advance()
			left = &ast.Node{Kind: ast.Ge, Left: left, Right: p.parseAdditive()}
		default:
			return left
		}
	}
}

func (p *parser) parseAdditive() *ast.Node {
	left := p.parseMultiplicative()
	for {
		switch p.cur().kind {
		case tokPlus:
			p.advance()
			left = &ast.Node{Kind: ast.Add, Left: left, Right: p.parseMultiplicative()}
		case tokMinus:
			p.advance()
			left = &ast.Node{Kind: ast.Sub, Left: left, Right: p.parseMultiplicative()}
		default:
			return left
		}
	}
}

func (p *parser) parseMultiplicative() *ast.Node {
	left := p.parseUnary()
	for {
		if p.cur().kind == tokStar {
			p.advance()
			left = &ast.Node{Kind: ast.Mul, Left: left, Right: p.parseUnary()}
			continue
		}
		if p.cur().kind == tokName && p.cur().text == "div" {
			p.advance()
			left = &ast.Node{Kind: ast.Div, Left: left, Right: p.parseUnary()}
			continue
		}
		if p.cur().kind == tokName && p.cur().text == "mod" {
			p.advance()
			left = &ast.Node{Kind: ast.Mod, Left: left, Right: p.parseUnary()}
			continue
		}
		return left
	}
}

func (p *parser) parseUnary() *ast.Node {
	if p.cur().kind == tokMinus {
		p.advance()
		return &ast.Node{Kind: ast.Negate, Right: p.parseUnary()}
	}
	return p.parseUnion()
}

func (p *parser) parseUnion() *ast.Node {
	left := p.parsePath()
	for p.cur().kind == tokPipe {
		p.advance()
		right := p.parsePath()
		left = &ast.Node{Kind: ast.Union, Left: left, Right: right}
	}
	return left
}

// parsePath implements PathExpr: either a LocationPath, or a FilterExpr
// (PrimaryExpr Predicate*) optionally followed by '/' or '//' and a
// RelativeLocationPath.
func (p *parser) parsePath() *ast.Node {
	if p.startsLocationPath() {
		return p.parseLocationPath()
	}
	node := p.parsePrimary()
	node = p.parsePredicates(node, nil)
	switch p.cur().kind {
	case tokSlash:
		p.advance()
		rel := p.parseRelativeLocationPath()
		return &ast.Node{Kind: ast.Path, Left: node, Right: rel}
	case tokSlashSlash:
		p.advance()
		descSelf := &ast.Node{Kind: ast.Step, Axis: "descendant-or-self", Test: ast.Test{Kind: ast.AnyNode}}
		rel := p.parseRelativeLocationPath()
		return &ast.Node{Kind: ast.Path, Left: node,
			Right: &ast.Node{Kind: ast.Path, Left: descSelf, Right: rel}}
	default:
		return node
	}
}

// collectPredicates reads zero or more '[' Expr ']' predicates.
func (p *parser) collectPredicates() []*ast.Node {
	var preds []*ast.Node
	for p.cur().kind == tokLBracket {
		p.advance()
		preds = append(preds, p.parseExpr())
		p.expect(tokRBracket, "']'")
	}
	return preds
}

// attachStepPredicates reads trailing predicates directly onto a Step
// node, since a Step's proximity position is axis-direction aware (see
// xpath/eval.go), unlike a FilterExpr's.
func (p *parser) attachStepPredicates(step *ast.Node) *ast.Node {
	step.Predicates = p.collectPredicates()
	return step
}

// parsePredicates wraps a primary expression in an ast.Filter node when
// followed by predicates, per FilterExpr := PrimaryExpr Predicate*.
func (p *parser) parsePredicates(base *ast.Node, _ *ast.Node) *ast.Node {
	preds := p.collectPredicates()
	if len(preds) == 0 {
		return base
	}
	return &ast.Node{Kind: ast.Filter, Predicates: preds, Left: base}
}

func (p *parser) startsLocationPath() bool {
	switch p.cur().kind {
	case tokSlash, tokSlashSlash, tokDot, tokDotDot, tokAt, tokStar:
		return true
	case tokName:
		if isOperatorName(p.cur().text) {
			return false
		}
		if p.peek(1).kind == tokColonColon {
			return true
		}
		if p.peek(1).kind == tokLParen {
			_, local := splitQName(p.cur().text)
			return nodeTypeKeywords[local]
		}
		return true
	default:
		return false
	}
}

func (p *parser) parseLocationPath() *ast.Node {
	if p.cur().kind == tokSlash {
		p.advance()
		if !p.startsLocationPath() {
			// bare "/" selects the document root
			return &ast.Node{Kind: ast.Path, Left: nil, Right: nil}
		}
		rel := p.parseRelativeLocationPath()
		return &ast.Node{Kind: ast.Path, Left: nil, Right: rel}
	}
	if p.cur().kind == tokSlashSlash {
		p.advance()
		descSelf := &ast.Node{Kind: ast.Step, Axis: "descendant-or-self", Test: ast.Test{Kind: ast.AnyNode}}
		rel := p.parseRelativeLocationPath()
		return &ast.Node{Kind: ast.Path, Left: nil, Right: &ast.Node{Kind: ast.Path, Left: descSelf, Right: rel}}
	}
	return p.parseRelativeLocationPath()
}

func (p *parser) parseRelativeLocationPath() *ast.Node {
	left := p.parseStep()
	for {
		switch p.cur().kind {
		case tokSlash:
			p.advance()
			right := p.parseStep()
			left = &ast.Node{Kind: ast.Path, Left: left, Right: right}
		case tokSlashSlash:
			p.advance()
			descSelf := &ast.Node{Kind: ast.Step, Axis: "descendant-or-self", Test: ast.Test{Kind: ast.AnyNode}}
			right := p.parseStep()
			left = &ast.Node{Kind: ast.Path, Left: left,
				Right: &ast.Node{Kind: ast.Path, Left: descSelf, Right: right}}
		default:
			return left
		}
	}
}

func (p *parser) parseStep() *ast.Node {
	switch p.cur().kind {
	case tokDot:
		p.advance()
		return p.attachStepPredicates(&ast.Node{Kind: ast.Step, Axis: "self", Test: ast.Test{Kind: ast.AnyNode}})
	case tokDotDot:
		p.advance()
		return p.attachStepPredicates(&ast.Node{Kind: ast.Step, Axis: "parent", Test: ast.Test{Kind: ast.AnyNode}})
	case tokAt:
		p.advance()
		test := p.parseNodeTest()
		step := &ast.Node{Kind: ast.Step, Axis: "attribute", Test: test}
		return p.attachStepPredicates(step)
	case tokStar:
		p.advance()
		step := &ast.Node{Kind: ast.Step, Axis: "child", Test: ast.Test{Kind: ast.NameTest, Prefix: "", Local: "*"}}
		return p.attachStepPredicates(step)
	case tokName:
		axis := "child"
		if p.peek(1).kind == tokColonColon {
			name := p.advance().text
			if !axisNames[name] {
				p.errf("unknown axis %q", name)
			}
			axis = name
			p.advance() // '::'
		}
		test := p.parseNodeTest()
		step := &ast.Node{Kind: ast.Step, Axis: axis, Test: test}
		return p.attachStepPredicates(step)
	default:
		p.errf("expected a location step")
		panic("unreachable")
	}
}

func (p *parser) parseNodeTest() ast.Test {
	if p.cur().kind == tokStar {
		p.advance()
		return ast.Test{Kind: ast.NameTest, Prefix: "", Local: "*"}
	}
	if p.cur().kind != tokName {
		p.errf("expected a node test")
	}
	name := p.advance().text
	prefix, local := splitQName(name)
	if p.cur().kind == tokLParen && prefix == "" && nodeTypeKeywords[local] {
		p.advance()
		switch local {
		case "node":
			p.expect(tokRParen, "')'")
			return ast.Test{Kind: ast.AnyNode}
		case "text":
			p.expect(tokRParen, "')'")
			return ast.Test{Kind: ast.TextTest}
		case "comment":
			p.expect(tokRParen, "')'")
			return ast.Test{Kind: ast.CommentTest}
		case "processing-instruction":
			target := ""
			if p.cur().kind == tokLiteral {
				target = p.advance().text
			}
			p.expect(tokRParen, "')'")
			return ast.Test{Kind: ast.PITest, PITarget: target}
		}
	}
	if prefix != "" {
		p.ns[prefix] = true
	}
	if local == "*" {
		return ast.Test{Kind: ast.NameTest, Prefix: prefix, Local: "*"}
	}
	return ast.Test{Kind: ast.NameTest, Prefix: prefix, Local: local}
}

func (p *parser) parsePrimary() *ast.Node {
	switch p.cur().kind {
	case tokDollar:
		p.advance()
		if p.cur().kind != tokName {
			p.errf("expected variable name after '$'")
		}
		name := p.advance().text
		prefix, local := splitQName(name)
		if prefix != "" {
			p.ns[prefix] = true
		}
		return &ast.Node{Kind: ast.VarRef, Prefix: prefix, Local: local}
	case tokLParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(tokRParen, "')'")
		return inner
	case tokLiteral:
		t := p.advance()
		return &ast.Node{Kind: ast.StringLit, Str: t.text}
	case tokNumber:
		t := p.advance()
		return &ast.Node{Kind: ast.NumberLit, Num: t.num}
	case tokName:
		name := p.cur().text
		if isOperatorName(name) {
			p.errf("unexpected keyword %q", name)
		}
		if p.peek(1).kind == tokLParen {
			p.advance()
			p.advance() // '('
			prefix, local := splitQName(name)
			if prefix != "" {
				p.ns[prefix] = true
			}
			var args []*ast.Node
			if p.cur().kind != tokRParen {
				args = append(args, p.parseExpr())
				for p.cur().kind == tokComma {
					p.advance()
					args = append(args, p.parseExpr())
				}
			}
			p.expect(tokRParen, "')'")
			return &ast.Node{Kind: ast.FuncCall, Prefix: prefix, Local: local, Args: args}
		}
		p.errf("unexpected token %q", name)
	}
	p.errf("unexpected token")
	panic("unreachable")
}
