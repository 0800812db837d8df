// Package domtree builds an in-memory, doubly-linked tree from an XML
// document, providing the parent and sibling pointers that the xpath
// package's axis traversal needs but encoding/xml's own token stream does
// not retain.
package domtree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Kind identifies the node kind of a Node. domtree recognizes the same
// kinds encoding/xml can produce; the synthetic "namespace" node kind used
// by XPath has no representative here, since the host tree never
// materializes it (see the xpath package).
type Kind int

const (
	Document Kind = iota
	Element
	Attribute
	Text
	CDATA
	Comment
	ProcInst
)

func (k Kind) String() string {
	switch k {
	case Document:
		return "document"
	case Element:
		return "element"
	case Attribute:
		return "attribute"
	case Text:
		return "text"
	case CDATA:
		return "cdata"
	case Comment:
		return "comment"
	case ProcInst:
		return "processing-instruction"
	default:
		return "unknown"
	}
}

// NSDecl is a raw xmlns / xmlns:prefix declaration observed on an Element,
// in the order it appeared in the start tag. Prefix is empty for the
// default namespace declaration.
type NSDecl struct {
	Prefix string
	URI    string
}

// A Node is one element, attribute, text run, CDATA section, comment,
// processing instruction, or the document itself. Unlike xmltree.Element,
// which the Node type is adapted from, a Node carries parent and sibling
// pointers so that upward and lateral XPath axes (parent, ancestor,
// following-sibling, preceding-sibling, following, preceding) do not need
// a full-document rescan.
type Node struct {
	Kind Kind

	// Name is populated for Element (tag name), Attribute (attribute
	// name) and ProcInst (target, in Name.Local).
	Name xml.Name

	// Value holds the character data of Text/CDATA/Comment nodes, the
	// instruction of a ProcInst, or the value of an Attribute.
	Value string

	// Attrs holds the specified attributes of an Element, as Attribute
	// Nodes, in document order. Namespace declaration attributes
	// (xmlns, xmlns:*) are excluded; see NSDecl.
	Attrs []*Node

	// NSDecl holds the raw xmlns/xmlns:prefix declarations seen on an
	// Element's start tag, document order, first occurrence only is
	// meaningful to callers walking ancestors (see xpath's namespace
	// synthesis).
	NSDecl []NSDecl

	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	NextSibling *Node
	PrevSibling *Node

	order int
}

// Order returns the document-order index assigned to n at parse time.
// Lower values sort earlier. An Element's attributes are ordered between
// the element itself and its first content child, matching the glossary's
// "attributes... precede children of their owner element" rule.
func (n *Node) Order() int { return n.order }

// Children returns n's content children (element/text/CDATA/PI/comment) in
// document order. Attribute nodes are never returned; use Attrs.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// appendChild links c as n's new last content child.
func (n *Node) appendChild(c *Node) {
	c.Parent = n
	if n.LastChild == nil {
		n.FirstChild = c
	} else {
		n.LastChild.NextSibling = c
		c.PrevSibling = n.LastChild
	}
	n.LastChild = c
}

var errDeepXML = errors.New("domtree: xml document too deeply nested")

const recursionLimit = 3000

type builder struct {
	counter int
}

func (b *builder) next() int {
	b.counter++
	return b.counter
}

// Parse decodes an XML document into a Node tree rooted at a synthetic
// Document node. Parse requires well-formed XML; unlike xmltree.Parse, it
// retains parent/sibling links and assigns every node a document-order
// index as it is built, in a single decoding pass (grounded on
// xmltree.Parse's single-pass scanner).
func Parse(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	b := &builder{}
	doc := &Node{Kind: Document, order: b.next()}
	cur := doc
	depth := 0

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > recursionLimit {
				return nil, errDeepXML
			}
			el := &Node{Kind: Element, Name: t.Name, order: b.next()}
			for _, a := range t.Attr {
				if decl, ok := asNSDecl(a); ok {
					el.NSDecl = append(el.NSDecl, decl)
					continue
				}
				attr := &Node{Kind: Attribute, Name: a.Name, Value: a.Value, Parent: el, order: b.next()}
				el.Attrs = append(el.Attrs, attr)
			}
			cur.appendChild(el)
			cur = el
		case xml.EndElement:
			if cur.Kind != Element || cur.Name != t.Name {
				return nil, fmt.Errorf("domtree: expected </%s>, got </%s>", cur.Name.Local, t.Name.Local)
			}
			cur = cur.Parent
			depth--
		case xml.CharData:
			text := &Node{Kind: Text, Value: string(t), order: b.next()}
			cur.appendChild(text)
		case xml.Comment:
			c := &Node{Kind: Comment, Value: string(t), order: b.next()}
			cur.appendChild(c)
		case xml.ProcInst:
			pi := &Node{Kind: ProcInst, Name: xml.Name{Local: t.Target}, Value: string(t.Inst), order: b.next()}
			cur.appendChild(pi)
		case xml.Directive:
			// ignored: DOCTYPE and similar directives carry no
			// XPath-visible information.
		}
	}
	if cur != doc {
		return nil, errors.New("domtree: unexpected end of document")
	}
	return doc, nil
}

func asNSDecl(a xml.Attr) (NSDecl, bool) {
	if a.Name.Space == "xmlns" {
		return NSDecl{Prefix: a.Name.Local, URI: a.Value}, true
	}
	if a.Name.Space == "" && a.Name.Local == "xmlns" {
		return NSDecl{Prefix: "", URI: a.Value}, true
	}
	return NSDecl{}, false
}

// DocumentElement returns the document's single root element, or nil if
// the document has none (an empty or malformed tree).
func (n *Node) DocumentElement() *Node {
	root := n
	for root.Kind != Document && root.Parent != nil {
		root = root.Parent
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Kind == Element {
			return c
		}
	}
	return nil
}

// Document returns the Document node that owns n.
func (n *Node) Document() *Node {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// IsAncestorOf reports whether n is a proper ancestor of m, walking m's
// parent chain. Attribute nodes are never ancestors of anything; they are
// treated as if they were a dead end, since XPath's contains/contained-by
// relation is defined over the content tree.
func (n *Node) IsAncestorOf(m *Node) bool {
	for cur := m.Parent; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}
