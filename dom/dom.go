// CLAUDE:SUMMARY Read-only tree capability consumed by the locator engine, plus walk helpers (position, root, text).
// Package dom defines the minimal read-only view of a document tree that the
// locator engine consumes. Hosts supply an implementation (see dom/htmldom for
// one backed by golang.org/x/net/html); the engine never mutates the tree.
package dom

import "strings"

// Kind is the type of a tree node.
type Kind int

const (
	DocumentNode Kind = iota
	ElementNode
	TextNode
	CommentNode
)

// Attribute is a single name/value pair on an element.
type Attribute struct {
	Name  string
	Value string
}

// Node is one node of a host-owned tree.
//
// Implementations must give nodes identity semantics under ==: two Node
// values compare equal exactly when they denote the same node. Parent returns
// nil at the document root and for detached subtrees.
type Node interface {
	Kind() Kind
	// Tag is the lower-case element name, empty for non-elements.
	Tag() string
	Attr(name string) (string, bool)
	// Attrs returns attributes in source order.
	Attrs() []Attribute
	Parent() Node
	// Children returns all child nodes (elements, text, comments) in order.
	Children() []Node
	// Data is the character data of text and comment nodes.
	Data() string
}

// Namespaced is implemented by nodes that know their element namespace.
// Namespace is empty for HTML elements.
type Namespaced interface {
	Namespace() string
}

// Foreign reports whether n is an element outside the HTML namespace, such
// as SVG or MathML content.
func Foreign(n Node) bool {
	ns, ok := n.(Namespaced)
	return ok && ns.Namespace() != ""
}

// Readable reports whether n is an element the engine can work with.
func Readable(n Node) bool {
	return n != nil && n.Kind() == ElementNode && n.Tag() != ""
}

// AttrValue returns the attribute value, or "" when absent.
func AttrValue(n Node, name string) string {
	v, _ := n.Attr(name)
	return v
}

// ElementChildren returns the element children of n in order.
func ElementChildren(n Node) []Node {
	var out []Node
	for _, c := range n.Children() {
		if c.Kind() == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Position returns the 1-based ordinal of n among its same-tag element
// siblings. A node without a parent is at position 1.
func Position(n Node) int {
	p := n.Parent()
	if p == nil {
		return 1
	}
	pos := 0
	for _, s := range p.Children() {
		if s.Kind() != ElementNode || s.Tag() != n.Tag() {
			continue
		}
		pos++
		if s == n {
			return pos
		}
	}
	// n is not listed by its parent: treat it as detached.
	return 1
}

// Root returns the top-most node reachable from n by following parents.
func Root(n Node) Node {
	for {
		p := n.Parent()
		if p == nil {
			return n
		}
		n = p
	}
}

// Attached reports whether n is still reachable from a document node.
func Attached(n Node) bool {
	return Root(n).Kind() == DocumentNode
}

// TextContent concatenates the data of every descendant text node, in
// document order. It is the XPath string-value of an element.
func TextContent(n Node) string {
	if n.Kind() == TextNode {
		return n.Data()
	}
	var sb strings.Builder
	var walk func(Node)
	walk = func(n Node) {
		for _, c := range n.Children() {
			switch c.Kind() {
			case TextNode:
				sb.WriteString(c.Data())
			case ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

// IsXMLSpace reports whether r is one of the four XML whitespace
// characters (#x20, #x9, #xD, #xA).
func IsXMLSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// NormalizeSpace trims s and collapses internal XML whitespace runs to a
// single space, as XPath 1.0 normalize-space() does. Other Unicode spaces,
// U+00A0 included, are kept.
func NormalizeSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, IsXMLSpace), " ")
}

// Text returns the normalized text content of n.
func Text(n Node) string {
	return NormalizeSpace(TextContent(n))
}
