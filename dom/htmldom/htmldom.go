// CLAUDE:SUMMARY dom.Node adapter over golang.org/x/net/html trees, with parsing and XPath/index-path target lookup.
// Package htmldom adapts parsed golang.org/x/net/html trees to dom.Node.
package htmldom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/hazyhaar/xpick/dom"
)

// ErrNoMatch is returned when a lookup finds no element.
var ErrNoMatch = errors.New("htmldom: no matching element")

// node wraps *html.Node. It is a value type so that == compares the
// underlying pointers.
type node struct {
	n *html.Node
}

// Wrap adapts n. A nil n yields a nil dom.Node.
func Wrap(n *html.Node) dom.Node {
	if n == nil {
		return nil
	}
	return node{n: n}
}

// Unwrap returns the underlying *html.Node, or nil when d was not produced
// by this package.
func Unwrap(d dom.Node) *html.Node {
	if w, ok := d.(node); ok {
		return w.n
	}
	return nil
}

func (w node) Kind() dom.Kind {
	switch w.n.Type {
	case html.DocumentNode:
		return dom.DocumentNode
	case html.ElementNode:
		return dom.ElementNode
	case html.TextNode:
		return dom.TextNode
	default:
		return dom.CommentNode
	}
}

// Tag lower-cases HTML names. SVG and MathML names keep the parser's case
// (clipPath, foreignObject).
func (w node) Tag() string {
	if w.n.Type != html.ElementNode {
		return ""
	}
	if w.n.Namespace != "" {
		return w.n.Data
	}
	return strings.ToLower(w.n.Data)
}

// Namespace is "svg" or "math" for foreign content, empty for HTML.
func (w node) Namespace() string {
	if w.n.Type != html.ElementNode {
		return ""
	}
	return w.n.Namespace
}

func (w node) Attr(name string) (string, bool) {
	if w.n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range w.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (w node) Attrs() []dom.Attribute {
	if w.n.Type != html.ElementNode || len(w.n.Attr) == 0 {
		return nil
	}
	out := make([]dom.Attribute, 0, len(w.n.Attr))
	for _, a := range w.n.Attr {
		if a.Namespace != "" {
			continue
		}
		out = append(out, dom.Attribute{Name: a.Key, Value: a.Val})
	}
	return out
}

func (w node) Parent() dom.Node {
	return Wrap(w.n.Parent)
}

func (w node) Children() []dom.Node {
	var out []dom.Node
	for c := w.n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode, html.TextNode, html.CommentNode:
			out = append(out, node{n: c})
		}
	}
	return out
}

func (w node) Data() string {
	switch w.n.Type {
	case html.TextNode, html.CommentNode:
		return w.n.Data
	}
	return ""
}

// Parse parses a full HTML document.
func Parse(r io.Reader) (dom.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldom: parse: %w", err)
	}
	return Wrap(doc), nil
}

// ParseString parses a full HTML document held in s.
func ParseString(s string) (dom.Node, error) {
	return Parse(strings.NewReader(s))
}

// ParseFragment parses s in a <body> context. The returned top-level nodes
// have no parent, which makes them detached from any document.
func ParseFragment(s string) ([]dom.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return nil, fmt.Errorf("htmldom: parse fragment: %w", err)
	}
	out := make([]dom.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Wrap(n))
	}
	return out, nil
}

// Query returns the first node selected by the XPath expression expr,
// evaluated from doc.
func Query(doc dom.Node, expr string) (dom.Node, error) {
	root := Unwrap(doc)
	if root == nil {
		return nil, fmt.Errorf("htmldom: query: foreign node")
	}
	n, err := htmlquery.Query(root, expr)
	if err != nil {
		return nil, fmt.Errorf("htmldom: query %q: %w", expr, err)
	}
	if n == nil {
		return nil, fmt.Errorf("htmldom: query %q: %w", expr, ErrNoMatch)
	}
	return Wrap(n), nil
}

// QueryAll returns every node selected by expr.
func QueryAll(doc dom.Node, expr string) ([]dom.Node, error) {
	root := Unwrap(doc)
	if root == nil {
		return nil, fmt.Errorf("htmldom: query: foreign node")
	}
	nodes, err := htmlquery.QueryAll(root, expr)
	if err != nil {
		return nil, fmt.Errorf("htmldom: query %q: %w", expr, err)
	}
	out := make([]dom.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Wrap(n))
	}
	return out, nil
}

// DocumentElement returns the <html> element of a parsed document.
func DocumentElement(doc dom.Node) (dom.Node, error) {
	for _, c := range dom.ElementChildren(doc) {
		if c.Tag() == "html" {
			return c, nil
		}
	}
	return nil, fmt.Errorf("htmldom: document element: %w", ErrNoMatch)
}

// ByIndexPath descends from start following element-child indexes
// (0-based, elements only). An empty path returns start.
func ByIndexPath(start dom.Node, path []int) (dom.Node, error) {
	cur := start
	for depth, idx := range path {
		kids := dom.ElementChildren(cur)
		if idx < 0 || idx >= len(kids) {
			return nil, fmt.Errorf("htmldom: index path step %d (index %d of %d): %w",
				depth, idx, len(kids), ErrNoMatch)
		}
		cur = kids[idx]
	}
	return cur, nil
}
