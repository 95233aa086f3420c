package validate

import (
	"github.com/antchfx/xpath"

	"github.com/hazyhaar/xpick/dom"
)

// virtualRoot stands in for the missing document node of a detached
// subtree, so that absolute paths still have a root to start from.
type virtualRoot struct {
	top dom.Node
}

func (v *virtualRoot) Kind() dom.Kind             { return dom.DocumentNode }
func (v *virtualRoot) Tag() string                { return "" }
func (v *virtualRoot) Attr(string) (string, bool) { return "", false }
func (v *virtualRoot) Attrs() []dom.Attribute     { return nil }
func (v *virtualRoot) Parent() dom.Node           { return nil }
func (v *virtualRoot) Children() []dom.Node       { return []dom.Node{v.top} }
func (v *virtualRoot) Data() string               { return "" }

// navigator implements xpath.NodeNavigator over dom.Node.
//
// sibs and idx cache the child list cur belongs to, so sibling steps are
// O(1) after the first. sibs is nil when unknown. The slices are never
// mutated and are shared between copies.
type navigator struct {
	root  dom.Node
	top   dom.Node // set when root is virtual
	cur   dom.Node
	sibs  []dom.Node
	idx   int
	attrs []dom.Attribute
	attr  int // -1 when positioned on cur itself
}

var _ xpath.NodeNavigator = (*navigator)(nil)

func (n *navigator) parentOf(x dom.Node) dom.Node {
	if p := x.Parent(); p != nil {
		return p
	}
	if n.top != nil && x == n.top {
		return n.root
	}
	return nil
}

func (n *navigator) NodeType() xpath.NodeType {
	if n.attr != -1 {
		return xpath.AttributeNode
	}
	switch n.cur.Kind() {
	case dom.DocumentNode:
		return xpath.RootNode
	case dom.ElementNode:
		return xpath.ElementNode
	case dom.TextNode:
		return xpath.TextNode
	default:
		return xpath.CommentNode
	}
}

func (n *navigator) LocalName() string {
	if n.attr != -1 {
		return n.attrs[n.attr].Name
	}
	return n.cur.Tag()
}

func (n *navigator) Prefix() string { return "" }

func (n *navigator) Value() string {
	if n.attr != -1 {
		return n.attrs[n.attr].Value
	}
	switch n.cur.Kind() {
	case dom.TextNode, dom.CommentNode:
		return n.cur.Data()
	default:
		return dom.TextContent(n.cur)
	}
}

func (n *navigator) Copy() xpath.NodeNavigator {
	cp := *n
	return &cp
}

func (n *navigator) MoveToRoot() {
	n.moveTo(n.root, nil, 0)
	n.attr = -1
	n.attrs = nil
}

func (n *navigator) moveTo(cur dom.Node, sibs []dom.Node, idx int) {
	n.cur, n.sibs, n.idx = cur, sibs, idx
}

func (n *navigator) MoveToParent() bool {
	if n.attr != -1 {
		n.attr = -1
		n.attrs = nil
		return true
	}
	p := n.parentOf(n.cur)
	if p == nil {
		return false
	}
	n.moveTo(p, nil, 0)
	return true
}

func (n *navigator) MoveToNextAttribute() bool {
	if n.cur.Kind() != dom.ElementNode {
		return false
	}
	if n.attr == -1 {
		n.attrs = n.cur.Attrs()
	}
	if n.attr >= len(n.attrs)-1 {
		return false
	}
	n.attr++
	return true
}

func (n *navigator) MoveToChild() bool {
	if n.attr != -1 {
		return false
	}
	kids := n.cur.Children()
	if len(kids) == 0 {
		return false
	}
	n.moveTo(kids[0], kids, 0)
	return true
}

func (n *navigator) MoveToFirst() bool {
	if n.attr != -1 {
		return false
	}
	sibs, i := n.siblings()
	if i <= 0 {
		return false
	}
	n.moveTo(sibs[0], sibs, 0)
	return true
}

func (n *navigator) MoveToNext() bool {
	if n.attr != -1 {
		return false
	}
	sibs, i := n.siblings()
	if i < 0 || i+1 >= len(sibs) {
		return false
	}
	n.moveTo(sibs[i+1], sibs, i+1)
	return true
}

func (n *navigator) MoveToPrevious() bool {
	if n.attr != -1 {
		return false
	}
	sibs, i := n.siblings()
	if i <= 0 {
		return false
	}
	n.moveTo(sibs[i-1], sibs, i-1)
	return true
}

func (n *navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*navigator)
	if !ok || o.root != n.root {
		return false
	}
	n.moveTo(o.cur, o.sibs, o.idx)
	n.attrs = o.attrs
	n.attr = o.attr
	return true
}

// siblings returns the children of cur's parent and cur's index among
// them, or -1 when cur has no reachable parent. The lookup is cached.
func (n *navigator) siblings() ([]dom.Node, int) {
	if n.sibs != nil {
		return n.sibs, n.idx
	}
	p := n.parentOf(n.cur)
	if p == nil {
		return nil, -1
	}
	sibs := p.Children()
	for i, s := range sibs {
		if s == n.cur {
			n.sibs, n.idx = sibs, i
			return sibs, i
		}
	}
	return sibs, -1
}
