// CLAUDE:SUMMARY Maps a browser-side element snapshot (outer HTML + element index path) onto a parsed dom.Node.
package picker

import (
	"errors"
	"fmt"

	"github.com/hazyhaar/xpick/dom"
	"github.com/hazyhaar/xpick/dom/htmldom"
)

// ErrNoElement is returned when nothing has been picked yet.
var ErrNoElement = errors.New("picker: no element picked")

// ErrMismatch is returned when the parsed snapshot does not line up with
// the live element (the parser restructured the markup).
var ErrMismatch = errors.New("picker: snapshot does not match element")

// Snapshot is what the page reports about the picked element.
type Snapshot struct {
	Picked bool `json:"picked"`
	// Tag is the lower-case tag name of the picked element.
	Tag string `json:"tag"`
	// Attached is false when the element is no longer connected to the
	// document; HTML is then the outer HTML of its top-most ancestor.
	Attached bool `json:"attached"`
	// Path holds element-child indexes from the top (the <html> element
	// when attached) down to the picked element.
	Path []int  `json:"path"`
	HTML string `json:"html"`
	URL  string `json:"url"`
}

// snapshotScript reports window.__xpickLast as a Snapshot.
const snapshotScript = `() => {
	const el = window.__xpickLast;
	if (!el || el.nodeType !== 1) return {picked: false};
	const path = [];
	let top = el;
	while (top.parentElement) {
		path.unshift(Array.prototype.indexOf.call(top.parentElement.children, top));
		top = top.parentElement;
	}
	const attached = el.isConnected && top === document.documentElement;
	return {
		picked: true,
		tag: el.localName,
		attached: attached,
		path: path,
		html: attached ? document.documentElement.outerHTML : top.outerHTML,
		url: location.href,
	};
}`

// resolveSnapshot parses s and returns the node standing for the picked
// element.
func resolveSnapshot(s Snapshot) (dom.Node, error) {
	if !s.Picked {
		return nil, ErrNoElement
	}

	var top dom.Node
	if s.Attached {
		doc, err := htmldom.ParseString(s.HTML)
		if err != nil {
			return nil, fmt.Errorf("picker: snapshot: %w", err)
		}
		if top, err = htmldom.DocumentElement(doc); err != nil {
			return nil, fmt.Errorf("picker: snapshot: %w", err)
		}
	} else {
		nodes, err := htmldom.ParseFragment(s.HTML)
		if err != nil {
			return nil, fmt.Errorf("picker: snapshot: %w", err)
		}
		for _, n := range nodes {
			if n.Kind() == dom.ElementNode {
				top = n
				break
			}
		}
		if top == nil {
			return nil, fmt.Errorf("picker: snapshot: empty fragment: %w", ErrMismatch)
		}
	}

	el, err := htmldom.ByIndexPath(top, s.Path)
	if err != nil {
		return nil, fmt.Errorf("picker: snapshot: %w: %w", ErrMismatch, err)
	}
	if el.Tag() != s.Tag {
		return nil, fmt.Errorf("picker: snapshot: got <%s>, want <%s>: %w", el.Tag(), s.Tag, ErrMismatch)
	}
	return el, nil
}
