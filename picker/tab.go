package picker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/hazyhaar/xpick/dom"
	"github.com/hazyhaar/xpick/idgen"
	"github.com/hazyhaar/xpick/internal/safe"
	"github.com/hazyhaar/xpick/locator"
	"github.com/hazyhaar/xpick/sink"
)

// trackerScript runs before any page script and records the last element
// the user right-clicked or pressed. __xpickSeq counts context menus.
const trackerScript = `(() => {
	window.__xpickSeq = 0;
	const record = (e) => {
		const t = e.composedPath ? e.composedPath()[0] : e.target;
		if (t && t.nodeType === 1) window.__xpickLast = t;
	};
	document.addEventListener('pointerdown', record, true);
	document.addEventListener('contextmenu', (e) => { record(e); window.__xpickSeq++; }, true);
})()`

// selectScript records the first element an XPath selects.
const selectScript = `(xp) => {
	const n = document.evaluate(xp, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	if (!n || n.nodeType !== 1) return false;
	window.__xpickLast = n;
	return true;
}`

// Tab is one page under the picker.
type Tab struct {
	Page    *rod.Page
	PageURL string
	manager *Manager
	router  *rod.HijackRouter
}

// OpenTab creates a tab with the tracker installed and navigates to
// pageURL.
func OpenTab(ctx context.Context, mgr *Manager, pageURL string) (*Tab, error) {
	if err := safe.ValidateURL(pageURL, safe.PageSchemes...); err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	b := mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("picker: no active browser")
	}
	log := mgr.cfg.Logger

	var page *rod.Page
	var err error
	if mgr.cfg.Level >= LevelHeadless {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("picker: create tab: %w", err)
	}

	if _, err := page.EvalOnNewDocument(trackerScript); err != nil {
		page.Close()
		return nil, fmt.Errorf("picker: install tracker: %w", err)
	}

	t := &Tab{Page: page, PageURL: pageURL, manager: mgr}
	if len(mgr.cfg.ResourceBlocking) > 0 {
		t.router = blockResources(page, mgr.cfg.ResourceBlocking)
	}

	navCtx, cancel := context.WithTimeout(ctx, mgr.cfg.NavTimeout)
	defer cancel()
	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		t.Close()
		return nil, fmt.Errorf("picker: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		log.Warn("picker: wait load timeout", "url", pageURL, "error", err)
	}
	return t, nil
}

// Snapshot reports the last picked element.
func (t *Tab) Snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	res, err := t.Page.Context(ctx).Eval(snapshotScript)
	if err != nil {
		return s, fmt.Errorf("picker: snapshot: %w", err)
	}
	if err := res.Value.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("picker: snapshot: decode: %w", err)
	}
	return s, nil
}

// LastElement returns the last picked element, mapped onto a parsed
// snapshot of the page. ErrNoElement when nothing was picked.
func (t *Tab) LastElement(ctx context.Context) (dom.Node, error) {
	s, err := t.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return resolveSnapshot(s)
}

// ElementBySelector records the first element selected by xpath as the
// picked element.
func (t *Tab) ElementBySelector(ctx context.Context, xpath string) error {
	res, err := t.Page.Context(ctx).Eval(selectScript, xpath)
	if err != nil {
		return fmt.Errorf("picker: select %q: %w", xpath, err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("picker: select %q: %w", xpath, ErrNoElement)
	}
	return nil
}

// WaitPick blocks until the user opens a context menu on the page, polling
// every interval.
func (t *Tab) WaitPick(ctx context.Context, interval time.Duration) error {
	seq := func() (int, error) {
		res, err := t.Page.Context(ctx).Eval(`() => window.__xpickSeq || 0`)
		if err != nil {
			return 0, fmt.Errorf("picker: wait: %w", err)
		}
		return res.Value.Int(), nil
	}
	start, err := seq()
	if err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := seq()
			if err != nil {
				return err
			}
			if n != start {
				return nil
			}
		}
	}
}

// Candidates generates the locator candidates of the last picked element.
func (t *Tab) Candidates(ctx context.Context, engine *locator.Engine) ([]locator.Candidate, dom.Node, error) {
	el, err := t.LastElement(ctx)
	if err != nil {
		return nil, nil, err
	}
	return engine.Generate(el), el, nil
}

// Pick builds the sink event for the last picked element. selected indexes
// the candidate list; pass -1 when nothing was chosen.
func (t *Tab) Pick(ctx context.Context, engine *locator.Engine, selected int) (sink.Pick, error) {
	cands, el, err := t.Candidates(ctx, engine)
	if err != nil {
		return sink.Pick{}, err
	}
	return sink.Pick{
		ID:         idgen.Pick(),
		PageURL:    t.PageURL,
		Tag:        el.Tag(),
		Candidates: cands,
		Selected:   selected,
		Timestamp:  time.Now().UTC(),
	}, nil
}

// Close closes the tab.
func (t *Tab) Close() error {
	if t.router != nil {
		t.router.Stop()
	}
	if t.Page != nil {
		return t.Page.Close()
	}
	return nil
}
