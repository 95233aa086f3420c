package strategy

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hazyhaar/xpick/dom"
	"github.com/hazyhaar/xpick/dom/htmldom"
	"github.com/hazyhaar/xpick/locator/internal/classify"
)

func element(t *testing.T, src, target string) dom.Node {
	t.Helper()
	doc, err := htmldom.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	el, err := htmldom.Query(doc, target)
	if err != nil {
		t.Fatalf("query %s: %v", target, err)
	}
	return el
}

func defaultRules() TextRules {
	return NewTextRules(Options{})
}

func TestAttributes_PriorityOrder(t *testing.T) {
	el := element(t, `<button class="primary  wide" title="Save it" id="save" data-cy="save-btn">Save</button>`, "//button")
	got := NewAttributes(DefaultAttributes, DefaultInputAttributes).Generate(el)
	want := []Candidate{
		{Label: "@id", Expression: `//button[@id="save"]`},
		{Label: "@data-cy", Expression: `//button[@data-cy="save-btn"]`},
		{Label: "@title", Expression: `//button[@title="Save it"]`},
		{Label: "@class", Expression: `//button[contains(@class,"primary")]`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestAttributes_InputValue(t *testing.T) {
	el := element(t, `<input type="submit" value="Send">`, "//input")
	got := NewAttributes(DefaultAttributes, DefaultInputAttributes).Generate(el)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %v", len(got), got)
	}
	if got[1].Label != "@value" || got[1].Expression != `//input[@value="Send"]` {
		t.Errorf("value candidate: got %+v", got[1])
	}
}

func TestAttributes_SkipsEmptyAndInvalidNames(t *testing.T) {
	el := element(t, `<span id="" title="x">hi</span>`, "//span")
	got := NewAttributes([]string{"id", "bad name", "title"}, nil).Generate(el)
	if len(got) != 1 || got[0].Label != "@title" {
		t.Errorf("got %+v, want only @title", got)
	}
}

func TestText_LeafAndBounds(t *testing.T) {
	s := NewText(defaultRules())

	el := element(t, `<p>  Hello   <b>world</b> </p>`, "//p")
	got := s.Generate(el)
	if len(got) != 1 || got[0].Expression != `//p[contains(normalize-space(.),"Hello world")]` {
		t.Errorf("inline children: got %+v", got)
	}

	el = element(t, `<div>Text<p>block</p></div>`, "//div")
	if got := s.Generate(el); len(got) != 0 {
		t.Errorf("block child: expected none, got %+v", got)
	}

	el = element(t, `<span>x</span>`, "//span")
	if got := s.Generate(el); len(got) != 0 {
		t.Errorf("too short: expected none, got %+v", got)
	}

	el = element(t, `<span>`+strings.Repeat("a", 101)+`</span>`, "//span")
	if got := s.Generate(el); len(got) != 0 {
		t.Errorf("too long: expected none, got %d", len(got))
	}
}

func TestPairs(t *testing.T) {
	el := element(t, `<input name="q" aria-label="Query" class="search big">`, "//input")
	got := NewPairs().Generate(el)
	want := []Candidate{
		{Label: "attr-combo", Expression: `//input[@name="q" and contains(@class,"search")]`},
		{Label: "attr-combo", Expression: `//input[@aria-label="Query" and contains(@class,"search")]`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pairs mismatch (-want +got):\n%s", diff)
	}

	el = element(t, `<input name="q">`, "//input")
	if got := NewPairs().Generate(el); len(got) != 0 {
		t.Errorf("incomplete pair: expected none, got %+v", got)
	}
}

func TestSpecial_Anchor(t *testing.T) {
	el := element(t, `<a href="/buy" title="Buy it"><span>Buy now</span></a>`, "//a")
	got := NewSpecial(defaultRules()).Generate(el)
	want := []Candidate{
		{Label: "link-href-title", Expression: `//a[@href="/buy" and @title="Buy it"]`},
		{Label: "link-text", Expression: `//a[@href="/buy" and span[normalize-space(.)="Buy now"]]`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("anchor mismatch (-want +got):\n%s", diff)
	}
}

func TestSpecial_Submit(t *testing.T) {
	el := element(t, `<input type="submit" value="Send">`, "//input")
	got := NewSpecial(defaultRules()).Generate(el)
	want := []Candidate{
		{Label: "input-submit", Expression: `//input[@type="submit" and @value="Send"]`},
		{Label: "input-value", Expression: `//input[@type="submit" and @value="Send"]`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("submit mismatch (-want +got):\n%s", diff)
	}
}

func TestSpecial_Search(t *testing.T) {
	src := `<form><div class="search-field"><span><input type="search" class="q-input" title="Search"></span></div></form>`
	el := element(t, src, "//input")
	got := NewSpecial(defaultRules()).Generate(el)
	want := []Candidate{
		{Label: "input-search", Expression: `//input[@type="search" and contains(@class,"q-input") and @title="Search"]`},
		{Label: "input-search-field", Expression: `//div[contains(@class,"search-field")]//input[@type="search"]`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}
}

func TestSpecial_Label(t *testing.T) {
	el := element(t, `<label>  Email   address <input name="email"></label>`, "//label")
	got := NewSpecial(defaultRules()).Generate(el)
	if len(got) != 1 || got[0].Expression != `//label[normalize-space(text())="Email address"]` {
		t.Errorf("label: got %+v", got)
	}
}

func TestWrappers_DistinctAndBounded(t *testing.T) {
	src := `<div class="alpha"><div class="bravo"><div class="charlie"><div class="delta">` +
		`<div class="echo"><div class="foxtrot"><div class="golf col-2"><div class="golf">` +
		`<span>Deep text</span></div></div></div></div></div></div></div></div>`
	el := element(t, src, "//span")
	cands := NewWrappers(5, classify.New(classify.DefaultRules()), defaultRules()).Generate(el)
	if len(cands) != 5 {
		t.Fatalf("got %d wrapper candidates, want 5", len(cands))
	}
	wantOrder := []string{"golf", "foxtrot", "echo", "delta", "charlie"}
	for i, c := range cands {
		want := `//div[contains(@class,"` + wantOrder[i] + `")]//span[contains(normalize-space(.),"Deep text")]`
		if c.Expression != want {
			t.Errorf("wrapper[%d]: got %s, want %s", i, c.Expression, want)
		}
	}
}

func TestWrappers_NoText(t *testing.T) {
	el := element(t, `<div class="product-card"><img src="a.png"></div>`, "//img")
	got := NewWrappers(5, classify.New(classify.DefaultRules()), defaultRules()).Generate(el)
	if len(got) != 1 || got[0].Expression != `//div[contains(@class,"product-card")]//img` {
		t.Errorf("got %+v", got)
	}
}

func TestAttrText(t *testing.T) {
	el := element(t, `<button id="go" title="Go now">Go on</button>`, "//button")
	got := NewAttrText(defaultRules()).Generate(el)
	want := `//button[@id="go" and @title="Go now" and normalize-space(.)="Go on"]`
	if len(got) != 1 || got[0].Expression != want {
		t.Errorf("got %+v, want %s", got, want)
	}
}

func TestAbsolute(t *testing.T) {
	src := `<div><p>a</p><span>b</span><p>c</p></div><div><p>d</p><p>e</p></div>`
	el := element(t, src, "(//p)[4]")
	got := Absolute{}.Generate(el)
	want := "/html[1]/body[1]/div[2]/p[1]"
	if len(got) != 1 || got[0].Expression != want {
		t.Errorf("got %+v, want %s", got, want)
	}
	if !IsPositional(Absolute{}) {
		t.Error("Absolute must be positional")
	}
}

func TestStep_NonNCName(t *testing.T) {
	if got := step("foo:bar"); got != `*[local-name()="foo:bar"]` {
		t.Errorf("step: got %s", got)
	}
	if got := step("my-widget"); got != "my-widget" {
		t.Errorf("step: got %s", got)
	}
}

func TestDefault_Order(t *testing.T) {
	var names []string
	for _, s := range Default(Options{}) {
		names = append(names, s.Name())
	}
	want := []string{"attribute", "text", "attr-pair", "special", "wrapper", "attr-text", "absolute"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("pipeline order (-want +got):\n%s", diff)
	}
}

func TestText_NonBreakingSpace(t *testing.T) {
	tr := defaultRules()

	el := element(t, `<button>Buy&nbsp;now</button>`, "//button")
	got := NewText(tr).Generate(el)
	want := `//button[contains(normalize-space(translate(.,"` + "\u00a0" + `"," ")),"Buy now")]`
	if len(got) != 1 || got[0].Expression != want {
		t.Errorf("nbsp text: got %+v, want %s", got, want)
	}

	el = element(t, `<button id="b">Buy&nbsp;now</button>`, "//button")
	got = NewAttrText(tr).Generate(el)
	want = `//button[@id="b" and normalize-space(translate(.,"` + "\u00a0" + `"," "))="Buy now"]`
	if len(got) != 1 || got[0].Expression != want {
		t.Errorf("nbsp attr+text: got %+v, want %s", got, want)
	}

	el = element(t, `<label>Remember&nbsp;me<input type="checkbox"></label>`, "//label")
	got = NewSpecial(tr).Generate(el)
	want = `//label[normalize-space(translate(text(),"` + "\u00a0" + `"," "))="Remember me"]`
	if len(got) != 1 || got[0].Expression != want {
		t.Errorf("nbsp label: got %+v, want %s", got, want)
	}
}

func TestText_OtherUnicodeSpacesRefused(t *testing.T) {
	tr := defaultRules()
	el := element(t, "<button id=\"b\">Buy\u2003now</button>", "//button")
	for _, s := range []Strategy{NewText(tr), NewAttrText(tr)} {
		if got := s.Generate(el); len(got) != 0 {
			t.Errorf("%s: expected no text predicate, got %+v", s.Name(), got)
		}
	}
}

func TestWrappers_DetachedChain(t *testing.T) {
	nodes, err := htmldom.ParseFragment(`<div class="product-card"><div class="x1"><span>Buy now</span></div></div>`)
	if err != nil {
		t.Fatal(err)
	}
	span := dom.ElementChildren(dom.ElementChildren(nodes[0])[0])[0]
	got := NewWrappers(5, classify.New(classify.DefaultRules()), defaultRules()).Generate(span)
	want := []Candidate{{
		Label:      "div-wrapper",
		Expression: `//div[contains(@class,"product-card")]//span[contains(normalize-space(.),"Buy now")]`,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("detached wrappers mismatch (-want +got):\n%s", diff)
	}
}
