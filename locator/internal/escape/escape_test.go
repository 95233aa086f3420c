package escape

import (
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
)

// evaluate runs a bare literal expression against a single-node fixture.
func evaluate(t *testing.T, expr string) string {
	t.Helper()
	doc, err := htmlquery.Parse(strings.NewReader(`<p>x</p>`))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	compiled, err := xpath.Compile(expr)
	if err != nil {
		t.Fatalf("compile %s: %v", expr, err)
	}
	got, ok := compiled.Evaluate(htmlquery.CreateXPathNavigator(doc)).(string)
	if !ok {
		t.Fatalf("evaluate %s: not a string", expr)
	}
	return got
}

func TestLiteral_Forms(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"submit-btn", `"submit-btn"`},
		{"don't", `"don't"`},
		{`say "hi"`, `'say "hi"'`},
		{`He said "don't"`, `concat("He said ",'"',"don't",'"')`},
		{`"'`, `concat('"',"'")`},
	}
	for _, c := range cases {
		if got := Literal(c.in); got != c.want {
			t.Errorf("Literal(%q): got %s, want %s", c.in, got, c.want)
		}
	}
}

func TestLiteral_RoundTrip(t *testing.T) {
	values := []string{
		"plain",
		"don't",
		`say "hi"`,
		`He said "don't"`,
		`"'`,
		`'"`,
		`""''""`,
		`a"b'c"d'e`,
		`  spaced "out" 'text'  `,
		`"leading and trailing'"`,
	}
	for _, v := range values {
		lit := Literal(v)
		if got := evaluate(t, lit); got != v {
			t.Errorf("round trip %q via %s: got %q", v, lit, got)
		}
	}
}

func TestLiteral_ConcatHasTwoArgs(t *testing.T) {
	lit := Literal(`'"`)
	if !strings.HasPrefix(lit, "concat(") {
		t.Fatalf("expected concat, got %s", lit)
	}
	if _, err := xpath.Compile(lit); err != nil {
		t.Fatalf("compile %s: %v", lit, err)
	}
}
