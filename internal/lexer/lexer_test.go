package lexer_test

import (
	"strings"
	"testing"

	"xmlsort/internal/diag"
	"xmlsort/internal/lexer"
	"xmlsort/internal/source"
	"xmlsort/internal/token"
)

// makeTestFile создаёт виртуальный файл для тестовой строки
func makeTestFile(input string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.xml", []byte(input)))
}

func tokenize(input string) ([]token.Token, *diag.Bag) {
	bag := diag.NewBag(16)
	opts := lexer.Options{Reporter: (&lexer.ReporterAdapter{Bag: bag}).Reporter()}
	return lexer.Tokenize(makeTestFile(input), opts), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{
			name:  "declaration and root",
			input: `<?xml version="1.0"?><root a="1"/>`,
			want:  []token.Kind{token.ProcInst, token.SelfClosingTag},
		},
		{
			name:  "element with text",
			input: `<a x="1">text</a>`,
			want:  []token.Kind{token.StartTag, token.Text, token.EndTag},
		},
		{
			name:  "comment cdata doctype",
			input: "<!DOCTYPE a [<!ENTITY e \"x>y\">]><a><!-- <b z=\"1\"> --><![CDATA[<c>]]></a>",
			want:  []token.Kind{token.Doctype, token.StartTag, token.Comment, token.CDATA, token.EndTag},
		},
		{
			name:  "stray less-than is text",
			input: "<a>1 < 2</a>",
			want:  []token.Kind{token.StartTag, token.Text, token.Text, token.EndTag},
		},
		{
			name:  "empty input",
			input: "",
			want:  []token.Kind{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := tokenize(tt.input)
			got := kinds(toks)
			if len(got) != len(tt.want) {
				t.Fatalf("kinds = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("kinds = %v, want %v", got, tt.want)
				}
			}
			if bag.HasErrors() {
				t.Fatalf("unexpected diagnostics: %+v", bag.Items())
			}
		})
	}
}

func TestConcatenationReproducesInput(t *testing.T) {
	inputs := []string{
		`<?xml version="1.0"?>` + "\n<r b='2' a=\"1\">\n  <!-- c -->\n  <x/>\n</r>\n",
		"<a",
		"text only",
		"<a b=\"1\" <c>",
		"<!-- open",
		"<!DOCTYPE html",
	}
	for _, in := range inputs {
		toks, _ := tokenize(in)
		var b strings.Builder
		for _, tok := range toks {
			b.WriteString(tok.Text)
		}
		if b.String() != in {
			t.Errorf("concatenation = %q, want %q", b.String(), in)
		}
	}
}

func TestStartTagFields(t *testing.T) {
	toks, _ := tokenize(`<svg:rect width="10" title="a>b" />`)
	if len(toks) != 1 {
		t.Fatalf("tokens = %+v", toks)
	}
	tok := toks[0]
	if tok.Kind != token.SelfClosingTag {
		t.Fatalf("kind = %v", tok.Kind)
	}
	if tok.Name != "svg:rect" {
		t.Errorf("name = %q", tok.Name)
	}
	if tok.Attrs != ` width="10" title="a>b" ` {
		t.Errorf("attrs = %q", tok.Attrs)
	}
}

func TestEndTagName(t *testing.T) {
	toks, _ := tokenize("</ns:item >")
	if len(toks) != 1 || toks[0].Kind != token.EndTag || toks[0].Name != "ns:item" {
		t.Fatalf("tokens = %+v", toks)
	}
}

func TestUnterminatedConstructs(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		code  diag.Code
	}{
		{"<a b=\"1\"", token.StartTag, diag.LexUnterminatedTag},
		{"<!-- never closed", token.Comment, diag.LexUnterminatedComment},
		{"<![CDATA[ x", token.CDATA, diag.LexUnterminatedCDATA},
		{"<?pi x", token.ProcInst, diag.LexUnterminatedPI},
		{"<!DOCTYPE x [", token.Doctype, diag.LexUnterminatedDecl},
		{"</a", token.EndTag, diag.LexUnterminatedTag},
	}
	for _, tt := range tests {
		toks, bag := tokenize(tt.input)
		if len(toks) == 0 || toks[0].Kind != tt.kind || !toks[0].Unterminated {
			t.Errorf("%q: tokens = %+v", tt.input, toks)
			continue
		}
		d, ok := bag.FirstError()
		if !ok || d.Code != tt.code {
			t.Errorf("%q: diagnostic = %+v", tt.input, d)
		}
	}
}

func TestLessThanInsideTagEndsIt(t *testing.T) {
	toks, _ := tokenize(`<a b="1" <c/>`)
	if len(toks) != 2 {
		t.Fatalf("tokens = %+v", toks)
	}
	if !toks[0].Unterminated || toks[0].Text != `<a b="1" ` {
		t.Errorf("first = %+v", toks[0])
	}
	if toks[1].Kind != token.SelfClosingTag || toks[1].Name != "c" {
		t.Errorf("second = %+v", toks[1])
	}
}

func TestTokensStopsEarly(t *testing.T) {
	lx := lexer.New(makeTestFile("<a/><b/><c/>"), lexer.Options{})
	n := 0
	for range lx.Tokens() {
		n++
		if n == 2 {
			break
		}
	}
	if next := lx.Next(); next.Name != "c" {
		t.Fatalf("lexer must resume after the consumed tokens, got %+v", next)
	}
}
