package format

import (
	"strings"

	"xmlsort/internal/attr"
	"xmlsort/internal/lexer"
	"xmlsort/internal/source"
	"xmlsort/internal/token"
)

// lexical rewrites start tags in place and copies every other byte through.
// It never fails: malformed markup is passed along as it was found.
type lexical struct{}

func (lexical) Name() Mode { return ModeLexical }

func (lexical) Format(sf *source.File, opt Options) ([]byte, error) {
	w := NewWriter(sf, "")
	lx := lexer.New(sf, lexer.Options{})
	for tok := range lx.Tokens() {
		if out, ok := rewriteTag(tok); ok {
			w.WriteString(out)
			continue
		}
		if opt.NoNewlines && tok.IsBlank() {
			first := tok.Span.Start == 0
			last := int(tok.Span.End) >= len(sf.Content)
			w.WriteString(squeezeBlank(tok.Text, first, last))
			continue
		}
		w.CopySpan(tok.Span)
	}
	out := w.Bytes()
	if !opt.NoNewlines {
		out = ensureTrailingNewline(out)
	}
	return out, nil
}

// squeezeBlank keeps at most one line break of whitespace between markup.
// At the start or the end of the document the blank lines go entirely.
func squeezeBlank(ws string, first, last bool) string {
	i := strings.IndexByte(ws, '\n')
	if i < 0 {
		return ws
	}
	j := strings.LastIndexByte(ws, '\n')
	head, tail := ws[:i+1], ws[j+1:]
	if first {
		head = ""
	}
	if last {
		tail = ""
	}
	return head + tail
}

// rewriteTag renders tok with sorted attributes. Tags without parsable
// attributes are left alone.
func rewriteTag(tok token.Token) (string, bool) {
	if !tok.IsTag() || tok.Unterminated {
		return "", false
	}
	attrs := attr.Parse(tok.Attrs)
	if len(attrs) == 0 {
		return "", false
	}
	attr.Sort(attrs)
	return attr.Render(tok.Name, attrs, tok.Kind == token.SelfClosingTag), true
}
