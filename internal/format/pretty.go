package format

import (
	"xmlsort/internal/diag"
	"xmlsort/internal/lexer"
	"xmlsort/internal/source"
	"xmlsort/internal/token"
)

// Pretty re-indents serialized markup: one construct per line, depth times
// opt.Indent in front of it. Whitespace-only text is dropped and other text
// is trimmed. An element whose whole content is a single text or CDATA node
// stays on one line. Comments, processing instructions, declarations and
// CDATA are copied verbatim.
func Pretty(text []byte, opt Options) ([]byte, error) {
	opt = opt.withDefaults()
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("serialized.xml", text))
	toks := lexer.Tokenize(sf, lexer.Options{})

	w := NewWriter(sf, opt.Indent)
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		if tok.Unterminated {
			return nil, &diag.Error{
				Kind: diag.SerializationError,
				Pos:  sf.Position(tok.Span.Start),
				Msg:  "serialized output has an unterminated " + tok.Kind.String(),
			}
		}

		switch tok.Kind {
		case token.Text:
			if tok.IsBlank() {
				continue
			}
			w.Newline()
			w.TrimmedCopySpan(tok.Span)
		case token.StartTag:
			w.Newline()
			if n := inlineRun(toks, i); n > 0 {
				for _, t := range toks[i : i+n] {
					if t.Kind == token.Text {
						w.TrimmedCopySpan(t.Span)
					} else {
						w.CopySpan(t.Span)
					}
				}
				i += n - 1
				continue
			}
			w.CopySpan(tok.Span)
			w.IndentPush()
		case token.EndTag:
			w.IndentPop()
			w.Newline()
			w.CopySpan(tok.Span)
		default:
			w.Newline()
			w.CopySpan(tok.Span)
		}
	}

	out := w.Bytes()
	if opt.NoNewlines {
		return dropBlankLines(out), nil
	}
	if len(out) > 0 {
		out = append(out, '\n')
	}
	return out, nil
}

// inlineRun returns how many tokens starting at the start tag toks[i] form
// an element printable on one line, or 0.
func inlineRun(toks []token.Token, i int) int {
	j := skipBlank(toks, i+1)
	if j >= len(toks) {
		return 0
	}
	switch toks[j].Kind {
	case token.EndTag:
		return j - i + 1
	case token.Text, token.CDATA:
		k := skipBlank(toks, j+1)
		if k < len(toks) && toks[k].Kind == token.EndTag {
			return k - i + 1
		}
	}
	return 0
}

func skipBlank(toks []token.Token, i int) int {
	for i < len(toks) && toks[i].IsBlank() {
		i++
	}
	return i
}
