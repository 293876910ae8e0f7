package lexer

import (
	"iter"

	"xmlsort/internal/source"
	"xmlsort/internal/token"
)

// Lexer splits an XML document into a flat token stream.
// It is a best-effort scanner, not a validating parser: malformed markup is
// returned as tokens marked Unterminated, and the concatenated token text
// always equals the input.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
		}
	}

	if lx.cursor.Peek() != '<' {
		return lx.scanText()
	}

	switch {
	case lx.cursor.HasPrefix("<!--"):
		return lx.scanComment()
	case lx.cursor.HasPrefix("<![CDATA["):
		return lx.scanCDATA()
	case lx.cursor.HasPrefix("<!"):
		return lx.scanDecl()
	case lx.cursor.HasPrefix("<?"):
		return lx.scanPI()
	case lx.cursor.HasPrefix("</"):
		return lx.scanEndTag()
	case IsNameStart(lx.peekRuneAt(1)):
		return lx.scanStartTag()
	default:
		// одиночный '<' без имени: обычный текст
		return lx.scanText()
	}
}

// Tokens returns a lazy sequence of tokens up to, but not including, EOF.
func (lx *Lexer) Tokens() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				return
			}
			if !yield(tok) {
				return
			}
		}
	}
}

// Tokenize collects every token of file, EOF excluded.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	var out []token.Token
	for tok := range lx.Tokens() {
		out = append(out, tok)
	}
	return out
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) finish(kind token.Kind, m Mark) token.Token {
	sp := lx.cursor.SpanFrom(m)
	return token.Token{
		Kind: kind,
		Span: sp,
		Text: lx.file.Slice(sp),
	}
}

func (lx *Lexer) scanText() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Eat('<')
	for !lx.cursor.EOF() && lx.cursor.Peek() != '<' {
		lx.cursor.Bump()
	}
	return lx.finish(token.Text, m)
}

