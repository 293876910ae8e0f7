package lexer

import (
	"xmlsort/internal/diag"
	"xmlsort/internal/token"
)

func (lx *Lexer) scanDelimited(kind token.Kind, open, close string, code diag.Code, what string) token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Advance(uint32(len(open)))
	closed := lx.cursor.SkipPast(close)
	tok := lx.finish(kind, m)
	if !closed {
		tok.Unterminated = true
		lx.report(code, tok.Span, "unterminated "+what+", expected "+close)
	}
	return tok
}

func (lx *Lexer) scanComment() token.Token {
	return lx.scanDelimited(token.Comment, "<!--", "-->", diag.LexUnterminatedComment, "comment")
}

func (lx *Lexer) scanCDATA() token.Token {
	return lx.scanDelimited(token.CDATA, "<![CDATA[", "]]>", diag.LexUnterminatedCDATA, "CDATA section")
}

func (lx *Lexer) scanPI() token.Token {
	return lx.scanDelimited(token.ProcInst, "<?", "?>", diag.LexUnterminatedPI, "processing instruction")
}

// scanDecl consumes <!DOCTYPE ...> and friends. Quoted literals and the
// bracketed internal subset (including comments inside it) may contain '>'.
func (lx *Lexer) scanDecl() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Advance(2)
	depth := 0
	closed := false

loop:
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '"' || b == '\'':
			lx.cursor.Bump()
			for !lx.cursor.EOF() && lx.cursor.Peek() != b {
				lx.cursor.Bump()
			}
			lx.cursor.Eat(b)
		case depth > 0 && lx.cursor.HasPrefix("<!--"):
			lx.cursor.SkipPast("-->")
		case b == '[':
			depth++
			lx.cursor.Bump()
		case b == ']':
			if depth > 0 {
				depth--
			}
			lx.cursor.Bump()
		case b == '>' && depth == 0:
			lx.cursor.Bump()
			closed = true
			break loop
		default:
			lx.cursor.Bump()
		}
	}

	tok := lx.finish(token.Doctype, m)
	if !closed {
		tok.Unterminated = true
		lx.report(diag.LexUnterminatedDecl, tok.Span, "unterminated declaration, expected >")
	}
	return tok
}
