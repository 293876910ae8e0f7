package lexer

import (
	"strings"

	"xmlsort/internal/diag"
	"xmlsort/internal/token"
)

func (lx *Lexer) scanName() string {
	start := lx.cursor.Off
	for !lx.cursor.EOF() && !isNameStop(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return string(lx.file.Content[start:lx.cursor.Off])
}

// scanEndTag consumes </name ...>. A '<' before the closing '>' ends the
// token early as unterminated.
func (lx *Lexer) scanEndTag() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Advance(2)
	name := lx.scanName()

	closed := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '<' {
			break
		}
		lx.cursor.Bump()
		if b == '>' {
			closed = true
			break
		}
	}

	tok := lx.finish(token.EndTag, m)
	tok.Name = name
	if !closed {
		tok.Unterminated = true
		lx.report(diag.LexUnterminatedTag, tok.Span, "unterminated end tag </"+name+">")
	}
	return tok
}

// scanStartTag consumes <name attrs> or <name attrs/>.
// Quotes open a literal only right after '=' (whitespace allowed in
// between), so a '>' inside an attribute value does not end the tag.
func (lx *Lexer) scanStartTag() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Advance(1)
	name := lx.scanName()

	attrStart := lx.cursor.Off
	attrEnd := attrStart
	closed := false
	afterEq := false

loop:
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '<':
			break loop
		case b == '>':
			attrEnd = lx.cursor.Off
			lx.cursor.Bump()
			closed = true
			break loop
		case b == '=':
			afterEq = true
			lx.cursor.Bump()
		case (b == '"' || b == '\'') && afterEq:
			afterEq = false
			lx.cursor.Bump()
			for !lx.cursor.EOF() {
				c := lx.cursor.Peek()
				if c == b {
					lx.cursor.Bump()
					break
				}
				if c == '<' {
					break loop
				}
				lx.cursor.Bump()
			}
		case isSpace(b):
			lx.cursor.Bump()
		default:
			afterEq = false
			lx.cursor.Bump()
		}
	}
	if !closed {
		attrEnd = lx.cursor.Off
	}

	tok := lx.finish(token.StartTag, m)
	tok.Name = name
	attrs := string(lx.file.Content[attrStart:attrEnd])
	if !closed {
		tok.Attrs = attrs
		tok.Unterminated = true
		lx.report(diag.LexUnterminatedTag, tok.Span, "unterminated start tag <"+name+">")
		return tok
	}

	if trimmed := strings.TrimRight(attrs, " \t\r\n"); strings.HasSuffix(trimmed, "/") {
		tok.Kind = token.SelfClosingTag
		attrs = trimmed[:len(trimmed)-1]
	}
	tok.Attrs = attrs
	return tok
}
