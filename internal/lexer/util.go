package lexer

import (
	"unicode"
	"unicode/utf8"
)

// peekRuneAt decodes the rune n bytes ahead of the cursor.
func (lx *Lexer) peekRuneAt(n uint32) rune {
	off := lx.cursor.Off + n
	if off >= lx.cursor.Limit {
		return utf8.RuneError
	}
	b := lx.file.Content[off]
	if b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRune(lx.file.Content[off:lx.cursor.Limit])
	return r
}

// IsNameStart reports whether r may begin a tag or attribute name.
func IsNameStart(r rune) bool {
	return r == '_' || r == ':' || unicode.IsLetter(r)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// stops a tag name: whitespace, '/', '>' or '<'
func isNameStop(b byte) bool {
	return isSpace(b) || b == '/' || b == '>' || b == '<'
}
