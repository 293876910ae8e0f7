package token

import (
	"strings"

	"xmlsort/internal/source"
)

// Token represents a single lexical token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	// Name is the tag name of StartTag, SelfClosingTag and EndTag tokens.
	Name string
	// Attrs is the raw attribute region of a start tag, without the
	// trailing '/' of a self-closing tag.
	Attrs string
	// Unterminated marks a construct cut short by EOF (or by '<' inside a tag).
	Unterminated bool
}

// IsTag reports whether the token opens an element.
func (t Token) IsTag() bool {
	return t.Kind == StartTag || t.Kind == SelfClosingTag
}

// IsMarkup reports whether the token is anything but character data.
func (t Token) IsMarkup() bool {
	return t.Kind != Text && t.Kind != EOF && t.Kind != Invalid
}

// IsBlank reports whether the token is whitespace-only text.
func (t Token) IsBlank() bool {
	return t.Kind == Text && strings.TrimSpace(t.Text) == ""
}
