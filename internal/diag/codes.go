package diag

import (
	"fmt"
)

// Code identifies a class of diagnostic.
type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexUnterminatedComment Code = 1001
	LexUnterminatedCDATA   Code = 1002
	LexUnterminatedPI      Code = 1003
	LexUnterminatedDecl    Code = 1004
	LexUnterminatedTag     Code = 1005

	// Структурные
	SynMismatchedEndTag Code = 2001
	SynUnexpectedEndTag Code = 2002
	SynUnclosedElement  Code = 2003
	SynNoRootElement    Code = 2004
	SynMultipleRoots    Code = 2005
	SynTextOutsideRoot  Code = 2006
	SynRejected         Code = 2007
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	LexUnterminatedComment: "Unterminated comment",
	LexUnterminatedCDATA:   "Unterminated CDATA section",
	LexUnterminatedPI:      "Unterminated processing instruction",
	LexUnterminatedDecl:    "Unterminated declaration",
	LexUnterminatedTag:     "Unterminated tag",
	SynMismatchedEndTag:    "Mismatched end tag",
	SynUnexpectedEndTag:    "End tag without matching start tag",
	SynUnclosedElement:     "Element is never closed",
	SynNoRootElement:       "Document has no root element",
	SynMultipleRoots:       "Document has more than one root element",
	SynTextOutsideRoot:     "Text outside the root element",
	SynRejected:            "Rejected by the XML parser",
}

// ID returns the stable short form, e.g. "LEX1001".
func (c Code) ID() string {
	switch {
	case c >= 1000 && c < 2000:
		return fmt.Sprintf("LEX%04d", int(c))
	case c >= 2000 && c < 3000:
		return fmt.Sprintf("SYN%04d", int(c))
	}
	return fmt.Sprintf("E%04d", int(c))
}

func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return c.ID()
}
