package format

import (
	"xmlsort/internal/diag"
	"xmlsort/internal/lexer"
	"xmlsort/internal/source"
	"xmlsort/internal/token"
)

// Validate checks the element structure of sf: every construct terminated,
// end tags matching their start tags, exactly one root element, and no
// character data outside it. The first problem met while scanning is
// returned as a positioned ParseError.
func Validate(sf *source.File) error {
	bag := diag.NewBag(0)
	rep := &diag.BagReporter{Bag: bag}
	checkStructure(lexer.New(sf, lexer.Options{Reporter: rep}), rep)
	for _, d := range bag.Items() {
		if d.Severity.Abandons() {
			return diag.FromDiagnostic(d, sf)
		}
	}
	return nil
}

type element struct {
	name string
	span source.Span
}

func checkStructure(lx *lexer.Lexer, rep diag.Reporter) {
	var (
		stack    []element
		rootSeen bool
		last     source.Span
	)
	report := func(code diag.Code, sp source.Span, msg string) {
		rep.Report(code, diag.SevError, sp, msg)
	}

	for tok := range lx.Tokens() {
		last = tok.Span
		if tok.Unterminated {
			// лексер уже сообщил
			continue
		}
		switch tok.Kind {
		case token.StartTag, token.SelfClosingTag:
			if len(stack) == 0 && rootSeen {
				report(diag.SynMultipleRoots, tok.Span, "second root element <"+tok.Name+">")
			}
			if tok.Kind == token.StartTag {
				stack = append(stack, element{name: tok.Name, span: tok.Span})
			} else if len(stack) == 0 {
				rootSeen = true
			}
		case token.EndTag:
			if len(stack) == 0 {
				report(diag.SynUnexpectedEndTag, tok.Span, "end tag </"+tok.Name+"> without start tag")
				continue
			}
			top := stack[len(stack)-1]
			if top.name != tok.Name {
				report(diag.SynMismatchedEndTag, tok.Span, "end tag </"+tok.Name+"> does not match <"+top.name+">")
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				rootSeen = true
			}
		case token.Text, token.CDATA:
			if len(stack) == 0 && !tok.IsBlank() {
				report(diag.SynTextOutsideRoot, tok.Span, "character data outside the root element")
			}
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		report(diag.SynUnclosedElement, stack[i].span, "element <"+stack[i].name+"> is never closed")
	}
	if !rootSeen && len(stack) == 0 {
		end := source.Span{File: last.File, Start: last.End, End: last.End}
		report(diag.SynNoRootElement, end, "document has no root element")
	}
}
