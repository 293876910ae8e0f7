// Package testkit holds invariant checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"xmlsort/internal/source"
	"xmlsort/internal/token"
)

// CheckTokenInvariants runs the span invariants of a token stream (EOF
// excluded) over sf:
// 1) every token span is non-empty and points into sf
// 2) spans are contiguous, starting at 0 and ending at the end of the content
// 3) Text equals the content covered by Span
// 4) start tags carry a name
func CheckTokenInvariants(toks []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var next uint32
	for i, tok := range toks {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End <= sp.Start {
			return fmt.Errorf("token %d (%s): empty span %v", i, tok.Kind, sp)
		}
		if sp.Start != next {
			return fmt.Errorf("token %d (%s): starts at %d, previous ended at %d", i, tok.Kind, sp.Start, next)
		}
		if sp.End > lenContent {
			return fmt.Errorf("token %d: span end beyond content: %d > %d", i, sp.End, lenContent)
		}
		if got := sf.Slice(sp); got != tok.Text {
			return fmt.Errorf("token %d: text %q differs from source %q", i, tok.Text, got)
		}
		if tok.IsTag() && tok.Name == "" {
			return fmt.Errorf("token %d (%s): missing tag name", i, tok.Kind)
		}
		next = sp.End
	}
	if next != lenContent {
		return fmt.Errorf("tokens end at %d, content has %d bytes", next, lenContent)
	}
	return nil
}
