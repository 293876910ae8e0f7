// Package token defines the lexical token kinds of the XML scanner.
// Invariants:
//   - Token.Text is the exact source text covered by Token.Span.
//   - Concatenating Text of every token up to EOF reproduces the input.
//   - Only StartTag and SelfClosingTag tokens carry Name and Attrs.
package token
