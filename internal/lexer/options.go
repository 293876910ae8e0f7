package lexer

import (
	"xmlsort/internal/diag"
	"xmlsort/internal/source"
)

type Options struct {
	Reporter diag.Reporter // nil: ошибки игнорируются, лексинг продолжается
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg)
	}
}
