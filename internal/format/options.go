package format

import (
	"fmt"
	"strings"
)

// Mode selects a formatting strategy.
type Mode string

const (
	ModeLexical Mode = "lexical"
	ModeTree    Mode = "tree"
)

// DefaultIndent is used when Options.Indent is empty.
const DefaultIndent = "  "

type Options struct {
	Mode       Mode
	Indent     string // один уровень отступа, только для tree
	NoNewlines bool   // убрать пустые строки и финальный перевод строки
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeTree
	}
	if o.Indent == "" {
		o.Indent = DefaultIndent
	}
	return o
}

// ParseMode accepts "lexical" or "tree" in any case.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLexical, ModeTree:
		return m, nil
	case "":
		return ModeTree, nil
	}
	return "", fmt.Errorf("unknown format mode %q (want lexical or tree)", s)
}

// Key renders the options in a stable form suitable for cache keys.
func (o Options) Key() string {
	o = o.withDefaults()
	return fmt.Sprintf("mode=%s;indent=%q;nonl=%t", o.Mode, o.Indent, o.NoNewlines)
}
