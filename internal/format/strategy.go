package format

import (
	"errors"
	"fmt"

	"xmlsort/internal/source"
)

// Strategy turns a decoded document into its formatted text.
// Errors are *diag.Error values without a path.
type Strategy interface {
	Name() Mode
	Format(sf *source.File, opt Options) ([]byte, error)
}

var strategies = map[Mode]Strategy{
	ModeLexical: lexical{},
	ModeTree:    tree{},
}

// StrategyFor returns the strategy registered for mode.
func StrategyFor(mode Mode) (Strategy, error) {
	if mode == "" {
		mode = ModeTree
	}
	s, ok := strategies[mode]
	if !ok {
		return nil, fmt.Errorf("format: unknown mode %q", mode)
	}
	return s, nil
}

// Format runs the strategy selected by opt.Mode.
func Format(sf *source.File, opt Options) ([]byte, error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	opt = opt.withDefaults()
	s, err := StrategyFor(opt.Mode)
	if err != nil {
		return nil, err
	}
	return s.Format(sf, opt)
}
