// Package config loads .xmlsort.toml, the per-project defaults for the
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"xmlsort/internal/format"
)

// FileName is looked up from the working directory upwards.
const FileName = ".xmlsort.toml"

// Config is a decoded configuration file. Only keys that are present in the
// file are reported by IsSet; the command line overrides them.
type Config struct {
	Path     string
	Root     string
	Settings Settings
	meta     toml.MetaData
}

type Settings struct {
	Format FormatSection `toml:"format"`
	Files  FilesSection  `toml:"files"`
}

type FormatSection struct {
	Mode       string `toml:"mode"`
	Indent     string `toml:"indent"`
	NoNewlines bool   `toml:"no_newlines"`
}

type FilesSection struct {
	Encoding   string   `toml:"encoding"`
	BOM        bool     `toml:"bom"`
	Backup     bool     `toml:"backup"`
	Extensions []string `toml:"extensions"`
	Jobs       int      `toml:"jobs"`
	Cache      bool     `toml:"cache"`
}

// IsSet reports whether the dotted key ("format.indent") is present in the file.
func (c *Config) IsSet(key string) bool {
	if c == nil || c.Path == "" {
		return false
	}
	return c.meta.IsDefined(strings.Split(key, ".")...)
}

// Find walks from startDir to the filesystem root looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the configuration for startDir. Without a file it
// returns an empty Config and false.
func Discover(startDir string) (*Config, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return &Config{}, false, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Load decodes and validates the file at path.
func Load(path string) (*Config, error) {
	var s Settings
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if err := s.validate(meta); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Config{
		Path:     path,
		Root:     filepath.Dir(path),
		Settings: s,
		meta:     meta,
	}, nil
}

func (s *Settings) validate(meta toml.MetaData) error {
	if meta.IsDefined("format", "mode") {
		mode, err := format.ParseMode(s.Format.Mode)
		if err != nil {
			return fmt.Errorf("[format].mode: %w", err)
		}
		s.Format.Mode = string(mode)
	}
	if meta.IsDefined("format", "indent") && strings.Trim(s.Format.Indent, " \t") != "" {
		return fmt.Errorf("[format].indent must contain only spaces and tabs, got %q", s.Format.Indent)
	}
	if s.Files.Jobs < 0 {
		return fmt.Errorf("[files].jobs must not be negative, got %d", s.Files.Jobs)
	}
	for i, ext := range s.Files.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("[files].extensions[%d]: %q must look like \".xml\"", i, ext)
		}
	}
	return nil
}
