package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// CollectFiles expands command-line arguments into a sorted, de-duplicated
// list of files. Arguments may be files, directories (walked recursively,
// hidden directories skipped) or glob patterns. Explicit files with an
// unrecognized extension are skipped with a warning; missing files are kept
// so that formatting reports them.
func CollectFiles(ctx context.Context, args, exts []string) (files, warnings []string, err error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	seen := make(map[string]struct{})
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return nil, warnings, err
		}

		if hasGlobMeta(arg) {
			matches, globErr := filepath.Glob(arg)
			if globErr != nil {
				return nil, warnings, fmt.Errorf("bad pattern %q: %w", arg, globErr)
			}
			if len(matches) == 0 {
				warn("pattern %q matched no files", arg)
				continue
			}
			for _, m := range matches {
				info, statErr := os.Stat(m)
				if statErr != nil {
					continue
				}
				if info.IsDir() {
					if err := walkDir(ctx, m, exts, add); err != nil {
						return nil, warnings, err
					}
					continue
				}
				// совпадения шаблона без XML-расширения пропускаем молча
				if hasExt(m, exts) {
					add(m)
				}
			}
			continue
		}

		info, statErr := os.Stat(arg)
		switch {
		case errors.Is(statErr, fs.ErrNotExist):
			add(arg)
		case statErr != nil:
			return nil, warnings, statErr
		case info.IsDir():
			if err := walkDir(ctx, arg, exts, add); err != nil {
				return nil, warnings, err
			}
		case !hasExt(arg, exts):
			warn("skipping %s: not a recognized XML extension", arg)
		default:
			add(arg)
		}
	}

	slices.Sort(files)
	return files, warnings, nil
}

func walkDir(ctx context.Context, root string, exts []string, add func(string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && hasExt(path, exts) {
			add(path)
		}
		return nil
	})
}

func hasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
