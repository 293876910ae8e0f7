package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync/atomic"

	digest "github.com/opencontainers/go-digest"

	"xmlsort/internal/charset"
	"xmlsort/internal/diag"
	"xmlsort/internal/format"
	"xmlsort/internal/progress"
	"xmlsort/internal/source"
	"xmlsort/internal/trace"
)

// FormatPaths formats provided files, directories and glob patterns.
// When opts.Check is true, files are not modified; Changed indicates whether
// formatting would update the file contents. With opts.Stdout or opts.Diff the
// formatted content is returned in the results without touching files on disk.
// Per-file failures are recorded in the report; the returned error is reserved
// for problems with the batch itself.
func FormatPaths(ctx context.Context, args []string, opts FormatOptions) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := beginPhase(opts.Timer, "collect")
	files, warnings, err := CollectFiles(ctx, args, opts.extensions())
	endPhase(opts.Timer, idx, strconv.Itoa(len(files))+" files")
	if err != nil {
		return nil, err
	}
	return FormatCollected(ctx, files, warnings, opts)
}

// FormatCollected formats files produced by CollectFiles and aggregates the
// results; warnings are carried into the report unchanged. Zero files is
// not a failure when warnings explain it (an empty glob, a skipped argument);
// with no warnings either ErrNoFiles is returned.
func FormatCollected(ctx context.Context, files, warnings []string, opts FormatOptions) (*Report, error) {
	report := &Report{Warnings: warnings}
	if len(files) == 0 {
		if len(warnings) > 0 {
			return report, nil
		}
		return report, ErrNoFiles
	}

	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "batch")
	idx := beginPhase(opts.Timer, "format")
	var (
		c   counters
		err error
	)
	report.Results, err = formatFiles(ctx, files, opts, &c)
	endPhase(opts.Timer, idx, "")

	report.Changed = int(c.changed.Load())
	report.Unchanged = int(c.unchanged.Load())
	report.Failed = int(c.failed.Load())
	span.WithExtra("changed", strconv.Itoa(report.Changed)).
		WithExtra("failed", strconv.Itoa(report.Failed)).
		End(strconv.Itoa(len(files)) + " files")
	return report, err
}

type counters struct {
	changed   atomic.Int64
	unchanged atomic.Int64
	failed    atomic.Int64
}

func (c *counters) record(res *FormatResult) {
	switch {
	case res.Err != nil:
		c.failed.Add(1)
	case res.Changed:
		c.changed.Add(1)
	default:
		c.unchanged.Add(1)
	}
}

// formatFile runs the whole pipeline for one path and never panics on bad
// input: every failure ends up in FormatResult.Err.
func formatFile(ctx context.Context, path string, opts FormatOptions) (res FormatResult) {
	ctx, span := trace.StartSpan(ctx, trace.ScopeFile, path)
	res.Path = path
	defer func() {
		status := progress.StatusUnchanged
		detail := "unchanged"
		switch {
		case res.Err != nil:
			status, detail = progress.StatusError, diag.KindOf(res.Err).String()
			trace.Error(trace.FromContext(ctx), path, res.Err, trace.CurrentSpan(ctx))
		case res.Changed:
			status, detail = progress.StatusDone, "changed"
		}
		if res.Cached {
			detail = "cached"
		}
		elapsed := span.End(detail)
		progress.Emit(opts.Progress, progress.Event{File: path, Stage: progress.StageWrite, Status: status, Err: res.Err, Elapsed: elapsed})
	}()

	done := startStage(ctx, opts, path, progress.StageRead)
	raw, err := readFile(path)
	done()
	if err != nil {
		res.Err = err
		return res
	}

	var key digest.Digest
	if opts.Cache != nil {
		key = CacheKey(raw, opts)
		var entry CacheEntry
		if hit, cacheErr := opts.Cache.Get(key, &entry); cacheErr == nil && hit {
			res.Cached = true
			res.Encoding = entry.Encoding
			if opts.Stdout || opts.Diff {
				res.Original, res.Formatted = raw, raw
			}
			return res
		}
	}

	done = startStage(ctx, opts, path, progress.StageDecode)
	sf, err := decode(path, raw, opts.Encoding)
	done()
	if err != nil {
		res.Err = err
		return res
	}
	res.Encoding = sf.Encoding

	done = startStage(ctx, opts, path, progress.StageFormat)
	out, err := format.Format(sf, opts.Format)
	if err == nil {
		out, err = encode(sf, out, opts.ForceBOM)
	}
	done()
	if err != nil {
		res.Err = diag.WithPath(err, path)
		var de *diag.Error
		if errors.As(err, &de) && de.Pos.Line != 0 {
			res.Source = sf
		}
		return res
	}

	res.Changed = !bytes.Equal(raw, out)
	if opts.Stdout || opts.Diff {
		res.Original, res.Formatted = raw, out
	}
	if !res.Changed {
		rememberFormatted(opts, key, raw, sf)
		return res
	}
	if opts.readOnly() {
		return res
	}

	perm := fileMode(path)
	if !opts.NoBackup {
		done = startStage(ctx, opts, path, progress.StageBackup)
		bak, bakErr := writeBackup(path, raw, perm)
		done()
		if bakErr != nil {
			res.Warnings = append(res.Warnings, &diag.Error{Kind: diag.BackupError, Path: bak, Msg: "cannot write backup", Err: bakErr})
		} else {
			res.BackupPath = bak
		}
	}

	done = startStage(ctx, opts, path, progress.StageWrite)
	err = writeAtomic(path, out, perm)
	done()
	if err != nil {
		res.Err = &diag.Error{Kind: diag.WriteError, Path: path, Msg: "cannot replace file", Err: err}
		return res
	}
	rememberFormatted(opts, CacheKey(out, opts), out, sf)
	return res
}

func readFile(path string) ([]byte, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err == nil {
		return raw, nil
	}
	msg := "cannot read file"
	if errors.Is(err, fs.ErrNotExist) {
		msg = "no such file"
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	return nil, &diag.Error{Kind: diag.FileNotFound, Path: path, Msg: msg, Err: err}
}

func decode(path string, raw []byte, label string) (*source.File, error) {
	fileSet := source.NewFileSet()
	id, err := fileSet.AddRaw(path, raw, label)
	if err != nil {
		de := &diag.Error{Kind: diag.DecodeError, Path: path, Err: err}
		var decErr *charset.DecodeError
		if errors.As(err, &decErr) {
			de.Msg = fmt.Sprintf("invalid %s at byte %d", decErr.Encoding, decErr.Offset)
			de.Err = decErr.Err
		}
		return nil, de
	}
	return fileSet.Get(id), nil
}

// encode turns formatted UTF-8 back into the bytes written to disk: original
// line endings, original encoding and the BOM when the input had one or
// forceBOM is set.
func encode(sf *source.File, out []byte, forceBOM bool) ([]byte, error) {
	if sf.Has(source.FileNormalizedCRLF) {
		out = source.RestoreCRLF(out)
	}
	enc, err := charset.Lookup(sf.Encoding)
	if err != nil {
		return nil, diag.Wrap(diag.SerializationError, err, "encode output")
	}
	encoded, err := enc.Encode(out)
	if err != nil {
		return nil, diag.Wrap(diag.SerializationError, err, "encode output as "+enc.Name)
	}
	if sf.Has(source.FileHadBOM) || forceBOM {
		if bom := enc.BOM(); len(bom) > 0 {
			encoded = append(bom[:len(bom):len(bom)], encoded...)
		}
	}
	return encoded, nil
}

func rememberFormatted(opts FormatOptions, key digest.Digest, data []byte, sf *source.File) {
	if opts.Cache == nil || key == "" {
		return
	}
	// ошибки кэша не влияют на результат форматирования
	_ = opts.Cache.Put(key, newCacheEntry(sf.Path, len(data), sf.Encoding, opts.Format))
}
