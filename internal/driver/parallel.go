package driver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"xmlsort/internal/observ"
	"xmlsort/internal/progress"
	"xmlsort/internal/trace"
)

// FormatFiles formats an already collected list of files. Results keep the
// order of files. With opts.Jobs > 1 files are processed concurrently; every
// path must appear once. A cancelled context stops scheduling new files and
// only the results of started files are returned, together with ctx.Err().
func FormatFiles(ctx context.Context, files []string, opts FormatOptions) ([]FormatResult, error) {
	var c counters
	return formatFiles(ctx, files, opts, &c)
}

func formatFiles(ctx context.Context, files []string, opts FormatOptions, c *counters) ([]FormatResult, error) {
	for _, path := range files {
		progress.Emit(opts.Progress, progress.Event{File: path, Status: progress.StatusQueued})
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FormatResult, len(files))
	started := make([]bool, len(files))

	jobs := opts.Jobs
	if jobs <= 1 {
		for i, path := range files {
			if err := ctx.Err(); err != nil {
				return collectStarted(results, started), err
			}
			started[i] = true
			results[i] = formatFile(ctx, path, opts)
			c.record(&results[i])
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			started[i] = true
			results[i] = formatFile(gctx, path, opts)
			c.record(&results[i])
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return collectStarted(results, started), err
	}
	return results, nil
}

func collectStarted(results []FormatResult, started []bool) []FormatResult {
	out := make([]FormatResult, 0, len(results))
	for i, ok := range started {
		if ok {
			out = append(out, results[i])
		}
	}
	return out
}

// startStage announces a stage of path and returns the function closing it.
func startStage(ctx context.Context, opts FormatOptions, path string, stage progress.Stage) func() {
	progress.Emit(opts.Progress, progress.Event{File: path, Stage: stage, Status: progress.StatusWorking})
	_, span := trace.StartSpan(ctx, trace.ScopePhase, string(stage))
	return func() {
		opts.Timer.Add(string(stage), span.End(""))
	}
}

func beginPhase(t *observ.Timer, name string) int {
	if t == nil {
		return -1
	}
	return t.Begin(name)
}

func endPhase(t *observ.Timer, idx int, note string) {
	if t != nil {
		t.End(idx, note)
	}
}
