package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"xmlsort/internal/charset"
	"xmlsort/internal/config"
	"xmlsort/internal/driver"
	"xmlsort/internal/format"
	"xmlsort/internal/observ"
)

type formatFlags struct {
	noBackup   bool
	indent     string
	bom        bool
	encoding   string
	noNewlines bool
	mode       string
	check      bool
	stdout     bool
	diff       bool
	jobs       int
	configPath string
	cache      bool
	clearCache bool
	output     string
	ui         string
}

var fmtFlags formatFlags

func init() {
	registerFormatFlags(rootCmd.Flags())
}

func registerFormatFlags(f *pflag.FlagSet) {
	f.BoolVar(&fmtFlags.noBackup, "no-backup", false, "do not keep the original as <file>.bak")
	f.StringVarP(&fmtFlags.indent, "indent", "i", format.DefaultIndent, "indentation unit for the tree mode")
	f.BoolVar(&fmtFlags.bom, "bom", false, "write a byte order mark even if the input had none")
	f.StringVar(&fmtFlags.encoding, "encoding", "", "input and output encoding (default: detect, then UTF-8)")
	f.BoolVar(&fmtFlags.noNewlines, "no-newlines", false, "remove blank lines; do not add a final newline")
	f.StringVar(&fmtFlags.mode, "mode", string(format.ModeTree), "formatting mode: tree (re-indents, <a></a> becomes <a/>) or lexical (sorts attributes in place)")
	f.BoolVar(&fmtFlags.check, "check", false, "list files that would change and write nothing")
	f.BoolVar(&fmtFlags.stdout, "stdout", false, "print formatted documents instead of rewriting files")
	f.BoolVarP(&fmtFlags.diff, "diff", "d", false, "print a unified diff instead of rewriting files")
	f.IntVarP(&fmtFlags.jobs, "jobs", "j", 1, "number of files formatted in parallel")
	f.StringVar(&fmtFlags.configPath, "config", "", "configuration file (default: nearest "+config.FileName+")")
	f.BoolVar(&fmtFlags.cache, "cache", false, "skip files recorded as already formatted")
	f.BoolVar(&fmtFlags.clearCache, "clear-cache", false, "forget recorded files before formatting (implies --cache)")
	f.StringVar(&fmtFlags.output, "output", "text", "report format (text|json)")
	f.StringVar(&fmtFlags.ui, "ui", "auto", "progress UI (auto|on|off)")
}

func runFormat(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	mode, err := readUIMode(fmtFlags.ui)
	if err != nil {
		return err
	}
	if fmtFlags.output != "text" && fmtFlags.output != "json" {
		return fmt.Errorf("unsupported output format %q (expected text|json)", fmtFlags.output)
	}
	if fmtFlags.stdout && (fmtFlags.check || fmtFlags.diff) {
		return errors.New("--stdout cannot be combined with --check or --diff")
	}
	if (fmtFlags.stdout || fmtFlags.diff) && fmtFlags.output != "text" {
		return errors.New("--stdout and --diff are only supported with text output")
	}

	cfg, err := loadConfig(fmtFlags.configPath)
	if err != nil {
		return err
	}
	opts, err := resolveOptions(cmd, cfg)
	if err != nil {
		return err
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	if timings {
		opts.Timer = observ.NewTimer()
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if cfg.Path != "" && !quiet && fmtFlags.output == "text" {
		printNote(errOut, "using config "+cfg.Path)
	}

	var report *driver.Report
	if fmtFlags.output == "text" && !opts.Stdout && !opts.Diff && !quiet && shouldUseTUI(mode) {
		report, err = formatWithUI(cmd.Context(), args, opts)
	} else {
		report, err = driver.FormatPaths(cmd.Context(), args, opts)
	}
	if report != nil && fmtFlags.output == "text" {
		for _, w := range report.Warnings {
			printWarning(errOut, w)
		}
	}
	if err != nil && (report == nil || len(report.Results) == 0) {
		return err
	}

	switch {
	case fmtFlags.output == "json":
		if jsonErr := renderJSON(out, report, opts.Check); jsonErr != nil {
			return jsonErr
		}
	case opts.Stdout:
		renderStdout(out, errOut, report)
	case opts.Diff:
		renderDiff(out, errOut, report)
	default:
		renderText(out, errOut, report, opts.Check, quiet)
	}

	if opts.Timer != nil {
		printTimings(errOut, opts.Timer)
	}

	if err != nil {
		return err
	}
	return exitStatus(report, opts.Check)
}

// exitStatus maps a finished batch to the command error.
func exitStatus(report *driver.Report, check bool) error {
	if report.Failed > 0 {
		return errReported
	}
	if check && report.Changed > 0 {
		return fmt.Errorf("%s would be reformatted", plural(report.Changed, "file"))
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.Discover(".")
	return cfg, err
}

// resolveOptions merges the configuration file with the command line; a flag
// given explicitly always wins.
func resolveOptions(cmd *cobra.Command, cfg *config.Config) (driver.FormatOptions, error) {
	flags := cmd.Flags()
	useConfig := func(flag, key string) bool {
		return !flags.Changed(flag) && cfg.IsSet(key)
	}
	s := cfg.Settings

	modeStr := fmtFlags.mode
	if useConfig("mode", "format.mode") {
		modeStr = s.Format.Mode
	}
	mode, err := format.ParseMode(modeStr)
	if err != nil {
		return driver.FormatOptions{}, err
	}

	indent := fmtFlags.indent
	if useConfig("indent", "format.indent") {
		indent = s.Format.Indent
	}
	if strings.Trim(indent, " \t") != "" {
		return driver.FormatOptions{}, fmt.Errorf("--indent must contain only spaces and tabs, got %q", indent)
	}

	noNewlines := fmtFlags.noNewlines
	if useConfig("no-newlines", "format.no_newlines") {
		noNewlines = s.Format.NoNewlines
	}

	encoding := fmtFlags.encoding
	if useConfig("encoding", "files.encoding") {
		encoding = s.Files.Encoding
	}
	if encoding != "" {
		enc, lookupErr := charset.Lookup(encoding)
		if lookupErr != nil {
			return driver.FormatOptions{}, fmt.Errorf("--encoding: %w", lookupErr)
		}
		encoding = enc.Name
	}

	bom := fmtFlags.bom
	if useConfig("bom", "files.bom") {
		bom = s.Files.BOM
	}
	noBackup := fmtFlags.noBackup
	if useConfig("no-backup", "files.backup") {
		noBackup = !s.Files.Backup
	}
	jobs := fmtFlags.jobs
	if useConfig("jobs", "files.jobs") && s.Files.Jobs > 0 {
		jobs = s.Files.Jobs
	}
	if jobs < 1 {
		return driver.FormatOptions{}, fmt.Errorf("--jobs must be at least 1, got %d", jobs)
	}
	useCache := fmtFlags.cache
	if useConfig("cache", "files.cache") {
		useCache = s.Files.Cache
	}
	useCache = useCache || fmtFlags.clearCache

	opts := driver.FormatOptions{
		Format: format.Options{
			Mode:       mode,
			Indent:     indent,
			NoNewlines: noNewlines,
		},
		Encoding:   encoding,
		ForceBOM:   bom,
		NoBackup:   noBackup,
		Check:      fmtFlags.check,
		Stdout:     fmtFlags.stdout,
		Diff:       fmtFlags.diff,
		Jobs:       jobs,
		Extensions: s.Files.Extensions,
	}
	if useCache {
		cache, cacheErr := driver.OpenDiskCache("xmlsort")
		if cacheErr != nil {
			printWarning(cmd.ErrOrStderr(), "cache disabled: "+cacheErr.Error())
		} else {
			opts.Cache = cache
			if fmtFlags.clearCache {
				if dropErr := cache.DropAll(); dropErr != nil {
					return driver.FormatOptions{}, fmt.Errorf("clear cache %s: %w", cache.Dir(), dropErr)
				}
			}
		}
	}
	return opts, nil
}

func extensionsOf(opts driver.FormatOptions) []string {
	if len(opts.Extensions) == 0 {
		return driver.DefaultExtensions
	}
	return opts.Extensions
}

func formatWithUI(ctx context.Context, args []string, opts driver.FormatOptions) (*driver.Report, error) {
	var idx int
	if opts.Timer != nil {
		idx = opts.Timer.Begin("collect")
	}
	files, warnings, err := driver.CollectFiles(ctx, args, extensionsOf(opts))
	if opts.Timer != nil {
		opts.Timer.End(idx, plural(len(files), "file"))
	}
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return driver.FormatCollected(ctx, files, warnings, opts)
	}
	title := "formatting"
	if opts.Check {
		title = "checking"
	}
	return runFormatWithUI(ctx, title, files, warnings, opts)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
