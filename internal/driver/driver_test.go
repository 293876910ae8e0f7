package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"xmlsort/internal/diag"
	"xmlsort/internal/format"
	"xmlsort/internal/observ"
	"xmlsort/internal/progress"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestFormatWritesBackup(t *testing.T) {
	dir := t.TempDir()
	orig := `<root><child y="1" x="2">text</child></root>`
	path := writeFile(t, dir, "a.xml", orig)

	report, err := FormatPaths(context.Background(), []string{path}, FormatOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if report.Changed != 1 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}
	res := report.Results[0]
	if res.BackupPath != path+".bak" {
		t.Errorf("backup path = %q", res.BackupPath)
	}
	if got := readString(t, path+".bak"); got != orig {
		t.Errorf("backup = %q, want original", got)
	}
	want := "<root>\n  <child x=\"2\" y=\"1\">text</child>\n</root>\n"
	if got := readString(t, path); got != want {
		t.Errorf("formatted = %q, want %q", got, want)
	}
}

func TestFormatNoBackup(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.xml", `<b z="1" a="2"/>`)

	report, err := FormatPaths(context.Background(), []string{path}, FormatOptions{NoBackup: true})
	if err != nil {
		t.Fatal(err)
	}
	if !report.OK() || report.Changed != 1 {
		t.Fatalf("report = %+v", report)
	}
	if exists(path + ".bak") {
		t.Error("backup must not be created with NoBackup")
	}
	if got := readString(t, path); got != "<b a=\"2\" z=\"1\"/>\n" {
		t.Errorf("formatted = %q", got)
	}
}

func TestMalformedLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	orig := "<a>\n<b x=\"1\""
	bad := writeFile(t, dir, "bad.xml", orig)
	good := writeFile(t, dir, "good.xml", `<g b="1" a="2"/>`)

	report, err := FormatPaths(context.Background(), []string{bad, good}, FormatOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if report.Failed != 1 || report.Changed != 1 {
		t.Fatalf("report = %+v", report)
	}
	res := report.Results[0]
	if res.Path != bad || diag.KindOf(res.Err) != diag.ParseError {
		t.Fatalf("bad result = %+v", res)
	}
	var de *diag.Error
	if !errors.As(res.Err, &de) || de.Path != bad || de.Pos.Line != 2 {
		t.Errorf("error = %#v", res.Err)
	}
	if res.Source == nil || res.Source.Path == "" {
		t.Error("parse failure should carry the decoded source")
	}
	if readString(t, bad) != orig || exists(bad+".bak") {
		t.Error("malformed file must be left alone without backup")
	}
}

func TestLexicalModePassesMalformedThrough(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.xml", `<a z="1" b="2"><c`)
	opts := FormatOptions{Format: format.Options{Mode: format.ModeLexical}, NoBackup: true}
	report, err := FormatPaths(context.Background(), []string{path}, opts)
	if err != nil || !report.OK() {
		t.Fatalf("report = %+v, err = %v", report, err)
	}
	if got := readString(t, path); got != "<a b=\"2\" z=\"1\"><c\n" {
		t.Errorf("formatted = %q", got)
	}
}

func TestUnchangedFileNotRewritten(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.xml", "<a x=\"1\"/>\n")
	before, _ := os.Stat(path)

	report, err := FormatPaths(context.Background(), []string{path}, FormatOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if report.Unchanged != 1 || report.Results[0].Changed {
		t.Fatalf("report = %+v", report)
	}
	after, _ := os.Stat(path)
	if !after.ModTime().Equal(before.ModTime()) || exists(path+".bak") {
		t.Error("unchanged file must not be rewritten or backed up")
	}
}

func TestReadOnlyModes(t *testing.T) {
	orig := `<b z="1" a="2"/>`
	for _, opts := range []FormatOptions{{Check: true}, {Stdout: true}, {Diff: true}} {
		dir := t.TempDir()
		path := writeFile(t, dir, "a.xml", orig)
		report, err := FormatPaths(context.Background(), []string{path}, opts)
		if err != nil {
			t.Fatal(err)
		}
		res := report.Results[0]
		if !res.Changed {
			t.Errorf("%+v: Changed = false", opts)
		}
		if readString(t, path) != orig || exists(path+".bak") {
			t.Errorf("%+v: file must not be touched", opts)
		}
		if (opts.Stdout || opts.Diff) && (string(res.Original) != orig || string(res.Formatted) != "<b a=\"2\" z=\"1\"/>\n") {
			t.Errorf("%+v: original=%q formatted=%q", opts, res.Original, res.Formatted)
		}
	}
}

func TestMissingFileIsPerFileError(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.xml")
	good := writeFile(t, dir, "ok.xml", "<a/>\n")

	report, err := FormatPaths(context.Background(), []string{missing, good}, FormatOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if report.Failed != 1 || report.Unchanged != 1 {
		t.Fatalf("report = %+v", report)
	}
	if res := report.Results[0]; diag.KindOf(res.Err) != diag.FileNotFound {
		t.Errorf("result = %+v", res)
	}
}

func TestDecodeError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.xml")
	if err := os.WriteFile(path, []byte("<a>\xff\xfe</a>"), 0o644); err != nil {
		t.Fatal(err)
	}
	report, err := FormatPaths(context.Background(), []string{path}, FormatOptions{Encoding: "utf-8"})
	if err != nil {
		t.Fatal(err)
	}
	if k := diag.KindOf(report.Results[0].Err); k != diag.DecodeError {
		t.Fatalf("kind = %v, err = %v", k, report.Results[0].Err)
	}
}

func TestBOMAndCRLFPreserved(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.xml")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, "<r>\r\n<c y=\"1\" x=\"2\"/>\r\n</r>\r\n"...)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := FormatPaths(context.Background(), []string{path}, FormatOptions{NoBackup: true}); err != nil {
		t.Fatal(err)
	}
	want := append([]byte{0xEF, 0xBB, 0xBF}, "<r>\r\n  <c x=\"2\" y=\"1\"/>\r\n</r>\r\n"...)
	if got, _ := os.ReadFile(path); !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestForceBOMAndLatin1(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.xml")
	// "é" в ISO-8859-1
	raw := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><a t=\"\xe9\" b=\"1\"/>")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	report, err := FormatPaths(context.Background(), []string{path}, FormatOptions{NoBackup: true, ForceBOM: true})
	if err != nil || !report.OK() {
		t.Fatalf("report = %+v, err = %v", report, err)
	}
	if enc := report.Results[0].Encoding; enc != "iso-8859-1" {
		t.Errorf("encoding = %q", enc)
	}
	want := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<a b=\"1\" t=\"\xe9\"/>\n"
	if got := readString(t, path); got != want {
		t.Errorf("got %q, want %q (no BOM for single-byte encodings)", got, want)
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.xml", "<a/>")
	b := writeFile(t, dir, "sub/b.SVG", "<b/>")
	writeFile(t, dir, "sub/notes.txt", "x")
	writeFile(t, dir, ".git/c.xml", "<c/>")
	txt := writeFile(t, dir, "readme.md", "x")

	files, warnings, err := CollectFiles(context.Background(),
		[]string{dir, a, txt, filepath.Join(dir, "*.none")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{a, b}; !slices.Equal(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %v", warnings)
	}

	globbed, _, err := CollectFiles(context.Background(), []string{filepath.Join(dir, "sub", "*")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(globbed, []string{b}) {
		t.Errorf("glob = %v", globbed)
	}
}

func TestNoFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.txt", "")
	if _, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{}); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("err = %v, want ErrNoFiles", err)
	}
}

func TestUnmatchedGlobIsNotFailure(t *testing.T) {
	dir := t.TempDir()
	report, err := FormatPaths(context.Background(), []string{filepath.Join(dir, "*.xml")}, FormatOptions{})
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if !report.OK() || len(report.Results) != 0 || len(report.Warnings) != 1 {
		t.Fatalf("report = %+v", report)
	}
}

func TestBackupFailureIsWarning(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.xml", `<r b="1" a="2"/>`)
	if err := os.Mkdir(path+BackupSuffix, 0o755); err != nil {
		t.Fatal(err)
	}

	report, err := FormatPaths(context.Background(), []string{path}, FormatOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if report.Failed != 0 || report.Changed != 1 {
		t.Fatalf("report = %+v", report)
	}
	res := report.Results[0]
	if len(res.Warnings) != 1 || diag.KindOf(res.Warnings[0]) != diag.BackupError {
		t.Fatalf("warnings = %v", res.Warnings)
	}
	if res.BackupPath != "" {
		t.Errorf("backup path = %q, want empty", res.BackupPath)
	}
	if got := readString(t, path); got != "<r a=\"2\" b=\"1\"/>\n" {
		t.Errorf("formatted = %q", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestWriteFailureLeavesFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("needs a directory the current user cannot write to")
	}
	dir := t.TempDir()
	orig := `<r b="1" a="2"/>`
	path := writeFile(t, dir, "a.xml", orig)
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	report, err := FormatPaths(context.Background(), []string{path}, FormatOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if report.Failed != 1 {
		t.Fatalf("report = %+v", report)
	}
	res := report.Results[0]
	if diag.KindOf(res.Err) != diag.WriteError {
		t.Fatalf("err = %v", res.Err)
	}
	if len(res.Warnings) != 1 || diag.KindOf(res.Warnings[0]) != diag.BackupError {
		t.Errorf("warnings = %v", res.Warnings)
	}
	if got := readString(t, path); got != orig {
		t.Errorf("file changed to %q", got)
	}
}

func TestSerializationError(t *testing.T) {
	dir := t.TempDir()
	orig := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><r b=\"1\" a=\"2\">&#x4E2D;</r>"
	path := writeFile(t, dir, "a.xml", orig)

	report, err := FormatPaths(context.Background(), []string{path}, FormatOptions{})
	if err != nil {
		t.Fatal(err)
	}
	res := report.Results[0]
	if diag.KindOf(res.Err) != diag.SerializationError {
		t.Fatalf("err = %v", res.Err)
	}
	if readString(t, path) != orig || exists(path+BackupSuffix) {
		t.Error("file must be left alone without backup")
	}
}

func TestDecodeErrorLeavesFile(t *testing.T) {
	tests := []struct {
		name  string
		label string
		raw   []byte
	}{
		{"shift_jis lone lead byte", "", []byte("<?xml version=\"1.0\" encoding=\"Shift_JIS\"?><r b=\"1\" a=\"\x81\"/>")},
		{"utf-16le lone surrogate", "utf-16le", []byte{'<', 0, 'r', 0, 0x00, 0xD8, '/', 0, '>', 0}},
		{"utf-16le odd length", "utf-16le", []byte{'<', 0, 'r', 0, '/', 0, '>', 0, '\n'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "a.xml")
			if err := os.WriteFile(path, tt.raw, 0o644); err != nil {
				t.Fatal(err)
			}
			report, err := FormatPaths(context.Background(), []string{path}, FormatOptions{Encoding: tt.label})
			if err != nil {
				t.Fatal(err)
			}
			if k := diag.KindOf(report.Results[0].Err); k != diag.DecodeError {
				t.Fatalf("kind = %v, err = %v", k, report.Results[0].Err)
			}
			got, _ := os.ReadFile(path)
			if !bytes.Equal(got, tt.raw) || exists(path+BackupSuffix) {
				t.Error("file must be left alone without backup")
			}
		})
	}
}

func TestParallelJobs(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := range 12 {
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("f%02d.xml", i), fmt.Sprintf(`<r z="%d" a="%d"/>`, i, i)))
	}
	paths = append(paths, writeFile(t, dir, "broken.xml", "<r>"))

	rec := &progress.Recorder{}
	timer := observ.NewTimer()
	report, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Jobs: 4, NoBackup: true, Progress: rec, Timer: timer})
	if err != nil {
		t.Fatal(err)
	}
	if report.Changed != 12 || report.Failed != 1 || len(report.Results) != 13 {
		t.Fatalf("report: changed=%d failed=%d results=%d", report.Changed, report.Failed, len(report.Results))
	}
	slices.Sort(paths)
	for i, res := range report.Results {
		if res.Path != paths[i] {
			t.Fatalf("result %d path = %q, want %q", i, res.Path, paths[i])
		}
	}

	final := 0
	for _, ev := range rec.Events() {
		if ev.Status.Final() {
			final++
		}
	}
	if final != 13 {
		t.Errorf("final progress events = %d, want 13", final)
	}
	if got := timer.Report(); len(got.Phases) == 0 {
		t.Error("timer recorded nothing")
	}
}

func TestCancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.xml", "<a/>")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FormatPaths(ctx, []string{path}, FormatOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCacheSkipsKnownFiles(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewDiskCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, dir, "src/a.xml", `<b z="1" a="2"/>`)
	opts := FormatOptions{NoBackup: true, Cache: cache}

	first, err := FormatPaths(context.Background(), []string{path}, opts)
	if err != nil || first.Results[0].Cached || !first.Results[0].Changed {
		t.Fatalf("first run = %+v, %v", first.Results, err)
	}
	second, err := FormatPaths(context.Background(), []string{path}, opts)
	if err != nil || !second.Results[0].Cached || second.Results[0].Changed {
		t.Fatalf("second run = %+v, %v", second.Results, err)
	}

	other := opts
	other.Format.Indent = "\t"
	third, err := FormatPaths(context.Background(), []string{path}, other)
	if err != nil || third.Results[0].Cached {
		t.Fatalf("different options must miss the cache: %+v, %v", third.Results, err)
	}
}

func TestFileModeKept(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	dir := t.TempDir()
	path := writeFile(t, dir, "a.xml", `<b z="1" a="2"/>`)
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := FormatPaths(context.Background(), []string{path}, FormatOptions{}); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{path, path + ".bak"} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("%s mode = %v", p, info.Mode().Perm())
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("temp files left behind: %v", entries)
	}
}
