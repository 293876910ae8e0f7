package format

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"xmlsort/internal/source"
)

func newFile(content string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.xml", []byte(content)))
}

func assertText(t *testing.T, got, want string) {
	t.Helper()
	if got == want {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	t.Fatalf("output mismatch (got %q)\n%s", got, diff)
}

func mustFormat(t *testing.T, input string, opt Options) string {
	t.Helper()
	out, err := Format(newFile(input), opt)
	if err != nil {
		t.Fatalf("Format(%q): %v", input, err)
	}
	return string(out)
}
