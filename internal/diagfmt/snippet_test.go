package diagfmt

import (
	"bytes"
	"testing"

	"xmlsort/internal/source"
)

func virtualFile(content string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("doc.xml", []byte(content)))
}

func TestSnippet(t *testing.T) {
	f := virtualFile("<root>\n  <a></b>\n</root>\n")
	tests := []struct {
		name string
		pos  source.LineCol
		opts SnippetOpts
		want string
	}{
		{
			name: "caret",
			pos:  source.LineCol{Line: 2, Col: 6},
			want: "2 |   <a></b>\n  |      ^\n",
		},
		{
			name: "context",
			pos:  source.LineCol{Line: 2, Col: 3},
			opts: SnippetOpts{Context: 3},
			want: "1 | <root>\n2 |   <a></b>\n  |   ^\n",
		},
		{
			name: "no column",
			pos:  source.LineCol{Line: 3},
			want: "3 | </root>\n",
		},
		{
			name: "past the end",
			pos:  source.LineCol{Line: 4, Col: 1},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Snippet(&buf, f, tt.pos, tt.opts)
			if buf.String() != tt.want {
				t.Errorf("got:\n%q\nwant:\n%q", buf.String(), tt.want)
			}
		})
	}
}

func TestSnippetTabsAndWidth(t *testing.T) {
	f := virtualFile("\t<a b='1' c='2' d='3'>")
	var buf bytes.Buffer
	Snippet(&buf, f, source.LineCol{Line: 1, Col: 2}, SnippetOpts{})
	want := "1 |     <a b='1' c='2' d='3'>\n  |     ^\n"
	if buf.String() != want {
		t.Errorf("tabs:\n%q\nwant:\n%q", buf.String(), want)
	}

	buf.Reset()
	Snippet(&buf, f, source.LineCol{Line: 1, Col: 20}, SnippetOpts{Width: 10})
	want = "1 |     <a b=…\n"
	if buf.String() != want {
		t.Errorf("width:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestSnippetNilFile(t *testing.T) {
	var buf bytes.Buffer
	Snippet(&buf, nil, source.LineCol{Line: 1, Col: 1}, SnippetOpts{})
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
}
