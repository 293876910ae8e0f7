package attr

import (
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Attr
	}{
		{"empty", "", nil},
		{"double and single", ` b="2" a='1'`, []Attr{{"b", '"', "2"}, {"a", '\'', "1"}}},
		{"spaces around equals", " a = \"1\"", []Attr{{"a", '"', "1"}}},
		{"multiline value", " d=\"line1\nline2\"", []Attr{{"d", '"', "line1\nline2"}}},
		{"namespaced", ` xmlns:x="u" x:id="7"`, []Attr{{"xmlns:x", '"', "u"}, {"x:id", '"', "7"}}},
		{"entity kept verbatim", ` t="a&amp;b"`, []Attr{{"t", '"', "a&amp;b"}}},
		{"inner other quote", ` t='say "hi"'`, []Attr{{"t", '\'', `say "hi"`}}},
		{"duplicates kept", ` a="1" a="2"`, []Attr{{"a", '"', "1"}, {"a", '"', "2"}}},
		{"unquoted skipped", ` a=1 b="2"`, []Attr{{"b", '"', "2"}}},
		{"bare name skipped", ` checked b="2"`, []Attr{{"b", '"', "2"}}},
		{"bad name start skipped", ` 1x="a b" c="3"`, []Attr{{"c", '"', "3"}}},
		{"unclosed quote", ` a="1 b='2'`, []Attr{{"b", '\'', "2"}}},
		{"trailing slash", ` a="1" /`, []Attr{{"a", '"', "1"}}},
		{"unicode name", ` имя="v"`, []Attr{{"имя", '"', "v"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSortStable(t *testing.T) {
	attrs := []Attr{
		{"z", '"', "1"},
		{"a", '"', "first"},
		{"B", '"', "2"},
		{"a", '"', "second"},
		{"xmlns:a", '"', "3"},
	}
	Sort(attrs)
	want := []Attr{
		{"B", '"', "2"},
		{"a", '"', "first"},
		{"a", '"', "second"},
		{"xmlns:a", '"', "3"},
		{"z", '"', "1"},
	}
	if !slices.Equal(attrs, want) {
		t.Fatalf("Sort = %+v, want %+v", attrs, want)
	}
	if !IsSorted(attrs) {
		t.Fatal("IsSorted returned false after Sort")
	}
}

func TestIsSorted(t *testing.T) {
	if IsSorted([]Attr{{Name: "b"}, {Name: "a"}}) {
		t.Fatal("b, a must not be sorted")
	}
	if !IsSorted(nil) {
		t.Fatal("nil must be sorted")
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		tag         string
		attrs       []Attr
		selfClosing bool
		want        string
	}{
		{"open", "a", []Attr{{"x", '"', "1"}, {"y", '\'', "2"}}, false, `<a x="1" y="2">`},
		{"self closing", "br", []Attr{{"c", '"', "1"}}, true, `<br c="1"/>`},
		{"no attrs", "p", nil, false, `<p>`},
		{"value with double quote", "q", []Attr{{"t", '\'', `say "hi"`}}, false, `<q t='say "hi"'>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.tag, tt.attrs, tt.selfClosing); got != tt.want {
				t.Fatalf("Render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRenderIdempotent(t *testing.T) {
	raw := ` c="3" a='1' b="x&lt;y"`
	attrs := Parse(raw)
	Sort(attrs)
	once := Render("e", attrs, false)

	again := Parse(once[len("<e") : len(once)-1])
	Sort(again)
	if twice := Render("e", again, false); twice != once {
		t.Fatalf("second render %q differs from first %q", twice, once)
	}
}
