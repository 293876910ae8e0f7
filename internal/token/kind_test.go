package token

import "testing"

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		Text:           "Text",
		SelfClosingTag: "SelfClosingTag",
		Kind(200):      "Unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestTokenPredicates(t *testing.T) {
	if !(Token{Kind: StartTag}).IsTag() || !(Token{Kind: SelfClosingTag}).IsTag() {
		t.Error("start tags must report IsTag")
	}
	if (Token{Kind: EndTag}).IsTag() {
		t.Error("end tags are not IsTag")
	}
	if !(Token{Kind: Text, Text: " \n\t"}).IsBlank() {
		t.Error("whitespace text must be blank")
	}
	if (Token{Kind: Comment, Text: "<!---->"}).IsBlank() {
		t.Error("comments are never blank")
	}
}
