package token

// Kind represents the category of a lexical token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the input.
	EOF
	// Text is character data between markup.
	Text
	// Comment is <!-- ... -->.
	Comment
	// CDATA is <![CDATA[ ... ]]>.
	CDATA
	// ProcInst is <? ... ?>, including the XML declaration.
	ProcInst
	// Doctype is any other <! ... > declaration (DOCTYPE, ENTITY, ...).
	Doctype
	// StartTag is <name ...>.
	StartTag
	// EndTag is </name>.
	EndTag
	// SelfClosingTag is <name .../>.
	SelfClosingTag
)

var kindNames = [...]string{
	Invalid:        "Invalid",
	EOF:            "EOF",
	Text:           "Text",
	Comment:        "Comment",
	CDATA:          "CDATA",
	ProcInst:       "ProcInst",
	Doctype:        "Doctype",
	StartTag:       "StartTag",
	EndTag:         "EndTag",
	SelfClosingTag: "SelfClosingTag",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}
