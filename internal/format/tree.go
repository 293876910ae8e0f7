package format

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/beevik/etree"

	"xmlsort/internal/attr"
	"xmlsort/internal/diag"
	"xmlsort/internal/source"
)

// tree parses the document with etree, sorts attributes on every element
// and pretty-prints the serialized result. Malformed input fails the file.
type tree struct{}

func (tree) Name() Mode { return ModeTree }

func (tree) Format(sf *source.File, opt Options) ([]byte, error) {
	if err := Validate(sf); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	doc.ReadSettings.PreserveDuplicateAttrs = true
	doc.ReadSettings.CharsetReader = passthroughCharset
	if err := doc.ReadFromBytes(sf.Content); err != nil {
		return nil, parserError(err)
	}
	root := doc.Root()
	if root == nil {
		return nil, &diag.Error{Kind: diag.ParseError, Code: diag.SynNoRootElement, Msg: "document has no root element"}
	}
	sortElement(root)

	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true
	serialized, err := doc.WriteToString()
	if err != nil {
		return nil, diag.Wrap(diag.SerializationError, err, "serialize document")
	}
	return Pretty([]byte(serialized), opt)
}

func sortElement(e *etree.Element) {
	attr.SortBy(e.Attr, func(a etree.Attr) string { return a.FullKey() })
	dropBlankContent(e)
	for _, child := range e.ChildElements() {
		sortElement(child)
	}
}

// dropBlankContent empties an element whose children are all blank text, so
// it is written as <e/> and stays that way on the next run.
func dropBlankContent(e *etree.Element) {
	if len(e.Child) == 0 {
		return
	}
	for _, t := range e.Child {
		cd, ok := t.(*etree.CharData)
		if !ok || cd.IsCData() || strings.TrimSpace(cd.Data) != "" {
			return
		}
	}
	for len(e.Child) > 0 {
		e.RemoveChildAt(len(e.Child) - 1)
	}
}

// passthroughCharset keeps the reader as is: content is decoded to UTF-8
// before parsing, whatever the declaration says.
func passthroughCharset(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}

func parserError(err error) error {
	e := &diag.Error{Kind: diag.ParseError, Code: diag.SynRejected, Msg: "xml parser rejected the document"}
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		e.Msg = se.Msg
		if line, convErr := safecast.Conv[uint32](se.Line); convErr == nil {
			e.Pos = source.LineCol{Line: line, Col: 0}
		}
		return e
	}
	e.Err = err
	return e
}
