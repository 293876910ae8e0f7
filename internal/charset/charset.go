// Package charset maps encoding labels onto golang.org/x/text encodings and
// sniffs the encoding of raw XML bytes (byte-order mark first, then the
// encoding pseudo-attribute of the XML declaration).
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Canonical names of the encodings that get special treatment.
const (
	UTF8    = "utf-8"
	UTF16LE = "utf-16le"
	UTF16BE = "utf-16be"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ErrUnknownEncoding is returned by Lookup for labels that cannot be resolved.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Encoding is a resolved text encoding.
type Encoding struct {
	Name string
	enc  encoding.Encoding // nil for UTF-8
}

// Lookup resolves an encoding label (case-insensitive, IANA names and aliases).
// An empty label resolves to UTF-8.
func Lookup(label string) (Encoding, error) {
	name := strings.ToLower(strings.TrimSpace(label))
	switch name {
	case "", "utf-8", "utf8":
		return Encoding{Name: UTF8}, nil
	case "utf-16le", "utf16le":
		return Encoding{Name: UTF16LE, enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}, nil
	case "utf-16be", "utf16be":
		return Encoding{Name: UTF16BE, enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}, nil
	case "utf-16", "utf16":
		// Без BOM UTF-16 по умолчанию big-endian.
		return Encoding{Name: UTF16BE, enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return Encoding{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	if enc == nil {
		return Encoding{}, fmt.Errorf("%w: %q is registered but not supported", ErrUnknownEncoding, label)
	}
	canonical, err := ianaindex.MIME.Name(enc)
	if err != nil || canonical == "" {
		canonical, err = ianaindex.IANA.Name(enc)
	}
	if err != nil || canonical == "" {
		canonical = name
	}
	return Encoding{Name: strings.ToLower(canonical), enc: enc}, nil
}

// IsUTF8 reports whether e is UTF-8.
func (e Encoding) IsUTF8() bool {
	return e.enc == nil
}

// BOM returns the byte-order mark for e, or nil when the encoding has none.
func (e Encoding) BOM() []byte {
	switch e.Name {
	case UTF8:
		return bomUTF8
	case UTF16LE:
		return bomUTF16LE
	case UTF16BE:
		return bomUTF16BE
	}
	return nil
}

// DecodeError describes bytes that are invalid in the stated encoding.
type DecodeError struct {
	Encoding string
	Offset   int
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s input at byte %d: %v", e.Encoding, e.Offset, e.Err)
	}
	return fmt.Sprintf("invalid %s input at byte %d", e.Encoding, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode converts b (without BOM) from e into UTF-8.
func (e Encoding) Decode(b []byte) ([]byte, error) {
	if e.IsUTF8() {
		if off := invalidUTF8Offset(b); off >= 0 {
			return nil, &DecodeError{Encoding: e.Name, Offset: off}
		}
		return b, nil
	}
	if (e.Name == UTF16LE || e.Name == UTF16BE) && len(b)%2 != 0 {
		return nil, &DecodeError{Encoding: e.Name, Offset: len(b) - 1, Err: errOddLength}
	}
	dec := e.enc.NewDecoder()
	out, err := dec.Bytes(b)
	if err != nil {
		return nil, &DecodeError{Encoding: e.Name, Err: err}
	}
	if off := e.replacedOffset(dec, b, out); off >= 0 {
		return nil, &DecodeError{Encoding: e.Name, Offset: off}
	}
	return out, nil
}

var errOddLength = errors.New("odd number of bytes")

// replacedOffset returns the input offset of the first U+FFFD in out that the
// decoder substituted for bad bytes, or -1. A U+FFFD that is properly encoded
// in b is kept.
func (e Encoding) replacedOffset(dec *encoding.Decoder, b, out []byte) int {
	replacement, err := e.enc.NewEncoder().String(string(utf8.RuneError))
	if err != nil {
		replacement = ""
	}
	var buf []byte
	for p := 0; p < len(out); {
		i := bytes.IndexRune(out[p:], utf8.RuneError)
		if i < 0 {
			return -1
		}
		p += i
		// декодер останавливается ровно перед символом, который не помещается в dst
		if cap(buf) < p {
			buf = make([]byte, p)
		}
		dec.Reset()
		_, nSrc, _ := dec.Transform(buf[:p], b, true)
		if replacement == "" || !bytes.HasPrefix(b[nSrc:], []byte(replacement)) {
			return nSrc
		}
		p += utf8.RuneLen(utf8.RuneError)
	}
	return -1
}

// Encode converts UTF-8 text into e. Characters that e cannot represent are an error.
func (e Encoding) Encode(b []byte) ([]byte, error) {
	if e.IsUTF8() {
		return b, nil
	}
	out, err := e.enc.NewEncoder().Bytes(b)
	if err != nil {
		return nil, fmt.Errorf("encode to %s: %w", e.Name, err)
	}
	return out, nil
}

// SniffBOM reports the encoding signalled by a leading byte-order mark and its length.
func SniffBOM(raw []byte) (name string, n int) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return UTF8, len(bomUTF8)
	case bytes.HasPrefix(raw, bomUTF16LE):
		return UTF16LE, len(bomUTF16LE)
	case bytes.HasPrefix(raw, bomUTF16BE):
		return UTF16BE, len(bomUTF16BE)
	}
	return "", 0
}

// Detect picks the encoding label for raw bytes that carry no BOM.
// UTF-16 without BOM is recognized by the "<\x00?\x00" / "\x00<\x00?" pattern.
func Detect(raw []byte) string {
	switch {
	case bytes.HasPrefix(raw, []byte{'<', 0, '?', 0}):
		return UTF16LE
	case bytes.HasPrefix(raw, []byte{0, '<', 0, '?'}):
		return UTF16BE
	}
	if label := DeclaredEncoding(raw); label != "" {
		return label
	}
	return UTF8
}

// DeclaredEncoding extracts the encoding pseudo-attribute from a leading
// XML declaration, e.g. `<?xml version="1.0" encoding="ISO-8859-1"?>`.
func DeclaredEncoding(raw []byte) string {
	if !bytes.HasPrefix(raw, []byte("<?xml")) {
		return ""
	}
	end := bytes.Index(raw, []byte("?>"))
	if end < 0 {
		return ""
	}
	decl := raw[len("<?xml"):end]
	i := bytes.Index(decl, []byte("encoding"))
	if i < 0 {
		return ""
	}
	rest := bytes.TrimLeft(decl[i+len("encoding"):], " \t\r\n")
	if len(rest) == 0 || rest[0] != '=' {
		return ""
	}
	rest = bytes.TrimLeft(rest[1:], " \t\r\n")
	if len(rest) == 0 || (rest[0] != '"' && rest[0] != '\'') {
		return ""
	}
	quote := rest[0]
	closing := bytes.IndexByte(rest[1:], quote)
	if closing < 0 {
		return ""
	}
	return string(rest[1 : 1+closing])
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
