// Package attr parses, orders and re-renders the attribute list of a start tag.
package attr

import (
	"slices"
	"strings"
)

// Attr - одна пара name="value" в исходном виде.
type Attr struct {
	Name  string
	Quote byte   // '"' или '\''
	Value string // без кавычек, сущности не раскрываются
}

// Parse extracts the name/value pairs of raw, the text between a tag name and
// its closing '>' (or '/>'). Malformed fragments are skipped and later valid
// pairs are still returned. Duplicate names are kept in input order.
func Parse(raw string) []Attr {
	var out []Attr
	i, n := 0, len(raw)

	for i < n {
		// пропускаем разделители
		for i < n && (isSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= n {
			break
		}
		if !isNameStart(raw, i) {
			i = skipFragment(raw, i)
			continue
		}

		start := i
		for i < n && isNameByte(raw[i]) {
			i++
		}
		name := raw[start:i]

		j := skipSpace(raw, i)
		if j >= n || raw[j] != '=' {
			// имя без значения
			i = j
			continue
		}
		j = skipSpace(raw, j+1)
		if j >= n || (raw[j] != '"' && raw[j] != '\'') {
			// значение без кавычек
			i = j
			continue
		}

		q := raw[j]
		end := strings.IndexByte(raw[j+1:], q)
		if end < 0 {
			// незакрытая кавычка: продолжаем сразу после неё
			i = j + 1
			continue
		}
		out = append(out, Attr{Name: name, Quote: q, Value: raw[j+1 : j+1+end]})
		i = j + 1 + end + 1
	}
	return out
}

// Sort orders attrs by name in byte order. Equal names keep their order.
func Sort(attrs []Attr) {
	SortBy(attrs, func(a Attr) string { return a.Name })
}

// SortBy applies the same ordering to any attribute representation.
func SortBy[T any](s []T, name func(T) string) {
	slices.SortStableFunc(s, func(a, b T) int {
		return strings.Compare(name(a), name(b))
	})
}

// IsSorted reports whether attrs are in non-decreasing name order.
func IsSorted(attrs []Attr) bool {
	return slices.IsSortedFunc(attrs, func(a, b Attr) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// Render builds <name a="1" b="2"> or, when selfClosing, <name a="1" b="2"/>.
// Values are written with double quotes unless they contain '"'.
func Render(name string, attrs []Attr, selfClosing bool) string {
	var sb strings.Builder
	sb.Grow(len(name) + 3 + len(attrs)*16)
	sb.WriteByte('<')
	sb.WriteString(name)
	for _, a := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteByte('=')
		q := byte('"')
		if strings.IndexByte(a.Value, '"') >= 0 {
			q = '\''
		}
		sb.WriteByte(q)
		sb.WriteString(a.Value)
		sb.WriteByte(q)
	}
	if selfClosing {
		sb.WriteString("/>")
	} else {
		sb.WriteByte('>')
	}
	return sb.String()
}
