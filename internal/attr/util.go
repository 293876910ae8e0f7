package attr

import (
	"unicode"
	"unicode/utf8"
)

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isNameStart(s string, i int) bool {
	c := s[i]
	if c == '_' || c == ':' {
		return true
	}
	if c < utf8.RuneSelf {
		return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r)
}

func isNameByte(b byte) bool {
	switch b {
	case '=', '"', '\'', '<', '>', '/', ' ', '\t', '\n', '\r':
		return false
	}
	return true
}

// skipFragment проглатывает мусор до следующего пробела.
// Кавычки проходим целиком, чтобы не начать имя внутри чужого значения.
func skipFragment(s string, i int) int {
	for i < len(s) && !isSpace(s[i]) {
		if q := s[i]; q == '"' || q == '\'' {
			j := i + 1
			for j < len(s) && s[j] != q {
				j++
			}
			if j >= len(s) {
				return i + 1
			}
			i = j + 1
			continue
		}
		i++
	}
	return i
}
