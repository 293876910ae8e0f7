// Package diagfmt renders positioned errors for humans: the offending line of
// the decoded document with a caret under the reported column.
//
// Назначение: печать контекста ошибки разбора рядом с сообщением.
//
// Не делает: сортировку и сбор ошибок (см. internal/diag).
package diagfmt
