// Package format rewrites one decoded document: attributes of every start tag
// are ordered by name and, on the tree path, the markup is re-indented.
//
// Назначение: две стратегии (lexical и tree) за общим интерфейсом Strategy.
// Не делает: IO, перекодирование, резервные копии (это internal/driver).
// Зависимости: internal/lexer, internal/attr, internal/source, github.com/beevik/etree.
package format
