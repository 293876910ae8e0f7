package diagfmt

// SnippetOpts configures Snippet.
type SnippetOpts struct {
	Color   bool
	Context int // строк перед строкой ошибки
	Width   int // максимальная ширина строки, 0 - не ограничено
}
