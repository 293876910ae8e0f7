package fuzztests

import (
	"testing"

	"xmlsort/internal/diag"
	"xmlsort/internal/lexer"
	"xmlsort/internal/source"
	"xmlsort/internal/testkit"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input[:min(len(input), maxFuzzInput)])

		fileSet := source.NewFileSet()
		file := fileSet.Get(fileSet.AddVirtual("fuzz.xml", input))

		bag := diag.NewBag(64)
		opts := lexer.Options{Reporter: (&lexer.ReporterAdapter{Bag: bag}).Reporter()}
		if err := testkit.CheckTokenInvariants(lexer.Tokenize(file, opts), file); err != nil {
			t.Fatalf("%v\ninput %q", err, input)
		}
	})
}
