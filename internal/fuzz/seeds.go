package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB
	maxFuzzInput = 1 << 16
)

var inlineSeeds = []string{
	"",
	`<b z="1" a="2"/>`,
	"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<!DOCTYPE r [<!ENTITY e \"x\">]>\n<r b='2' a=\"1\"><!-- c --><x/></r>\n",
	"<r><![CDATA[ <not a=\"tag\"> ]]><?pi data?></r>",
	"<a x=\"2\" b=\"0\" x=\"1\"><c/></a>",
	"<p class=\"x\">Hello <b id=\"n\" a=\"m\">world</b></p>",
	"<a b=\"1\" <c>",
	"<a b=1 c='2' =\"3\" d>",
	"<!-- open",
	"<a title=\"x > y\" id='say \"hi\"'/>",
	"<root>\r\n  <child z=\"1\" y=\"2\"/>\r\n</root>\r\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every XML file under testdata/ next to the harness.
func addTestdataSeeds(f *testing.F) {
	root := "testdata"
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".xml" {
			return nil
		}
		// #nosec G304 -- path comes from the testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
