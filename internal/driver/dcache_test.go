package driver

import (
	"path/filepath"
	"testing"

	"xmlsort/internal/format"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	c, err := NewDiskCache(filepath.Join(t.TempDir(), "c"))
	if err != nil {
		t.Fatal(err)
	}
	key := CacheKey([]byte("<a/>\n"), FormatOptions{})

	var got CacheEntry
	if hit, err := c.Get(key, &got); err != nil || hit {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}
	if err := c.Put(key, newCacheEntry("a.xml", 5, "utf-8", format.Options{})); err != nil {
		t.Fatal(err)
	}
	if hit, err := c.Get(key, &got); err != nil || !hit {
		t.Fatalf("after put: hit=%v err=%v", hit, err)
	}
	if got.Path != "a.xml" || got.Size != 5 || got.Schema != diskCacheSchemaVersion {
		t.Errorf("entry = %+v", got)
	}

	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	if hit, _ := c.Get(key, &got); hit {
		t.Error("DropAll must forget entries")
	}
}

func TestCacheKeyDependsOnOptions(t *testing.T) {
	raw := []byte("<a/>")
	base := CacheKey(raw, FormatOptions{})
	if base != CacheKey(raw, FormatOptions{Check: true}) {
		t.Error("read-only flags must not change the key")
	}
	if base == CacheKey(raw, FormatOptions{ForceBOM: true}) {
		t.Error("ForceBOM must change the key")
	}
	if base == CacheKey(raw, FormatOptions{Format: format.Options{Mode: format.ModeLexical}}) {
		t.Error("mode must change the key")
	}
	if err := base.Validate(); err != nil {
		t.Error(err)
	}
}
