package driver

import (
	_ "crypto/sha256" // регистрирует digest.Canonical
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	digest "github.com/opencontainers/go-digest"
	"github.com/vmihailenco/msgpack/v5"

	"xmlsort/internal/format"
)

// Current schema version - increment when CacheEntry or formatting output changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache remembers documents that are already formatted, keyed by the
// digest of their raw bytes and the formatting options.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CacheEntry is stored for every known-formatted document.
type CacheEntry struct {
	Schema   uint16
	Path     string
	Size     int
	Encoding string
	Options  string
	Stored   time.Time
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache uses dir as the cache root, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	return c.dir
}

// CacheKey digests everything the formatted bytes depend on.
func CacheKey(raw []byte, opts FormatOptions) digest.Digest {
	d := digest.Canonical.Digester()
	h := d.Hash()
	fmt.Fprintf(h, "xmlsort/%d\x00%s\x00enc=%s;bom=%t\x00",
		diskCacheSchemaVersion, opts.Format.Key(), opts.Encoding, opts.ForceBOM)
	_, _ = h.Write(raw)
	return d.Digest()
}

func (c *DiskCache) pathFor(key digest.Digest) string {
	enc := key.Encoded()
	// подкаталог "formatted" упрощает очистку
	return filepath.Join(c.dir, "formatted", key.Algorithm().String(), enc[:2], enc+".mp")
}

// Put serializes and writes an entry to the disk cache.
func (c *DiskCache) Put(key digest.Digest, entry *CacheEntry) (err error) {
	if c == nil {
		return nil
	}
	if err := key.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.Schema = diskCacheSchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, removeIfExists(f.Name()))
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes an entry from the disk cache. Entries written
// by another schema version are reported as missing.
func (c *DiskCache) Get(key digest.Digest, out *CacheEntry) (bool, error) {
	if c == nil {
		return false, nil
	}
	if err := key.Validate(); err != nil {
		return false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

func newCacheEntry(path string, size int, encoding string, opts format.Options) *CacheEntry {
	return &CacheEntry{
		Path:     path,
		Size:     size,
		Encoding: encoding,
		Options:  opts.Key(),
		Stored:   time.Now().UTC(),
	}
}
