package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, formatter output).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM records that a byte-order mark was stripped on load.
	FileHadBOM
	// FileNormalizedCRLF records that CRLF line endings were rewritten to LF on load.
	FileNormalizedCRLF
)

// File captures metadata and decoded content for a single document.
type File struct {
	ID       FileID
	Path     string
	Content  []byte // UTF-8, no BOM, LF line endings
	LineIdx  []uint32
	Hash     [32]byte
	Flags    FileFlags
	Encoding string // canonical name of the encoding the raw bytes were decoded from
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Has reports whether all bits of flag are set.
func (f *File) Has(flag FileFlags) bool {
	return f.Flags&flag == flag
}
