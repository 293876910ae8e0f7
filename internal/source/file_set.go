package source

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"fortio.org/safecast"

	"xmlsort/internal/charset"
)

// ErrBOMMismatch is returned when the byte-order mark contradicts the requested encoding.
var ErrBOMMismatch = errors.New("byte-order mark does not match the requested encoding")

// FileSet manages a collection of decoded documents.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a file from normalized UTF-8 bytes, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:       id,
		Path:     normalizedPath,
		Content:  content,
		LineIdx:  lineIdx,
		Hash:     hash,
		Flags:    flags,
		Encoding: charset.UTF8,
	})
	// Всегда обновляем индекс на последнюю версию файла
	fileSet.index[normalizedPath] = id
	return id
}

// AddVirtual adds an in-memory UTF-8 document with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// AddRaw decodes raw document bytes and stores the result.
// label selects the encoding; when empty the encoding is sniffed from the BOM
// or the XML declaration and defaults to UTF-8.
func (fileSet *FileSet) AddRaw(path string, raw []byte, label string) (FileID, error) {
	bomName, bomLen := charset.SniffBOM(raw)

	var (
		enc charset.Encoding
		err error
	)
	switch {
	case label != "":
		enc, err = charset.Lookup(label)
		if err != nil {
			return 0, err
		}
		if bomName != "" && bomName != enc.Name {
			return 0, fmt.Errorf("%w: found %s, requested %s", ErrBOMMismatch, bomName, enc.Name)
		}
	case bomName != "":
		enc, err = charset.Lookup(bomName)
	default:
		enc, err = charset.Lookup(charset.Detect(raw))
	}
	if err != nil {
		return 0, err
	}

	flags := FileFlags(0)
	body := raw
	if bomName != "" {
		body = raw[bomLen:]
		flags |= FileHadBOM
	}

	content, err := enc.Decode(body)
	if err != nil {
		return 0, err
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}

	id := fileSet.Add(path, content, flags)
	fileSet.files[id].Encoding = enc.Name
	return id, nil
}

// Load reads a file from disk and calls AddRaw.
func (fileSet *FileSet) Load(path, label string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fileSet.AddRaw(path, raw, label)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Len returns the number of stored files.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return f.Position(span.Start), f.Position(span.End)
}

// Position converts a byte offset in f into a line/column pair.
func (f *File) Position(off uint32) LineCol {
	return toLineCol(f.LineIdx, off)
}

// Slice returns the content covered by sp.
func (f *File) Slice(sp Span) string {
	end := min(int(sp.End), len(f.Content))
	start := min(int(sp.Start), end)
	return string(f.Content[start:end])
}
