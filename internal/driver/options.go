package driver

import (
	"errors"

	"xmlsort/internal/format"
	"xmlsort/internal/observ"
	"xmlsort/internal/progress"
	"xmlsort/internal/source"
)

// DefaultExtensions are the file extensions treated as XML when walking
// directories. Matching is case-insensitive.
var DefaultExtensions = []string{
	".xml", ".xsd", ".xsl", ".xslt", ".svg", ".xhtml", ".wsdl", ".plist",
	".csproj", ".vbproj", ".props", ".targets", ".resx", ".xaml", ".config",
	".kml", ".gpx", ".rss", ".atom",
}

// ErrNoFiles is returned when the arguments name no XML file at all and
// nothing was skipped either.
var ErrNoFiles = errors.New("no XML files found")

// FormatOptions configures a formatting batch.
type FormatOptions struct {
	Format     format.Options
	Encoding   string // метка кодировки; пусто - определить по BOM/декларации
	ForceBOM   bool   // писать BOM, даже если во входе его не было
	NoBackup   bool
	Check      bool // only report files that would change
	Stdout     bool // return formatted bytes instead of writing
	Diff       bool // return original and formatted bytes instead of writing
	Jobs       int  // <= 1 means sequential
	Extensions []string
	Cache      *DiskCache
	Progress   progress.Sink
	Timer      *observ.Timer
}

// readOnly reports whether the batch must leave files untouched.
func (o FormatOptions) readOnly() bool {
	return o.Check || o.Stdout || o.Diff
}

func (o FormatOptions) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path       string
	Changed    bool    // output differs from input (written unless read-only)
	Cached     bool    // known to be formatted, not re-processed
	Err        error   // *diag.Error; the file was left untouched
	Warnings   []error // non-fatal problems such as a failed backup
	Encoding   string
	BackupPath string
	Source     *source.File // decoded input, set when Err points into it
	Original   []byte       // only with Stdout or Diff
	Formatted  []byte       // only with Stdout or Diff
}

// Report aggregates one batch.
type Report struct {
	Results   []FormatResult
	Warnings  []string // skipped arguments and empty globs
	Changed   int
	Unchanged int
	Failed    int
}

// OK reports whether no file failed.
func (r *Report) OK() bool {
	return r.Failed == 0
}
