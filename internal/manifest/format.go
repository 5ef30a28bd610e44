package manifest

import (
	"fmt"
	"strings"
)

// Format identifies a target manifest grammar
type Format string

const (
	// FormatAxes is an axes.toml project manifest with a [scripts] table
	FormatAxes Format = "axes-toml"
	// FormatJustfile is a just recipe file
	FormatJustfile Format = "justfile"
	// FormatMakefile is a classic Makefile with phony targets
	FormatMakefile Format = "makefile"
	// FormatTaskfile is a go-task Taskfile.yml
	FormatTaskfile Format = "taskfile"
)

// Formats returns all supported formats in display order
func Formats() []Format {
	return []Format{FormatAxes, FormatJustfile, FormatMakefile, FormatTaskfile}
}

var formatAliases = map[string]Format{
	"axes-toml": FormatAxes,
	"axes":      FormatAxes,
	"toml":      FormatAxes,
	"justfile":  FormatJustfile,
	"just":      FormatJustfile,
	"makefile":  FormatMakefile,
	"make":      FormatMakefile,
	"taskfile":  FormatTaskfile,
	"task":      FormatTaskfile,
}

// ParseFormat parses a format name or alias like "make" or "axes-toml"
func ParseFormat(s string) (Format, error) {
	f, ok := formatAliases[strings.ToLower(s)]
	if !ok {
		return "", fmt.Errorf("unknown manifest format: %q (expected one of axes-toml, justfile, makefile, taskfile)", s)
	}
	return f, nil
}

// String returns the canonical format name
func (f Format) String() string {
	return string(f)
}

// DefaultFilename returns the conventional output filename for the format
func (f Format) DefaultFilename() string {
	switch f {
	case FormatAxes:
		return "axes.toml"
	case FormatJustfile:
		return "justfile"
	case FormatMakefile:
		return "makefile.mk"
	case FormatTaskfile:
		return "Taskfile.yml"
	}
	return ""
}

// ZeroPadded reports whether the format embeds width-4 zero-padded indices
// in record names. Formats that cross-reference records by name must keep
// the padding consistent between the reference and the record.
func (f Format) ZeroPadded() bool {
	switch f {
	case FormatAxes, FormatJustfile:
		return true
	}
	return false
}

// FormatIndex renders a record index in the format's index style
func (f Format) FormatIndex(i int) string {
	if f.ZeroPadded() {
		return fmt.Sprintf("%04d", i)
	}
	return fmt.Sprintf("%d", i)
}

// RecordName returns the name of the i-th record for the given name stem
func (f Format) RecordName(stem string, i int) string {
	return fmt.Sprintf("%s_%s", stem, f.FormatIndex(i))
}
