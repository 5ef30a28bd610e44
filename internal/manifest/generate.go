package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// DefaultStem is the record name stem used when a request leaves
// NameTemplate empty.
const DefaultStem = "script"

// Request describes one manifest to generate
type Request struct {
	Format       Format
	Count        int
	OutputPath   string
	NameTemplate string
}

// Result summarizes a completed generation
type Result struct {
	Path         string
	Format       Format
	Records      int
	BytesWritten int64
}

// countingWriter tracks bytes written to the underlying writer
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// Generate writes a manifest for the request in a single pass: the
// format's fixed preamble, exactly Count records with ascending indices
// 1..Count, and any fixed trailer. Output is deterministic: the same
// request always produces identical bytes. A failure mid-write leaves
// the partial file in place; a successful retry truncates it.
func Generate(req Request) (Result, error) {
	if req.Count < 0 {
		return Result{}, fmt.Errorf("record count must be non-negative, got %d", req.Count)
	}

	stem := req.NameTemplate
	if stem == "" {
		stem = DefaultStem
	}
	path := req.OutputPath
	if path == "" {
		path = req.Format.DefaultFilename()
	}

	f, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening %s: %w", path, err)
	}

	cw := &countingWriter{w: f}
	w := bufio.NewWriter(cw)

	err = writeManifest(w, req.Format, stem, req.Count)
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", path, err)
	}

	return Result{
		Path:         path,
		Format:       req.Format,
		Records:      req.Count,
		BytesWritten: cw.n,
	}, nil
}

// writeManifest dispatches to the serialization strategy for the format.
// Write errors are sticky on the bufio.Writer and surface at Flush.
func writeManifest(w *bufio.Writer, format Format, stem string, count int) error {
	switch format {
	case FormatAxes:
		writeAxes(w, stem, count)
	case FormatJustfile:
		writeJustfile(w, stem, count)
	case FormatMakefile:
		writeMakefile(w, stem, count)
	case FormatTaskfile:
		writeTaskfile(w, stem, count)
	default:
		return fmt.Errorf("unknown manifest format: %q", format)
	}
	return nil
}
