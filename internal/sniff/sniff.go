// Package sniff classifies captured print data by its leading magic
// bytes. It is a best-effort heuristic, not validation: only a small
// fixed prefix is ever inspected, and anything unrecognized falls back
// to PDF so the downstream converter always has a format to work with.
package sniff

import (
	"bytes"
	"io"
	"os"
)

// Format identifies the document format of a captured payload.
type Format string

const (
	FormatPS  Format = "ps"
	FormatPDF Format = "pdf"
)

// Ext returns the file extension (without dot) used for queue entries
// of this format.
func (f Format) Ext() string {
	return string(f)
}

// prefixLen covers the longest magic marker we recognize.
const prefixLen = 16

var (
	magicPS  = []byte("%!PS")
	magicPDF = []byte("%PDF")
)

// Detect classifies a payload prefix. Only the first few bytes are
// considered; callers may pass a longer slice.
func Detect(prefix []byte) Format {
	switch {
	case bytes.HasPrefix(prefix, magicPS):
		return FormatPS
	case bytes.HasPrefix(prefix, magicPDF):
		return FormatPDF
	default:
		return FormatPDF
	}
}

// DetectFile opens path on an independent read-only handle and
// classifies its content. Empty files and read errors classify as PDF;
// the file is never mutated or consumed.
func DetectFile(path string) Format {
	f, err := os.Open(path)
	if err != nil {
		return FormatPDF
	}
	defer f.Close()

	buf := make([]byte, prefixLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return FormatPDF
	}
	return Detect(buf[:n])
}
