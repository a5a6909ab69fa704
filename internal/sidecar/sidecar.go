// Package sidecar writes the metadata descriptor that accompanies each
// staged document. The descriptor is a small JSON object with exactly
// four fields in a fixed order; the external conversion worker pairs it
// with the document by shared base name.
package sidecar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// maxEscapedTitle caps the escaped title at the same working-buffer
// size the consumer contract grew up with. Titles are truncated
// silently past this point; a two-byte escape pair is never split.
const maxEscapedTitle = 2047

// Descriptor carries the job attributes serialized next to a staged
// document. Field order in the output is fixed: file, title, user, job.
type Descriptor struct {
	Document string `json:"file"`
	Title    string `json:"title"`
	User     string `json:"user"`
	Job      string `json:"job"`
}

// EscapeTitle applies the descriptor escaping rules: quote and
// backslash are backslash-prefixed, newline/carriage-return/tab become
// their two-character sequences, everything else passes through. The
// result is truncated at the working-buffer limit without ever
// splitting an escape pair.
func EscapeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for i := 0; i < len(title); i++ {
		c := title[i]
		switch c {
		case '"', '\\':
			if b.Len()+2 > maxEscapedTitle {
				return b.String()
			}
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n', '\r', '\t':
			if b.Len()+2 > maxEscapedTitle {
				return b.String()
			}
			b.WriteByte('\\')
			switch c {
			case '\n':
				b.WriteByte('n')
			case '\r':
				b.WriteByte('r')
			default:
				b.WriteByte('t')
			}
		default:
			if b.Len()+1 > maxEscapedTitle {
				return b.String()
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

// UnescapeTitle is the exact inverse of EscapeTitle up to the
// truncation boundary.
func UnescapeTitle(escaped string) string {
	var b strings.Builder
	b.Grow(len(escaped))
	for i := 0; i < len(escaped); i++ {
		c := escaped[i]
		if c != '\\' || i+1 == len(escaped) {
			b.WriteByte(c)
			continue
		}
		i++
		switch escaped[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(escaped[i])
		}
	}
	return b.String()
}

// Write serializes the descriptor to path. Callers invoke this only
// after the document file is fully in place; the worker must never
// observe a sidecar without its document.
func (d Descriptor) Write(path string) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "{\n  \"file\": \"%s\",\n  \"title\": \"%s\",\n  \"user\": \"%s\",\n  \"job\": \"%s\"\n}\n",
		d.Document, EscapeTitle(d.Title), d.User, d.Job)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write sidecar %s: %w", path, err)
	}
	return nil
}

// Read loads a descriptor back from disk. This is the consumer-side
// convenience used by the CLI; the title comes back unescaped.
func Read(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("read sidecar %s: %w", path, err)
	}
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("parse sidecar %s: %w", path, err)
	}
	return d, nil
}
