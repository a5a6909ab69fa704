// Package spool models the directory-based handoff queue. A job's life
// in the larger system is directory membership: this component deposits
// into incoming; the external worker owns the processing, done, and
// failed transitions.
package spool

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stage is one of the four fixed queue lifecycle directories.
type Stage string

const (
	StageIncoming   Stage = "incoming"
	StageProcessing Stage = "processing"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Stages returns the lifecycle directories in queue order.
func Stages() []Stage {
	return []Stage{StageIncoming, StageProcessing, StageDone, StageFailed}
}

// DisplayName returns the stage name formatted for operator output.
func (s Stage) DisplayName() string {
	return cases.Title(language.English).String(string(s))
}

// Layout locates the queue tree on disk.
type Layout struct {
	Root string
}

// Dir returns the directory for a lifecycle stage.
func (l Layout) Dir(stage Stage) string {
	return filepath.Join(l.Root, string(stage))
}

// Incoming is shorthand for the only stage this component writes to.
func (l Layout) Incoming() string {
	return l.Dir(StageIncoming)
}

// stickyWorldWritable lets multiple identities deposit and claim files
// while only owners may remove them, spool-directory style.
const stickyWorldWritable = 0o777 | os.ModeSticky

// Ensure creates the queue root and all four stage directories with
// world-writable sticky permissions. Concurrent invocations serialize
// on a file lock so the mkdir/chmod sequence never races. Intended to
// run once per process, outside the per-job path.
func (l Layout) Ensure() error {
	root := strings.TrimSpace(l.Root)
	if root == "" {
		return fmt.Errorf("queue root not configured")
	}

	if err := os.MkdirAll(root, 0o777); err != nil {
		return fmt.Errorf("create queue root %q: %w", root, err)
	}

	lock := flock.New(filepath.Join(root, ".layout.lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock queue layout: %w", err)
	}
	defer lock.Unlock()

	// MkdirAll modes are subject to umask; fix up explicitly.
	if err := os.Chmod(root, stickyWorldWritable); err != nil {
		return fmt.Errorf("chmod queue root %q: %w", root, err)
	}
	for _, stage := range Stages() {
		dir := l.Dir(stage)
		if err := os.MkdirAll(dir, 0o777); err != nil {
			return fmt.Errorf("create stage directory %q: %w", dir, err)
		}
		if err := os.Chmod(dir, stickyWorldWritable); err != nil {
			return fmt.Errorf("chmod stage directory %q: %w", dir, err)
		}
	}
	return nil
}

// EntryBase builds the shared base name for a queue entry's document
// and sidecar. Uniqueness rests on the spooler handing out unique job
// identifiers: two jobs reusing an id within the same second would
// collide. The scheme is kept as-is for consumer compatibility.
func EntryBase(jobID string, unixTime int64) string {
	return fmt.Sprintf("job-%s-%d", jobID, unixTime)
}

// Entry is a document/sidecar pair (or an unpaired half) found in a
// stage directory.
type Entry struct {
	Base         string
	DocumentPath string
	SidecarPath  string
	Size         int64
}

// HasSidecar reports whether the entry's descriptor was present.
func (e Entry) HasSidecar() bool {
	return e.SidecarPath != ""
}

// Ext returns the document extension without the dot, or empty for a
// sidecar-only entry.
func (e Entry) Ext() string {
	if e.DocumentPath == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.Ext(e.DocumentPath), ".")
}

// List enumerates entries in a stage directory, pairing documents with
// sidecars by base name. Documents without sidecars are legitimate
// (sidecar writes can fail after staging) and are listed as such.
func (l Layout) List(stage Stage) ([]Entry, error) {
	dir := l.Dir(stage)
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read stage directory %q: %w", dir, err)
	}

	byBase := make(map[string]*Entry)
	order := make([]string, 0, len(dirEntries))

	entryFor := func(base string) *Entry {
		if e, ok := byBase[base]; ok {
			return e
		}
		e := &Entry{Base: base}
		byBase[base] = e
		order = append(order, base)
		return e
	}

	for _, de := range dirEntries {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") {
			continue
		}
		name := de.Name()
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		path := filepath.Join(dir, name)

		e := entryFor(base)
		if ext == ".json" {
			e.SidecarPath = path
			continue
		}
		e.DocumentPath = path
		if info, err := de.Info(); err == nil {
			e.Size = info.Size()
		}
	}

	entries := make([]Entry, 0, len(order))
	for _, base := range order {
		entries = append(entries, *byBase[base])
	}
	return entries, nil
}
