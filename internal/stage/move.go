// Package stage moves captured files into the handoff queue. The move
// prefers a single atomic rename; when rename is not possible (most
// commonly because source and destination sit on different
// filesystems) it degrades to a plain copy-then-delete with a named,
// observable policy value so callers and tests can see which guarantee
// they actually got.
package stage

import (
	"fmt"
	"io"
	"os"
)

// Method names the mechanism that placed the destination file.
type Method string

const (
	// MoveRenamed: the destination appeared atomically; no partial
	// state was ever observable.
	MoveRenamed Method = "rename"
	// MoveCopied: the destination was written in place with a direct
	// truncate-create-write copy. A crash mid-copy can leave a
	// truncated destination visible to a polling consumer. This weaker
	// guarantee is deliberate compatibility with the existing consumer
	// contract.
	MoveCopied Method = "copy"
)

// MoveResult reports how a move completed.
type MoveResult struct {
	Method Method
	// SourceRemoved is false only on the copy path when deleting the
	// original failed; the destination is still complete and the move
	// still counts as successful. The source becomes an orphan.
	SourceRemoved bool
}

// renameFile is swappable in tests to force the copy fallback.
var renameFile = os.Rename

// Move places src at dst. On success dst exists with the full content
// of src; on failure dst does not exist and src is untouched.
func Move(src, dst string, mode os.FileMode) (MoveResult, error) {
	if err := renameFile(src, dst); err == nil {
		return MoveResult{Method: MoveRenamed, SourceRemoved: true}, nil
	}

	if err := copyFile(src, dst, mode); err != nil {
		_ = os.Remove(dst)
		return MoveResult{}, fmt.Errorf("stage %s: %w", dst, err)
	}

	removed := os.Remove(src) == nil
	return MoveResult{Method: MoveCopied, SourceRemoved: removed}, nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
