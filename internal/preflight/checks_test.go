package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"inkdrop/internal/spool"
	"inkdrop/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	if res := CheckDirectoryAccess("ok", dir); !res.Passed {
		t.Fatalf("expected pass: %+v", res)
	}

	if res := CheckDirectoryAccess("missing", filepath.Join(dir, "nope")); res.Passed {
		t.Fatalf("expected failure: %+v", res)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if res := CheckDirectoryAccess("file", file); res.Passed {
		t.Fatalf("expected failure for non-directory: %+v", res)
	}
}

func TestCheckQueueLayout(t *testing.T) {
	layout := spool.Layout{Root: filepath.Join(t.TempDir(), "queue")}

	results := CheckQueueLayout(layout)
	if Passed(results) {
		t.Fatal("missing layout should not pass")
	}

	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}
	results = CheckQueueLayout(layout)
	if !Passed(results) {
		t.Fatalf("ensured layout should pass: %+v", results)
	}
	// Root plus four stages.
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
}

func TestCheckAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := (spool.Layout{Root: cfg.Paths.QueueRoot}).Ensure(); err != nil {
		t.Fatal(err)
	}

	results := CheckAll(cfg)
	if !Passed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}
}
