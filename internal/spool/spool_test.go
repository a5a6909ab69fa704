package spool

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureCreatesLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "queue")
	layout := Layout{Root: root}

	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}

	for _, stage := range Stages() {
		info, err := os.Stat(layout.Dir(stage))
		if err != nil {
			t.Fatalf("stage %s: %v", stage, err)
		}
		if !info.IsDir() {
			t.Fatalf("stage %s is not a directory", stage)
		}
		if info.Mode()&os.ModeSticky == 0 {
			t.Fatalf("stage %s missing sticky bit: %v", stage, info.Mode())
		}
		if info.Mode().Perm() != 0o777 {
			t.Fatalf("stage %s perm = %o, want 0777", stage, info.Mode().Perm())
		}
	}

	// Idempotent.
	if err := layout.Ensure(); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
}

func TestEnsureEmptyRoot(t *testing.T) {
	if err := (Layout{}).Ensure(); err == nil {
		t.Fatal("expected error for empty root")
	}
}

func TestEntryBase(t *testing.T) {
	if got := EntryBase("101", 1700000000); got != "job-101-1700000000" {
		t.Fatalf("EntryBase = %q", got)
	}
}

func TestStageDisplayName(t *testing.T) {
	if got := StageIncoming.DisplayName(); got != "Incoming" {
		t.Fatalf("display name = %q", got)
	}
}

func TestListPairsDocumentsAndSidecars(t *testing.T) {
	layout := Layout{Root: filepath.Join(t.TempDir(), "queue")}
	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}

	incoming := layout.Incoming()
	files := map[string]string{
		"job-1-100.pdf":  "%PDF-1.4",
		"job-1-100.json": `{"file":"x","title":"t","user":"u","job":"1"}`,
		"job-2-100.ps":   "%!PS",
		".layout.lock":   "",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(incoming, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := layout.List(StageIncoming)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}

	byBase := map[string]Entry{}
	for _, e := range entries {
		byBase[e.Base] = e
	}

	paired := byBase["job-1-100"]
	if !paired.HasSidecar() || paired.Ext() != "pdf" {
		t.Fatalf("paired entry wrong: %+v", paired)
	}
	if paired.Size != int64(len("%PDF-1.4")) {
		t.Fatalf("size = %d", paired.Size)
	}

	orphan := byBase["job-2-100"]
	if orphan.HasSidecar() || orphan.Ext() != "ps" {
		t.Fatalf("sidecar-less entry wrong: %+v", orphan)
	}
}

func TestListMissingStageDir(t *testing.T) {
	layout := Layout{Root: filepath.Join(t.TempDir(), "nope")}
	if _, err := layout.List(StageIncoming); err == nil {
		t.Fatal("expected error for missing stage directory")
	}
}
