package sniff

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name   string
		prefix string
		want   Format
	}{
		{"postscript", "%!PS-Adobe-3.0\n", FormatPS},
		{"pdf", "%PDF-1.4\n", FormatPDF},
		{"plain text", "hello world", FormatPDF},
		{"empty", "", FormatPDF},
		{"near miss ps", "%!PD", FormatPDF},
		{"marker not at offset zero", " %!PS", FormatPDF},
		{"short pdf marker", "%PD", FormatPDF},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect([]byte(tc.prefix)); got != tc.want {
				t.Fatalf("Detect(%q) = %q, want %q", tc.prefix, got, tc.want)
			}
		})
	}
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	if got := DetectFile(write("doc.bin", "%!PS-Adobe-3.0 EPSF-3.0")); got != FormatPS {
		t.Fatalf("postscript file classified as %q", got)
	}
	if got := DetectFile(write("short.bin", "%PDF")); got != FormatPDF {
		t.Fatalf("short pdf file classified as %q", got)
	}
	if got := DetectFile(write("empty.bin", "")); got != FormatPDF {
		t.Fatalf("empty file classified as %q, want default pdf", got)
	}
	if got := DetectFile(filepath.Join(dir, "missing.bin")); got != FormatPDF {
		t.Fatalf("unreadable file classified as %q, want default pdf", got)
	}
}

func TestDetectFileDoesNotConsume(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.ps")
	content := []byte("%!PS-Adobe-3.0\n%%Pages: 1\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	_ = DetectFile(path)

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatal("DetectFile mutated the file")
	}
}

func TestFormatExt(t *testing.T) {
	if FormatPS.Ext() != "ps" || FormatPDF.Ext() != "pdf" {
		t.Fatalf("unexpected extensions: %q %q", FormatPS.Ext(), FormatPDF.Ext())
	}
}
