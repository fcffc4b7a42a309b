package collect

import (
	"archive/zip"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestExtractFilePaths(t *testing.T) {
	output := `extracting company page
Generated report for TCS: /out/TCS/TCS_report_20240601_103000.pdf
downloading candles
Data successfully saved to /out/TCS/NSE_TCS_weekly_3years_20240601.csv
done`

	got := ExtractFilePaths(output)
	want := []string{
		"/out/TCS/TCS_report_20240601_103000.pdf",
		"/out/TCS/NSE_TCS_weekly_3years_20240601.csv",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractFilePaths() = %v, want %v", got, want)
	}
}

func TestExtractFilePathsHTMLFallback(t *testing.T) {
	output := "Generated report for TCS: /out/TCS/TCS_report_20240601_103000.html\n"
	got := ExtractFilePaths(output)
	if len(got) != 1 || filepath.Ext(got[0]) != ".html" {
		t.Errorf("ExtractFilePaths() = %v", got)
	}
}

func TestExtractFilePathsNoMatches(t *testing.T) {
	if got := ExtractFilePaths("nothing generated today"); len(got) != 0 {
		t.Errorf("ExtractFilePaths() = %v, want empty", got)
	}
}

func TestCopyInto(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(t.TempDir(), "collected")

	a := filepath.Join(src, "a.pdf")
	if err := os.WriteFile(a, []byte("pdf bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	copied, err := CopyInto(dest, []string{a, filepath.Join(src, "missing.csv")})
	if err != nil {
		t.Fatalf("CopyInto() error: %v", err)
	}
	if len(copied) != 1 {
		t.Fatalf("copied = %v, want only the existing file", copied)
	}

	data, err := os.ReadFile(filepath.Join(dest, "a.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "pdf bytes" {
		t.Errorf("copied content = %q", data)
	}
}

func TestZipInto(t *testing.T) {
	src := t.TempDir()
	files := []string{
		filepath.Join(src, "report.pdf"),
		filepath.Join(src, "candles.csv"),
	}
	for _, f := range files {
		if err := os.WriteFile(f, []byte("content of "+filepath.Base(f)), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	zipPath := filepath.Join(t.TempDir(), "artifacts.zip")
	if err := ZipInto(zipPath, append(files, filepath.Join(src, "gone.pdf"))); err != nil {
		t.Fatalf("ZipInto() error: %v", err)
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["report.pdf"] || !names["candles.csv"] {
		t.Errorf("zip entries = %v", names)
	}
	if names["gone.pdf"] {
		t.Error("missing file should be skipped, not zipped")
	}
}

func TestListArtifacts(t *testing.T) {
	out := t.TempDir()
	dir := filepath.Join(out, "TCS")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"TCS_report_x.pdf", "NSE_TCS_weekly.csv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ListArtifacts(out, "TCS")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("artifacts = %v, txt must be excluded", files)
	}

	// Unknown symbol degrades to empty, not error.
	files, err = ListArtifacts(out, "NOPE")
	if err != nil || files != nil {
		t.Errorf("ListArtifacts(NOPE) = %v, %v", files, err)
	}
}
