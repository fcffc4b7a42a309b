package collect

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
)

// The front ends locate artifacts by scanning pipeline output for the
// confirmation lines the renderer and CSV writer print.
var (
	reportLineRe = regexp.MustCompile(`Generated report for.*?: (.*?\.(?:pdf|html))`)
	seriesLineRe = regexp.MustCompile(`Data successfully saved to (.*?\.csv)`)
)

// ExtractFilePaths pulls artifact paths out of captured pipeline
// output, in the order the lines appeared.
func ExtractFilePaths(output string) []string {
	var paths []string
	for _, m := range reportLineRe.FindAllStringSubmatch(output, -1) {
		paths = append(paths, m[1])
	}
	for _, m := range seriesLineRe.FindAllStringSubmatch(output, -1) {
		paths = append(paths, m[1])
	}
	return paths
}

// CopyInto copies each file into dest, creating dest if needed.
// Missing source files are skipped rather than failing the batch.
func CopyInto(dest string, files []string) ([]string, error) {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dest, err)
	}

	var copied []string
	for _, src := range files {
		if _, err := os.Stat(src); err != nil {
			continue
		}
		target := filepath.Join(dest, filepath.Base(src))
		if err := copyFile(src, target); err != nil {
			return copied, err
		}
		copied = append(copied, target)
	}
	return copied, nil
}

// ZipInto writes the files into a zip archive at zipPath. Entries are
// stored under their base names. Missing files are skipped.
func ZipInto(zipPath string, files []string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", zipPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	for _, src := range files {
		f, err := os.Open(src)
		if err != nil {
			continue
		}

		w, err := zw.Create(filepath.Base(src))
		if err != nil {
			f.Close()
			return fmt.Errorf("zip entry %s: %w", src, err)
		}
		if _, err := io.Copy(w, f); err != nil {
			f.Close()
			return fmt.Errorf("zip %s: %w", src, err)
		}
		f.Close()
	}
	return nil
}

// ListArtifacts returns the artifact files under the symbol's output
// folder, newest name last.
func ListArtifacts(outputDir, symbol string) ([]string, error) {
	dir := filepath.Join(outputDir, symbol)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".pdf", ".html", ".csv":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}
