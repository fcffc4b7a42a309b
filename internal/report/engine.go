package report

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kpraghav/scripdesk/internal/config"
)

// Engine names an HTML to PDF conversion backend.
type Engine string

const (
	EngineWKHTML   Engine = "wkhtmltopdf"
	EngineChromium Engine = "chromium"
	EngineAuto     Engine = "auto"
	EngineNone     Engine = "none" // skip PDF, write HTML
)

var chromiumNames = []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"}

// DetectEngine checks which conversion engine is available on PATH.
func DetectEngine() Engine {
	if _, err := exec.LookPath("wkhtmltopdf"); err == nil {
		return EngineWKHTML
	}
	for _, name := range chromiumNames {
		if _, err := exec.LookPath(name); err == nil {
			return EngineChromium
		}
	}
	return EngineNone
}

// convert runs the configured engine on the HTML and writes outputPath.
// With no engine installed the HTML itself is written and the returned
// path carries .html instead of .pdf.
func convert(html string, cfg config.ReportConfig, outputPath string) (string, error) {
	engine := Engine(cfg.Engine)
	if engine == "" || engine == EngineAuto {
		engine = DetectEngine()
	}

	switch engine {
	case EngineWKHTML:
		return outputPath, convertWithWKHTML(html, cfg, outputPath)
	case EngineChromium:
		return outputPath, convertWithChromium(html, cfg, outputPath)
	case EngineNone:
		return writeHTMLFallback(html, outputPath)
	default:
		return "", fmt.Errorf("unsupported engine: %s", engine)
	}
}

func convertWithWKHTML(html string, cfg config.ReportConfig, outputPath string) error {
	tmpFile, err := writeTempHTML(html)
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile)

	args := []string{
		"--page-size", cfg.PageSize,
		"--orientation", cfg.Orientation,
		"--margin-top", cfg.MarginTop,
		"--margin-bottom", cfg.MarginBottom,
		"--margin-left", cfg.MarginLeft,
		"--margin-right", cfg.MarginRight,
		"--encoding", "UTF-8",
		"--enable-local-file-access",
		"--quiet",
		tmpFile,
		outputPath,
	}

	cmd := exec.Command("wkhtmltopdf", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("wkhtmltopdf failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func convertWithChromium(html string, cfg config.ReportConfig, outputPath string) error {
	tmpFile, err := writeTempHTML(html)
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile)

	var chromiumBin string
	for _, name := range chromiumNames {
		if path, err := exec.LookPath(name); err == nil {
			chromiumBin = path
			break
		}
	}
	if chromiumBin == "" {
		return fmt.Errorf("chromium not found in PATH")
	}

	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}

	args := []string{
		"--headless",
		"--disable-gpu",
		"--no-sandbox",
		"--print-to-pdf=" + absOutput,
		"--print-to-pdf-no-header",
	}
	if strings.EqualFold(cfg.Orientation, "landscape") {
		args = append(args, "--landscape")
	}
	args = append(args, "file://"+tmpFile)

	cmd := exec.Command(chromiumBin, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("chromium PDF export failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// writeTempHTML stages the HTML in a per-call file. Concurrent renders
// must not share an input path.
func writeTempHTML(html string) (string, error) {
	f, err := os.CreateTemp("", "scripdesk_report_*.html")
	if err != nil {
		return "", fmt.Errorf("creating temp HTML: %w", err)
	}
	if _, err := f.WriteString(html); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing temp HTML: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing temp HTML: %w", err)
	}
	return f.Name(), nil
}

func writeHTMLFallback(html, outputPath string) (string, error) {
	if strings.HasSuffix(strings.ToLower(outputPath), ".pdf") {
		outputPath = outputPath[:len(outputPath)-4] + ".html"
	}
	if err := os.WriteFile(outputPath, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("writing HTML fallback: %w", err)
	}
	return outputPath, nil
}
