package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kpraghav/scripdesk/internal/config"
	"github.com/kpraghav/scripdesk/pkg/models"
)

// RenderError wraps any failure while rendering a report.
type RenderError struct {
	Symbol string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Symbol, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer turns Record Models into PDF report files.
type Renderer struct {
	cfg config.ReportConfig
	tpl *template.Template
	log *zap.Logger
}

// NewRenderer creates a Renderer. The embedded template is parsed once
// at construction.
func NewRenderer(cfg config.ReportConfig, log *zap.Logger) (*Renderer, error) {
	tpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Renderer{cfg: cfg, tpl: tpl, log: log}, nil
}

// Render writes the company report for model into
// {destDir}/{SYMBOL}/{SYMBOL}_report_{timestamp}.pdf and returns the
// path actually written. The whole document is assembled in memory
// before the first byte touches disk, so a failed run never leaves a
// partial artifact behind. The confirmation line it prints is the one
// the front ends scan for when collecting artifacts.
func (r *Renderer) Render(model *models.RecordModel, symbol, destDir string) (string, error) {
	if destDir == "" {
		destDir = "."
	}

	view := buildDocument(model, time.Now())

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, view); err != nil {
		return "", &RenderError{Symbol: symbol, Err: err}
	}

	dir := filepath.Join(destDir, symbol)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &RenderError{Symbol: symbol, Err: err}
	}

	name := fmt.Sprintf("%s_report_%s.pdf", symbol, time.Now().Format("20060102_150405"))
	outputPath := filepath.Join(dir, name)

	finalPath, err := convert(buf.String(), r.cfg, outputPath)
	if err != nil {
		return "", &RenderError{Symbol: symbol, Err: err}
	}

	r.log.Info("rendered report",
		zap.String("symbol", symbol),
		zap.String("path", finalPath),
		zap.Int("sections", len(view.Sections)))
	fmt.Printf("Generated report for %s: %s\n", symbol, finalPath)
	return finalPath, nil
}
