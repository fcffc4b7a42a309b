// Package collect runs the report and candle steps for symbols and
// gathers the artifacts they produce.
package collect

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kpraghav/scripdesk/internal/report"
	"github.com/kpraghav/scripdesk/internal/scrape"
	"github.com/kpraghav/scripdesk/internal/series"
)

// Result holds the artifact paths produced for one symbol.
type Result struct {
	Symbol     string
	ReportPath string
	SeriesPath string
}

// Runner executes the extraction pipeline and the series download for
// a symbol. The two steps are independent and run concurrently.
type Runner struct {
	extractor  *scrape.Extractor
	renderer   *report.Renderer
	downloader *series.Downloader
	outputDir  string
	log        *zap.Logger
}

// NewRunner wires the pipeline components together.
func NewRunner(extractor *scrape.Extractor, renderer *report.Renderer, downloader *series.Downloader, outputDir string, log *zap.Logger) *Runner {
	return &Runner{
		extractor:  extractor,
		renderer:   renderer,
		downloader: downloader,
		outputDir:  outputDir,
		log:        log,
	}
}

// Run executes both steps for one symbol and returns the artifact
// paths. The first failing step's error is returned; the other step
// still runs to completion.
func (r *Runner) Run(ctx context.Context, symbol string) (Result, error) {
	res := Result{Symbol: symbol}

	// Plain group: a failure in one step must not cancel the other.
	var g errgroup.Group

	g.Go(func() error {
		model, err := r.extractor.Get(ctx, symbol)
		if err != nil {
			return err
		}
		path, err := r.renderer.Render(model, model.Symbol, r.outputDir)
		if err != nil {
			return err
		}
		res.ReportPath = path
		return nil
	})

	g.Go(func() error {
		candles, err := r.downloader.Download(ctx, symbol)
		if err != nil {
			return err
		}
		path, err := series.SaveCSV(candles, candles[0].Symbol, r.downloader.Years(), r.outputDir)
		if err != nil {
			return err
		}
		res.SeriesPath = path
		return nil
	})

	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

// RunAll processes symbols in order. A failing symbol is logged and
// skipped; the batch always runs to the end.
func (r *Runner) RunAll(ctx context.Context, symbols []string) []Result {
	var results []Result
	for _, symbol := range symbols {
		res, err := r.Run(ctx, symbol)
		if err != nil {
			r.log.Warn("symbol failed", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		results = append(results, res)
	}
	return results
}
