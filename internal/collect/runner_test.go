package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kpraghav/scripdesk/internal/config"
	"github.com/kpraghav/scripdesk/internal/report"
	"github.com/kpraghav/scripdesk/internal/scrape"
	"github.com/kpraghav/scripdesk/internal/series"
)

const runnerPage = `<html>
<h1 class="company-name">Tata Consultancy Services</h1>
<div class="company-ratios"><ul>
<li><span class="name">Market Cap</span><span class="number">14,00,000 Cr</span></li>
</ul></div>
<section><h2>Overview</h2>
<div class="flex-row"><span>Sector</span><span>IT Services</span></div>
</section>
</html>`

func runnerChartJSON() string {
	base := time.Now().AddDate(0, 0, -30)
	var ts, vals, vols []string
	for i := 0; i < 4; i++ {
		ts = append(ts, fmt.Sprintf("%d", base.AddDate(0, 0, 7*i).Unix()))
		vals = append(vals, "100.5")
		vols = append(vols, "1000")
	}
	tsj, vj, volj := strings.Join(ts, ","), strings.Join(vals, ","), strings.Join(vols, ",")
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],
		"indicators":{"quote":[{"open":[%s],"high":[%s],"low":[%s],"close":[%s],"volume":[%s]}]}
	}],"error":null}}`, tsj, vj, vj, vj, vj, volj)
}

func newTestRunner(t *testing.T, outputDir string, pageStatus int) *Runner {
	t.Helper()

	scrapeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if pageStatus != http.StatusOK {
			http.Error(w, "nope", pageStatus)
			return
		}
		fmt.Fprint(w, runnerPage)
	}))
	t.Cleanup(scrapeSrv.Close)

	chartSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, runnerChartJSON())
	}))
	t.Cleanup(chartSrv.Close)

	log := zap.NewNop()
	extractor := scrape.NewExtractor(config.ScraperConfig{
		BaseURL:          scrapeSrv.URL,
		RetryAttempts:    1,
		RetryBaseDelayMs: 1,
		RateLimitPerSec:  100,
		CacheTTLSec:      60,
	}, log)

	renderer, err := report.NewRenderer(config.ReportConfig{Engine: "none"}, log)
	if err != nil {
		t.Fatal(err)
	}

	downloader := series.NewDownloader(config.SeriesConfig{
		BaseURL:       chartSrv.URL,
		LookbackYears: 3,
		Interval:      "1wk",
	}, log)

	return NewRunner(extractor, renderer, downloader, outputDir, log)
}

func TestRunProducesBothArtifacts(t *testing.T) {
	out := t.TempDir()
	r := newTestRunner(t, out, http.StatusOK)

	res, err := r.Run(context.Background(), "tcs")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.ReportPath == "" || res.SeriesPath == "" {
		t.Errorf("Result = %+v, want both paths", res)
	}
	if !strings.Contains(res.ReportPath, "TCS_report_") {
		t.Errorf("ReportPath = %q", res.ReportPath)
	}
	if !strings.Contains(res.SeriesPath, "NSE_TCS_weekly_3years_") {
		t.Errorf("SeriesPath = %q", res.SeriesPath)
	}
}

func TestRunFailingStepDoesNotHideOther(t *testing.T) {
	out := t.TempDir()
	r := newTestRunner(t, out, http.StatusNotFound) // page fetch fails, chart works

	res, err := r.Run(context.Background(), "tcs")
	if err == nil {
		t.Fatal("Run() with failing extraction: want error")
	}
	if res.SeriesPath == "" {
		t.Error("series step should still complete when extraction fails")
	}
}

func TestRunAllContinuesPastFailures(t *testing.T) {
	out := t.TempDir()
	r := newTestRunner(t, out, http.StatusOK)

	// "m&m" fails validation, "tcs" succeeds.
	results := r.RunAll(context.Background(), []string{"m&m", "tcs"})
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Symbol != "tcs" {
		t.Errorf("surviving symbol = %q", results[0].Symbol)
	}
}
