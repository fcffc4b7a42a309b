package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kpraghav/scripdesk/internal/collect"
	"github.com/kpraghav/scripdesk/internal/config"
	"github.com/kpraghav/scripdesk/internal/report"
	"github.com/kpraghav/scripdesk/internal/scrape"
	"github.com/kpraghav/scripdesk/internal/series"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	out := t.TempDir()

	page := `<html><h1 class="company-name">Tata Consultancy Services</h1>
<section><h2>Overview</h2>
<div class="flex-row"><span>Sector</span><span>IT Services</span></div>
</section></html>`
	scrapeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	t.Cleanup(scrapeSrv.Close)

	base := time.Now().AddDate(0, 0, -30)
	chartSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ts, vals, vols []string
		for i := 0; i < 3; i++ {
			ts = append(ts, fmt.Sprintf("%d", base.AddDate(0, 0, 7*i).Unix()))
			vals = append(vals, "100.5")
			vols = append(vols, "1000")
		}
		tsj, vj, volj := strings.Join(ts, ","), strings.Join(vals, ","), strings.Join(vols, ",")
		fmt.Fprintf(w, `{"chart":{"result":[{"timestamp":[%s],
			"indicators":{"quote":[{"open":[%s],"high":[%s],"low":[%s],"close":[%s],"volume":[%s]}]}
		}],"error":null}}`, tsj, vj, vj, vj, vj, volj)
	}))
	t.Cleanup(chartSrv.Close)

	log := zap.NewNop()
	cfg := config.Default()
	cfg.Output.Dir = out
	cfg.Scraper.BaseURL = scrapeSrv.URL
	cfg.Scraper.RetryAttempts = 1
	cfg.Scraper.RetryBaseDelayMs = 1
	cfg.Scraper.RateLimitPerSec = 100
	cfg.Series.BaseURL = chartSrv.URL
	cfg.Report.Engine = "none"

	extractor := scrape.NewExtractor(cfg.Scraper, log)
	renderer, err := report.NewRenderer(cfg.Report, log)
	if err != nil {
		t.Fatal(err)
	}
	downloader := series.NewDownloader(cfg.Series, log)
	runner := collect.NewRunner(extractor, renderer, downloader, out, log)

	return NewServer(cfg, runner, log), out
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Error("Success = false")
	}
	data := resp.Data.(map[string]interface{})
	if data["status"] != "ok" {
		t.Errorf("status = %v", data["status"])
	}
	if ms := data["market_status"]; ms != "OPEN" && ms != "CLOSED" {
		t.Errorf("market_status = %v", ms)
	}
}

func TestHandleAnalyze(t *testing.T) {
	s, out := newTestServer(t)

	body, _ := json.Marshal(AnalyzeRequest{Symbol: "tcs"})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	data := resp.Data.(map[string]interface{})
	if data["Symbol"] != "TCS" {
		t.Errorf("Symbol = %v", data["Symbol"])
	}
	if data["ReportPath"] == "" || data["SeriesPath"] == "" {
		t.Errorf("paths missing: %v", data)
	}

	// The artifacts really exist under the output dir.
	files, err := collect.ListArtifacts(out, "TCS")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("artifacts on disk = %v", files)
	}
}

func TestHandleAnalyzeRejectsBadSymbol(t *testing.T) {
	s, _ := newTestServer(t)

	body, _ := json.Marshal(AnalyzeRequest{Symbol: "m&m"})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleArtifacts(t *testing.T) {
	s, out := newTestServer(t)

	dir := filepath.Join(out, "TCS")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "TCS_report_x.pdf"), []byte("pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/artifacts/TCS", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	data := resp.Data.(map[string]interface{})
	files := data["files"].([]interface{})
	if len(files) != 1 {
		t.Errorf("files = %v", files)
	}
}

func TestHandleArchiveNoArtifacts(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/artifacts/NOPE/archive", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleArchive(t *testing.T) {
	s, out := newTestServer(t)

	dir := filepath.Join(out, "TCS")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "NSE_TCS_weekly.csv"), []byte("csv"), 0o644); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/artifacts/TCS/archive", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "TCS_artifacts.zip") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}
