package series

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kpraghav/scripdesk/internal/config"
	"github.com/kpraghav/scripdesk/internal/infra"
	"github.com/kpraghav/scripdesk/pkg/models"
	"github.com/kpraghav/scripdesk/pkg/utils"
)

// Downloader fetches weekly OHLCV candles from the Yahoo Finance
// chart API.
type Downloader struct {
	baseURL  string
	years    int
	interval string
	log      *zap.Logger
}

// NewDownloader creates a Downloader from series configuration.
func NewDownloader(cfg config.SeriesConfig, log *zap.Logger) *Downloader {
	years := cfg.LookbackYears
	if years < 1 {
		years = 3
	}
	interval := cfg.Interval
	if interval == "" {
		interval = "1wk"
	}
	return &Downloader{
		baseURL:  cfg.BaseURL,
		years:    years,
		interval: interval,
		log:      log,
	}
}

// Years returns the configured lookback window.
func (d *Downloader) Years() int { return d.years }

// Download validates the symbol, probes Yahoo for its existence, then
// fetches the full weekly history. Candles come back in ascending date
// order with dividends and splits folded into their week.
func (d *Downloader) Download(ctx context.Context, rawSymbol string) ([]models.WeeklyCandle, error) {
	symbol, err := utils.ValidateSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}
	ticker := utils.ToYahooTicker(symbol)

	// Cheap existence probe before committing to the range query.
	now := time.Now()
	probe, err := d.fetchChart(ctx, ticker, now.AddDate(0, 0, -5), now, "1d", false)
	if err != nil {
		return nil, err
	}
	if probe == nil || len(probe.Timestamp) == 0 {
		return nil, &NotFoundError{Symbol: symbol}
	}

	start := now.AddDate(0, 0, -365*d.years)
	result, err := d.fetchChart(ctx, ticker, start, now, d.interval, true)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Timestamp) == 0 {
		return nil, &NotFoundError{Symbol: symbol}
	}

	candles := buildCandles(symbol, result)
	if len(candles) == 0 {
		return nil, &NotFoundError{Symbol: symbol}
	}

	d.log.Info("downloaded weekly series",
		zap.String("symbol", symbol),
		zap.Int("candles", len(candles)),
		zap.Int("years", d.years))
	return candles, nil
}

// fetchChart runs one chart API query. A chart-level error from Yahoo
// maps to NotFoundError; anything else becomes a DownloadError.
func (d *Downloader) fetchChart(ctx context.Context, ticker string, start, end time.Time, interval string, withEvents bool) (*chartResult, error) {
	symbol := utils.FromYahooTicker(ticker)

	q := url.Values{}
	q.Set("period1", fmt.Sprintf("%d", start.Unix()))
	q.Set("period2", fmt.Sprintf("%d", end.Unix()))
	q.Set("interval", interval)
	if withEvents {
		q.Set("events", "div|split")
	}
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", d.baseURL, url.PathEscape(ticker), q.Encode())

	body, _, err := infra.DoGet(ctx, reqURL, map[string]string{
		"Accept": "application/json",
	})
	if err != nil {
		if httpErr, ok := err.(*infra.ErrHTTP); ok && httpErr.StatusCode == 404 {
			return nil, &NotFoundError{Symbol: symbol}
		}
		return nil, &DownloadError{Symbol: symbol, Err: err}
	}
	defer body.Close()

	var resp chartResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, &DownloadError{Symbol: symbol, Err: fmt.Errorf("decode chart response: %w", err)}
	}

	if resp.Chart.Error != nil {
		if resp.Chart.Error.Code == "Not Found" {
			return nil, &NotFoundError{Symbol: symbol}
		}
		return nil, &DownloadError{Symbol: symbol, Err: fmt.Errorf("chart API: %s", resp.Chart.Error.Description)}
	}
	if len(resp.Chart.Result) == 0 {
		return nil, &NotFoundError{Symbol: symbol}
	}
	return &resp.Chart.Result[0], nil
}

// buildCandles converts a chart result into weekly candles: prices
// rounded to two decimals, volume as int64, events folded into the
// week they fall in.
func buildCandles(symbol string, result *chartResult) []models.WeeklyCandle {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	q := result.Indicators.Quote[0]

	candles := make([]models.WeeklyCandle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Skip untraded weeks where Yahoo emits all nulls.
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}

		c := models.WeeklyCandle{
			Symbol: symbol,
			Date:   time.Unix(ts, 0).UTC(),
		}
		if i < len(q.Open) && q.Open[i] != nil {
			c.Open = decimal.NewFromFloat(*q.Open[i]).Round(2)
		}
		if i < len(q.High) && q.High[i] != nil {
			c.High = decimal.NewFromFloat(*q.High[i]).Round(2)
		}
		if i < len(q.Low) && q.Low[i] != nil {
			c.Low = decimal.NewFromFloat(*q.Low[i]).Round(2)
		}
		c.Close = decimal.NewFromFloat(*q.Close[i]).Round(2)
		if i < len(q.Volume) && q.Volume[i] != nil {
			c.Volume = *q.Volume[i]
		}
		candles = append(candles, c)
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Date.Before(candles[j].Date)
	})

	if result.Events != nil {
		foldEvents(candles, result.Events)
	}
	return candles
}

// foldEvents assigns each dividend and split to the last candle at or
// before the event date.
func foldEvents(candles []models.WeeklyCandle, events *chartEvents) {
	locate := func(ts int64) int {
		when := time.Unix(ts, 0).UTC()
		idx := -1
		for i := range candles {
			if !candles[i].Date.After(when) {
				idx = i
			}
		}
		return idx
	}

	for _, div := range events.Dividends {
		if i := locate(div.Date); i >= 0 {
			amount := decimal.NewFromFloat(div.Amount)
			candles[i].Dividends = candles[i].Dividends.Add(amount)
		}
	}
	for _, split := range events.Splits {
		if i := locate(split.Date); i >= 0 && split.Denominator != 0 {
			ratio := decimal.NewFromInt(int64(split.Numerator)).
				Div(decimal.NewFromInt(int64(split.Denominator)))
			candles[i].StockSplits = ratio
		}
	}
}
