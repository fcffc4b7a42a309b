package series

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kpraghav/scripdesk/pkg/models"
)

// SaveCSV writes the candles to
// {destDir}/{SYMBOL}/NSE_{SYMBOL}_weekly_{years}years_{YYYYMMDD}.csv
// and returns the full path. The confirmation line it prints is the
// one the front ends scan for when collecting artifacts.
func SaveCSV(candles []models.WeeklyCandle, symbol string, years int, destDir string) (string, error) {
	if destDir == "" {
		destDir = "."
	}
	dir := filepath.Join(destDir, symbol)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &DownloadError{Symbol: symbol, Err: err}
	}

	name := fmt.Sprintf("NSE_%s_weekly_%dyears_%s.csv", symbol, years, time.Now().Format("20060102"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", &DownloadError{Symbol: symbol, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.SeriesCSVHeader); err != nil {
		return "", &DownloadError{Symbol: symbol, Err: err}
	}
	for _, c := range candles {
		row := []string{
			c.Symbol,
			c.Date.Format("2006-01-02"),
			c.Open.StringFixed(2),
			c.High.StringFixed(2),
			c.Low.StringFixed(2),
			c.Close.StringFixed(2),
			fmt.Sprintf("%d", c.Volume),
			c.Dividends.String(),
			c.StockSplits.String(),
		}
		if err := w.Write(row); err != nil {
			return "", &DownloadError{Symbol: symbol, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", &DownloadError{Symbol: symbol, Err: err}
	}

	fmt.Printf("Data successfully saved to %s\n", path)
	return path, nil
}
