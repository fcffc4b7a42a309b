package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WeeklyCandle is one row of downloaded weekly price history. Price
// fields are rounded to 2 decimals at construction; Volume is a whole
// share count. Dividends and StockSplits are zero for weeks without a
// corporate action.
type WeeklyCandle struct {
	Symbol      string
	Date        time.Time
	Open        decimal.Decimal
	High        decimal.Decimal
	Low         decimal.Decimal
	Close       decimal.Decimal
	Volume      int64
	Dividends   decimal.Decimal
	StockSplits decimal.Decimal
}

// SeriesCSVHeader is the fixed header row of the weekly candle CSV.
var SeriesCSVHeader = []string{
	"Symbol", "Date", "Open", "High", "Low", "Close",
	"Volume", "Dividends", "Stock Splits",
}
