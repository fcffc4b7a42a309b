package utils

import (
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30).
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if tz database is not available
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// NowIST returns the current time in IST.
func NowIST() time.Time {
	return ToIST(time.Now())
}

// ToIST converts a time.Time to IST.
func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

// IsMarketOpenAt checks if the NSE cash market would be open at the
// given time (9:15 AM - 3:30 PM IST, Monday to Friday).
func IsMarketOpenAt(t time.Time) bool {
	t = t.In(IST)

	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}

	open := time.Date(t.Year(), t.Month(), t.Day(), 9, 15, 0, 0, IST)
	close := time.Date(t.Year(), t.Month(), t.Day(), 15, 30, 0, 0, IST)
	return !t.Before(open) && !t.After(close)
}

// MarketStatus returns a short human-readable market state string for
// CLI output.
func MarketStatus() string {
	if IsMarketOpenAt(NowIST()) {
		return "OPEN"
	}
	return "CLOSED"
}
