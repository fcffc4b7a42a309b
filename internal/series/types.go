package series

// Yahoo Finance v8 chart API response, trimmed to the fields the
// downloader reads. Quote arrays use pointers because Yahoo emits
// null for untraded periods.

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
	Events *chartEvents `json:"events"`
}

type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type chartEvents struct {
	Dividends map[string]chartDividend `json:"dividends"`
	Splits    map[string]chartSplit    `json:"splits"`
}

type chartDividend struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

type chartSplit struct {
	Date        int64  `json:"date"`
	Numerator   int    `json:"numerator"`
	Denominator int    `json:"denominator"`
	SplitRatio  string `json:"splitRatio"`
}
