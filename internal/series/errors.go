package series

import "fmt"

// NotFoundError reports a symbol Yahoo Finance has no data for.
type NotFoundError struct {
	Symbol string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no price data for %s", e.Symbol)
}

// DownloadError wraps a transport or decode failure during a series
// download. The original cause is preserved for errors.Is/As.
type DownloadError struct {
	Symbol string
	Err    error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.Symbol, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
