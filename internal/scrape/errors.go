package scrape

import "fmt"

// ParseError reports a company page that yielded no recognizable content.
type ParseError struct {
	Symbol string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Symbol, e.Reason)
}
