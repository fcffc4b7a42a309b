// Package utils provides ticker normalization and IST time helpers
// shared across the toolkit.
package utils

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidationError reports a rejected company symbol. Validation runs
// before any network call, so a bad symbol never costs a request.
type ValidationError struct {
	Symbol string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid symbol %q: %s", e.Symbol, e.Reason)
}

// ValidateSymbol checks that symbol is non-empty and strictly
// alphanumeric, and returns it normalized to uppercase.
func ValidateSymbol(symbol string) (string, error) {
	trimmed := strings.TrimSpace(symbol)
	if trimmed == "" {
		return "", &ValidationError{Symbol: symbol, Reason: "symbol cannot be empty"}
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", &ValidationError{Symbol: symbol, Reason: "use letters and numbers only"}
		}
	}
	return strings.ToUpper(trimmed), nil
}

// ToYahooTicker converts an NSE symbol to Yahoo Finance format by
// appending the .NS suffix. Symbols already market-qualified are left
// alone.
func ToYahooTicker(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if strings.HasSuffix(symbol, ".NS") || strings.HasSuffix(symbol, ".BO") {
		return symbol
	}
	return symbol + ".NS"
}

// FromYahooTicker strips the .NS or .BO suffix to recover the plain
// exchange symbol.
func FromYahooTicker(yfTicker string) string {
	yfTicker = strings.TrimSuffix(yfTicker, ".NS")
	return strings.TrimSuffix(yfTicker, ".BO")
}
