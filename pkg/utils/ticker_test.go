package utils

import (
	"errors"
	"testing"
)

func TestValidateSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"tcs", "TCS", false},
		{"tcs1", "TCS1", false},
		{"RELIANCE", "RELIANCE", false},
		{" itc ", "ITC", false},
		{"m&m", "", true},
		{"tcs-1", "", true},
		{"TATA MOTORS", "", true},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateSymbol(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidateSymbol(%q) = %q, want error", tt.input, got)
				}
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("ValidateSymbol(%q) error type = %T, want *ValidationError", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateSymbol(%q) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ValidateSymbol(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestToYahooTicker(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"TCS", "TCS.NS"},
		{"tcs", "TCS.NS"},
		{"RELIANCE.NS", "RELIANCE.NS"},
		{"500325.BO", "500325.BO"},
	}

	for _, tt := range tests {
		if got := ToYahooTicker(tt.input); got != tt.expected {
			t.Errorf("ToYahooTicker(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFromYahooTicker(t *testing.T) {
	if got := FromYahooTicker("TCS.NS"); got != "TCS" {
		t.Errorf("FromYahooTicker(TCS.NS) = %q, want TCS", got)
	}
	if got := FromYahooTicker("INFY"); got != "INFY" {
		t.Errorf("FromYahooTicker(INFY) = %q, want INFY", got)
	}
}
