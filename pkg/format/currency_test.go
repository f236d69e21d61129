package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Zero", 0, "R$ 0,00"},
		{"Small amount", 12.5, "R$ 12,50"},
		{"Thousands separator", 1234.56, "R$ 1.234,56"},
		{"Millions", 1234567.89, "R$ 1.234.567,89"},
		{"Exactly one thousand", 1000, "R$ 1.000,00"},
		{"Negative amount", -1234.56, "-R$ 1.234,56"},
		{"Three digits no separator", 999.99, "R$ 999,99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount); got != tt.expected {
				t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestNumericCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Zero", 0, "0,00"},
		{"Thousands separator", 450000.0, "450.000,00"},
		{"Negative", -99166.67, "-99.166,67"},
		{"Cents rounding", 833.333, "833,33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NumericCurrency(tt.amount); got != tt.expected {
				t.Errorf("NumericCurrency(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}
