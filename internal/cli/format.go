// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"smartbudget/internal/report"
)

// FormatMoney renders an amount with the configured currency symbol, comma
// grouping, and two decimal places. e.g., 1234567.5 -> "₹1,234,567.50"
func FormatMoney(amount decimal.Decimal, symbol string) string {
	neg := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(fixed, ".")
	out := groupThousands(whole) + "." + frac
	if neg {
		return "-" + symbol + out
	}
	return symbol + out
}

// FormatMoneyDelta renders a signed difference between two amounts.
func FormatMoneyDelta(current, previous decimal.Decimal, symbol string) string {
	delta := current.Sub(previous)
	if delta.IsNegative() {
		return "-" + FormatMoney(delta.Neg(), symbol)
	}
	return "+" + FormatMoney(delta, symbol)
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 percentage with one decimal place.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDate reformats a server date for display, falling back to the raw
// string when it doesn't parse.
func FormatDate(raw string) string {
	t, ok := report.ParseDate(raw)
	if !ok {
		return raw
	}
	return t.Format("Jan 2, 2006")
}

// FormatRecurrence renders a recurring flag and interval as a short label.
// e.g., (true, "monthly") -> "monthly", (false, _) -> "one-time"
func FormatRecurrence(recurring bool, interval string) string {
	if !recurring {
		return "one-time"
	}
	if interval == "" {
		return "recurring"
	}
	return interval
}

// Greeting returns a salutation for the hour of day.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// FormatCount adds comma separators to an integer count.
func FormatCount(n int) string {
	return groupThousands(strconv.Itoa(n))
}
