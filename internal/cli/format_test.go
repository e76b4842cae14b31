package cli

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"1234.5", "₹1,234.50"},
		{"1234567.891", "₹1,234,567.89"},
		{"-42", "-₹42.00"},
		{"999", "₹999.00"},
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		if err != nil {
			t.Fatalf("bad literal %q: %v", tc.in, err)
		}
		if got := FormatMoney(d, "₹"); got != tc.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatMoneyDelta(t *testing.T) {
	a := decimal.NewFromInt(300)
	b := decimal.NewFromInt(500)

	if got := FormatMoneyDelta(b, a, "$"); got != "+$200.00" {
		t.Errorf("positive delta = %q", got)
	}
	if got := FormatMoneyDelta(a, b, "$"); got != "-$200.00" {
		t.Errorf("negative delta = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2026-08-15"); got != "Aug 15, 2026" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDate("garbage"); got != "garbage" {
		t.Errorf("unparseable date should pass through, got %q", got)
	}
}

func TestFormatRecurrence(t *testing.T) {
	if got := FormatRecurrence(false, "monthly"); got != "one-time" {
		t.Errorf("non-recurring = %q", got)
	}
	if got := FormatRecurrence(true, "weekly"); got != "weekly" {
		t.Errorf("recurring = %q", got)
	}
	if got := FormatRecurrence(true, ""); got != "recurring" {
		t.Errorf("recurring without interval = %q", got)
	}
}

func TestGreeting(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{8, "Good morning"},
		{13, "Good afternoon"},
		{20, "Good evening"},
	}
	for _, tc := range cases {
		now := time.Date(2026, 8, 20, tc.hour, 0, 0, 0, time.UTC)
		if got := Greeting(now); got != tc.want {
			t.Errorf("Greeting(%dh) = %q, want %q", tc.hour, got, tc.want)
		}
	}
}

func TestRenderHorizontalBar(t *testing.T) {
	if got := RenderHorizontalBar(50, 100, 10); got != "█████" {
		t.Errorf("half bar = %q", got)
	}
	if got := RenderHorizontalBar(100, 100, 10); got != "██████████" {
		t.Errorf("full bar = %q", got)
	}
	if got := RenderHorizontalBar(0, 100, 10); got != "" {
		t.Errorf("zero value bar = %q", got)
	}
	if got := RenderHorizontalBar(50, 0, 10); got != "" {
		t.Errorf("zero scale bar = %q", got)
	}
}
