package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2026-08-15", true},
		{"2026-08-15T10:30:00Z", true},
		{"2026-08-15T10:30:00.123456", true},
		{"2026-08-15T10:30:00", true},
		{"15/08/2026", false},
		{"not a date", false},
		{"", false},
	}
	for _, tc := range cases {
		if _, ok := ParseDate(tc.in); ok != tc.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
	}
}

func TestParseTrendView(t *testing.T) {
	if got := ParseTrendView("weekly"); got != ViewWeekly {
		t.Errorf("weekly parsed as %q", got)
	}
	if got := ParseTrendView("bogus"); got != ViewMonthly {
		t.Errorf("unknown view should default to monthly, got %q", got)
	}
}

func TestMonthlyBucketsCurrentMonthOnly(t *testing.T) {
	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.Local)
	entries := []Entry{
		{Amount: dec(t, "100"), Date: "2026-08-03"},
		{Amount: dec(t, "50"), Date: "2026-08-03"},
		{Amount: dec(t, "999"), Date: "2026-07-03"}, // previous month, excluded
		{Amount: dec(t, "999"), Date: "2025-08-03"}, // previous year, excluded
		{Amount: dec(t, "40"), Date: "garbage"},     // unparseable, excluded
	}

	buckets := Buckets(entries, ViewMonthly, now)
	if len(buckets) != 31 {
		t.Fatalf("August should have 31 buckets, got %d", len(buckets))
	}
	if got := buckets[2].Total; !got.Equal(dec(t, "150")) {
		t.Errorf("Aug 3 bucket = %s, want 150", got)
	}
	for i, b := range buckets {
		if i != 2 && !b.Total.IsZero() {
			t.Errorf("bucket %s unexpectedly non-zero: %s", b.Label, b.Total)
		}
	}
}

func TestWeeklyBucketsWindow(t *testing.T) {
	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.Local)
	entries := []Entry{
		{Amount: dec(t, "10"), Date: "2026-08-20"}, // today
		{Amount: dec(t, "20"), Date: "2026-08-14"}, // oldest in window
		{Amount: dec(t, "30"), Date: "2026-08-13"}, // one day outside
	}

	buckets := Buckets(entries, ViewWeekly, now)
	if len(buckets) != 7 {
		t.Fatalf("want 7 buckets, got %d", len(buckets))
	}
	if !buckets[0].Total.Equal(dec(t, "20")) {
		t.Errorf("oldest bucket = %s, want 20", buckets[0].Total)
	}
	if !buckets[6].Total.Equal(dec(t, "10")) {
		t.Errorf("today bucket = %s, want 10", buckets[6].Total)
	}
	var sum decimal.Decimal
	for _, b := range buckets {
		sum = sum.Add(b.Total)
	}
	if !sum.Equal(dec(t, "30")) {
		t.Errorf("window sum = %s, want 30 (out-of-window entry leaked in)", sum)
	}
}

func TestYearlyBucketsWindow(t *testing.T) {
	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.Local)
	entries := []Entry{
		{Amount: dec(t, "1"), Date: "2022-01-01"},
		{Amount: dec(t, "2"), Date: "2026-12-31"},
		{Amount: dec(t, "4"), Date: "2021-06-01"}, // older than 5 years back
	}

	buckets := Buckets(entries, ViewYearly, now)
	if len(buckets) != 5 {
		t.Fatalf("want 5 buckets, got %d", len(buckets))
	}
	if buckets[0].Label != "2022" || buckets[4].Label != "2026" {
		t.Fatalf("bucket labels %q..%q, want 2022..2026", buckets[0].Label, buckets[4].Label)
	}
	if !buckets[0].Total.Equal(dec(t, "1")) || !buckets[4].Total.Equal(dec(t, "2")) {
		t.Errorf("edge buckets = %s, %s", buckets[0].Total, buckets[4].Total)
	}
}

func TestSumKeepsInvalidDates(t *testing.T) {
	entries := []Entry{
		{Amount: dec(t, "100"), Date: "2026-08-01"},
		{Amount: dec(t, "25"), Date: "not a date"},
	}
	if got := Sum(entries); !got.Equal(dec(t, "125")) {
		t.Errorf("Sum = %s, want 125 (invalid-date entries still count raw)", got)
	}
}

func TestTotals(t *testing.T) {
	income := []Entry{{Amount: dec(t, "3000")}, {Amount: dec(t, "500")}}
	expenses := []Entry{{Amount: dec(t, "1200.50")}}

	s := Totals(income, expenses)
	if !s.TotalIncome.Equal(dec(t, "3500")) {
		t.Errorf("income = %s", s.TotalIncome)
	}
	if !s.TotalExpenses.Equal(dec(t, "1200.50")) {
		t.Errorf("expenses = %s", s.TotalExpenses)
	}
	if !s.Balance.Equal(dec(t, "2299.50")) {
		t.Errorf("balance = %s", s.Balance)
	}
}

func TestGroupByLabelOrder(t *testing.T) {
	entries := []Entry{
		{Label: "Food", Amount: dec(t, "10")},
		{Label: "Transport", Amount: dec(t, "5")},
		{Label: "Food", Amount: dec(t, "7")},
	}

	groups := GroupByLabel(entries)
	if len(groups) != 2 {
		t.Fatalf("want 2 groups, got %d", len(groups))
	}
	if groups[0].Label != "Food" || groups[1].Label != "Transport" {
		t.Errorf("group order %q, %q; want first-seen order", groups[0].Label, groups[1].Label)
	}
	if !groups[0].Total.Equal(dec(t, "17")) {
		t.Errorf("Food total = %s, want 17", groups[0].Total)
	}
}

func TestMonthOverMonth(t *testing.T) {
	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.Local)
	entries := []Entry{
		{Amount: dec(t, "200"), Date: "2026-08-10"},
		{Amount: dec(t, "100"), Date: "2026-07-10"},
		{Amount: dec(t, "100"), Date: "2026-07-25"},
		{Amount: dec(t, "999"), Date: "2026-06-01"}, // out of range
	}

	trend := MonthOverMonth(entries, now)
	if !trend.ThisMonth.Equal(dec(t, "200")) || !trend.LastMonth.Equal(dec(t, "200")) {
		t.Fatalf("months = %s / %s", trend.ThisMonth, trend.LastMonth)
	}
	if trend.PctChange != 0 {
		t.Errorf("pct change = %v, want 0", trend.PctChange)
	}

	empty := MonthOverMonth(nil, now)
	if empty.PctChange != 0 {
		t.Errorf("no last-month activity should yield 0%%, got %v", empty.PctChange)
	}
}

func TestMonthOverMonthAtMonthEnd(t *testing.T) {
	// Oct 31 minus a calendar month has no Sep 31; the previous month must
	// still resolve to September, not normalize back into October.
	now := time.Date(2026, time.October, 31, 12, 0, 0, 0, time.Local)
	entries := []Entry{
		{Amount: dec(t, "300"), Date: "2026-10-05"},
		{Amount: dec(t, "150"), Date: "2026-09-15"},
	}

	trend := MonthOverMonth(entries, now)
	if !trend.ThisMonth.Equal(dec(t, "300")) {
		t.Errorf("this month = %s, want 300", trend.ThisMonth)
	}
	if !trend.LastMonth.Equal(dec(t, "150")) {
		t.Errorf("last month = %s, want 150", trend.LastMonth)
	}
	if trend.PctChange != 100 {
		t.Errorf("pct change = %v, want 100", trend.PctChange)
	}

	// January looks back across the year boundary.
	jan := time.Date(2027, time.January, 31, 12, 0, 0, 0, time.Local)
	trend = MonthOverMonth([]Entry{
		{Amount: dec(t, "80"), Date: "2027-01-10"},
		{Amount: dec(t, "40"), Date: "2026-12-20"},
	}, jan)
	if !trend.LastMonth.Equal(dec(t, "40")) {
		t.Errorf("december total = %s, want 40", trend.LastMonth)
	}
}

func TestProgress(t *testing.T) {
	cases := []struct {
		name       string
		budget     string
		spent      string
		wantPct    float64
		wantStatus Status
	}{
		{"half spent", "200", "100", 50, StatusUnder},
		{"exactly at limit", "200", "200", 100, StatusUnder},
		{"over limit clamps", "200", "350", 100, StatusOver},
		{"zero budget no spend", "0", "0", 100, StatusUnder},
		{"zero budget with spend", "0", "50", 100, StatusOver},
		{"nothing spent", "200", "0", 0, StatusUnder},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pct, status := Progress(dec(t, tc.budget), dec(t, tc.spent))
			if pct != tc.wantPct {
				t.Errorf("pct = %v, want %v", pct, tc.wantPct)
			}
			if status != tc.wantStatus {
				t.Errorf("status = %q, want %q", status, tc.wantStatus)
			}
		})
	}
}
