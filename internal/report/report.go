// Package report computes view-only aggregates from fetched transaction
// lists. Everything here is a pure function of its inputs so the chart and
// summary logic can be tested without rendering machinery.
package report

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"smartbudget/internal/api"
)

// TrendView selects the bucketing granularity for the over-time chart.
type TrendView string

const (
	ViewWeekly  TrendView = "weekly"  // last 7 calendar days
	ViewMonthly TrendView = "monthly" // days of the current calendar month
	ViewYearly  TrendView = "yearly"  // last 5 calendar years
)

// ParseTrendView maps a config/flag string to a TrendView, defaulting to
// monthly for anything unrecognized.
func ParseTrendView(s string) TrendView {
	switch TrendView(s) {
	case ViewWeekly, ViewMonthly, ViewYearly:
		return TrendView(s)
	default:
		return ViewMonthly
	}
}

// Entry is the common shape bucketing and grouping operate on: a dated,
// labeled amount. The date stays a string until bucketing time; records
// whose dates don't parse are excluded from bucket sums but still count
// toward raw totals.
type Entry struct {
	Amount decimal.Decimal
	Date   string
	Label  string
}

// FromIncome adapts income records to entries, labeled by source.
func FromIncome(list []api.Income) []Entry {
	entries := make([]Entry, len(list))
	for i, in := range list {
		entries[i] = Entry{Amount: in.Amount, Date: in.Date, Label: in.Source}
	}
	return entries
}

// FromExpenses adapts expense records to entries, labeled by category.
func FromExpenses(list []api.Expense) []Entry {
	entries := make([]Entry, len(list))
	for i, ex := range list {
		entries[i] = Entry{Amount: ex.Amount, Date: ex.Date, Label: ex.Category}
	}
	return entries
}

// dateLayouts covers the formats the server has been seen to emit: bare
// dates, RFC 3339, and Python isoformat without a zone.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ParseDate parses a record date in local calendar semantics. ok is false
// when no known layout matches.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Bucket is one time window of the trend chart.
type Bucket struct {
	Label string
	Total decimal.Decimal
}

// Buckets partitions entries into time windows relative to now and sums
// amounts per window. Weekly yields 7 day-buckets ending today, monthly one
// bucket per day of the current calendar month, yearly 5 year-buckets ending
// this year. Entries with unparseable dates are skipped.
func Buckets(entries []Entry, view TrendView, now time.Time) []Bucket {
	switch view {
	case ViewWeekly:
		return weeklyBuckets(entries, now)
	case ViewYearly:
		return yearlyBuckets(entries, now)
	default:
		return monthlyBuckets(entries, now)
	}
}

func weeklyBuckets(entries []Entry, now time.Time) []Bucket {
	buckets := make([]Bucket, 7)
	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, -(6 - i))
		key := day.Format("2006-01-02")
		buckets[i] = Bucket{Label: day.Format("Jan 2")}
		index[key] = i
	}

	for _, e := range entries {
		t, ok := ParseDate(e.Date)
		if !ok {
			continue
		}
		if i, ok := index[t.Format("2006-01-02")]; ok {
			buckets[i].Total = buckets[i].Total.Add(e.Amount)
		}
	}
	return buckets
}

func monthlyBuckets(entries []Entry, now time.Time) []Bucket {
	year, month, _ := now.Date()
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, now.Location()).Day()

	buckets := make([]Bucket, daysInMonth)
	for i := range buckets {
		buckets[i] = Bucket{Label: strconv.Itoa(i + 1)}
	}

	for _, e := range entries {
		t, ok := ParseDate(e.Date)
		if !ok {
			continue
		}
		ty, tm, td := t.Date()
		if ty != year || tm != month {
			continue
		}
		buckets[td-1].Total = buckets[td-1].Total.Add(e.Amount)
	}
	return buckets
}

func yearlyBuckets(entries []Entry, now time.Time) []Bucket {
	thisYear := now.Year()
	buckets := make([]Bucket, 5)
	for i := range buckets {
		buckets[i] = Bucket{Label: strconv.Itoa(thisYear - 4 + i)}
	}

	for _, e := range entries {
		t, ok := ParseDate(e.Date)
		if !ok {
			continue
		}
		i := t.Year() - (thisYear - 4)
		if i < 0 || i >= 5 {
			continue
		}
		buckets[i].Total = buckets[i].Total.Add(e.Amount)
	}
	return buckets
}

// LabelTotal is a summed amount keyed by source or category.
type LabelTotal struct {
	Label string
	Total decimal.Decimal
}

// GroupByLabel sums amounts per label, preserving first-seen label order so
// chart legends stay stable across renders.
func GroupByLabel(entries []Entry) []LabelTotal {
	var order []string
	totals := make(map[string]decimal.Decimal)

	for _, e := range entries {
		if _, seen := totals[e.Label]; !seen {
			order = append(order, e.Label)
		}
		totals[e.Label] = totals[e.Label].Add(e.Amount)
	}

	out := make([]LabelTotal, len(order))
	for i, label := range order {
		out[i] = LabelTotal{Label: label, Total: totals[label]}
	}
	return out
}

// Sum adds up every entry's amount regardless of date validity.
func Sum(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

// Summary holds the raw totals shown on the dashboard cards.
type Summary struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
}

// Totals computes income, expense, and balance totals from raw lists.
func Totals(income, expenses []Entry) Summary {
	in := Sum(income)
	out := Sum(expenses)
	return Summary{TotalIncome: in, TotalExpenses: out, Balance: in.Sub(out)}
}

// MonthTrend compares the current calendar month against the previous one.
type MonthTrend struct {
	ThisMonth decimal.Decimal
	LastMonth decimal.Decimal
	PctChange float64 // 0 when last month had no activity
}

// MonthOverMonth sums entries for the current and previous calendar months
// and derives the percentage change between them.
func MonthOverMonth(entries []Entry, now time.Time) MonthTrend {
	curY, curM, _ := now.Date()
	// Step back from the first of the month: AddDate on day 29-31
	// normalizes (e.g. Oct 31 - 1 month = "Sep 31" = Oct 1) and would
	// land back in the current month.
	prev := time.Date(curY, curM, 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	prevY, prevM, _ := prev.Date()

	var trend MonthTrend
	for _, e := range entries {
		t, ok := ParseDate(e.Date)
		if !ok {
			continue
		}
		y, m, _ := t.Date()
		switch {
		case y == curY && m == curM:
			trend.ThisMonth = trend.ThisMonth.Add(e.Amount)
		case y == prevY && m == prevM:
			trend.LastMonth = trend.LastMonth.Add(e.Amount)
		}
	}

	if !trend.LastMonth.IsZero() {
		diff := trend.ThisMonth.Sub(trend.LastMonth)
		pct, _ := diff.Div(trend.LastMonth).Mul(decimal.NewFromInt(100)).Float64()
		trend.PctChange = pct
	}
	return trend
}
