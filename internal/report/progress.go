package report

import "github.com/shopspring/decimal"

// Status classifies a budget line as within or past its limit.
type Status string

const (
	StatusUnder Status = "under"
	StatusOver  Status = "over"
)

// Progress derives the fill percentage and over/under status for one budget
// line. A zero (or negative) budget renders as a full bar; percent is clamped
// to [0, 100] so bars never overflow their track.
func Progress(budget, spent decimal.Decimal) (float64, Status) {
	status := StatusUnder
	if spent.GreaterThan(budget) {
		status = StatusOver
	}

	if budget.LessThanOrEqual(decimal.Zero) {
		return 100, status
	}

	pct, _ := spent.Div(budget).Mul(decimal.NewFromInt(100)).Float64()
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, status
}
