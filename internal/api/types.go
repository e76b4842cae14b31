package api

import "github.com/shopspring/decimal"

// LoginResponse is the payload returned by a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

// Income is a single income transaction as stored by the server.
type Income struct {
	ID             string          `json:"_id"`
	Amount         decimal.Decimal `json:"amount"`
	Source         string          `json:"source"`
	Date           string          `json:"date"`
	IsRecurring    bool            `json:"is_recurring"`
	Recurrence     string          `json:"recurrence"`
	NextOccurrence string          `json:"next_occurrence"`
}

// IncomeInput is the request body for adding or updating income.
type IncomeInput struct {
	Amount         decimal.Decimal `json:"amount"`
	Source         string          `json:"source"`
	Date           string          `json:"date"`
	IsRecurring    bool            `json:"is_recurring"`
	Recurrence     string          `json:"recurrence,omitempty"`
	NextOccurrence string          `json:"next_occurrence,omitempty"`
}

// Expense is a single expense transaction as stored by the server.
type Expense struct {
	ID          string          `json:"_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// ExpenseInput is the request body for adding or updating an expense.
type ExpenseInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Date        string          `json:"date"`
}

// Recurrence values accepted by the server.
const (
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
	RecurrenceYearly  = "yearly"
)

// Budget is a per-category spending limit. The server upserts on
// (category, period), so at most one row exists per pair.
type Budget struct {
	ID       string          `json:"_id"`
	Category string          `json:"category"`
	Period   string          `json:"period"`
	Amount   decimal.Decimal `json:"amount"`
}

// BudgetInput is the request body for adding or upserting a budget.
type BudgetInput struct {
	Category string          `json:"category"`
	Period   string          `json:"period"`
	Amount   decimal.Decimal `json:"amount"`
}

// Budget period values accepted by the server.
const (
	PeriodMonthly = "monthly"
	PeriodAnnual  = "annual"
)

// BudgetProgress is one row of the server-computed budget status.
type BudgetProgress struct {
	Category  string          `json:"category"`
	Budget    decimal.Decimal `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	OverUnder string          `json:"over_under"`
}

// Alert is a server-generated budget warning.
type Alert struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// DashboardSummary is the server-side aggregate for the dashboard.
// It is recomputed on every fetch and never cached client-side.
type DashboardSummary struct {
	TotalIncome    decimal.Decimal  `json:"total_income"`
	TotalExpenses  decimal.Decimal  `json:"total_expenses"`
	Balance        decimal.Decimal  `json:"balance"`
	BudgetProgress []BudgetProgress `json:"budget_progress"`
	Alerts         []Alert          `json:"alerts"`
}

// RecentTransactions holds the server's most recent income and expenses
// (last five of each).
type RecentTransactions struct {
	Income   []Income  `json:"income"`
	Expenses []Expense `json:"expenses"`
}

// Avatar is the profile picture payload. ProfilePic is a data URI.
type Avatar struct {
	ProfilePic string `json:"profilePic"`
	Emoji      string `json:"emoji,omitempty"`
}

// Health is the server liveness response.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

// serverMessage is the generic {"msg": ...} body the server uses for
// confirmations and errors.
type serverMessage struct {
	Msg string `json:"msg"`
}
