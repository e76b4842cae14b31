package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"smartbudget/internal/api"
	"smartbudget/internal/report"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	authModeLogin    = "login"
	authModeRegister = "register"
)

type authValues struct {
	mode     string
	username string
	password string
}

func newAuthForm(vals *authValues) *huh.Form {
	if vals.mode == "" {
		vals.mode = authModeLogin
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Welcome back").
				Options(
					huh.NewOption("Sign in", authModeLogin),
					huh.NewOption("Create an account", authModeRegister),
				).
				Value(&vals.mode),
			huh.NewInput().
				Title("Username").
				CharLimit(64).
				Validate(validateRequired("username")).
				Value(&vals.username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				CharLimit(128).
				Validate(validateRequired("password")).
				Value(&vals.password),
		),
	)
}

type incomeFormValues struct {
	amount     string
	source     string
	date       string
	recurrence string // empty for one-time
	nextDate   string // next occurrence, only meaningful when recurring
}

func newIncomeForm(vals *incomeFormValues) *huh.Form {
	if vals.date == "" {
		vals.date = time.Now().Format("2006-01-02")
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Amount").
				Placeholder("2500.00").
				Validate(validateAmount).
				Value(&vals.amount),
			huh.NewInput().
				Title("Source").
				Placeholder("Salary").
				Validate(validateRequired("source")).
				Value(&vals.source),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Validate(validateDate).
				Value(&vals.date),
			huh.NewSelect[string]().
				Title("Repeats").
				Options(
					huh.NewOption("One-time", ""),
					huh.NewOption("Daily", api.RecurrenceDaily),
					huh.NewOption("Weekly", api.RecurrenceWeekly),
					huh.NewOption("Monthly", api.RecurrenceMonthly),
					huh.NewOption("Yearly", api.RecurrenceYearly),
				).
				Value(&vals.recurrence),
			huh.NewInput().
				Title("Next occurrence").
				Placeholder("YYYY-MM-DD, blank for one-time").
				Validate(validateOptionalDate).
				Value(&vals.nextDate),
		),
	)
}

type expenseFormValues struct {
	amount      string
	category    string
	description string
	date        string
}

func newExpenseForm(vals *expenseFormValues, categories []string) *huh.Form {
	if vals.date == "" {
		vals.date = time.Now().Format("2006-01-02")
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Amount").
				Placeholder("45.00").
				Validate(validateAmount).
				Value(&vals.amount),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions(categories)...).
				Value(&vals.category),
			huh.NewInput().
				Title("Description").
				Placeholder("optional").
				Value(&vals.description),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Validate(validateDate).
				Value(&vals.date),
		),
	)
}

type budgetFormValues struct {
	category string
	amount   string
	period   string
}

func newBudgetForm(vals *budgetFormValues, categories []string) *huh.Form {
	if vals.period == "" {
		vals.period = api.PeriodMonthly
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions(categories)...).
				Value(&vals.category),
			huh.NewInput().
				Title("Limit").
				Placeholder("300.00").
				Validate(validateAmount).
				Value(&vals.amount),
			huh.NewSelect[string]().
				Title("Period").
				Options(
					huh.NewOption("Monthly", api.PeriodMonthly),
					huh.NewOption("Annual", api.PeriodAnnual),
				).
				Value(&vals.period),
		),
	)
}

type avatarFormValues struct {
	emoji string
}

var avatarEmojis = []string{"🙂", "😎", "🦊", "🐼", "🦉", "🌱", "💸", "📊"}

func newAvatarForm(vals *avatarFormValues) *huh.Form {
	opts := make([]huh.Option[string], len(avatarEmojis))
	for i, e := range avatarEmojis {
		opts[i] = huh.NewOption(e, e)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Pick an avatar").
				Options(opts...).
				Value(&vals.emoji),
		),
	)
}

// defaultCategories mirrors the server's starter set, used until the
// category fetch completes.
var defaultCategories = []string{
	"Food", "Transport", "Shopping", "Bills", "Health", "Entertainment", "Other",
}

// categoryOptions merges the defaults with the user's own categories from
// the server, defaults first, duplicates skipped.
func categoryOptions(categories []string) []huh.Option[string] {
	seen := make(map[string]bool, len(defaultCategories)+len(categories))
	var opts []huh.Option[string]
	for _, c := range defaultCategories {
		seen[c] = true
		opts = append(opts, huh.NewOption(c, c))
	}
	for _, c := range categories {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		opts = append(opts, huh.NewOption(c, c))
	}
	return opts
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a number")
	}
	if d.IsNegative() {
		return errors.New("amount can't be negative")
	}
	return nil
}

func validateDate(s string) error {
	if _, ok := report.ParseDate(strings.TrimSpace(s)); !ok {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateDate(s)
}

// openAddForm starts an empty entry form for the active tab.
func (a App) openAddForm() (tea.Model, tea.Cmd) {
	a.editingID = ""
	switch a.activeTab {
	case 1:
		a.incomeVals = incomeFormValues{}
		a.form = newIncomeForm(&a.incomeVals)
		a.formKind = formIncome
	case 2:
		a.expenseVals = expenseFormValues{}
		a.form = newExpenseForm(&a.expenseVals, a.categories)
		a.formKind = formExpense
	case 3:
		a.budgetVals = budgetFormValues{}
		a.form = newBudgetForm(&a.budgetVals, a.categories)
		a.formKind = formBudget
	case 4:
		a.avatarVals = avatarFormValues{}
		a.form = newAvatarForm(&a.avatarVals)
		a.formKind = formAvatar
	default:
		return a, nil
	}

	cmd := a.form.Init()
	if a.width > 0 {
		a.form = a.form.WithWidth(a.width).WithHeight(a.height)
	}
	return a, cmd
}

// openEditForm opens the entry form prefilled with the row under the cursor.
// Income and expenses only; budgets upsert through the add form already.
func (a App) openEditForm() (tea.Model, tea.Cmd) {
	switch a.activeTab {
	case 1:
		if a.incomeCursor >= len(a.income) {
			return a, nil
		}
		in := a.income[a.incomeCursor]
		a.incomeVals = incomeFormValues{
			amount:     in.Amount.String(),
			source:     in.Source,
			date:       in.Date,
			recurrence: in.Recurrence,
			nextDate:   in.NextOccurrence,
		}
		a.form = newIncomeForm(&a.incomeVals)
		a.formKind = formIncome
		a.editingID = in.ID
	case 2:
		if a.expenseCursor >= len(a.expenses) {
			return a, nil
		}
		ex := a.expenses[a.expenseCursor]
		a.expenseVals = expenseFormValues{
			amount:      ex.Amount.String(),
			category:    ex.Category,
			description: ex.Description,
			date:        ex.Date,
		}
		a.form = newExpenseForm(&a.expenseVals, a.categories)
		a.formKind = formExpense
		a.editingID = ex.ID
	default:
		return a, nil
	}

	cmd := a.form.Init()
	if a.width > 0 {
		a.form = a.form.WithWidth(a.width).WithHeight(a.height)
	}
	return a, cmd
}

// submitForm sends the completed form to the server and names the slots to
// refetch afterward. A non-empty editID turns the add into an update.
func (a App) submitForm(kind formKind, editID string) tea.Cmd {
	client := a.client

	switch kind {
	case formIncome:
		vals := a.incomeVals
		refresh := []tea.Cmd{a.fetchIncome(), a.fetchSummary(), a.fetchRecent()}
		return func() tea.Msg {
			amount, _ := decimal.NewFromString(strings.TrimSpace(vals.amount))
			in := api.IncomeInput{
				Amount:      amount,
				Source:      strings.TrimSpace(vals.source),
				Date:        strings.TrimSpace(vals.date),
				IsRecurring: vals.recurrence != "",
				Recurrence:  vals.recurrence,
			}
			if in.IsRecurring {
				in.NextOccurrence = strings.TrimSpace(vals.nextDate)
			}
			ctx, cancel := fetchCtx()
			defer cancel()
			var err error
			if editID != "" {
				err = client.UpdateIncome(ctx, editID, in)
			} else {
				err = client.AddIncome(ctx, in)
			}
			return MutationMsg{Err: err, Refresh: refresh}
		}

	case formExpense:
		vals := a.expenseVals
		refresh := []tea.Cmd{a.fetchExpenses(), a.fetchSummary(), a.fetchRecent()}
		return func() tea.Msg {
			amount, _ := decimal.NewFromString(strings.TrimSpace(vals.amount))
			in := api.ExpenseInput{
				Amount:      amount,
				Category:    vals.category,
				Description: strings.TrimSpace(vals.description),
				Date:        strings.TrimSpace(vals.date),
			}
			ctx, cancel := fetchCtx()
			defer cancel()
			var err error
			if editID != "" {
				err = client.UpdateExpense(ctx, editID, in)
			} else {
				err = client.AddExpense(ctx, in)
			}
			return MutationMsg{Err: err, Refresh: refresh}
		}

	case formBudget:
		vals := a.budgetVals
		refresh := []tea.Cmd{a.fetchBudgets(), a.fetchSummary()}
		return func() tea.Msg {
			amount, _ := decimal.NewFromString(strings.TrimSpace(vals.amount))
			in := api.BudgetInput{
				Category: vals.category,
				Period:   vals.period,
				Amount:   amount,
			}
			ctx, cancel := fetchCtx()
			defer cancel()
			return MutationMsg{Err: client.SetBudget(ctx, in), Refresh: refresh}
		}

	case formAvatar:
		vals := a.avatarVals
		refresh := []tea.Cmd{a.fetchAvatar()}
		return func() tea.Msg {
			ctx, cancel := fetchCtx()
			defer cancel()
			err := client.UpdateAvatar(ctx, api.Avatar{Emoji: vals.emoji})
			return MutationMsg{Err: err, Refresh: refresh}
		}
	}
	return nil
}

// deleteSelected removes the entry under the cursor on the active tab.
func (a App) deleteSelected() (tea.Model, tea.Cmd) {
	client := a.client

	switch a.activeTab {
	case 1:
		if a.incomeCursor >= len(a.income) {
			return a, nil
		}
		id := a.income[a.incomeCursor].ID
		refresh := []tea.Cmd{a.fetchIncome(), a.fetchSummary(), a.fetchRecent()}
		return a, func() tea.Msg {
			ctx, cancel := fetchCtx()
			defer cancel()
			return MutationMsg{Err: client.DeleteIncome(ctx, id), Refresh: refresh}
		}

	case 2:
		if a.expenseCursor >= len(a.expenses) {
			return a, nil
		}
		id := a.expenses[a.expenseCursor].ID
		refresh := []tea.Cmd{a.fetchExpenses(), a.fetchSummary(), a.fetchRecent()}
		return a, func() tea.Msg {
			ctx, cancel := fetchCtx()
			defer cancel()
			return MutationMsg{Err: client.DeleteExpense(ctx, id), Refresh: refresh}
		}

	case 3:
		if a.budgetCursor >= len(a.budgets) {
			return a, nil
		}
		id := a.budgets[a.budgetCursor].ID
		refresh := []tea.Cmd{a.fetchBudgets(), a.fetchSummary()}
		return a, func() tea.Msg {
			ctx, cancel := fetchCtx()
			defer cancel()
			return MutationMsg{Err: client.DeleteBudget(ctx, id), Refresh: refresh}
		}
	}
	return a, nil
}
