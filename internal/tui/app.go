// Package tui provides the interactive Bubble Tea dashboard for smartbudget.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"smartbudget/internal/api"
	"smartbudget/internal/config"
	"smartbudget/internal/report"
	"smartbudget/internal/session"
	"smartbudget/internal/tui/components"
	"smartbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Each data slot completes independently so a single failed request never
// blanks the rest of the screen.

// SummaryMsg carries the dashboard summary fetch result.
type SummaryMsg struct {
	Summary *api.DashboardSummary
	Err     error
}

// IncomeMsg carries the income list fetch result.
type IncomeMsg struct {
	List []api.Income
	Err  error
}

// ExpensesMsg carries the expense list fetch result.
type ExpensesMsg struct {
	List []api.Expense
	Err  error
}

// BudgetsMsg carries the budget list fetch result.
type BudgetsMsg struct {
	List []api.Budget
	Err  error
}

// RecentMsg carries the recent-transactions fetch result.
type RecentMsg struct {
	Recent *api.RecentTransactions
	Err    error
}

// AvatarMsg carries the profile avatar fetch result.
type AvatarMsg struct {
	Avatar *api.Avatar
	Err    error
}

// CategoriesMsg carries the expense category list.
type CategoriesMsg struct {
	Categories []string
	Err        error
}

// AuthDoneMsg reports the outcome of a login or register attempt.
type AuthDoneMsg struct {
	Result session.Result
}

// MutationMsg reports the outcome of an add/edit/delete request.
type MutationMsg struct {
	Err error
	// Slots to refetch on success.
	Refresh []tea.Cmd
}

// ExportMsg reports the outcome of a spreadsheet export.
type ExportMsg struct {
	Path string
	Err  error
}

type formKind int

const (
	formNone formKind = iota
	formIncome
	formExpense
	formBudget
	formAvatar
)

// App is the root Bubble Tea model.
type App struct {
	client *api.Client
	store  *session.Store
	cfg    config.Config

	// Data slots, each with its own error so failures stay local
	summary     *api.DashboardSummary
	summaryErr  string
	income      []api.Income
	incomeErr   string
	expenses    []api.Expense
	expensesErr string
	budgets     []api.Budget
	budgetsErr  string
	recent      *api.RecentTransactions
	avatar      *api.Avatar
	categories  []string

	pending int // in-flight fetches
	loaded  bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	status    string // transient one-line result (export path, errors)

	trendView report.TrendView

	incomeCursor  int
	expenseCursor int
	budgetCursor  int

	// Login gate: resolved before any tab renders
	authed   bool
	authForm *huh.Form
	authVals authValues
	authBusy bool

	// Entry forms (add/edit income, expense, budget, pick avatar)
	form        *huh.Form
	formKind    formKind
	editingID   string // non-empty while editing an existing entry
	incomeVals  incomeFormValues
	expenseVals expenseFormValues
	budgetVals  budgetFormValues
	avatarVals  avatarFormValues

	spinner spinner.Model
}

const (
	minTerminalWidth = 72
	maxContentWidth  = 160
	minContentHeight = 5

	fetchTimeout = 20 * time.Second
)

// NewApp creates the TUI model. The session store must already be
// initialized; the login gate shows whenever it holds no active session.
func NewApp(client *api.Client, store *session.Store, cfg config.Config) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	_, authed := store.Current()

	a := App{
		client:    client,
		store:     store,
		cfg:       cfg,
		authed:    authed,
		trendView: report.ParseTrendView(cfg.Dashboard.TrendView),
		spinner:   sp,
	}
	if !authed {
		a.authForm = newAuthForm(&a.authVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
	}
	if a.authed {
		var fetch []tea.Cmd
		a.pending, fetch = a.allFetches()
		cmds = append(cmds, fetch...)
	} else if a.authForm != nil {
		cmds = append(cmds, a.authForm.Init())
	}
	return tea.Batch(cmds...)
}

// allFetches returns one command per data slot plus the slot count.
func (a App) allFetches() (int, []tea.Cmd) {
	cmds := []tea.Cmd{
		a.fetchSummary(),
		a.fetchIncome(),
		a.fetchExpenses(),
		a.fetchBudgets(),
		a.fetchRecent(),
		a.fetchAvatar(),
		a.fetchCategories(),
	}
	return len(cmds), cmds
}

func fetchCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), fetchTimeout)
}

func (a App) fetchSummary() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		s, err := client.GetDashboardSummary(ctx)
		return SummaryMsg{Summary: &s, Err: err}
	}
}

func (a App) fetchIncome() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		list, err := client.ListIncome(ctx)
		return IncomeMsg{List: list, Err: err}
	}
}

func (a App) fetchExpenses() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		list, err := client.ListExpenses(ctx)
		return ExpensesMsg{List: list, Err: err}
	}
}

func (a App) fetchBudgets() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		list, err := client.ListBudgets(ctx)
		return BudgetsMsg{List: list, Err: err}
	}
}

func (a App) fetchRecent() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		r, err := client.GetRecentTransactions(ctx)
		return RecentMsg{Recent: &r, Err: err}
	}
}

func (a App) fetchAvatar() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		av, err := client.GetAvatar(ctx)
		return AvatarMsg{Avatar: &av, Err: err}
	}
}

func (a App) fetchCategories() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		cats, err := client.GetExpenseCategories(ctx)
		return CategoriesMsg{Categories: cats, Err: err}
	}
}

func (a *App) slotDone() {
	if a.pending > 0 {
		a.pending--
	}
	if a.pending == 0 {
		a.loaded = true
	}
}

// sessionExpired reports whether an error means the token went stale; the
// app drops back to the login gate instead of scattering 401 messages.
func (a *App) sessionExpired(err error) bool {
	if err == nil || !api.IsUnauthorized(err) {
		return false
	}
	a.store.Logout()
	a.authed = false
	a.authBusy = false
	a.authVals = authValues{}
	a.authForm = newAuthForm(&a.authVals)
	a.status = "Session expired, sign in again"
	return true
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.authForm != nil {
			a.authForm = a.authForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.form != nil {
			a.form = a.form.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.authed || a.form != nil || a.showHelp {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
			return a, nil
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
			return a, nil
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)

	case AuthDoneMsg:
		a.authBusy = false
		if !msg.Result.OK {
			a.status = msg.Result.Err
			a.authVals.password = ""
			a.authForm = newAuthForm(&a.authVals)
			cmd := a.authForm.Init()
			if a.width > 0 {
				a.authForm = a.authForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, cmd
		}
		a.authed = true
		a.authForm = nil
		a.status = ""
		var fetch []tea.Cmd
		a.pending, fetch = a.allFetches()
		return a, tea.Batch(fetch...)

	case SummaryMsg:
		a.slotDone()
		if a.sessionExpired(msg.Err) {
			return a, nil
		}
		a.summaryErr = errText(msg.Err)
		if msg.Err == nil {
			a.summary = msg.Summary
		}
		return a, nil

	case IncomeMsg:
		a.slotDone()
		if a.sessionExpired(msg.Err) {
			return a, nil
		}
		a.incomeErr = errText(msg.Err)
		if msg.Err == nil {
			a.income = msg.List
			if a.incomeCursor >= len(a.income) {
				a.incomeCursor = max(0, len(a.income)-1)
			}
		}
		return a, nil

	case ExpensesMsg:
		a.slotDone()
		if a.sessionExpired(msg.Err) {
			return a, nil
		}
		a.expensesErr = errText(msg.Err)
		if msg.Err == nil {
			a.expenses = msg.List
			if a.expenseCursor >= len(a.expenses) {
				a.expenseCursor = max(0, len(a.expenses)-1)
			}
		}
		return a, nil

	case BudgetsMsg:
		a.slotDone()
		if a.sessionExpired(msg.Err) {
			return a, nil
		}
		a.budgetsErr = errText(msg.Err)
		if msg.Err == nil {
			a.budgets = msg.List
			if a.budgetCursor >= len(a.budgets) {
				a.budgetCursor = max(0, len(a.budgets)-1)
			}
		}
		return a, nil

	case RecentMsg:
		a.slotDone()
		if a.sessionExpired(msg.Err) {
			return a, nil
		}
		if msg.Err == nil {
			a.recent = msg.Recent
		}
		return a, nil

	case AvatarMsg:
		a.slotDone()
		if a.sessionExpired(msg.Err) {
			return a, nil
		}
		if msg.Err == nil {
			a.avatar = msg.Avatar
		}
		return a, nil

	case CategoriesMsg:
		a.slotDone()
		if msg.Err == nil {
			a.categories = msg.Categories
		}
		return a, nil

	case MutationMsg:
		if a.sessionExpired(msg.Err) {
			return a, nil
		}
		if msg.Err != nil {
			a.status = msg.Err.Error()
			return a, nil
		}
		a.status = ""
		a.pending += len(msg.Refresh)
		return a, tea.Batch(msg.Refresh...)

	case ExportMsg:
		if a.sessionExpired(msg.Err) {
			return a, nil
		}
		if msg.Err != nil {
			a.status = "Export failed: " + msg.Err.Error()
		} else {
			a.status = "Saved " + msg.Path
		}
		return a, nil

	case spinner.TickMsg:
		if a.authed && !a.loaded || a.authBusy {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to whichever form is active (cursor
	// blinks, etc.)
	if !a.authed && a.authForm != nil && !a.authBusy {
		return a.updateAuthForm(msg)
	}
	if a.form != nil {
		return a.updateEntryForm(msg)
	}

	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// Login gate intercepts all keys
	if !a.authed {
		if a.authBusy {
			return a, nil
		}
		return a.updateAuthForm(msg)
	}

	// Active entry form intercepts all keys
	if a.form != nil {
		return a.updateEntryForm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit

	case "r":
		var fetch []tea.Cmd
		a.pending, fetch = a.allFetches()
		a.status = ""
		return a, tea.Batch(fetch...)

	case "j", "down":
		a.moveCursor(1)
		return a, nil
	case "k", "up":
		a.moveCursor(-1)
		return a, nil

	case "w":
		// Cycle the trend window on the dashboard
		if a.activeTab == 0 {
			switch a.trendView {
			case report.ViewWeekly:
				a.trendView = report.ViewMonthly
			case report.ViewMonthly:
				a.trendView = report.ViewYearly
			default:
				a.trendView = report.ViewWeekly
			}
		}
		return a, nil

	case "a":
		return a.openAddForm()

	case "enter":
		return a.openEditForm()

	case "x":
		return a.deleteSelected()

	case "s":
		switch a.activeTab {
		case 1:
			return a, a.exportCmd("income.xlsx", a.client.ExportIncome)
		case 2:
			return a, a.exportCmd("expenses.xlsx", a.client.ExportExpenses)
		}
		return a, nil

	case "l":
		if a.activeTab == 4 {
			a.store.Logout()
			a.authed = false
			a.authVals = authValues{}
			a.authForm = newAuthForm(&a.authVals)
			a.status = ""
			cmd := a.authForm.Init()
			if a.width > 0 {
				a.authForm = a.authForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, cmd
		}
		return a, nil
	}

	// Tab navigation
	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}
	switch key {
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	}
	return a, nil
}

func (a *App) moveCursor(delta int) {
	clamp := func(cur, n int) int {
		cur += delta
		if cur > n-1 {
			cur = n - 1
		}
		if cur < 0 {
			cur = 0
		}
		return cur
	}
	switch a.activeTab {
	case 1:
		a.incomeCursor = clamp(a.incomeCursor, len(a.income))
	case 2:
		a.expenseCursor = clamp(a.expenseCursor, len(a.expenses))
	case 3:
		a.budgetCursor = clamp(a.budgetCursor, len(a.budgets))
	}
}

func (a App) updateAuthForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.authForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.authForm = f
	}

	if a.authForm.State == huh.StateCompleted {
		a.authBusy = true
		a.status = ""
		return a, tea.Batch(a.spinner.Tick, a.authCmd())
	}
	if a.authForm.State == huh.StateAborted {
		return a, tea.Quit
	}
	return a, cmd
}

func (a App) authCmd() tea.Cmd {
	store := a.store
	vals := a.authVals
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		if vals.mode == authModeRegister {
			if res := store.Register(ctx, vals.username, vals.password); !res.OK {
				return AuthDoneMsg{Result: res}
			}
		}
		return AuthDoneMsg{Result: store.Login(ctx, vals.username, vals.password)}
	}
}

func (a App) updateEntryForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		kind := a.formKind
		id := a.editingID
		a.form = nil
		a.formKind = formNone
		a.editingID = ""
		return a, a.submitForm(kind, id)
	}
	if a.form.State == huh.StateAborted {
		a.form = nil
		a.formKind = formNone
		a.editingID = ""
		return a, nil
	}
	return a, cmd
}

// contentWidth caps the layout width on very wide terminals.
func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf(
			"\n  Terminal too narrow (%d cols)\n\n  smartbudget needs at least %d columns.\n",
			a.width, minTerminalWidth,
		)
	}

	if !a.authed {
		return a.viewAuth()
	}
	if a.authBusy {
		return a.viewBusy("Signing in...")
	}
	if !a.loaded {
		return a.viewBusy("Loading your finances...")
	}
	if a.form != nil {
		return a.form.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewAuth() string {
	if a.authBusy || a.authForm == nil {
		return a.viewBusy("Signing in...")
	}

	t := theme.Active
	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true)
	errStyle := lipgloss.NewStyle().
		Foreground(t.Red)

	var b strings.Builder
	b.WriteString("\n ")
	b.WriteString(titleStyle.Render("◈ smartbudget"))
	b.WriteString("\n\n")
	b.WriteString(a.authForm.View())
	if a.status != "" {
		b.WriteString("\n ")
		b.WriteString(errStyle.Render(a.status))
	}
	return b.String()
}

func (a App) viewBusy(label string) string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	card := cardStyle.Render(a.spinner.View() + " " + label)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	bindings := []struct{ key, desc string }{
		{"d i e b p", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Move selection"},
		{"a", "Add entry"},
		{"enter", "Edit selected entry"},
		{"x", "Delete selected entry"},
		{"s", "Export tab to spreadsheet"},
		{"w", "Cycle trend window (dashboard)"},
		{"l", "Log out (profile tab)"},
		{"r", "Refresh all data"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n"

	username := ""
	if sess, ok := a.store.Current(); ok {
		username = sess.Username
	}
	statusBar := components.RenderStatusBar(w, username)

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	statusLineH := 0
	statusLine := ""
	if a.status != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Orange).Render(" " + a.status)
		statusLineH = 1
	}

	contentH := h - headerH - statusH - statusLineH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case 0:
		content = a.renderDashboardTab(cw)
	case 1:
		content = a.renderIncomeTab(cw, contentH)
	case 2:
		content = a.renderExpensesTab(cw, contentH)
	case 3:
		content = a.renderBudgetTab(cw)
	case 4:
		content = a.renderProfileTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content)

	parts := []string{header, content}
	if statusLine != "" {
		parts = append(parts, statusLine)
	}
	parts = append(parts, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// ─── Helpers ────────────────────────────────────────────────────

// exportCmd downloads a spreadsheet export and writes it to path in the
// working directory, byte for byte as the server sent it.
func (a App) exportCmd(path string, fetch func(context.Context) ([]byte, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		data, err := fetch(ctx)
		if err != nil {
			return ExportMsg{Path: path, Err: err}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return ExportMsg{Path: path, Err: err}
		}
		return ExportMsg{Path: path}
	}
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 1 // leading space before the first tab
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 2 // two-space separator
	}
	return -1
}
