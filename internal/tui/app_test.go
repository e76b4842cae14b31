package tui

import (
	"errors"
	"testing"

	"smartbudget/internal/api"
	"smartbudget/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
)

func TestSlotFailureLeavesOtherSlotsPopulated(t *testing.T) {
	a := App{authed: true, pending: 4}

	feed := func(model App, msg tea.Msg) App {
		next, _ := model.Update(msg)
		return next.(App)
	}

	a = feed(a, IncomeMsg{List: []api.Income{{ID: "in1", Source: "Salary"}}})
	a = feed(a, ExpensesMsg{List: []api.Expense{{ID: "ex1", Category: "Food"}}})
	a = feed(a, RecentMsg{Err: errors.New("connection refused")})
	a = feed(a, SummaryMsg{Err: errors.New("connection refused")})

	if len(a.income) != 1 || a.incomeErr != "" {
		t.Errorf("income slot = %d entries, err %q; want 1 entry and no error", len(a.income), a.incomeErr)
	}
	if len(a.expenses) != 1 || a.expensesErr != "" {
		t.Errorf("expenses slot = %d entries, err %q; want 1 entry and no error", len(a.expenses), a.expensesErr)
	}
	if a.recent != nil {
		t.Error("failed recent fetch must not populate the slot")
	}
	if a.summaryErr == "" {
		t.Error("failed summary fetch should record its error")
	}
	if !a.authed {
		t.Error("a transport error must not drop the session")
	}
	if a.pending != 0 {
		t.Errorf("pending = %d after all slots reported, want 0", a.pending)
	}
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 1 // leading space

		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 2 // separator
		}
	}
}

func TestTabAtXOutside(t *testing.T) {
	a := App{}
	if got := a.tabAtX(0); got != -1 {
		t.Errorf("x=0 is the margin, got tab %d", got)
	}
	if got := a.tabAtX(10_000); got != -1 {
		t.Errorf("far x should miss all tabs, got %d", got)
	}
}

func TestListWindow(t *testing.T) {
	cases := []struct {
		name               string
		cursor, n, height  int
		wantStart, wantEnd int
	}{
		{"fits entirely", 0, 3, 10, 0, 3},
		{"cursor at top", 0, 20, 5, 0, 5},
		{"cursor centered", 10, 20, 5, 8, 13},
		{"cursor at bottom", 19, 20, 5, 15, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := listWindow(tc.cursor, tc.n, tc.height)
			if start != tc.wantStart || end != tc.wantEnd {
				t.Errorf("listWindow(%d, %d, %d) = [%d, %d), want [%d, %d)",
					tc.cursor, tc.n, tc.height, start, end, tc.wantStart, tc.wantEnd)
			}
			if tc.cursor < start || tc.cursor >= end {
				t.Errorf("cursor %d not visible in [%d, %d)", tc.cursor, start, end)
			}
		})
	}
}
