package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"smartbudget/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsExactly(t *testing.T) {
	cases := []struct {
		total, n int
	}{
		{80, 3},
		{81, 3},
		{82, 3},
		{100, 4},
		{7, 5},
	}
	for _, tc := range cases {
		widths := LayoutRow(tc.total, tc.n)
		if len(widths) != tc.n {
			t.Fatalf("LayoutRow(%d, %d) returned %d widths", tc.total, tc.n, len(widths))
		}
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
}

func TestCardRowHeightMatchesTallest(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	if got := len(strings.Split(joined, "\n")); got != tallLines {
		t.Errorf("joined height %d, want tallest card height %d", got, tallLines)
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('i'); got != 1 {
		t.Errorf("'i' -> %d, want Income tab", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("unknown key -> %d, want -1", got)
	}
}

func TestLabeledBars(t *testing.T) {
	theme.SetActive("flexoki-dark")

	out := LabeledBars(
		[]string{"Food", "Transport"},
		[]float64{100, 50},
		[]string{"₹100.00", "₹50.00"},
		theme.Active.Red,
		50,
	)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("want one line per label, got %d", len(lines))
	}
	if !strings.Contains(out, "Food") || !strings.Contains(out, "₹100.00") {
		t.Errorf("output missing label or amount: %q", out)
	}

	if got := LabeledBars(nil, nil, nil, theme.Active.Red, 50); got != "" {
		t.Errorf("empty input should render nothing, got %q", got)
	}
}
