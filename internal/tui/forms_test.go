package tui

import "testing"

func TestCategoryOptionsMergesDefaults(t *testing.T) {
	opts := categoryOptions([]string{"Food", "Rent", ""})

	want := append(append([]string{}, defaultCategories...), "Rent")
	if len(opts) != len(want) {
		t.Fatalf("got %d options, want %d", len(opts), len(want))
	}
	for i, w := range want {
		if opts[i].Value != w {
			t.Errorf("option %d = %q, want %q", i, opts[i].Value, w)
		}
	}
}

func TestCategoryOptionsNoServerCategories(t *testing.T) {
	opts := categoryOptions(nil)
	if len(opts) != len(defaultCategories) {
		t.Fatalf("got %d options, want the %d defaults", len(opts), len(defaultCategories))
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2500.00", false},
		{" 45 ", false},
		{"0", false},
		{"-10", true},
		{"abc", true},
		{"", true},
	}
	for _, tt := range tests {
		err := validateAmount(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateAmount(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestValidateOptionalDate(t *testing.T) {
	if err := validateOptionalDate(""); err != nil {
		t.Errorf("blank should pass: %v", err)
	}
	if err := validateOptionalDate("2026-08-30"); err != nil {
		t.Errorf("valid date should pass: %v", err)
	}
	if err := validateOptionalDate("tomorrow"); err == nil {
		t.Error("junk should fail")
	}
}
