package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok123"))
	if _, err := c.ListIncome(context.Background()); err != nil {
		t.Fatalf("ListIncome: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want Bearer tok123", gotAuth)
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	// Empty token source and nil token source both stay unauthenticated
	for _, tokens := range []TokenSource{staticToken(""), nil} {
		c := New(srv.URL, tokens)
		if _, err := c.ListExpenses(context.Background()); err != nil {
			t.Fatalf("ListExpenses: %v", err)
		}
		if hadAuth {
			t.Error("Authorization header sent without a token")
		}
	}
}

func TestServerErrorMessageParsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "Token has expired"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.GetDashboardSummary(context.Background())
	if err == nil {
		t.Fatal("expected error on 401")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", apiErr.Status)
	}
	if apiErr.Error() != "Token has expired" {
		t.Errorf("Error() = %q, want server message", apiErr.Error())
	}
	if !IsUnauthorized(err) {
		t.Error("IsUnauthorized = false for a 401")
	}
}

func TestErrorWithoutBodyFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.ListBudgets(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.Error() != "server returned status 500" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
	if IsUnauthorized(err) {
		t.Error("IsUnauthorized = true for a 500")
	}
}

func TestIsUnauthorizedNonAPIError(t *testing.T) {
	if IsUnauthorized(errors.New("connection refused")) {
		t.Error("transport error must not count as unauthorized")
	}
	if IsUnauthorized(nil) {
		t.Error("nil must not count as unauthorized")
	}
}

func TestLoginPostsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "priya" || body["password"] != "secret" {
			t.Errorf("credentials not forwarded: %v", body)
		}
		_ = json.NewEncoder(w).Encode(LoginResponse{AccessToken: "tok", Username: "priya"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	resp, err := c.Login(context.Background(), "priya", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken != "tok" || resp.Username != "priya" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestIncomeAmountsDecodeAsDecimal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"_id":"a1","amount":1234.56,"source":"Salary","date":"2026-08-01"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	list, err := c.ListIncome(context.Background())
	if err != nil {
		t.Fatalf("ListIncome: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d records, want 1", len(list))
	}
	if !list[0].Amount.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("amount = %s, want 1234.56", list[0].Amount)
	}
}

func TestFilterQueryParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.FilterExpenses(context.Background(), ExpenseFilter{Category: "Food", From: "2026-08-01"})
	if err != nil {
		t.Fatalf("FilterExpenses: %v", err)
	}
	if gotQuery != "category=Food&from=2026-08-01" {
		t.Errorf("query = %q", gotQuery)
	}

	// Empty filter sends no query string at all
	_, err = c.FilterExpenses(context.Background(), ExpenseFilter{})
	if err != nil {
		t.Fatalf("FilterExpenses empty: %v", err)
	}
	if gotQuery != "" {
		t.Errorf("empty filter query = %q, want none", gotQuery)
	}
}

func TestExportReturnsRawBytes(t *testing.T) {
	payload := []byte{0x50, 0x4b, 0x03, 0x04, 0x00, 0x01} // zip magic, as xlsx starts
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	data, err := c.ExportIncome(context.Background())
	if err != nil {
		t.Fatalf("ExportIncome: %v", err)
	}
	if string(data) != string(payload) {
		t.Error("export bytes were modified in transit")
	}
}

func TestCategoriesUnwrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"categories":["Food","Transport"]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	cats, err := c.GetExpenseCategories(context.Background())
	if err != nil {
		t.Fatalf("GetExpenseCategories: %v", err)
	}
	if len(cats) != 2 || cats[0] != "Food" || cats[1] != "Transport" {
		t.Errorf("categories = %v", cats)
	}
}

func TestDeleteHitsIDPath(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "deleted"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	if err := c.DeleteExpense(context.Background(), "abc123"); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/expenses/abc123" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}
