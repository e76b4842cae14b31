// Package api provides the HTTP client for the SmartBudget REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	requestTimeout = 15 * time.Second
	maxBodySize    = 8 << 20 // exports are spreadsheets, allow a few MB
)

// TokenSource supplies the current bearer token. An empty string means the
// request is sent unauthenticated and the server decides what to do with it.
type TokenSource interface {
	Token() string
}

// APIError is a non-2xx response from the server, carrying the server's
// human-readable message when one was provided.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// IsUnauthorized reports whether err is an APIError with a 401/403 status.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// Client talks to the SmartBudget API. It performs no retries and no
// response caching; every call is a single round trip.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// New creates a client for the given base URL (e.g. http://host:5000/api).
// tokens may be nil, in which case all requests go out unauthenticated.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// do is the single interception point for all outbound requests. It attaches
// the current token snapshot as a bearer credential when one is present.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("api: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg serverMessage
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Msg
		}
		return nil, apiErr
	}

	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api: parsing %s response: %w", path, err)
	}
	return nil
}

// ─── Auth ───────────────────────────────────────────────────────

// Register creates a new account. Registration does not log the user in.
func (c *Client) Register(ctx context.Context, username, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"password": password,
	})
	return err
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	data, err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return LoginResponse{}, err
	}
	var resp LoginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return LoginResponse{}, fmt.Errorf("api: parsing login response: %w", err)
	}
	return resp, nil
}

// ─── Income ─────────────────────────────────────────────────────

// IncomeFilter narrows an income listing. Zero-value fields are omitted.
type IncomeFilter struct {
	Source string
	From   string // YYYY-MM-DD
	To     string
}

func (f IncomeFilter) values() url.Values {
	v := url.Values{}
	if f.Source != "" {
		v.Set("source", f.Source)
	}
	if f.From != "" {
		v.Set("from", f.From)
	}
	if f.To != "" {
		v.Set("to", f.To)
	}
	return v
}

// ListIncome returns all income records for the authenticated user.
func (c *Client) ListIncome(ctx context.Context) ([]Income, error) {
	var list []Income
	if err := c.getJSON(ctx, "/income", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// AddIncome records a new income transaction.
func (c *Client) AddIncome(ctx context.Context, in IncomeInput) error {
	_, err := c.do(ctx, http.MethodPost, "/income", in)
	return err
}

// UpdateIncome replaces the given fields of an existing income record.
func (c *Client) UpdateIncome(ctx context.Context, id string, in IncomeInput) error {
	_, err := c.do(ctx, http.MethodPut, "/income/"+url.PathEscape(id), in)
	return err
}

// DeleteIncome removes an income record by id.
func (c *Client) DeleteIncome(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/income/"+url.PathEscape(id), nil)
	return err
}

// ExportIncome returns the server-generated spreadsheet bytes unmodified.
func (c *Client) ExportIncome(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/income/export", nil)
}

// FilterIncome returns income records matching the filter.
func (c *Client) FilterIncome(ctx context.Context, f IncomeFilter) ([]Income, error) {
	var list []Income
	path := "/income/filter"
	if q := f.values().Encode(); q != "" {
		path += "?" + q
	}
	if err := c.getJSON(ctx, path, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ─── Expenses ───────────────────────────────────────────────────

// ExpenseFilter narrows an expense listing. Zero-value fields are omitted.
type ExpenseFilter struct {
	Category string
	From     string
	To       string
}

func (f ExpenseFilter) values() url.Values {
	v := url.Values{}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.From != "" {
		v.Set("from", f.From)
	}
	if f.To != "" {
		v.Set("to", f.To)
	}
	return v
}

// ListExpenses returns all expense records for the authenticated user.
func (c *Client) ListExpenses(ctx context.Context) ([]Expense, error) {
	var list []Expense
	if err := c.getJSON(ctx, "/expenses", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// AddExpense records a new expense transaction.
func (c *Client) AddExpense(ctx context.Context, in ExpenseInput) error {
	_, err := c.do(ctx, http.MethodPost, "/expenses", in)
	return err
}

// UpdateExpense replaces the given fields of an existing expense record.
func (c *Client) UpdateExpense(ctx context.Context, id string, in ExpenseInput) error {
	_, err := c.do(ctx, http.MethodPut, "/expenses/"+url.PathEscape(id), in)
	return err
}

// DeleteExpense removes an expense record by id.
func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/expenses/"+url.PathEscape(id), nil)
	return err
}

// ExportExpenses returns the server-generated spreadsheet bytes unmodified.
func (c *Client) ExportExpenses(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/expenses/export", nil)
}

// FilterExpenses returns expense records matching the filter.
func (c *Client) FilterExpenses(ctx context.Context, f ExpenseFilter) ([]Expense, error) {
	var list []Expense
	path := "/expenses/filter"
	if q := f.values().Encode(); q != "" {
		path += "?" + q
	}
	if err := c.getJSON(ctx, path, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ─── Budgets ────────────────────────────────────────────────────

// ListBudgets returns all configured budgets.
func (c *Client) ListBudgets(ctx context.Context) ([]Budget, error) {
	var list []Budget
	if err := c.getJSON(ctx, "/budgets", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetBudget adds or upserts a budget for a (category, period) pair.
func (c *Client) SetBudget(ctx context.Context, in BudgetInput) error {
	_, err := c.do(ctx, http.MethodPost, "/budgets", in)
	return err
}

// DeleteBudget removes a budget by id.
func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/budgets/"+url.PathEscape(id), nil)
	return err
}

// ─── Dashboard / transactions ───────────────────────────────────

// GetDashboardSummary fetches the server-computed dashboard aggregate.
func (c *Client) GetDashboardSummary(ctx context.Context) (DashboardSummary, error) {
	var s DashboardSummary
	if err := c.getJSON(ctx, "/dashboard/summary", &s); err != nil {
		return DashboardSummary{}, err
	}
	return s, nil
}

// GetRecentTransactions fetches the latest income and expense records.
func (c *Client) GetRecentTransactions(ctx context.Context) (RecentTransactions, error) {
	var r RecentTransactions
	if err := c.getJSON(ctx, "/transactions/recent", &r); err != nil {
		return RecentTransactions{}, err
	}
	return r, nil
}

// ─── Profile / categories / health ──────────────────────────────

// GetAvatar fetches the profile avatar.
func (c *Client) GetAvatar(ctx context.Context) (Avatar, error) {
	var a Avatar
	if err := c.getJSON(ctx, "/profile/avatar", &a); err != nil {
		return Avatar{}, err
	}
	return a, nil
}

// UpdateAvatar stores a new profile picture and emoji.
func (c *Client) UpdateAvatar(ctx context.Context, a Avatar) error {
	_, err := c.do(ctx, http.MethodPost, "/profile/avatar", a)
	return err
}

// GetExpenseCategories returns the user's distinct expense categories.
func (c *Client) GetExpenseCategories(ctx context.Context) ([]string, error) {
	var resp categoriesResponse
	if err := c.getJSON(ctx, "/expense-categories", &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// CheckHealth pings the server.
func (c *Client) CheckHealth(ctx context.Context) (Health, error) {
	var h Health
	if err := c.getJSON(ctx, "/health", &h); err != nil {
		return Health{}, err
	}
	return h, nil
}
