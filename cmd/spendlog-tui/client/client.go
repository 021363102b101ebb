package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"spendlog/internal/core"
)

// Session is the client's auth state. An empty token means unauthenticated.
type Session struct {
	Token     string
	ExpiresAt time.Time
	UserID    int64
	Username  string
	Email     string
}

func (s Session) Authenticated() bool { return s.Token != "" }

// APIError is a non-2xx response from the server, carrying the status code
// and the server's error message.
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

// IsUnauthorized reports whether err is a 401 response, meaning the session
// token is missing, invalid, or expired.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client talks to the expense API. It holds the current session; callers
// set it via Login and clear it via Logout.
type Client struct {
	baseURL string
	http    *http.Client
	session Session
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Session() Session { return c.session }

func (c *Client) Logout() { c.session = Session{} }

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

// Register creates an account. It does not log in; call Login afterwards.
func (c *Client) Register(username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.do(http.MethodPost, "/api/auth/register", body, nil)
}

// Login authenticates and stores the session on the client.
func (c *Client) Login(email, password string) (Session, error) {
	body := map[string]string{"email": email, "password": password}
	var resp loginResponse
	if err := c.do(http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return Session{}, err
	}
	c.session = Session{
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
		UserID:    resp.User.ID,
		Username:  resp.User.Username,
		Email:     resp.User.Email,
	}
	return c.session, nil
}

// expenseWire mirrors the server's expense JSON. Amounts travel as JSON
// numbers and are converted to cents locally, never through float64.
type expenseWire struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Category    string      `json:"category"`
}

func toWire(e core.Expense) expenseWire {
	return expenseWire{
		ID:          e.ID,
		Description: e.Description,
		Amount:      json.Number(e.Amount.DecimalString()),
		Date:        e.Date.String(),
		Category:    e.Category,
	}
}

func (w expenseWire) toExpense() (core.Expense, error) {
	cents, err := core.ParseDecimalToCents(w.Amount.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: %w", w.ID, err)
	}
	date, err := core.ParseDate(w.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: %w", w.ID, err)
	}
	return core.Expense{
		ID:          w.ID,
		Description: w.Description,
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Category:    w.Category,
	}, nil
}

func (c *Client) ListExpenses() ([]core.Expense, error) {
	var wires []expenseWire
	if err := c.do(http.MethodGet, "/api/expenses", nil, &wires); err != nil {
		return nil, err
	}
	out := make([]core.Expense, 0, len(wires))
	for _, w := range wires {
		e, err := w.toExpense()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *Client) CreateExpense(e core.Expense) (core.Expense, error) {
	var saved expenseWire
	if err := c.do(http.MethodPost, "/api/expenses", toWire(e), &saved); err != nil {
		return core.Expense{}, err
	}
	return saved.toExpense()
}

func (c *Client) UpdateExpense(e core.Expense) (core.Expense, error) {
	var saved expenseWire
	path := fmt.Sprintf("/api/expenses/%d", e.ID)
	if err := c.do(http.MethodPut, path, toWire(e), &saved); err != nil {
		return core.Expense{}, err
	}
	return saved.toExpense()
}

func (c *Client) DeleteExpense(id int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/expenses/%d", id), nil, nil)
}

// do sends one request and decodes the response into out when given.
// Non-2xx statuses become *APIError.
func (c *Client) do(method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return &APIError{Status: resp.StatusCode, Message: errResp.Error}
	}

	if out != nil {
		dec := json.NewDecoder(resp.Body)
		dec.UseNumber()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
