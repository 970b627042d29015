// Package remote is a typed HTTP client for the bankist API, used by CLI
// tooling and smoke tests.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bankist.org/internal/bank"
)

// Client talks to a running bankist API. It holds the session token issued
// at login and sends it on every subsequent call.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type loginPayload struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	View      bank.ViewState `json:"view"`
}

// Login authenticates and stores the session token. Pin is passed through as
// entered; the server performs the numeric coercion.
func (c *Client) Login(ctx context.Context, loginID, pin string) (bank.ViewState, error) {
	var payload loginPayload
	err := c.call(ctx, http.MethodPost, "/v1/session", map[string]any{
		"login_id": loginID,
		"pin":      pin,
	}, &payload)
	if err != nil {
		return bank.ViewState{}, err
	}
	c.token = payload.Token
	return payload.View, nil
}

// View fetches the current view-state.
func (c *Client) View(ctx context.Context) (bank.ViewState, error) {
	var view bank.ViewState
	err := c.call(ctx, http.MethodGet, "/v1/view", nil, &view)
	return view, err
}

// Transfer sends amount to the account behind toLoginID and returns the
// refreshed sender view.
func (c *Client) Transfer(ctx context.Context, toLoginID string, amount decimal.Decimal) (bank.ViewState, error) {
	var view bank.ViewState
	err := c.call(ctx, http.MethodPost, "/v1/transfers", map[string]any{
		"to":     toLoginID,
		"amount": amount.String(),
	}, &view)
	return view, err
}

// RequestLoan asks for a loan and returns the refreshed view.
func (c *Client) RequestLoan(ctx context.Context, amount decimal.Decimal) (bank.ViewState, error) {
	var view bank.ViewState
	err := c.call(ctx, http.MethodPost, "/v1/loans", map[string]any{
		"amount": amount.String(),
	}, &view)
	return view, err
}

// ToggleSort flips the display order and returns the re-ordered view.
func (c *Client) ToggleSort(ctx context.Context) (bank.ViewState, error) {
	var view bank.ViewState
	err := c.call(ctx, http.MethodPost, "/v1/view/sort", nil, &view)
	return view, err
}

// CloseAccount confirms credentials and closes the active account.
func (c *Client) CloseAccount(ctx context.Context, confirmLoginID, confirmPIN string) error {
	err := c.call(ctx, http.MethodPost, "/v1/account/close", map[string]any{
		"confirm_login_id": confirmLoginID,
		"confirm_pin":      confirmPIN,
	}, nil)
	if err == nil {
		c.token = ""
	}
	return err
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.call(ctx, http.MethodDelete, "/v1/session", nil, nil)
	if err == nil {
		c.token = ""
	}
	return err
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(method, path, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func apiError(method, path string, resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("%s %s: %s (status %d)", method, path, payload.Error, resp.StatusCode)
	}
	return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
}
