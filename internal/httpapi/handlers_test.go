package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bankist.org/internal/auth"
	"bankist.org/internal/bank"
	"bankist.org/internal/config"
	"bankist.org/internal/stream"
)

type apiClient struct {
	baseURL string
	client  *http.Client
	t       *testing.T
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()

	t.Setenv("BANKIST_AUTH_SECRET", "test-secret")
	auth.ResetSecretForTests()
	t.Cleanup(auth.ResetSecretForTests)

	store, err := bank.NewDemoStore()
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	cfg := config.Default()
	cfg.RateLimit.Burst = 1000
	cfg.RateLimit.PerSecond = 1000

	api := New(bank.NewEngine(store), stream.New(), "test", cfg)

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &apiClient{
		baseURL: srv.URL,
		client:  srv.Client(),
		t:       t,
	}
}

func (c *apiClient) do(method, path string, body any, token string) *http.Response {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) login(loginID string, pin any) (string, bank.ViewState) {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/v1/session", map[string]any{
		"login_id": loginID,
		"pin":      pin,
	}, "")
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("login status: %d", resp.StatusCode)
	}
	payload := decode[loginResponse](c.t, resp)
	if payload.Token == "" {
		c.t.Fatal("empty session token")
	}
	return payload.Token, payload.View
}

func decode[T any](t *testing.T, r *http.Response) T {
	t.Helper()
	defer r.Body.Close()
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestLoginReturnsFullView(t *testing.T) {
	c := newTestAPI(t)

	// The pin arrives as a string; numeric coercion must still authenticate.
	_, view := c.login("js", "1111")

	if view.Greeting != "Welcome back, Jonas" {
		t.Fatalf("unexpected greeting: %q", view.Greeting)
	}
	if len(view.Rows) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(view.Rows))
	}
	if view.Sorted {
		t.Fatal("fresh login must be unsorted")
	}
	if view.Balance.String() != "3840" {
		t.Fatalf("unexpected balance: %s", view.Balance)
	}
	if view.TotalIn.String() != "5020" || view.TotalOut.String() != "1180" {
		t.Fatalf("unexpected summary: in=%s out=%s", view.TotalIn, view.TotalOut)
	}
	if view.TotalInterest.String() != "59.4" {
		t.Fatalf("unexpected interest: %s", view.TotalInterest)
	}
}

func TestLoginRejections(t *testing.T) {
	c := newTestAPI(t)

	cases := []map[string]any{
		{"login_id": "js", "pin": 9999},
		{"login_id": "zz", "pin": 1111},
		{"login_id": "js", "pin": "not-a-pin"},
	}
	for _, body := range cases {
		resp := c.do(http.MethodPost, "/v1/session", body, "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("body %v: expected 401, got %d", body, resp.StatusCode)
		}
	}
}

func TestViewRequiresToken(t *testing.T) {
	c := newTestAPI(t)

	resp := c.do(http.MethodGet, "/v1/view", nil, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	resp = c.do(http.MethodGet, "/v1/view", nil, "not-a-token")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for junk token, got %d", resp.StatusCode)
	}
}

func TestTransferFlow(t *testing.T) {
	c := newTestAPI(t)
	token, _ := c.login("js", 1111)

	// Amount as string exercises the raw-field coercion path.
	resp := c.do(http.MethodPost, "/v1/transfers", map[string]any{
		"to":     "jd",
		"amount": "500",
	}, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("transfer status: %d", resp.StatusCode)
	}
	view := decode[bank.ViewState](t, resp)
	if view.Balance.String() != "3340" {
		t.Fatalf("sender balance after transfer: %s", view.Balance)
	}
	last := view.Rows[len(view.Rows)-1]
	if last.Type != bank.MovementWithdrawal || last.Amount.String() != "-500" {
		t.Fatalf("unexpected last row: %+v", last)
	}

	// Receiver sees the matching inflow.
	_, jdView := c.login("jd", 2222)
	jdLast := jdView.Rows[len(jdView.Rows)-1]
	if jdLast.Type != bank.MovementDeposit || jdLast.Amount.String() != "500" {
		t.Fatalf("unexpected receiver row: %+v", jdLast)
	}
}

func TestTransferRejections(t *testing.T) {
	c := newTestAPI(t)
	token, before := c.login("js", 1111)

	cases := []struct {
		body   map[string]any
		status int
	}{
		{map[string]any{"to": "jd", "amount": 0}, http.StatusBadRequest},
		{map[string]any{"to": "jd", "amount": "junk"}, http.StatusBadRequest},
		{map[string]any{"to": "zz", "amount": 100}, http.StatusNotFound},
		{map[string]any{"to": "js", "amount": 100}, http.StatusUnprocessableEntity},
		{map[string]any{"to": "jd", "amount": 1000000}, http.StatusConflict},
	}
	for _, tc := range cases {
		resp := c.do(http.MethodPost, "/v1/transfers", tc.body, token)
		resp.Body.Close()
		if resp.StatusCode != tc.status {
			t.Fatalf("body %v: expected %d, got %d", tc.body, tc.status, resp.StatusCode)
		}
	}

	resp := c.do(http.MethodGet, "/v1/view", nil, token)
	after := decode[bank.ViewState](t, resp)
	if after.Balance.String() != before.Balance.String() || len(after.Rows) != len(before.Rows) {
		t.Fatal("rejected transfers mutated the account")
	}
}

func TestLoanFlow(t *testing.T) {
	c := newTestAPI(t)
	token, _ := c.login("js", 1111)

	resp := c.do(http.MethodPost, "/v1/loans", map[string]any{"amount": 1000}, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("loan status: %d", resp.StatusCode)
	}
	view := decode[bank.ViewState](t, resp)
	if view.Balance.String() != "4840" {
		t.Fatalf("balance after loan: %s", view.Balance)
	}

	// Sarah's largest movement is 1000, so a 20000 loan misses the 10% rule.
	token2, _ := c.login("ss", 4444)
	resp = c.do(http.MethodPost, "/v1/loans", map[string]any{"amount": 20000}, token2)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestSortToggle(t *testing.T) {
	c := newTestAPI(t)
	token, unsorted := c.login("stw", 3333)

	resp := c.do(http.MethodPost, "/v1/view/sort", nil, token)
	view := decode[bank.ViewState](t, resp)
	if !view.Sorted {
		t.Fatal("expected sorted view")
	}
	for i := 1; i < len(view.Rows); i++ {
		if view.Rows[i].Amount.LessThan(view.Rows[i-1].Amount) {
			t.Fatalf("rows not ascending at %d", i)
		}
	}

	resp = c.do(http.MethodPost, "/v1/view/sort", nil, token)
	view = decode[bank.ViewState](t, resp)
	if view.Sorted {
		t.Fatal("second toggle should restore insertion order")
	}
	for i := range view.Rows {
		if view.Rows[i].Amount.String() != unsorted.Rows[i].Amount.String() {
			t.Fatalf("row %d differs from insertion order", i)
		}
	}
}

func TestCloseAccount(t *testing.T) {
	c := newTestAPI(t)
	token, _ := c.login("jd", 2222)

	// Wrong confirmation pin declines and keeps the session alive.
	resp := c.do(http.MethodPost, "/v1/account/close", map[string]any{
		"confirm_login_id": "jd",
		"confirm_pin":      1234,
	}, token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	resp = c.do(http.MethodPost, "/v1/account/close", map[string]any{
		"confirm_login_id": "jd",
		"confirm_pin":      "2222",
	}, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("close status: %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Token is dead and so are the credentials.
	resp = c.do(http.MethodGet, "/v1/view", nil, token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after closure, got %d", resp.StatusCode)
	}
	resp = c.do(http.MethodPost, "/v1/session", map[string]any{"login_id": "jd", "pin": 2222}, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("closed account still logs in: %d", resp.StatusCode)
	}
}

func TestLogout(t *testing.T) {
	c := newTestAPI(t)
	token, _ := c.login("js", 1111)

	resp := c.do(http.MethodDelete, "/v1/session", nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = c.do(http.MethodGet, "/v1/view", nil, token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	c := newTestAPI(t)

	resp := c.do(http.MethodGet, "/healthz", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status: %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["service"] != serviceName {
		t.Fatalf("unexpected service: %v", body["service"])
	}
}
