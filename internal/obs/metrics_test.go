package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                        "/",
		"/metrics":                "/metrics",
		"/v1/session":             "/v1/session",
		"/v1/view/sort":           "/v1/view/sort",
		"/v1/transfers?verbose=1": "/v1/transfers",
		"/v1/accounts/abc":        "/other",
		"/favicon.ico":            "/other",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
