package httpapi

import (
	"net/http"
	"strings"
	"time"

	"bankist.org/internal/audit"
	"bankist.org/internal/auth"
	"bankist.org/internal/bank"
	"bankist.org/internal/obs"
)

type loginRequest struct {
	LoginID string   `json:"login_id"`
	PIN     loosePIN `json:"pin"`
}

type loginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	View      bank.ViewState `json:"view"`
}

func (a *API) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.login(w, r)
	case http.MethodDelete:
		a.logout(w, r)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodDelete)
	}
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	loginID := strings.TrimSpace(req.LoginID)
	sess, err := a.engine.Authenticate(r.Context(), loginID, req.PIN.Int())
	if err != nil {
		obs.IntentObserved("login", "rejected")
		_ = audit.LogEvent(r.Context(), "session.login.rejected", map[string]any{
			"login_id": loginID,
		})
		handleBankError(w, r, err)
		return
	}

	tok, err := auth.GenerateToken(loginID, a.tokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}
	a.registerSession(tok.SessionID, sess)

	view, err := a.engine.View(sess)
	if err != nil {
		handleBankError(w, r, err)
		return
	}

	obs.IntentObserved("login", "ok")
	_ = audit.LogEvent(auth.ContextWithLogin(r.Context(), loginID), "session.login", map[string]any{
		"expires_at": tok.ExpiresAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     tok.Signed,
		ExpiresAt: tok.ExpiresAt,
		View:      view,
	})
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		writeError(w, r, http.StatusUnauthorized, "session expired")
		return
	}

	claims := tokenSessionID(r)
	if claims != "" {
		a.dropSession(claims)
	}
	a.engine.Logout(sess)

	_ = audit.LogEvent(r.Context(), "session.logout", nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "logged_out"})
}

// tokenSessionID re-reads the bearer token to find the registry key. The
// token was already validated by withAuth.
func tokenSessionID(r *http.Request) string {
	token, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		return ""
	}
	claims, err := auth.ParseAndValidate(token)
	if err != nil {
		return ""
	}
	return claims.ID
}
