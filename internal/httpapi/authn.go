package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bankist.org/internal/auth"
	"bankist.org/internal/bank"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

const sessionCtxKey ctxKey = "bank_session"

// publicRoutes lists method+path pairs served without a session token.
var publicRoutes = map[string]struct{}{
	http.MethodPost + " /v1/session": {},
	http.MethodGet + " /healthz":     {},
	http.MethodGet + " /readyz":      {},
	http.MethodGet + " /metrics":     {},
	http.MethodGet + " /v1/info":     {},
	http.MethodGet + " /v1/stream":   {},
	http.MethodGet + " /":            {},
}

// withAuth resolves the bearer token to a live session and stores both the
// login id and the session in the request context.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicRoute(r) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := auth.ParseAndValidate(token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				writeError(w, r, http.StatusUnauthorized, "invalid token")
				return
			}
			writeError(w, r, http.StatusInternalServerError, "authentication error")
			return
		}

		sess := a.lookupSession(claims.ID)
		if sess == nil || !sess.LoggedIn() {
			a.dropSession(claims.ID)
			writeError(w, r, http.StatusUnauthorized, "session expired")
			return
		}

		ctx := auth.ContextWithLogin(r.Context(), claims.Subject)
		ctx = context.WithValue(ctx, sessionCtxKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) lookupSession(id string) *bank.Session {
	a.sessMu.Lock()
	defer a.sessMu.Unlock()
	return a.sessions[id]
}

func (a *API) registerSession(id string, sess *bank.Session) {
	a.sessMu.Lock()
	defer a.sessMu.Unlock()
	a.sessions[id] = sess
}

func (a *API) dropSession(id string) {
	a.sessMu.Lock()
	defer a.sessMu.Unlock()
	delete(a.sessions, id)
}

func sessionFromContext(ctx context.Context) *bank.Session {
	sess, _ := ctx.Value(sessionCtxKey).(*bank.Session)
	return sess
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicRoute(r *http.Request) bool {
	_, ok := publicRoutes[r.Method+" "+r.URL.Path]
	return ok
}
