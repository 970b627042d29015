package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"bankist.org/internal/bank"
	"bankist.org/internal/config"
	"bankist.org/internal/obs"
	"bankist.org/internal/stream"
)

const serviceName = "bankist-api"

// API is the HTTP presentation port over the bank engine. It owns the
// session registry keyed by token session id.
type API struct {
	mux     *http.ServeMux
	engine  *bank.Engine
	stream  *stream.Stream
	version string

	tokenTTL     time.Duration
	maxBodyBytes int64
	rateBurst    int
	ratePerSec   int

	sessMu   sync.Mutex
	sessions map[string]*bank.Session
}

// New wires the routes over the engine.
func New(engine *bank.Engine, st *stream.Stream, version string, cfg config.Config) *API {
	a := &API{
		mux:          http.NewServeMux(),
		engine:       engine,
		stream:       st,
		version:      version,
		tokenTTL:     cfg.TokenTTL(),
		maxBodyBytes: cfg.Server.MaxBodyBytes,
		rateBurst:    cfg.RateLimit.Burst,
		ratePerSec:   cfg.RateLimit.PerSecond,
		sessions:     make(map[string]*bank.Session),
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	a.mux.HandleFunc("/v1/session", a.handleSession)
	a.mux.HandleFunc("/v1/view", a.handleView)
	a.mux.HandleFunc("/v1/view/sort", a.handleSortToggle)
	a.mux.HandleFunc("/v1/transfers", a.handleTransfers)
	a.mux.HandleFunc("/v1/loans", a.handleLoans)
	a.mux.HandleFunc("/v1/account/close", a.handleAccountClose)
	a.mux.HandleFunc("/v1/stream", a.Stream)

	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = a.withAuth(h)
	h = obs.Instrument(h)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = LoggingJSON(h)
	h = RequestID(h)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = CORS(h)
	h = SecurityHeaders(h)
	return h
}

// --- ops handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	// The account store is in memory and seeded at startup; once the server
	// answers, it is ready.
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    serviceName,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

// handleBankError maps engine rejections onto HTTP statuses. The engine
// itself never partially mutates state, so every non-nil error here means the
// request was a no-op.
func handleBankError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, bank.ErrInvalidAmount):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, bank.ErrInvalidCredentials), errors.Is(err, bank.ErrNotLoggedIn):
		writeError(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, bank.ErrNoAccount):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, bank.ErrSelfTransfer):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, bank.ErrInsufficientFunds), errors.Is(err, bank.ErrLoanRefused):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
