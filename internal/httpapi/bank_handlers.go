package httpapi

import (
	"net/http"
	"strings"
	"time"

	"bankist.org/internal/audit"
	"bankist.org/internal/bank"
	"bankist.org/internal/obs"
	"bankist.org/internal/stream"
)

type transferRequest struct {
	To     string      `json:"to"`
	Amount looseAmount `json:"amount"`
}

type loanRequest struct {
	Amount looseAmount `json:"amount"`
}

type closeRequest struct {
	ConfirmLoginID string   `json:"confirm_login_id"`
	ConfirmPIN     loosePIN `json:"confirm_pin"`
}

func (a *API) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	sess := sessionFromContext(r.Context())
	view, err := a.engine.View(sess)
	if err != nil {
		handleBankError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) handleSortToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	sess := sessionFromContext(r.Context())
	a.engine.ToggleSort(sess)

	view, err := a.engine.View(sess)
	if err != nil {
		handleBankError(w, r, err)
		return
	}
	obs.IntentObserved("sort_toggle", "ok")
	writeJSON(w, http.StatusOK, view)
}

func (a *API) handleTransfers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req transferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess := sessionFromContext(r.Context())
	to := strings.TrimSpace(req.To)
	amount := req.Amount.Decimal()

	if err := a.engine.Transfer(r.Context(), sess, to, amount); err != nil {
		obs.IntentObserved("transfer", "rejected")
		_ = audit.LogEvent(r.Context(), "bank.transfer.rejected", map[string]any{
			"to":     to,
			"amount": amount.String(),
			"reason": err.Error(),
		})
		handleBankError(w, r, err)
		return
	}

	if a.stream != nil {
		a.stream.Publish(stream.Event{
			Kind:      stream.KindTransfer,
			From:      sess.Account().LoginID,
			To:        to,
			Amount:    amount,
			Timestamp: time.Now().UTC(),
		})
	}
	obs.IntentObserved("transfer", "ok")
	_ = audit.LogEvent(r.Context(), "bank.transfer.execute", map[string]any{
		"to":     to,
		"amount": amount.String(),
	})

	a.respondWithView(w, r, sess)
}

func (a *API) handleLoans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess := sessionFromContext(r.Context())
	amount := req.Amount.Decimal()

	if err := a.engine.RequestLoan(r.Context(), sess, amount); err != nil {
		obs.IntentObserved("loan", "rejected")
		_ = audit.LogEvent(r.Context(), "bank.loan.rejected", map[string]any{
			"amount": amount.String(),
			"reason": err.Error(),
		})
		handleBankError(w, r, err)
		return
	}

	if a.stream != nil {
		a.stream.Publish(stream.Event{
			Kind:      stream.KindLoan,
			To:        sess.Account().LoginID,
			Amount:    amount,
			Timestamp: time.Now().UTC(),
		})
	}
	obs.IntentObserved("loan", "ok")
	_ = audit.LogEvent(r.Context(), "bank.loan.grant", map[string]any{
		"amount": amount.String(),
	})

	a.respondWithView(w, r, sess)
}

func (a *API) handleAccountClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req closeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess := sessionFromContext(r.Context())
	confirm := strings.TrimSpace(req.ConfirmLoginID)

	if err := a.engine.CloseAccount(r.Context(), sess, confirm, req.ConfirmPIN.Int()); err != nil {
		obs.IntentObserved("close", "rejected")
		_ = audit.LogEvent(r.Context(), "bank.account.close.rejected", map[string]any{
			"confirm_login_id": confirm,
		})
		handleBankError(w, r, err)
		return
	}

	if id := tokenSessionID(r); id != "" {
		a.dropSession(id)
	}
	obs.IntentObserved("close", "ok")
	_ = audit.LogEvent(r.Context(), "bank.account.close", map[string]any{
		"login_id": confirm,
	})

	writeJSON(w, http.StatusOK, map[string]any{"status": "closed"})
}

func (a *API) respondWithView(w http.ResponseWriter, r *http.Request, sess *bank.Session) {
	view, err := a.engine.View(sess)
	if err != nil {
		handleBankError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
