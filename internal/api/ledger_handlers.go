package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/money"
	"github.com/splitledger/splitledger/internal/notify"
)

// groupBalance replays the group's active expenses and recorded
// settlements through the engine.
func (h *Handlers) groupBalance(r *http.Request, groupID string) (ledger.Balance, error) {
	expenses, err := h.store.ListExpensesByGroup(r.Context(), groupID, true)
	if err != nil {
		return nil, err
	}
	facts := make([]ledger.ExpenseFact, 0, len(expenses))
	for _, e := range expenses {
		facts = append(facts, e.Fact())
	}

	balance, err := ledger.Aggregate(facts)
	if err != nil {
		return nil, err
	}

	settlements, err := h.store.ListSettlementsByGroup(r.Context(), groupID)
	if err != nil {
		return nil, err
	}
	settled := make([]ledger.SettlementFact, 0, len(settlements))
	for _, s := range settlements {
		settled = append(settled, s.Fact())
	}
	ledger.ApplySettlements(balance, settled)

	return balance, nil
}

// --- GetBalance ---

func (h *Handlers) GetBalance(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if _, ok := h.requireMember(w, r, groupID, middleware.GetUserID(r.Context())); !ok {
		return
	}

	balance, err := h.groupBalance(r, groupID)
	if err != nil {
		// Aggregation only fails on drifted stored shares, which is a
		// data problem, not a bad request.
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	transfers, err := ledger.Optimize(balance)
	if err != nil {
		// Conservation violations mean corrupted stored data, not bad input.
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var totalOwed money.Money
	for _, v := range balance {
		if v.IsPositive() {
			totalOwed = totalOwed.Add(v)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"balances":            balance,
		"suggested_transfers": transfers,
		"total_outstanding":   totalOwed,
	})
}

// --- GetPairwiseDebt ---

func (h *Handlers) GetPairwiseDebt(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	creditorID := chi.URLParam(r, "userID")
	debtorID := middleware.GetUserID(r.Context())

	if _, ok := h.requireMember(w, r, groupID, debtorID); !ok {
		return
	}

	expenses, err := h.store.ListExpensesByGroup(r.Context(), groupID, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	facts := make([]ledger.ExpenseFact, 0, len(expenses))
	for _, e := range expenses {
		facts = append(facts, e.Fact())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"debtor":   debtorID,
		"creditor": creditorID,
		"amount":   ledger.PairwiseDebt(debtorID, creditorID, facts),
	})
}

// --- CreateSettlement ---

type settlementRequest struct {
	FromUserID    string      `json:"from_user_id"`
	ToUserID      string      `json:"to_user_id"`
	Amount        money.Money `json:"amount"`
	PaymentMethod string      `json:"payment_method"`
	Note          string      `json:"note"`
}

func (h *Handlers) CreateSettlement(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	callerID := middleware.GetUserID(r.Context())
	if _, ok := h.requireMember(w, r, groupID, callerID); !ok {
		return
	}

	var req settlementRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FromUserID == "" {
		req.FromUserID = callerID
	}
	if req.ToUserID == "" {
		writeError(w, http.StatusBadRequest, "to_user_id is required")
		return
	}
	if req.FromUserID == req.ToUserID {
		writeError(w, http.StatusBadRequest, "cannot settle with yourself")
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	for _, userID := range []string{req.FromUserID, req.ToUserID} {
		m, err := h.store.GetMembership(r.Context(), groupID, userID)
		if err != nil || !m.IsActive {
			writeError(w, http.StatusBadRequest, "user "+userID+" is not an active member of this group")
			return
		}
	}

	settlement := &models.Settlement{
		GroupID:       groupID,
		FromUserID:    req.FromUserID,
		ToUserID:      req.ToUserID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
		CreatedBy:     callerID,
	}
	if err := h.store.CreateSettlement(r.Context(), settlement); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, settlement)
}

// --- ListSettlements ---

func (h *Handlers) ListSettlements(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if _, ok := h.requireMember(w, r, groupID, middleware.GetUserID(r.Context())); !ok {
		return
	}

	settlements, err := h.store.ListSettlementsByGroup(r.Context(), groupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"settlements": settlements,
		"total":       len(settlements),
	})
}

// --- SendReminder ---

type reminderRequest struct {
	UserID        string `json:"user_id"`
	Tone          string `json:"tone"`
	CustomMessage string `json:"custom_message"`
}

func (h *Handlers) SendReminder(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	callerID := middleware.GetUserID(r.Context())

	membership, ok := h.requireMember(w, r, groupID, callerID)
	if !ok {
		return
	}
	if !membership.IsAdmin() {
		writeError(w, http.StatusForbidden, "only group admins can send payment reminders")
		return
	}

	var req reminderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if m, err := h.store.GetMembership(r.Context(), groupID, req.UserID); err != nil || !m.IsActive {
		writeError(w, http.StatusNotFound, "target user is not a member of this group")
		return
	}

	balance, err := h.groupBalance(r, groupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	owed := balance[req.UserID]
	if !owed.IsNegative() {
		writeError(w, http.StatusBadRequest, "user has no outstanding balance")
		return
	}

	target, err := h.store.GetUserByID(r.Context(), req.UserID)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	sender, err := h.store.GetUserByID(r.Context(), callerID)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	group, err := h.store.GetGroup(r.Context(), groupID)
	if err != nil {
		writeError(w, http.StatusNotFound, "group not found")
		return
	}

	body := notify.ReminderMessage(target.FullName, group.Name, owed.Neg(), sender.FullName, req.Tone, req.CustomMessage)
	smsID, err := h.sms.Send(r.Context(), target.Phone, body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to send SMS: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "payment reminder sent",
		"details": map[string]any{
			"recipient": target.FullName,
			"amount":    owed.Neg(),
			"tone":      req.Tone,
			"sms_id":    smsID,
		},
	})
}
