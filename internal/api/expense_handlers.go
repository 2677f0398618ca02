package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/money"
	"github.com/splitledger/splitledger/internal/storage"
)

type shareInput struct {
	UserID string      `json:"user_id"`
	Amount money.Money `json:"amount"`
}

type percentInput struct {
	UserID  string          `json:"user_id"`
	Percent decimal.Decimal `json:"percent"`
}

type expenseRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Amount      money.Money        `json:"amount"`
	PaidBy      string             `json:"paid_by"`
	SplitMethod ledger.SplitMethod `json:"split_method"`
	ExpenseDate int64              `json:"expense_date"`

	// Participants drives equal splits; Shares and Percentages drive the
	// exact and percentage methods.
	Participants []string       `json:"participants,omitempty"`
	Shares       []shareInput   `json:"shares,omitempty"`
	Percentages  []percentInput `json:"percentages,omitempty"`
}

// policy assembles the split policy described by the request.
func (req *expenseRequest) policy() ledger.SplitPolicy {
	p := ledger.SplitPolicy{
		Method:       req.SplitMethod,
		Participants: req.Participants,
	}
	for _, s := range req.Shares {
		p.Amounts = append(p.Amounts, ledger.Share{UserID: s.UserID, Amount: s.Amount})
	}
	for _, s := range req.Percentages {
		p.Percentages = append(p.Percentages, ledger.PercentShare{UserID: s.UserID, Percent: s.Percent})
	}
	return p
}

// splitUserIDs returns every user the policy touches, for membership checks.
func (req *expenseRequest) splitUserIDs() []string {
	ids := append([]string{}, req.Participants...)
	for _, s := range req.Shares {
		ids = append(ids, s.UserID)
	}
	for _, s := range req.Percentages {
		ids = append(ids, s.UserID)
	}
	return ids
}

// buildExpense validates the request against the group and computes the
// participant shares. Returned errors are client errors.
func (h *Handlers) buildExpense(w http.ResponseWriter, r *http.Request, groupID string, req *expenseRequest) (*models.Expense, bool) {
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return nil, false
	}
	if req.PaidBy == "" {
		req.PaidBy = middleware.GetUserID(r.Context())
	}

	for _, userID := range append(req.splitUserIDs(), req.PaidBy) {
		m, err := h.store.GetMembership(r.Context(), groupID, userID)
		if err != nil || !m.IsActive {
			writeError(w, http.StatusBadRequest, "user "+userID+" is not an active member of this group")
			return nil, false
		}
	}

	shares, err := ledger.Split(req.Amount, req.policy())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	return &models.Expense{
		GroupID:      groupID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Amount:       req.Amount,
		PaidBy:       req.PaidBy,
		CreatedBy:    middleware.GetUserID(r.Context()),
		SplitMethod:  req.SplitMethod,
		Participants: shares,
		ExpenseDate:  req.ExpenseDate,
	}, true
}

// --- CreateExpense ---

func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if _, ok := h.requireMember(w, r, groupID, middleware.GetUserID(r.Context())); !ok {
		return
	}

	var req expenseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	expense, ok := h.buildExpense(w, r, groupID, &req)
	if !ok {
		return
	}

	if err := h.store.CreateExpense(r.Context(), expense); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, expense)
}

// --- GetExpense ---

func (h *Handlers) GetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := h.store.GetExpense(r.Context(), chi.URLParam(r, "expenseID"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, ok := h.requireMember(w, r, expense.GroupID, middleware.GetUserID(r.Context())); !ok {
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

// --- UpdateExpense ---

func (h *Handlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	existing, err := h.store.GetExpense(r.Context(), chi.URLParam(r, "expenseID"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !existing.IsActive {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}

	if _, ok := h.requireMember(w, r, existing.GroupID, middleware.GetUserID(r.Context())); !ok {
		return
	}

	var req expenseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	expense, ok := h.buildExpense(w, r, existing.GroupID, &req)
	if !ok {
		return
	}
	expense.ID = existing.ID
	expense.CreatedBy = existing.CreatedBy
	expense.CreatedAt = existing.CreatedAt
	expense.IsActive = true
	if expense.ExpenseDate == 0 {
		expense.ExpenseDate = existing.ExpenseDate
	}

	if err := h.store.UpdateExpense(r.Context(), expense); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

// --- DeleteExpense ---

func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := h.store.GetExpense(r.Context(), chi.URLParam(r, "expenseID"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, ok := h.requireMember(w, r, expense.GroupID, middleware.GetUserID(r.Context())); !ok {
		return
	}

	if err := h.store.DeactivateExpense(r.Context(), expense.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- ListExpenses ---

func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if _, ok := h.requireMember(w, r, groupID, middleware.GetUserID(r.Context())); !ok {
		return
	}

	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	expenses, err := h.store.ListExpensesByGroup(r.Context(), groupID, !includeInactive)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"expenses": expenses,
		"total":    len(expenses),
	})
}

// --- GetStatistics ---

func (h *Handlers) GetStatistics(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if _, ok := h.requireMember(w, r, groupID, middleware.GetUserID(r.Context())); !ok {
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

	writeJSON(w, http.StatusOK, ledger.Statistics(facts))
}
