package models

import (
	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/money"
)

// Expense is a shared cost paid by one group member and owed by several.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"group_id"`

	// Title is the human-readable name ("Dinner at Luigi's").
	Title string `json:"title"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Category buckets the expense for statistics (food, transport, ...).
	// Defaults to "general".
	Category string `json:"category"`

	// Amount is the full expense total.
	Amount money.Money `json:"amount"`

	// PaidBy is the user ID of the member who fronted the money.
	PaidBy string `json:"paid_by"`

	// CreatedBy is the user ID of whoever recorded the expense.
	CreatedBy string `json:"created_by"`

	// SplitMethod records which policy produced the participant shares.
	SplitMethod ledger.SplitMethod `json:"split_method"`

	// Participants are the owed shares, in split order. Their amounts sum
	// to exactly Amount.
	Participants []ledger.Share `json:"participants"`

	// IsActive is false once the expense is soft-deleted. Inactive
	// expenses never contribute to balances.
	IsActive bool `json:"is_active"`

	// ExpenseDate is when the expense occurred (Unix timestamp).
	ExpenseDate int64 `json:"expense_date"`

	// CreatedAt / UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Fact projects the expense into the engine's read-only form.
func (e *Expense) Fact() ledger.ExpenseFact {
	return ledger.ExpenseFact{
		PaidBy:       e.PaidBy,
		Amount:       e.Amount,
		Category:     e.Category,
		Participants: e.Participants,
		Active:       e.IsActive,
	}
}
