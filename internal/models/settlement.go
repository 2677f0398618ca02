package models

import (
	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/money"
)

// Settlement payment methods.
const (
	PaymentCash         = "cash"
	PaymentOnline       = "online"
	PaymentBankTransfer = "bank_transfer"
	PaymentOther        = "other"
)

// Settlement is a recorded payment between group members to clear debt.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"group_id"`

	// FromUserID is the debtor settling up.
	FromUserID string `json:"from_user_id"`

	// ToUserID is the creditor being paid.
	ToUserID string `json:"to_user_id"`

	// Amount is the payment amount (always positive).
	Amount money.Money `json:"amount"`

	// PaymentMethod is one of the Payment* constants.
	PaymentMethod string `json:"payment_method"`

	// Note is an optional description.
	Note string `json:"note,omitempty"`

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string `json:"created_by"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"created_at"`
}

// Fact projects the settlement into the engine's read-only form.
func (s *Settlement) Fact() ledger.SettlementFact {
	return ledger.SettlementFact{From: s.FromUserID, To: s.ToUserID, Amount: s.Amount}
}
