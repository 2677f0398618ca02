package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/money"
)

// SplitMethod selects how an expense amount is divided.
type SplitMethod string

const (
	SplitEqual      SplitMethod = "equal"
	SplitExact      SplitMethod = "exact"
	SplitPercentage SplitMethod = "percentage"
)

// Share is one participant's owed portion of an expense.
type Share struct {
	UserID string      `json:"user_id"`
	Amount money.Money `json:"amount"`
}

// PercentShare is one participant's percentage of an expense.
type PercentShare struct {
	UserID  string          `json:"user_id"`
	Percent decimal.Decimal `json:"percent"`
}

// SplitPolicy describes how to divide an expense. Exactly one of the
// per-method fields is consulted, selected by Method. Participants,
// Amounts, and Percentages are ordered: the last entry absorbs the
// rounding remainder, which is part of the contract, not an accident.
// Callers that care who absorbs odd cents control it via ordering.
type SplitPolicy struct {
	Method       SplitMethod
	Participants []string       // SplitEqual
	Amounts      []Share        // SplitExact
	Percentages  []PercentShare // SplitPercentage
}

// ValidateSplit runs the same precondition checks Split performs, without
// computing anything. It exists so callers can reject a request before any
// state changes; Split calls it internally, so the two can never diverge.
func ValidateSplit(total money.Money, policy SplitPolicy) error {
	if !total.IsPositive() {
		return fmt.Errorf("%w: total must be positive, got %s", ErrInvalidSplit, total)
	}

	switch policy.Method {
	case SplitEqual:
		if len(policy.Participants) == 0 {
			return fmt.Errorf("%w: no participants", ErrInvalidSplit)
		}

	case SplitExact:
		if len(policy.Amounts) == 0 {
			return fmt.Errorf("%w: no amounts", ErrInvalidSplit)
		}
		var sum money.Money
		for _, s := range policy.Amounts {
			sum = sum.Add(s.Amount)
		}
		if sum.Sub(total).Abs().Cmp(centTolerance) > 0 {
			return fmt.Errorf("%w: amounts sum to %s, total is %s", ErrSplitMismatch, sum, total)
		}

	case SplitPercentage:
		if len(policy.Percentages) == 0 {
			return fmt.Errorf("%w: no percentages", ErrInvalidSplit)
		}
		sum := decimal.Zero
		for _, p := range policy.Percentages {
			sum = sum.Add(p.Percent)
		}
		if sum.Sub(hundredPercent).Abs().Cmp(percentTolerance) > 0 {
			return fmt.Errorf("%w: percentages sum to %s", ErrPercentageMismatch, sum)
		}

	default:
		return fmt.Errorf("%w: unknown split method %q", ErrInvalidSplit, policy.Method)
	}

	return nil
}

// Split divides total according to policy and returns the owed share per
// participant, in policy order. The returned shares always sum to exactly
// total: whatever the per-share rounding leaves over lands on the last
// participant. Split is pure and deterministic; identical ordered input
// produces identical output.
func Split(total money.Money, policy SplitPolicy) ([]Share, error) {
	if err := ValidateSplit(total, policy); err != nil {
		return nil, err
	}

	switch policy.Method {
	case SplitEqual:
		return splitEqually(total, policy.Participants), nil
	case SplitExact:
		shares := make([]Share, len(policy.Amounts))
		copy(shares, policy.Amounts)
		return shares, nil
	default:
		return splitByPercentage(total, policy.Percentages), nil
	}
}

func splitEqually(total money.Money, participants []string) []Share {
	n := int64(len(participants))
	perHead := total.DivRoundHalfUp(n)

	shares := make([]Share, len(participants))
	var assigned money.Money
	for i, id := range participants[:len(participants)-1] {
		shares[i] = Share{UserID: id, Amount: perHead}
		assigned = assigned.Add(perHead)
	}
	// Remainder to the last participant so the sum is exactly total.
	shares[len(participants)-1] = Share{
		UserID: participants[len(participants)-1],
		Amount: total.Sub(assigned),
	}
	return shares
}

func splitByPercentage(total money.Money, percentages []PercentShare) []Share {
	shares := make([]Share, len(percentages))
	var assigned money.Money
	for i, p := range percentages[:len(percentages)-1] {
		amount := total.Percent(p.Percent)
		shares[i] = Share{UserID: p.UserID, Amount: amount}
		assigned = assigned.Add(amount)
	}
	shares[len(percentages)-1] = Share{
		UserID: percentages[len(percentages)-1].UserID,
		Amount: total.Sub(assigned),
	}
	return shares
}
