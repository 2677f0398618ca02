package ledger

import (
	"fmt"

	"github.com/splitledger/splitledger/internal/money"
)

// ExpenseFact is the read-only projection of a persisted expense that the
// aggregator consumes. The engine never mutates a fact; the storage layer
// produces them, sorted by creation order so tie-breaks are reproducible.
type ExpenseFact struct {
	PaidBy       string
	Amount       money.Money
	Category     string
	Participants []Share
	Active       bool
}

// SettlementFact is a recorded peer-to-peer payment to fold into balances.
type SettlementFact struct {
	From   string
	To     string
	Amount money.Money
}

// Balance maps a user ID to their net position: positive means the group
// owes them, negative means they owe the group.
type Balance map[string]money.Money

// Sum returns the total of all entries. Zero (within tolerance) for any
// closed, reconciled expense set.
func (b Balance) Sum() money.Money {
	var sum money.Money
	for _, v := range b {
		sum = sum.Add(v)
	}
	return sum
}

// Aggregate folds expense facts into net balances: each active fact adds
// its total to the payer's paid side and each share to that participant's
// owed side; net = paid − owed. Inactive facts are skipped entirely, so a
// soft-deleted expense cannot be reconstructed into anyone's balance.
//
// A fact whose shares drift from its total beyond the one-cent tolerance
// is rejected — it cannot have come from Split and would silently break
// the conservation invariant.
func Aggregate(facts []ExpenseFact) (Balance, error) {
	balance := make(Balance)

	for i, fact := range facts {
		if !fact.Active {
			continue
		}

		var owed money.Money
		for _, share := range fact.Participants {
			owed = owed.Add(share.Amount)
		}
		if owed.Sub(fact.Amount).Abs().Cmp(centTolerance) > 0 {
			return nil, fmt.Errorf("%w: expense %d shares sum to %s, total is %s",
				ErrSplitMismatch, i, owed, fact.Amount)
		}

		balance[fact.PaidBy] = balance[fact.PaidBy].Add(fact.Amount)
		for _, share := range fact.Participants {
			balance[share.UserID] = balance[share.UserID].Sub(share.Amount)
		}
	}

	return balance, nil
}

// ApplySettlements folds recorded payments into a balance: the payer's
// position improves, the receiver's shrinks.
func ApplySettlements(balance Balance, settlements []SettlementFact) {
	for _, s := range settlements {
		balance[s.From] = balance[s.From].Add(s.Amount)
		balance[s.To] = balance[s.To].Sub(s.Amount)
	}
}

// PairwiseDebt returns the net amount debtor owes creditor across the
// given facts: shares of the debtor on expenses the creditor paid, minus
// shares of the creditor on expenses the debtor paid. Negative means the
// creditor actually owes the debtor.
func PairwiseDebt(debtor, creditor string, facts []ExpenseFact) money.Money {
	var net money.Money

	for _, fact := range facts {
		if !fact.Active {
			continue
		}
		switch fact.PaidBy {
		case creditor:
			for _, share := range fact.Participants {
				if share.UserID == debtor {
					net = net.Add(share.Amount)
				}
			}
		case debtor:
			for _, share := range fact.Participants {
				if share.UserID == creditor {
					net = net.Sub(share.Amount)
				}
			}
		}
	}

	return net
}
