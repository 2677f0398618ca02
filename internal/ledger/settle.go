package ledger

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/splitledger/splitledger/internal/money"
)

// Transfer is one settling payment: From pays Amount to To.
type Transfer struct {
	From   string      `json:"from"`
	To     string      `json:"to"`
	Amount money.Money `json:"amount"`
}

// party is one side of the netting: a creditor's surplus or a debtor's
// deficit, both stored as positive magnitudes.
type party struct {
	id     string
	amount money.Money
}

// partyHeap is a max-heap on amount; equal amounts order by ascending ID
// so the output is reproducible across runs with the same input.
type partyHeap []party

func (h partyHeap) Len() int { return len(h) }
func (h partyHeap) Less(i, j int) bool {
	if h[i].amount != h[j].amount {
		return h[i].amount > h[j].amount
	}
	return h[i].id < h[j].id
}
func (h partyHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *partyHeap) Push(x any)        { *h = append(*h, x.(party)) }
func (h *partyHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

// Optimize nets arbitrary balances into a short transfer list using the
// greedy largest-first strategy: repeatedly match the largest creditor
// with the largest debtor and move min(credit, debt) between them. Each
// round fully discharges at least one party, so at most N−1 transfers are
// emitted for N parties with outstanding balances. The result is a good
// approximation, not a provably minimal plan; callers depend on exactly
// this output, so the strategy must not be "improved" silently.
//
// Balances within one cent of zero are treated as already settled.
// Balances that violate the conservation invariant (sum beyond one cent
// of zero) yield ErrUnbalancedLedger — corrupt data, not user error.
func Optimize(balance Balance) ([]Transfer, error) {
	if sum := balance.Sum(); sum.Abs().Cmp(centTolerance) > 0 {
		return nil, fmt.Errorf("%w: sum is %s", ErrUnbalancedLedger, sum)
	}

	// Seed the heaps in sorted ID order. The comparator already imposes a
	// total order, but deterministic construction keeps equal-amount heap
	// internals identical across runs too.
	ids := make([]string, 0, len(balance))
	for id := range balance {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	creditors := &partyHeap{}
	debtors := &partyHeap{}
	for _, id := range ids {
		v := balance[id]
		switch {
		case v.Cmp(centTolerance) > 0:
			heap.Push(creditors, party{id: id, amount: v})
		case v.Neg().Cmp(centTolerance) > 0:
			heap.Push(debtors, party{id: id, amount: v.Neg()})
		}
	}

	var transfers []Transfer
	for creditors.Len() > 0 && debtors.Len() > 0 {
		creditor := heap.Pop(creditors).(party)
		debtor := heap.Pop(debtors).(party)

		amount := creditor.amount
		if debtor.amount.Cmp(amount) < 0 {
			amount = debtor.amount
		}

		transfers = append(transfers, Transfer{
			From:   debtor.id,
			To:     creditor.id,
			Amount: amount,
		})

		if residual := creditor.amount.Sub(amount); residual.Cmp(centTolerance) > 0 {
			heap.Push(creditors, party{id: creditor.id, amount: residual})
		}
		if residual := debtor.amount.Sub(amount); residual.Cmp(centTolerance) > 0 {
			heap.Push(debtors, party{id: debtor.id, amount: residual})
		}
	}

	return transfers, nil
}
