// Package ledger is the balance and settlement engine.
//
// It is pure computation over immutable inputs: splitting an expense
// amount across participants, folding expense facts into per-user net
// balances, and netting those balances into a short list of settling
// transfers. Nothing here performs I/O or holds state; callers own
// persistence and access control.
//
// The conservation invariant is the central correctness property: over a
// closed set of fully reconciled expenses, net balances sum to exactly
// zero. Every function in this package either preserves that invariant
// or reports its violation.
package ledger
