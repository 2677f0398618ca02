package ledger

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/money"
)

var (
	// ErrInvalidSplit covers structural precondition failures: an empty
	// participant set or a non-positive total.
	ErrInvalidSplit = errors.New("invalid split")

	// ErrSplitMismatch is returned when exact amounts do not reconcile
	// with the expense total beyond the one-cent tolerance.
	ErrSplitMismatch = errors.New("amounts do not match total")

	// ErrPercentageMismatch is returned when percentage shares do not sum
	// to 100 beyond the 0.01-point tolerance.
	ErrPercentageMismatch = errors.New("percentages do not sum to 100")

	// ErrUnbalancedLedger means the balances handed to the optimizer
	// violate the conservation invariant. This signals corrupt upstream
	// data, not bad user input.
	ErrUnbalancedLedger = errors.New("balances do not sum to zero")
)

// Reconciliation tolerances. Deliberately constants, not configuration:
// the currency in play has two decimal places and upstream sources may
// carry at most one minor unit of rounding drift.
var (
	centTolerance    = money.FromCents(1)
	percentTolerance = decimal.New(1, -2) // 0.01 percentage points
	hundredPercent   = decimal.NewFromInt(100)
)
