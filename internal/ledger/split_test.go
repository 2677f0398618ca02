package ledger

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/money"
)

func cents(c int64) money.Money { return money.FromCents(c) }

func pct(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad percentage %q: %v", s, err)
	}
	return d
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		total   money.Money
		policy  SplitPolicy
		want    []Share
		wantErr error
	}{
		{
			name:   "equal three-way, last absorbs the odd cent",
			total:  cents(10000),
			policy: SplitPolicy{Method: SplitEqual, Participants: []string{"A", "B", "C"}},
			want: []Share{
				{UserID: "A", Amount: cents(3333)},
				{UserID: "B", Amount: cents(3333)},
				{UserID: "C", Amount: cents(3334)},
			},
		},
		{
			name:   "equal two-way, no remainder",
			total:  cents(5000),
			policy: SplitPolicy{Method: SplitEqual, Participants: []string{"A", "B"}},
			want: []Share{
				{UserID: "A", Amount: cents(2500)},
				{UserID: "B", Amount: cents(2500)},
			},
		},
		{
			name:   "equal single participant gets everything",
			total:  cents(999),
			policy: SplitPolicy{Method: SplitEqual, Participants: []string{"A"}},
			want:   []Share{{UserID: "A", Amount: cents(999)}},
		},
		{
			name:   "equal one-dollar three-way",
			total:  cents(100),
			policy: SplitPolicy{Method: SplitEqual, Participants: []string{"A", "B", "C"}},
			want: []Share{
				{UserID: "A", Amount: cents(33)},
				{UserID: "B", Amount: cents(33)},
				{UserID: "C", Amount: cents(34)},
			},
		},
		{
			name:    "equal with no participants",
			total:   cents(10000),
			policy:  SplitPolicy{Method: SplitEqual},
			wantErr: ErrInvalidSplit,
		},
		{
			name:    "equal with zero total",
			total:   cents(0),
			policy:  SplitPolicy{Method: SplitEqual, Participants: []string{"A"}},
			wantErr: ErrInvalidSplit,
		},
		{
			name:    "equal with negative total",
			total:   cents(-100),
			policy:  SplitPolicy{Method: SplitEqual, Participants: []string{"A"}},
			wantErr: ErrInvalidSplit,
		},
		{
			name:  "exact passes amounts through",
			total: cents(10000),
			policy: SplitPolicy{Method: SplitExact, Amounts: []Share{
				{UserID: "A", Amount: cents(4000)},
				{UserID: "B", Amount: cents(6000)},
			}},
			want: []Share{
				{UserID: "A", Amount: cents(4000)},
				{UserID: "B", Amount: cents(6000)},
			},
		},
		{
			name:  "exact tolerates one cent of drift",
			total: cents(10000),
			policy: SplitPolicy{Method: SplitExact, Amounts: []Share{
				{UserID: "A", Amount: cents(4000)},
				{UserID: "B", Amount: cents(6001)},
			}},
			want: []Share{
				{UserID: "A", Amount: cents(4000)},
				{UserID: "B", Amount: cents(6001)},
			},
		},
		{
			name:  "exact mismatch beyond tolerance",
			total: cents(10000),
			policy: SplitPolicy{Method: SplitExact, Amounts: []Share{
				{UserID: "A", Amount: cents(4000)},
				{UserID: "B", Amount: cents(5000)},
			}},
			wantErr: ErrSplitMismatch,
		},
		{
			name:    "exact with no amounts",
			total:   cents(10000),
			policy:  SplitPolicy{Method: SplitExact},
			wantErr: ErrInvalidSplit,
		},
		{
			name:    "unknown method",
			total:   cents(10000),
			policy:  SplitPolicy{Method: SplitMethod("weighted")},
			wantErr: ErrInvalidSplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.total, tt.policy)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Split() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitByPercentage(t *testing.T) {
	policy := SplitPolicy{Method: SplitPercentage, Percentages: []PercentShare{
		{UserID: "A", Percent: pct(t, "33.33")},
		{UserID: "B", Percent: pct(t, "33.33")},
		{UserID: "C", Percent: pct(t, "33.34")},
	}}

	shares, err := Split(cents(10000), policy)
	if err != nil {
		t.Fatalf("Split() failed: %v", err)
	}

	want := []Share{
		{UserID: "A", Amount: cents(3333)},
		{UserID: "B", Amount: cents(3333)},
		{UserID: "C", Amount: cents(3334)},
	}
	if !reflect.DeepEqual(shares, want) {
		t.Errorf("Split() = %v, want %v", shares, want)
	}
}

func TestSplitByPercentage_Mismatch(t *testing.T) {
	policy := SplitPolicy{Method: SplitPercentage, Percentages: []PercentShare{
		{UserID: "A", Percent: pct(t, "50")},
		{UserID: "B", Percent: pct(t, "49.98")},
	}}

	_, err := Split(cents(10000), policy)
	if !errors.Is(err, ErrPercentageMismatch) {
		t.Errorf("Split() error = %v, want ErrPercentageMismatch", err)
	}

	// 0.01 points of drift is rounding noise, not an error.
	policy.Percentages[1].Percent = pct(t, "49.99")
	if _, err := Split(cents(10000), policy); err != nil {
		t.Errorf("Split() with 0.01-point drift failed: %v", err)
	}
}

func TestSplit_SumExactness(t *testing.T) {
	totals := []money.Money{cents(1), cents(3), cents(100), cents(9999), cents(10000), cents(123457)}
	counts := []int{1, 2, 3, 5, 7}

	for _, total := range totals {
		for _, n := range counts {
			participants := make([]string, n)
			for i := range participants {
				participants[i] = string(rune('A' + i))
			}

			shares, err := Split(total, SplitPolicy{Method: SplitEqual, Participants: participants})
			if err != nil {
				t.Fatalf("Split(%s, %d participants) failed: %v", total, n, err)
			}

			var sum money.Money
			for _, s := range shares {
				sum = sum.Add(s.Amount)
			}
			if sum != total {
				t.Errorf("Split(%s, %d participants): shares sum to %s", total, n, sum)
			}
		}
	}
}

func TestValidateSplit_LockstepWithSplit(t *testing.T) {
	policies := []struct {
		total  money.Money
		policy SplitPolicy
	}{
		{cents(10000), SplitPolicy{Method: SplitEqual, Participants: []string{"A", "B"}}},
		{cents(10000), SplitPolicy{Method: SplitEqual}},
		{cents(0), SplitPolicy{Method: SplitEqual, Participants: []string{"A"}}},
		{cents(10000), SplitPolicy{Method: SplitExact, Amounts: []Share{{UserID: "A", Amount: cents(9000)}}}},
		{cents(10000), SplitPolicy{Method: SplitExact, Amounts: []Share{{UserID: "A", Amount: cents(10000)}}}},
		{cents(10000), SplitPolicy{Method: SplitPercentage, Percentages: []PercentShare{{UserID: "A", Percent: decimal.NewFromInt(90)}}}},
		{cents(10000), SplitPolicy{Method: SplitMethod("bogus")}},
	}

	for i, tt := range policies {
		vErr := ValidateSplit(tt.total, tt.policy)
		_, sErr := Split(tt.total, tt.policy)
		if (vErr == nil) != (sErr == nil) {
			t.Errorf("case %d: ValidateSplit error = %v but Split error = %v", i, vErr, sErr)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	policy := SplitPolicy{Method: SplitEqual, Participants: []string{"C", "A", "B"}}

	first, err := Split(cents(10001), policy)
	if err != nil {
		t.Fatalf("Split() failed: %v", err)
	}
	second, err := Split(cents(10001), policy)
	if err != nil {
		t.Fatalf("Split() failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical input produced different output: %v vs %v", first, second)
	}
	// Remainder follows input order, not sorted order.
	if first[2].UserID != "B" {
		t.Errorf("remainder holder = %s, want B (last in input order)", first[2].UserID)
	}
}
