package ledger

import (
	"errors"
	"testing"
)

func equalFact(t *testing.T, payer string, total int64, participants ...string) ExpenseFact {
	t.Helper()
	shares, err := Split(cents(total), SplitPolicy{Method: SplitEqual, Participants: participants})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	return ExpenseFact{PaidBy: payer, Amount: cents(total), Participants: shares, Active: true}
}

func TestAggregate(t *testing.T) {
	facts := []ExpenseFact{
		equalFact(t, "A", 10000, "A", "B", "C"), // A 33.33, B 33.33, C 33.34
		equalFact(t, "B", 3000, "A", "B"),       // A 15.00, B 15.00
	}

	balance, err := Aggregate(facts)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	want := map[string]int64{
		"A": 10000 - 3333 - 1500, // paid 100, owes 33.33 + 15.00
		"B": 3000 - 3333 - 1500,  // paid 30, owes 33.33 + 15.00
		"C": -3334,
	}
	for id, w := range want {
		if got := balance[id].Cents(); got != w {
			t.Errorf("balance[%s] = %d cents, want %d", id, got, w)
		}
	}
}

func TestAggregate_Conservation(t *testing.T) {
	facts := []ExpenseFact{
		equalFact(t, "A", 10000, "A", "B", "C"),
		equalFact(t, "B", 9999, "B", "C"),
		equalFact(t, "C", 1, "A", "B", "C", "D"),
		equalFact(t, "D", 123457, "A", "D"),
	}

	balance, err := Aggregate(facts)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if sum := balance.Sum(); !sum.IsZero() {
		t.Errorf("balances sum to %s, want 0.00", sum)
	}
}

func TestAggregate_SkipsInactive(t *testing.T) {
	deleted := equalFact(t, "A", 10000, "A", "B")
	deleted.Active = false

	balance, err := Aggregate([]ExpenseFact{deleted})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(balance) != 0 {
		t.Errorf("inactive expense leaked into balances: %v", balance)
	}
}

func TestAggregate_RejectsDriftedFact(t *testing.T) {
	fact := ExpenseFact{
		PaidBy: "A",
		Amount: cents(10000),
		Participants: []Share{
			{UserID: "A", Amount: cents(4000)},
			{UserID: "B", Amount: cents(5000)},
		},
		Active: true,
	}

	_, err := Aggregate([]ExpenseFact{fact})
	if !errors.Is(err, ErrSplitMismatch) {
		t.Errorf("Aggregate error = %v, want ErrSplitMismatch", err)
	}
}

func TestApplySettlements(t *testing.T) {
	balance := Balance{"A": cents(5000), "B": cents(-3000), "C": cents(-2000)}

	ApplySettlements(balance, []SettlementFact{
		{From: "B", To: "A", Amount: cents(3000)},
	})

	if !balance["B"].IsZero() {
		t.Errorf("B balance = %s after settling, want 0.00", balance["B"])
	}
	if balance["A"].Cents() != 2000 {
		t.Errorf("A balance = %s, want 20.00", balance["A"])
	}
	if sum := balance.Sum(); !sum.IsZero() {
		t.Errorf("settlements broke conservation: sum = %s", sum)
	}
}

func TestPairwiseDebt(t *testing.T) {
	facts := []ExpenseFact{
		equalFact(t, "A", 10000, "A", "B"), // B owes A 50.00
		equalFact(t, "B", 4000, "A", "B"),  // A owes B 20.00
	}

	if got := PairwiseDebt("B", "A", facts); got.Cents() != 3000 {
		t.Errorf("PairwiseDebt(B, A) = %s, want 30.00", got)
	}
	if got := PairwiseDebt("A", "B", facts); got.Cents() != -3000 {
		t.Errorf("PairwiseDebt(A, B) = %s, want -30.00", got)
	}
	if got := PairwiseDebt("A", "C", facts); !got.IsZero() {
		t.Errorf("PairwiseDebt(A, C) = %s, want 0.00", got)
	}
}
