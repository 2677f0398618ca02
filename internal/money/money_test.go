package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"0.01", 1, false},
		{"100", 10000, false},
		{"-3.05", -305, false},
		{"33.3", 3330, false},
		{"0.005", 0, true},
		{"12.345", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got.Cents() != tt.want {
			t.Errorf("Parse(%q) = %d cents, want %d", tt.in, got.Cents(), tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{-305, "-3.05"},
		{0, "0.00"},
		{5, "0.05"},
		{10000, "100.00"},
	}

	for _, tt := range tests {
		if got := FromCents(tt.cents).String(); got != tt.want {
			t.Errorf("FromCents(%d).String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestDivRoundHalfUp(t *testing.T) {
	tests := []struct {
		cents int64
		n     int64
		want  int64
	}{
		{10000, 3, 3333}, // 33.333... -> 33.33
		{10000, 2, 5000},
		{100, 3, 33},  // 0.333... -> 0.33
		{1, 2, 1},     // 0.005 -> 0.01 (half up)
		{5, 2, 3},     // 0.025 -> 0.03
		{-1, 2, -1},   // -0.005 -> -0.01 (half away from zero)
		{-100, 3, -33},
	}

	for _, tt := range tests {
		if got := FromCents(tt.cents).DivRoundHalfUp(tt.n); got.Cents() != tt.want {
			t.Errorf("FromCents(%d).DivRoundHalfUp(%d) = %d, want %d", tt.cents, tt.n, got.Cents(), tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		cents int64
		pct   string
		want  int64
	}{
		{10000, "33.33", 3333},
		{10000, "50", 5000},
		{10000, "33.34", 3334},
		{999, "10", 100},   // 0.999 -> 1.00
		{1001, "50", 501},  // 5.005 -> 5.01
	}

	for _, tt := range tests {
		pct, err := decimal.NewFromString(tt.pct)
		if err != nil {
			t.Fatalf("bad percentage %q: %v", tt.pct, err)
		}
		if got := FromCents(tt.cents).Percent(pct); got.Cents() != tt.want {
			t.Errorf("FromCents(%d).Percent(%s) = %d, want %d", tt.cents, tt.pct, got.Cents(), tt.want)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Amount Money `json:"amount"`
	}

	// String form.
	var p payload
	if err := json.Unmarshal([]byte(`{"amount":"12.34"}`), &p); err != nil {
		t.Fatalf("unmarshal string form: %v", err)
	}
	if p.Amount.Cents() != 1234 {
		t.Errorf("amount = %d cents, want 1234", p.Amount.Cents())
	}

	// Bare number form (parsed textually, not via float64).
	if err := json.Unmarshal([]byte(`{"amount":19.99}`), &p); err != nil {
		t.Fatalf("unmarshal number form: %v", err)
	}
	if p.Amount.Cents() != 1999 {
		t.Errorf("amount = %d cents, want 1999", p.Amount.Cents())
	}

	out, err := json.Marshal(payload{Amount: FromCents(-305)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"amount":"-3.05"}` {
		t.Errorf("marshal = %s, want {\"amount\":\"-3.05\"}", out)
	}

	// Sub-cent precision must be rejected at the boundary.
	if err := json.Unmarshal([]byte(`{"amount":"1.005"}`), &p); err == nil {
		t.Error("expected error for sub-cent amount")
	}
}
