package price

import (
	"encoding/json"
	"testing"
)

func TestParseRejectsNegative(t *testing.T) {
	t.Parallel()
	if _, err := Parse("-1"); err == nil {
		t.Error("Parse(-1) should reject negative prices")
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	t.Parallel()
	if _, err := Parse("not-a-number"); err == nil {
		t.Error("Parse(\"not-a-number\") should return an error")
	}
}

func TestArithmeticIsExact(t *testing.T) {
	t.Parallel()
	a := MustParse("0.1")
	b := MustParse("0.2")
	got := a.Add(b)
	if got.String() != "0.3" {
		t.Errorf("0.1 + 0.2 = %s, want 0.3 (exact decimal, no float drift)", got.String())
	}
}

func TestSubAllowsNegativeResult(t *testing.T) {
	t.Parallel()
	bid := MustParse("0.54")
	ask := MustParse("0.56")
	spread := ask.Sub(bid)
	if spread.String() != "0.02" {
		t.Errorf("ask - bid = %s, want 0.02", spread.String())
	}
}

func TestBpsOfComputesFlooredRatio(t *testing.T) {
	t.Parallel()
	diff := MustParse("0.10")
	base := MustParse("0.55")
	if got := diff.BpsOf(base); got != 1818 {
		t.Errorf("BpsOf = %d, want 1818 (floor(0.10/0.55*10000))", got)
	}
}

func TestBpsOfZeroBaseReturnsZero(t *testing.T) {
	t.Parallel()
	diff := MustParse("0.10")
	if got := diff.BpsOf(Zero); got != 0 {
		t.Errorf("BpsOf(zero base) = %d, want 0", got)
	}
}

func TestToBaseUnitsFloorsToWholeUnits(t *testing.T) {
	t.Parallel()
	tests := []struct {
		price string
		want  string
	}{
		{"0.55", "550000"},
		{"1", "1000000"},
		{"0.123456789", "123456"},
	}
	for _, tt := range tests {
		got := MustParse(tt.price).ToBaseUnits(6)
		if got.String() != tt.want {
			t.Errorf("ToBaseUnits(%q, 6) = %s, want %s", tt.price, got.String(), tt.want)
		}
	}
}

func TestSumAddsLeftToRight(t *testing.T) {
	t.Parallel()
	ps := []Price{MustParse("0.3"), MustParse("0.3"), MustParse("0.4")}
	if got := Sum(ps); got.String() != "1" {
		t.Errorf("Sum = %s, want 1", got.String())
	}
}

func TestMarshalUnmarshalJSONRoundTrip(t *testing.T) {
	t.Parallel()
	p := MustParse("0.55")
	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `"0.55"` {
		t.Errorf("Marshal() = %s, want \"0.55\"", out)
	}

	var decoded Price
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Cmp(p) != 0 {
		t.Errorf("round trip = %s, want %s", decoded.String(), p.String())
	}
}

func TestUnmarshalJSONAcceptsNumber(t *testing.T) {
	t.Parallel()
	var p Price
	if err := json.Unmarshal([]byte("0.55"), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.String() != "0.55" {
		t.Errorf("Unmarshal(0.55) = %s, want 0.55", p.String())
	}
}

func TestCmpOrdering(t *testing.T) {
	t.Parallel()
	a := MustParse("0.5")
	b := MustParse("0.6")
	if !a.LessThan(b) {
		t.Error("0.5 should be less than 0.6")
	}
	if !b.GreaterThan(a) {
		t.Error("0.6 should be greater than 0.5")
	}
	if !a.LessThanOrEqual(a) || !a.GreaterThanOrEqual(a) {
		t.Error("a should be <= and >= itself")
	}
}
