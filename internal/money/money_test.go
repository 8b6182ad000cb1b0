package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestTax(t *testing.T) {
	cases := []struct {
		name  string
		value string
		rate  string
		want  string
	}{
		{"twenty_percent", "100.00", "20", "20.00"},
		{"ten_percent_double_quantity", "100.00", "10", "10.00"},
		{"zero_rate", "100.00", "0", "0.00"},
		{"rounds_half_to_even_down", "1.25", "10", "0.12"},
		{"rounds_half_to_even_up", "1.75", "10", "0.18"},
		{"no_accumulated_rounding", "0.01", "20", "0.00"},
		{"fractional_rate", "100.00", "12.5", "12.50"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Tax(dec(t, tc.value), dec(t, tc.rate))
			if !got.Equal(dec(t, tc.want)) {
				t.Errorf("Tax(%s, %s) = %s, want %s", tc.value, tc.rate, got, tc.want)
			}
		})
	}
}

func TestSetScaleClampsToStorageRange(t *testing.T) {
	defer SetScale(2)

	SetScale(0)
	if Scale() != 2 {
		t.Errorf("expected scale clamped to 2, got %d", Scale())
	}

	SetScale(4)
	if Scale() != 4 {
		t.Errorf("expected scale 4, got %d", Scale())
	}
	// Half-even at four fractional digits.
	got := Tax(dec(t, "1.2345"), dec(t, "10"))
	if !got.Equal(dec(t, "0.1234")) {
		t.Errorf("expected 0.1234 at scale 4, got %s", got)
	}

	// The balance columns hold four fractional digits; a wider scale would
	// produce amounts the store silently rounds, so it clamps to four.
	SetScale(6)
	if Scale() != 4 {
		t.Errorf("expected scale clamped to 4, got %d", Scale())
	}
}

func TestSum(t *testing.T) {
	got := Sum(dec(t, "0.10"), dec(t, "0.20"), dec(t, "0.30"))
	if !got.Equal(dec(t, "0.60")) {
		t.Errorf("expected exact 0.60, got %s", got)
	}

	if !Sum().IsZero() {
		t.Error("empty sum should be zero")
	}
}

func TestEqualIsExact(t *testing.T) {
	if !Equal(dec(t, "1.5"), dec(t, "1.50")) {
		t.Error("1.5 and 1.50 should compare equal")
	}
	if Equal(dec(t, "1.50"), dec(t, "1.51")) {
		t.Error("1.50 and 1.51 should not compare equal")
	}
}

func TestString(t *testing.T) {
	if got := String(dec(t, "120")); got != "120.00" {
		t.Errorf("expected 120.00, got %s", got)
	}
}
