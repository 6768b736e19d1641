package asset_test

import (
	"testing"

	"github.com/Travisswop/swap-engine/internal/asset"
	"github.com/shopspring/decimal"
)

func TestToBaseUnits(t *testing.T) {
	cases := []struct {
		in       string
		decimals int
		want     string
	}{
		{"1", 18, "1000000000000000000"},
		{"1.5", 6, "1500000"},
		{"150", 6, "150000000"},
		{"0.000001", 6, "1"},
		{"0.0000001", 6, "0"}, // below precision, floors to zero
		{"1.9999999", 6, "1999999"},
		{" 2.5 ", 6, "2500000"},
	}

	for _, c := range cases {
		got := asset.ToBaseUnits(c.in, c.decimals)
		if got != c.want {
			t.Errorf("ToBaseUnits(%q, %d) = %q, want %q", c.in, c.decimals, got, c.want)
		}
	}
}

func TestToBaseUnits_InvalidInputYieldsZeroSentinel(t *testing.T) {
	for _, in := range []string{"abc", "-5", "0", "", "1.2.3", "NaN"} {
		if got := asset.ToBaseUnits(in, 6); got != asset.ZeroBaseUnits {
			t.Errorf("ToBaseUnits(%q, 6) = %q, want %q", in, got, asset.ZeroBaseUnits)
		}
	}
}

func TestFromBaseUnits(t *testing.T) {
	cases := []struct {
		in       string
		decimals int
		want     string
	}{
		{"1500000", 6, "1.5"},
		{"1000000000000000000", 18, "1"},
		{"1", 9, "0.000000001"},
		{"150000000", 6, "150"},
	}

	for _, c := range cases {
		got := asset.FromBaseUnits(c.in, c.decimals)
		if got != c.want {
			t.Errorf("FromBaseUnits(%q, %d) = %q, want %q", c.in, c.decimals, got, c.want)
		}
	}
}

func TestBaseUnits_RoundTrip(t *testing.T) {
	// Any amount exactly representable in d decimal places must survive
	// a base-unit round trip unchanged.
	cases := []struct {
		amount   string
		decimals int
	}{
		{"1.5", 6},
		{"0.000001", 6},
		{"123456.789", 9},
		{"42", 0},
		{"150", 6},
	}

	for _, c := range cases {
		base := asset.ToBaseUnits(c.amount, c.decimals)
		back := asset.FromBaseUnits(base, c.decimals)
		if back != c.amount {
			t.Errorf("round trip %q (d=%d): got %q via base units %q", c.amount, c.decimals, back, base)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	five := decimal.NewFromInt(5)
	if got := asset.FormatAmount(five, 6); got != "5.000000" {
		t.Errorf("FormatAmount(5, 6) = %q, want %q", got, "5.000000")
	}
	one := decimal.NewFromInt(1)
	if got := asset.FormatAmount(one, 9); got != "1.000000000" {
		t.Errorf("FormatAmount(1, 9) = %q, want %q", got, "1.000000000")
	}
}

func TestParsePositive(t *testing.T) {
	if _, ok := asset.ParsePositive("12.5"); !ok {
		t.Error("expected 12.5 to parse as positive")
	}
	for _, in := range []string{"-1", "0", "x", ""} {
		if _, ok := asset.ParsePositive(in); ok {
			t.Errorf("expected %q to be rejected", in)
		}
	}
}
