package stats

import (
	"math"
	"testing"
)

func TestDecomposeRoundTrip(t *testing.T) {
	for _, total := range []float64{0, 1, 59, 60, 61, 360, 3599.4, 3600, 86399, 86400, 90061, 1234567.89} {
		b := Decompose(total)
		reconstructed := b.Days*24*60*60 + b.Hours*60*60 + b.Minutes*60 + b.Seconds
		if reconstructed != int(math.Round(total)) {
			t.Fatalf("Decompose(%v) = %+v, reconstructs to %d", total, b, reconstructed)
		}
	}
}

func TestDecomposeTopUnit(t *testing.T) {
	tests := []struct {
		total float64
		unit  string
		value float64
	}{
		{0, "seconds", 0},
		{45, "seconds", 45},
		{60, "minutes", 1},
		{360, "minutes", 6},
		{7200, "hours", 2},
		{90061, "days", 90061.0 / 86400},
	}
	for _, tt := range tests {
		b := Decompose(tt.total)
		if b.TopUnit != tt.unit {
			t.Fatalf("Decompose(%v).TopUnit = %q, want %q", tt.total, b.TopUnit, tt.unit)
		}
		if math.Abs(b.TopValue-tt.value) > 1e-9 {
			t.Fatalf("Decompose(%v).TopValue = %v, want %v", tt.total, b.TopValue, tt.value)
		}
	}
}

func TestBreakdownFormat(t *testing.T) {
	tests := []struct {
		total float64
		want  string
	}{
		{360, "6 minutes, 0 seconds (= 6.00 minutes)"},
		{120, "2 minutes, 0 seconds (= 2.00 minutes)"},
		{60, "1 minutes, 0 seconds (= 1.00 minutes)"},
		{0, "0 seconds (= 0.00 seconds)"},
		{45, "45 seconds (= 45.00 seconds)"},
		{3661, "1 hours, 1 minutes, 1 seconds (= 1.02 hours)"},
		{90061, "1 days, 1 hours, 1 minutes, 1 seconds (= 1.04 days)"},
	}
	for _, tt := range tests {
		if got := Decompose(tt.total).Format(); got != tt.want {
			t.Fatalf("Format(%v) = %q, want %q", tt.total, got, tt.want)
		}
	}
}
