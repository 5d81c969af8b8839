package odds

import (
	"errors"
	"math"
	"testing"
)

func TestPayoutFormats(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		stake float64
		want  float64
	}{
		{"american positive +150", "+150", 100, 250},
		{"american positive +150 small stake", "+150", 10, 25},
		{"american positive +100", "+100", 50, 100},
		{"american negative -120", "-120", 100, 100 + 100*(100.0/120.0)},
		{"american negative -200", "-200", 100, 150},
		{"decimal 2.0", "2.0", 100, 200},
		{"decimal 1.5", "1.5", 80, 120},
		{"decimal with surrounding space", " 2.0 ", 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Payout(tt.text, tt.stake)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Payout(%q, %v) = %v, want %v", tt.text, tt.stake, got, tt.want)
			}
		})
	}
}

func TestPayoutIsStakeInclusive(t *testing.T) {
	// Conferência da propriedade: payout(s, "+150") == s + s*1.5 para qualquer stake.
	for _, s := range []float64{0.01, 1, 37.5, 100, 12345.67} {
		got, err := Payout("+150", s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := s + s*1.5; math.Abs(got-want) > 1e-9 {
			t.Errorf("Payout(%v, +150) = %v, want %v", s, got, want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"garbage", "abc"},
		{"positive sign only", "+"},
		{"positive non numeric", "+abc"},
		{"negative non numeric", "-x120"},
		{"negative zero divisor", "-0"},
		{"positive with negative value", "+-150"},
		{"zero multiplier", "0"},
		{"negative decimal", "-1.5x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.text); !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidFormat", tt.text, err)
			}
		})
	}
}
