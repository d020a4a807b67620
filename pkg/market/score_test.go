package market

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		changePct float64
		price     float64
		volume    int64
		avgVolume float64
		want      float64
	}{
		{
			name:      "decliner keeps its negative change as score",
			changePct: -3.2,
			price:     50000,
			volume:    1_000_000,
			avgVolume: 900_000,
			want:      -3.2,
		},
		{
			name:      "flat stock scores zero",
			changePct: 0,
			price:     50000,
			volume:    1_000_000,
			avgVolume: 900_000,
			want:      0,
		},
		{
			name:      "no trading value scores zero",
			changePct: 5.0,
			price:     100,
			volume:    0,
			avgVolume: 900_000,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.changePct, tt.price, tt.volume, tt.avgVolume); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_Formula(t *testing.T) {
	// 2% gain, 10_000 price, 1M volume, equal avg volume: surge is 1.
	got := Score(2.0, 10000, 1_000_000, 1_000_000)
	want := round4(2.0 * math.Log10(10000*1_000_000))
	if got != want {
		t.Errorf("Score() = %v, want %v", got, want)
	}
}

func TestScore_SurgeClamp(t *testing.T) {
	// A 100x volume spike must be capped at the 10x surge ceiling.
	spiked := Score(2.0, 10000, 100_000_000, 1_000_000)
	capped := Score(2.0, 10000, 100_000_000, 10_000_000)
	if spiked != capped {
		t.Errorf("surge not clamped: spiked=%v capped=%v", spiked, capped)
	}

	// A near-dead volume must be floored at 0.1x.
	dead := Score(2.0, 10000, 1000, 100_000_000)
	floored := Score(2.0, 10000, 1000, 10_000)
	if dead != floored {
		t.Errorf("surge not floored: dead=%v floored=%v", dead, floored)
	}
}

func TestValidateChange(t *testing.T) {
	tests := []struct {
		name      string
		changePct float64
		market    string
		want      bool
	}{
		{"KR within band", 29.9, "KR", true},
		{"KR at band", 30.0, "KR", true},
		{"KR above band", 30.1, "KR", false},
		{"KR below negative band", -31.0, "KR", false},
		{"US within threshold", 45.0, "US", true},
		{"US above threshold", 50.5, "US", false},
		{"unknown market uses KR band", 35.0, "XX", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateChange(tt.changePct, tt.market); got != tt.want {
				t.Errorf("ValidateChange(%v, %s) = %v, want %v", tt.changePct, tt.market, got, tt.want)
			}
		})
	}
}

func TestVolumeSurge(t *testing.T) {
	if got := VolumeSurge(2_000_000, 1_000_000); got != 2.0 {
		t.Errorf("VolumeSurge() = %v, want 2.0", got)
	}
	if got := VolumeSurge(2_000_000, 0); got != 1.0 {
		t.Errorf("VolumeSurge() with zero average = %v, want 1.0", got)
	}
}
