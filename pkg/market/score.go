package market

import "math"

// Daily change-percent sanity limits: KR listings have a ±30% statutory price
// band; for US large caps anything past ±50% is treated as feed error.
var changeLimits = map[string]float64{
	"KR": 30.0,
	"US": 50.0,
}

// ValidateChange rejects change-percent outliers. It returns false when the
// datum exceeds the market's limit and should be discarded (rights issues,
// splits, or plain feed errors).
func ValidateChange(changePct float64, marketName string) bool {
	limit, ok := changeLimits[marketName]
	if !ok {
		limit = 30.0
	}
	return math.Abs(changePct) <= limit
}

// Score computes the leader composite:
//
//	changePct × log10(price × volume) × volumeSurge
//
// Non-positive change returns the change itself so decliners sort to the
// bottom. Zero trading value returns 0 so ghost listings never rank.
// The volume surprise factor is clamped to [0.1, 10].
func Score(changePct, price float64, volume int64, avgVolume float64) float64 {
	if changePct <= 0 {
		return changePct
	}

	tradingValue := price * float64(volume)
	if tradingValue < 1 {
		return 0
	}

	surge := 1.0
	if avgVolume > 0 {
		surge = float64(volume) / avgVolume
	}
	surge = math.Min(math.Max(surge, 0.1), 10.0)

	return round4(changePct * math.Log10(tradingValue) * surge)
}

// VolumeSurge is the day-volume over average-volume ratio reported alongside
// each leader, rounded for display.
func VolumeSurge(volume int64, avgVolume float64) float64 {
	if avgVolume <= 0 {
		return 1.0
	}
	return round2(float64(volume) / avgVolume)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
