package market

import "time"

// IndexQuote is one index reading; nil fields mean the feed had no data.
type IndexQuote struct {
	Value     *float64 `json:"value"`
	ChangePct *float64 `json:"change_pct"`
}

// Stock is one ranked leader.
type Stock struct {
	Ticker       string  `json:"ticker"`
	Name         string  `json:"name"`
	Sector       string  `json:"sector"`
	Price        float64 `json:"price"`
	ChangePct    float64 `json:"change_pct"`
	Volume       int64   `json:"volume"`
	TradingValue int64   `json:"trading_value"`
	VolSurge     float64 `json:"vol_surge"`
	Score        float64 `json:"score"`
}

// SectorChange is a sector's average (KR) or ETF (US) day change.
type SectorChange struct {
	Name      string  `json:"name"`
	ChangePct float64 `json:"change_pct"`
}

// MarketData groups one market's sector changes and ranked leaders.
type MarketData struct {
	Sectors   []SectorChange `json:"sectors"`
	TopStocks []Stock        `json:"top_stocks"`
}

// Snapshot is the full dashboard payload written to data/market_data.json.
type Snapshot struct {
	UpdatedAt string                `json:"updated_at"`
	Indices   map[string]IndexQuote `json:"indices"`
	KR        MarketData            `json:"kr"`
	US        MarketData            `json:"us"`
	Strategy  Strategy              `json:"strategy"`
}

var kst = time.FixedZone("KST", 9*60*60)

// NowKST formats the current time the way the dashboard displays it.
func NowKST() string {
	return time.Now().In(kst).Format("2006년 01월 02일 15:04 KST")
}
