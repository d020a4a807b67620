// Package market fetches index, sector, and leading-stock data for the
// dashboard, scores leaders, generates a daily trading strategy, and publishes
// the combined snapshot as data/market_data.json.
package market

// Sector groups a display name with its representative tickers.
type Sector struct {
	Name    string
	Tickers []string
}

// KRSectors lists Korean market sectors with representative listings.
var KRSectors = []Sector{
	{Name: "반도체", Tickers: []string{"005930.KS", "000660.KS", "042700.KS", "058470.KS", "240810.KS"}},
	{Name: "IT/플랫폼", Tickers: []string{"035420.KS", "035720.KS", "066570.KS", "251270.KS", "005290.KS"}},
	{Name: "금융", Tickers: []string{"105560.KS", "055550.KS", "086790.KS", "316140.KS", "138930.KS", "005940.KS"}},
	{Name: "자동차", Tickers: []string{"005380.KS", "000270.KS", "012330.KS", "011210.KS"}},
	{Name: "헬스케어", Tickers: []string{"068270.KS", "207940.KS", "000100.KS", "012450.KS", "145020.KS"}},
	{Name: "화학/에너지", Tickers: []string{"051910.KS", "096770.KS", "011170.KS", "010950.KS"}},
	{Name: "철강/소재", Tickers: []string{"005490.KS", "004020.KS", "010140.KS", "001430.KS"}},
	{Name: "통신", Tickers: []string{"017670.KS", "030200.KS", "032640.KS"}},
}

// KRNames maps KR tickers to display names; the quote feed is unreliable for
// Korean short names.
var KRNames = map[string]string{
	"005930.KS": "삼성전자", "000660.KS": "SK하이닉스",
	"042700.KS": "한미반도체", "058470.KS": "리노공업",
	"240810.KS": "원익IPS", "035420.KS": "NAVER",
	"035720.KS": "카카오", "066570.KS": "LG전자",
	"251270.KS": "넷마블", "005290.KS": "동진쎄미켐",
	"105560.KS": "KB금융", "055550.KS": "신한지주",
	"086790.KS": "하나금융지주", "316140.KS": "우리금융지주",
	"138930.KS": "BNK금융지주", "005380.KS": "현대차",
	"000270.KS": "기아", "012330.KS": "현대모비스",
	"011210.KS": "현대위아", "068270.KS": "셀트리온",
	"207940.KS": "삼성바이오로직스", "000100.KS": "유한양행",
	"012450.KS": "한화에어로스페이스", "145020.KS": "휴젤",
	"051910.KS": "LG화학", "096770.KS": "SK이노베이션",
	"011170.KS": "롯데케미칼", "010950.KS": "S-Oil",
	"005940.KS": "NH투자증권", "005490.KS": "POSCO홀딩스",
	"004020.KS": "현대제철", "010140.KS": "삼성중공업",
	"001430.KS": "세아베스틸", "017670.KS": "SK텔레콤",
	"030200.KS": "KT", "032640.KS": "LG유플러스",
}

// USSectorETF pairs a US sector with its tracking ETF.
type USSectorETF struct {
	Name string
	ETF  string
}

// USSectorETFs lists US sectors and their tracking ETFs.
var USSectorETFs = []USSectorETF{
	{Name: "기술", ETF: "XLK"},
	{Name: "금융", ETF: "XLF"},
	{Name: "에너지", ETF: "XLE"},
	{Name: "헬스케어", ETF: "XLV"},
	{Name: "산업재", ETF: "XLI"},
	{Name: "임의소비재", ETF: "XLY"},
	{Name: "필수소비재", ETF: "XLP"},
	{Name: "소재", ETF: "XLB"},
	{Name: "부동산", ETF: "XLRE"},
	{Name: "유틸리티", ETF: "XLU"},
	{Name: "통신서비스", ETF: "XLC"},
}

// USSectorStocks holds the leader pool per US sector.
var USSectorStocks = map[string][]string{
	"기술":    {"NVDA", "AAPL", "MSFT", "AVGO", "AMD", "ORCL", "CRM"},
	"금융":    {"BRK-B", "JPM", "V", "MA", "GS", "MS", "BAC"},
	"에너지":   {"XOM", "CVX", "COP", "SLB", "EOG", "MPC", "VLO"},
	"헬스케어":  {"LLY", "UNH", "JNJ", "ABBV", "MRK", "TMO", "DHR"},
	"산업재":   {"CAT", "RTX", "HON", "DE", "GE", "UPS", "LMT"},
	"임의소비재": {"AMZN", "TSLA", "HD", "MCD", "SBUX", "NKE", "BKNG"},
	"필수소비재": {"WMT", "PG", "KO", "PEP", "COST", "MO", "PM"},
	"소재":    {"LIN", "APD", "SHW", "FCX", "NEM", "VMC"},
	"통신서비스": {"META", "GOOGL", "NFLX", "T", "VZ", "DIS", "CMCSA"},
	"부동산":   {"AMT", "PLD", "CCI", "EQIX", "SPG"},
	"유틸리티":  {"NEE", "DUK", "SO", "D", "AEP", "EXC"},
}

// IndexTickers maps dashboard index keys to quote tickers.
var IndexTickers = map[string]string{
	"kospi":  "^KS11",
	"kosdaq": "^KQ11",
	"sp500":  "^GSPC",
	"nasdaq": "^IXIC",
	"dow":    "^DJI",
	"usdkrw": "KRW=X",
}

// indexOrder fixes the iteration order for deterministic output and logs.
var indexOrder = []string{"kospi", "kosdaq", "sp500", "nasdaq", "dow", "usdkrw"}
