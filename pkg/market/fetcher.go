package market

import (
	"context"
	"sort"
	"time"

	"github.com/jinhae8971/stock-dashboard/pkg/log"
)

const topStockCount = 10

// Quoter fetches a single ticker's quote.
type Quoter interface {
	Get(ctx context.Context, ticker string) (*Quote, error)
}

// Fetcher assembles the full dashboard snapshot. Individual ticker failures
// are logged and skipped; only context cancellation aborts the run.
type Fetcher struct {
	Quotes     Quoter
	Strategist Strategist

	// Pause between quote requests. Zero means no pause.
	Pause time.Duration
}

// NewFetcher builds a Fetcher with the live quote client. strategist may be
// nil when no API key is configured.
func NewFetcher(quotes Quoter, strategist Strategist) *Fetcher {
	return &Fetcher{
		Quotes:     quotes,
		Strategist: strategist,
		Pause:      150 * time.Millisecond,
	}
}

// Snapshot fetches indices, KR and US market data, and the strategy.
func (f *Fetcher) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{UpdatedAt: NowKST()}

	indices, err := f.fetchIndices(ctx)
	if err != nil {
		return nil, err
	}
	snap.Indices = indices

	if snap.KR, err = f.fetchKR(ctx); err != nil {
		return nil, err
	}
	if snap.US, err = f.fetchUS(ctx); err != nil {
		return nil, err
	}

	snap.Strategy = f.generateStrategy(ctx, snap)
	return snap, nil
}

func (f *Fetcher) fetchIndices(ctx context.Context) (map[string]IndexQuote, error) {
	log.Info("fetching index data")
	result := make(map[string]IndexQuote, len(indexOrder))

	for _, key := range indexOrder {
		if err := f.pause(ctx); err != nil {
			return nil, err
		}
		quote, err := f.Quotes.Get(ctx, IndexTickers[key])
		if err != nil {
			log.Warnf("  %s failed: %v", key, err)
			result[key] = IndexQuote{}
			continue
		}
		iq := IndexQuote{}
		value := round2(quote.Price)
		iq.Value = &value
		if chg, ok := quote.ChangePct(); ok {
			iq.ChangePct = &chg
		}
		result[key] = iq
	}
	return result, nil
}

func (f *Fetcher) fetchKR(ctx context.Context) (MarketData, error) {
	log.Info("fetching KR market data")
	var data MarketData
	var all []Stock

	for _, sector := range KRSectors {
		var changes []float64
		for _, ticker := range sector.Tickers {
			if err := f.pause(ctx); err != nil {
				return MarketData{}, err
			}
			stock, ok := f.fetchStock(ctx, ticker, sector.Name, "KR")
			if !ok {
				continue
			}
			changes = append(changes, stock.ChangePct)
			all = append(all, stock)
		}
		if len(changes) > 0 {
			data.Sectors = append(data.Sectors, SectorChange{
				Name:      sector.Name,
				ChangePct: round2(avg(changes)),
			})
		}
	}

	data.TopStocks = rankLeaders(all)
	return data, nil
}

func (f *Fetcher) fetchUS(ctx context.Context) (MarketData, error) {
	log.Info("fetching US market data")
	var data MarketData

	for _, sector := range USSectorETFs {
		if err := f.pause(ctx); err != nil {
			return MarketData{}, err
		}
		quote, err := f.Quotes.Get(ctx, sector.ETF)
		if err != nil {
			log.Warnf("  US ETF %s failed: %v", sector.ETF, err)
			continue
		}
		if chg, ok := quote.ChangePct(); ok {
			data.Sectors = append(data.Sectors, SectorChange{Name: sector.Name, ChangePct: chg})
		}
	}

	// Leaders are only collected from the five strongest sectors.
	leading := topSectors(data.Sectors, 5)

	var all []Stock
	for sectorName := range leading {
		pool := USSectorStocks[sectorName]
		if len(pool) > 5 {
			pool = pool[:5]
		}
		for _, ticker := range pool {
			if err := f.pause(ctx); err != nil {
				return MarketData{}, err
			}
			stock, ok := f.fetchStock(ctx, ticker, sectorName, "US")
			if !ok {
				continue
			}
			all = append(all, stock)
		}
	}

	data.TopStocks = rankLeaders(all)
	return data, nil
}

// fetchStock fetches and validates one leader candidate. A false return means
// the ticker produced no usable datum.
func (f *Fetcher) fetchStock(ctx context.Context, ticker, sectorName, marketName string) (Stock, bool) {
	quote, err := f.Quotes.Get(ctx, ticker)
	if err != nil {
		log.Debugf("  %s %s failed: %v", marketName, ticker, err)
		return Stock{}, false
	}
	chg, ok := quote.ChangePct()
	if !ok {
		return Stock{}, false
	}
	if !ValidateChange(chg, marketName) {
		log.Warnf("  change outlier for %s: %+.2f%%, datum discarded", ticker, chg)
		return Stock{}, false
	}

	name := quote.Name
	if marketName == "KR" {
		if kr, ok := KRNames[ticker]; ok {
			name = kr
		}
	}
	if name == "" {
		name = ticker
	}
	if r := []rune(name); len(r) > 18 {
		name = string(r[:18])
	}

	return Stock{
		Ticker:       ticker,
		Name:         name,
		Sector:       sectorName,
		Price:        round2(quote.Price),
		ChangePct:    chg,
		Volume:       quote.Volume,
		TradingValue: int64(quote.Price * float64(quote.Volume)),
		VolSurge:     VolumeSurge(quote.Volume, quote.AvgVolume),
		Score:        Score(chg, quote.Price, quote.Volume, quote.AvgVolume),
	}, true
}

func (f *Fetcher) generateStrategy(ctx context.Context, snap *Snapshot) Strategy {
	if f.Strategist == nil {
		return PlaceholderStrategy("API 키 미설정으로 전략 생성 불가. ANTHROPIC_API_KEY Secret을 등록하세요.")
	}

	sum := StrategySummary{
		Date:      snap.UpdatedAt,
		Indices:   snap.Indices,
		KRSectors: headSectors(snap.KR.Sectors, 3),
		KRLeaders: headStocks(snap.KR.TopStocks, 5),
		USSectors: headSectors(snap.US.Sectors, 3),
		USLeaders: headStocks(snap.US.TopStocks, 5),
	}

	log.Info("generating strategy")
	strategy, err := f.Strategist.Generate(ctx, sum)
	if err != nil {
		log.Errorf("strategy generation failed: %v", err)
		return PlaceholderStrategy("전략 생성 실패 – " + err.Error())
	}
	return strategy
}

// rankLeaders keeps traded listings only and returns the top scorers.
func rankLeaders(all []Stock) []Stock {
	traded := make([]Stock, 0, len(all))
	for _, s := range all {
		if s.Volume > 0 {
			traded = append(traded, s)
		}
	}
	if excluded := len(all) - len(traded); excluded > 0 {
		log.Warnf("  %d zero-volume listings excluded from ranking", excluded)
	}

	sort.SliceStable(traded, func(i, j int) bool {
		return traded[i].Score > traded[j].Score
	})
	if len(traded) > topStockCount {
		traded = traded[:topStockCount]
	}
	return traded
}

// topSectors returns the names of the n strongest sectors.
func topSectors(sectors []SectorChange, n int) map[string]bool {
	sorted := make([]SectorChange, len(sectors))
	copy(sorted, sectors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ChangePct > sorted[j].ChangePct
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	names := make(map[string]bool, len(sorted))
	for _, s := range sorted {
		names[s.Name] = true
	}
	return names
}

func headSectors(xs []SectorChange, n int) []SectorChange {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

func headStocks(xs []Stock, n int) []Stock {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

func avg(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func (f *Fetcher) pause(ctx context.Context) error {
	if f.Pause <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(f.Pause):
		return nil
	}
}
