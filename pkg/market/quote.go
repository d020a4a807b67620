package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultQuoteBaseURL = "https://query1.finance.yahoo.com"

// Quote is one ticker's daily snapshot.
type Quote struct {
	Ticker    string
	Name      string
	Price     float64
	PrevClose float64
	Volume    int64
	AvgVolume float64
}

// ChangePct returns the day change in percent, or false when the inputs
// cannot produce one.
func (q Quote) ChangePct() (float64, bool) {
	if q.PrevClose == 0 || q.Price == 0 {
		return 0, false
	}
	return round2((q.Price - q.PrevClose) / q.PrevClose * 100), true
}

// QuoteClient fetches daily quotes from the Yahoo Finance chart endpoint.
type QuoteClient struct {
	baseURL string
	httpc   *http.Client

	// Pause between requests to stay under the feed's informal limits.
	Pause time.Duration
}

// QuoteOption configures a QuoteClient.
type QuoteOption func(*QuoteClient)

// WithQuoteBaseURL overrides the quote endpoint (used by tests).
func WithQuoteBaseURL(u string) QuoteOption {
	return func(c *QuoteClient) {
		c.baseURL = u
	}
}

// WithQuoteHTTPClient replaces the HTTP client.
func WithQuoteHTTPClient(httpc *http.Client) QuoteOption {
	return func(c *QuoteClient) {
		c.httpc = httpc
	}
}

// NewQuoteClient creates a quote client.
func NewQuoteClient(opts ...QuoteOption) *QuoteClient {
	c := &QuoteClient{
		baseURL: defaultQuoteBaseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		Pause:   150 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chartResponse mirrors the slice of the v8 chart payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				ShortName          string  `json:"shortName"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Get fetches a three-month daily series for ticker and reduces it to a Quote:
// last close, previous close, last volume, and the average volume over the
// window.
func (c *QuoteClient) Get(ctx context.Context, ticker string) (*Quote, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=3mo&interval=1d", c.baseURL, url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}
	req.Header.Set("User-Agent", "stock-dashboard/1.0")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("quote request for %s returned HTTP %d: %s", ticker, resp.StatusCode, body)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode quote for %s: %w", ticker, err)
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("quote feed error for %s: %s", ticker, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("quote feed returned no series for %s", ticker)
	}

	result := payload.Chart.Result[0]
	series := result.Indicators.Quote[0]

	closes := compact(series.Close)
	volumes := compactInt(series.Volume)
	if len(closes) == 0 {
		return nil, fmt.Errorf("quote feed returned no closes for %s", ticker)
	}

	quote := &Quote{
		Ticker: ticker,
		Name:   result.Meta.ShortName,
		Price:  closes[len(closes)-1],
	}
	if result.Meta.RegularMarketPrice != 0 {
		quote.Price = result.Meta.RegularMarketPrice
	}
	if len(closes) >= 2 {
		quote.PrevClose = closes[len(closes)-2]
	} else {
		quote.PrevClose = result.Meta.ChartPreviousClose
	}
	if len(volumes) > 0 {
		quote.Volume = volumes[len(volumes)-1]
		quote.AvgVolume = avgInt(volumes)
	}
	return quote, nil
}

func compact(xs []*float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x != nil {
			out = append(out, *x)
		}
	}
	return out
}

func compactInt(xs []*int64) []int64 {
	out := make([]int64, 0, len(xs))
	for _, x := range xs {
		if x != nil {
			out = append(out, *x)
		}
	}
	return out
}

func avgInt(xs []int64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum int64
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}
