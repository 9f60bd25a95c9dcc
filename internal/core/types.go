package core

import "github.com/shopspring/decimal"

// Recommendation is the categorical verdict the backend attaches to a stock.
type Recommendation string

const (
	RecommendationStrongBuy   Recommendation = "Strong Buy"
	RecommendationBuy         Recommendation = "Buy"
	RecommendationModerateBuy Recommendation = "Moderate Buy"
	RecommendationHold        Recommendation = "Hold"
	RecommendationAvoid       Recommendation = "Avoid"
)

// Recommendations lists the fixed recommendation set, strongest first.
var Recommendations = []Recommendation{
	RecommendationStrongBuy,
	RecommendationBuy,
	RecommendationModerateBuy,
	RecommendationHold,
	RecommendationAvoid,
}

// IsKnown reports whether r belongs to the fixed recommendation set.
func (r Recommendation) IsKnown() bool {
	for _, known := range Recommendations {
		if r == known {
			return true
		}
	}
	return false
}

// StockSummary is one row of a scan result.
type StockSummary struct {
	Symbol           string          `json:"symbol"`
	Name             string          `json:"name"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	PriceDecline     decimal.Decimal `json:"price_decline"`
	FundamentalScore float64         `json:"fundamental_score"`
	TechnicalScore   float64         `json:"technical_score"`
	OverallScore     float64         `json:"overall_score"`
	Recommendation   Recommendation  `json:"recommendation"`
}

// DetailedMetrics holds the optional per-stock metrics of a detail record.
type DetailedMetrics struct {
	Volatility    decimal.NullDecimal `json:"volatility"`
	RSI           decimal.NullDecimal `json:"rsi"`
	PERatio       decimal.NullDecimal `json:"pe_ratio"`
	PBRatio       decimal.NullDecimal `json:"pb_ratio"`
	ROE           decimal.NullDecimal `json:"roe"`
	DebtToEquity  decimal.NullDecimal `json:"debt_to_equity"`
	MarketCap     decimal.NullDecimal `json:"market_cap"`
	DividendYield decimal.NullDecimal `json:"dividend_yield"`
}

// StockDetail is the detail record for a single symbol. Every numeric field
// may be absent.
type StockDetail struct {
	Symbol           string              `json:"symbol"`
	Name             string              `json:"name"`
	CurrentPrice     decimal.NullDecimal `json:"current_price"`
	PriceDecline     decimal.NullDecimal `json:"price_decline"`
	FundamentalScore decimal.NullDecimal `json:"fundamental_score"`
	TechnicalScore   decimal.NullDecimal `json:"technical_score"`
	OverallScore     decimal.NullDecimal `json:"overall_score"`
	Recommendation   Recommendation      `json:"recommendation"`
	DetailedMetrics  *DetailedMetrics    `json:"detailed_metrics,omitempty"`
}

// Metrics returns the detailed metrics, or an empty set when absent.
func (d StockDetail) Metrics() DetailedMetrics {
	if d.DetailedMetrics == nil {
		return DetailedMetrics{}
	}
	return *d.DetailedMetrics
}

// ScanResult is the payload of GET /api/scan.
type ScanResult struct {
	Success   bool           `json:"success"`
	Stocks    []StockSummary `json:"stocks"`
	Timestamp string         `json:"timestamp,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// StrongBuyCount counts entries whose recommendation is exactly Strong Buy.
func (r ScanResult) StrongBuyCount() int {
	n := 0
	for _, s := range r.Stocks {
		if s.Recommendation == RecommendationStrongBuy {
			n++
		}
	}
	return n
}

// DetailResult is the payload of GET /api/stock/{symbol}.
type DetailResult struct {
	Success bool         `json:"success"`
	Stock   *StockDetail `json:"stock,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// UpdateResult is the payload of GET /api/update.
type UpdateResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WatchlistResult is the payload of POST /api/watchlist.
type WatchlistResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
