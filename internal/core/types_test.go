package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendation_IsKnown(t *testing.T) {
	for _, r := range Recommendations {
		assert.True(t, r.IsKnown(), "%s should be known", r)
	}
	assert.False(t, Recommendation("Sell").IsKnown())
	assert.False(t, Recommendation("strong buy").IsKnown())
	assert.False(t, Recommendation("").IsKnown())
}

func TestScanResult_StrongBuyCount(t *testing.T) {
	r := ScanResult{
		Success: true,
		Stocks: []StockSummary{
			{Symbol: "TCS.NS", Recommendation: RecommendationStrongBuy},
			{Symbol: "INFY.NS", Recommendation: RecommendationBuy},
			{Symbol: "WIPRO.NS", Recommendation: "Strong Buy "},
			{Symbol: "HDFC.NS", Recommendation: RecommendationStrongBuy},
		},
	}
	assert.Equal(t, 2, r.StrongBuyCount())
	assert.Equal(t, 0, ScanResult{}.StrongBuyCount())
}

func TestStockDetail_MissingMetricsDecodeAsAbsent(t *testing.T) {
	payload := []byte(`{
		"symbol": "TCS.NS",
		"current_price": 3450.5,
		"price_decline": null,
		"overall_score": 9,
		"recommendation": "Strong Buy",
		"detailed_metrics": {"volatility": 21.4, "pe_ratio": null}
	}`)

	var d StockDetail
	require.NoError(t, json.Unmarshal(payload, &d))

	assert.True(t, d.CurrentPrice.Valid)
	assert.False(t, d.PriceDecline.Valid)
	assert.False(t, d.FundamentalScore.Valid)
	m := d.Metrics()
	assert.True(t, m.Volatility.Valid)
	assert.False(t, m.RSI.Valid)
	assert.False(t, m.PERatio.Valid)
}

func TestStockDetail_MetricsNil(t *testing.T) {
	d := StockDetail{Symbol: "TCS.NS"}
	m := d.Metrics()
	assert.False(t, m.RSI.Valid)
	assert.False(t, m.DebtToEquity.Valid)
}
