package render

import (
	"github.com/newthinker/screener/internal/core"
)

// Badge is a rendered recommendation badge.
type Badge struct {
	Label string
	Class string
}

// NewBadge builds the badge for a recommendation.
func NewBadge(rec core.Recommendation) Badge {
	return Badge{Label: string(rec), Class: BadgeClass(rec)}
}

// ScoreCell is a rendered score with its band class.
type ScoreCell struct {
	Text  string
	Class string
}

// RowView is one results-table row.
type RowView struct {
	Symbol        string
	DisplaySymbol string
	Name          string
	Price         string
	Decline       string
	Fundamental   ScoreCell
	Technical     ScoreCell
	Overall       ScoreCell
	Badge         Badge
}

// Row renders a scan result row.
func (f *Formatter) Row(s core.StockSummary) RowView {
	return RowView{
		Symbol:        s.Symbol,
		DisplaySymbol: f.DisplaySymbol(s.Symbol),
		Name:          s.Name,
		Price:         f.Currency(s.CurrentPrice),
		Decline:       f.Percent(s.PriceDecline, 1),
		Fundamental:   ScoreCell{Text: f.Score(s.FundamentalScore), Class: ScoreCSS(s.FundamentalScore)},
		Technical:     ScoreCell{Text: f.Score(s.TechnicalScore), Class: ScoreCSS(s.TechnicalScore)},
		Overall:       ScoreCell{Text: f.Score(s.OverallScore), Class: ScoreCSS(s.OverallScore)},
		Badge:         NewBadge(s.Recommendation),
	}
}

// Rows renders every row of a scan result in order.
func (f *Formatter) Rows(stocks []core.StockSummary) []RowView {
	rows := make([]RowView, 0, len(stocks))
	for _, s := range stocks {
		rows = append(rows, f.Row(s))
	}
	return rows
}

// MetricRow is a label/value line of the detail panel.
type MetricRow struct {
	Label string
	Value string
	Class string
}

// ScoreCard is one of the three score cards of the detail panel.
type ScoreCard struct {
	Label string
	Value string
	Class string
}

// DetailView is the modal content for one stock.
type DetailView struct {
	Symbol      string
	Title       string
	Performance []MetricRow
	Fundamental []MetricRow
	Scores      []ScoreCard
	Badge       Badge
}

// Detail renders the detail panel. Each absent field renders as N/A on its
// own; nothing in the record can fail the whole panel.
func (f *Formatter) Detail(symbol string, d core.StockDetail) DetailView {
	m := d.Metrics()

	name := d.Name
	if name == "" {
		name = symbol
	}

	return DetailView{
		Symbol: symbol,
		Title:  f.DisplaySymbol(symbol) + " - " + name,
		Performance: []MetricRow{
			{Label: "Current Price", Value: f.OptionalCurrency(d.CurrentPrice), Class: "fw-bold"},
			{Label: "Price Decline", Value: f.OptionalPercent(d.PriceDecline, 1), Class: "text-danger fw-bold"},
			{Label: "Volatility", Value: f.OptionalRaw(m.Volatility, "%")},
			{Label: "RSI", Value: f.OptionalFixed(m.RSI, 1)},
		},
		Fundamental: []MetricRow{
			{Label: "P/E Ratio", Value: f.OptionalFixed(m.PERatio, 2)},
			{Label: "P/B Ratio", Value: f.OptionalFixed(m.PBRatio, 2)},
			{Label: "ROE", Value: f.OptionalRatioPercent(m.ROE, 1)},
			{Label: "Debt/Equity", Value: f.OptionalFixed(m.DebtToEquity, 2)},
			{Label: "Market Cap", Value: f.OptionalAmount(m.MarketCap)},
			{Label: "Dividend Yield", Value: f.OptionalRatioPercent(m.DividendYield, 2)},
		},
		Scores: []ScoreCard{
			{Label: "Fundamental Score", Value: f.OptionalScore(d.FundamentalScore), Class: "text-info"},
			{Label: "Technical Score", Value: f.OptionalScore(d.TechnicalScore), Class: "text-warning"},
			{Label: "Overall Score", Value: f.OptionalScore(d.OverallScore), Class: "text-success"},
		},
		Badge: NewBadge(d.Recommendation),
	}
}
