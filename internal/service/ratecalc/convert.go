// Package ratecalc holds the pure arithmetic behind published rates:
// unit and currency conversion, karat expansion, quote validation,
// fallback simulation and cost estimates.
package ratecalc

import (
	"time"

	"JewarRates/internal/domain/models"

	"github.com/shopspring/decimal"
)

// GramsPerTroyOunce is fixed; never derived from configuration.
const GramsPerTroyOunce = 31.1035

var (
	troyOunce  = decimal.RequireFromString("31.1035")
	ten        = decimal.NewFromInt(10)
	twentyFour = decimal.NewFromInt(24)
)

// ConvertToINRPer10g converts a USD per troy ounce price into INR per 10 grams,
// rounded half away from zero to a whole rupee.
func ConvertToINRPer10g(usdPerOunce, usdToInr float64) int64 {
	return decimal.NewFromFloat(usdPerOunce).
		Div(troyOunce).
		Mul(ten).
		Mul(decimal.NewFromFloat(usdToInr)).
		Round(0).
		IntPart()
}

// KaratValue derives the rate for karat k from the 24KT base.
func KaratValue(base24kt int64, k models.Karat) int64 {
	return decimal.NewFromInt(base24kt).
		Mul(decimal.NewFromInt(int64(k.Purity()))).
		Div(twentyFour).
		Round(0).
		IntPart()
}

// ExpandKaratTable returns round(base*k/24) for every karat published for m.
func ExpandKaratTable(base24kt int64, m models.Metal) models.KaratTable {
	karats := models.KaratsFor(m)
	out := make(models.KaratTable, len(karats))
	for _, k := range karats {
		out[k] = KaratValue(base24kt, k)
	}
	return out
}

// BuildTable assembles a RateTable from the two 24KT bases.
func BuildTable(gold24, silver24 int64, src models.Source, fx models.ExchangeRate, at time.Time) models.RateTable {
	return models.RateTable{
		LastUpdated:    at,
		Gold:           ExpandKaratTable(gold24, models.Gold),
		Silver:         ExpandKaratTable(silver24, models.Silver),
		Source:         src,
		ExchangeRate:   fx.USDToINR,
		ExchangeSource: fx.Source,
	}
}

// FromQuote converts a validated quote into a full table.
func FromQuote(q models.Quote, fx models.ExchangeRate, at time.Time) models.RateTable {
	return BuildTable(
		ConvertToINRPer10g(q.GoldUSDPerOunce, fx.USDToINR),
		ConvertToINRPer10g(q.SilverUSDPerOunce, fx.USDToINR),
		q.Source,
		fx,
		at,
	)
}

func TroyOunceToGrams(oz float64) float64 {
	return oz * GramsPerTroyOunce
}

func GramsToTroyOunce(g float64) float64 {
	return g / GramsPerTroyOunce
}

// PercentageChange returns (curr-prev)/prev*100, or 0 when prev is 0.
func PercentageChange(prev, curr int64) float64 {
	if prev == 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(curr - prev).
		Div(decimal.NewFromInt(prev)).
		Mul(decimal.NewFromInt(100)).
		Round(4).
		Float64()
	return f
}
