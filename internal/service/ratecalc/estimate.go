package ratecalc

import (
	"errors"
	"fmt"

	"JewarRates/internal/domain/models"

	"github.com/shopspring/decimal"
)

var ErrUnknownPurity = errors.New("purity not published for metal")

var hundred = decimal.NewFromInt(100)

// Estimate prices a piece of jewellery from the current table:
// base = rate*weight/10, making = base*pct, gst on base+making.
func Estimate(t models.RateTable, req models.EstimateRequest) (models.Estimate, error) {
	table := t.Gold
	if req.Metal == models.Silver {
		table = t.Silver
	}
	rate, ok := table[req.Purity]
	if !ok {
		return models.Estimate{}, fmt.Errorf("%w: %s %s", ErrUnknownPurity, req.Metal, req.Purity)
	}

	base := decimal.NewFromInt(rate).Mul(decimal.NewFromFloat(req.WeightGrams)).Div(ten)
	making := base.Mul(decimal.NewFromFloat(req.MakingChargesPct)).Div(hundred)
	subtotal := base.Add(making)
	gst := subtotal.Mul(decimal.NewFromFloat(req.GSTPct)).Div(hundred)
	total := subtotal.Add(gst)

	return models.Estimate{
		Metal:            req.Metal,
		Purity:           req.Purity,
		WeightGrams:      req.WeightGrams,
		RatePer10g:       rate,
		BaseValue:        money(base),
		MakingCharges:    money(making),
		Subtotal:         money(subtotal),
		GST:              money(gst),
		Total:            money(total),
		MakingChargesPct: req.MakingChargesPct,
		GSTPct:           req.GSTPct,
		RateSource:       t.Source,
	}, nil
}

func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
