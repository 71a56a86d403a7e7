package ratecalc

import (
	"errors"
	"fmt"
	"math"

	"JewarRates/internal/domain/models"
)

// Bands are the plausibility limits applied to raw quotes (USD per ounce)
// and to the USD/INR rate.
type Bands struct {
	GoldMin            float64
	GoldMax            float64
	SilverMin          float64
	SilverMax          float64
	MinGoldSilverRatio float64
	USDINRMin          float64
	USDINRMax          float64
}

func DefaultBands() Bands {
	return Bands{
		GoldMin:            800,
		GoldMax:            8000,
		SilverMin:          5,
		SilverMax:          200,
		MinGoldSilverRatio: 0.8,
		USDINRMin:          60,
		USDINRMax:          150,
	}
}

var ErrImplausible = errors.New("implausible quote")

type Validator struct {
	bands Bands
}

func NewValidator(b Bands) *Validator {
	return &Validator{bands: b}
}

func (v *Validator) Bands() Bands { return v.bands }

// Validate reports whether q may be converted and published.
func (v *Validator) Validate(q models.Quote) bool {
	return v.Check(q) == nil
}

// Check returns the first reason q is rejected.
func (v *Validator) Check(q models.Quote) error {
	g, s := q.GoldUSDPerOunce, q.SilverUSDPerOunce
	switch {
	case !finitePositive(g) || !finitePositive(s):
		return fmt.Errorf("%w: non-positive price gold=%v silver=%v", ErrImplausible, g, s)
	case g <= s*v.bands.MinGoldSilverRatio:
		return fmt.Errorf("%w: gold %v not above silver %v", ErrImplausible, g, s)
	case g < v.bands.GoldMin || g > v.bands.GoldMax:
		return fmt.Errorf("%w: gold %v outside [%v, %v]", ErrImplausible, g, v.bands.GoldMin, v.bands.GoldMax)
	case s < v.bands.SilverMin || s > v.bands.SilverMax:
		return fmt.Errorf("%w: silver %v outside [%v, %v]", ErrImplausible, s, v.bands.SilverMin, v.bands.SilverMax)
	}
	return nil
}

// ValidateExchangeRate checks a USD/INR rate against its band.
func (v *Validator) ValidateExchangeRate(rate float64) error {
	if !finitePositive(rate) || rate < v.bands.USDINRMin || rate > v.bands.USDINRMax {
		return fmt.Errorf("%w: usd/inr %v outside [%v, %v]", ErrImplausible, rate, v.bands.USDINRMin, v.bands.USDINRMax)
	}
	return nil
}

func finitePositive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
