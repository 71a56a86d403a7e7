package ratecalc

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"JewarRates/internal/domain/models"
)

const (
	goldVolatility   = 0.003
	silverVolatility = 0.005
	sentimentSwing   = 0.002
	currencySwing    = 0.002
	weeklyDrift      = 0.0005
	DefaultMaxStep   = 0.015
)

// Simulator produces plausible rate movement when every live source is down.
// Each step is a bounded random walk around the previous value.
type Simulator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	hours   MarketHours
	maxStep float64
}

type SimulatorOption func(*Simulator)

// WithRand injects the random source.
func WithRand(r *rand.Rand) SimulatorOption {
	return func(s *Simulator) { s.rng = r }
}

func WithMarketHours(h MarketHours) SimulatorOption {
	return func(s *Simulator) { s.hours = h }
}

// WithMaxStep caps the absolute relative change per step.
func WithMaxStep(f float64) SimulatorOption {
	return func(s *Simulator) {
		if f > 0 {
			s.maxStep = f
		}
	}
}

func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		hours:   DefaultMarketHours(),
		maxStep: DefaultMaxStep,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	return s
}

func (s *Simulator) MarketHours() MarketHours { return s.hours }

// Factor returns the relative change for one step, within [-maxStep, maxStep].
func (s *Simulator) Factor(m models.Metal, at time.Time) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	vol := goldVolatility
	if m == models.Silver {
		vol = silverVolatility
	}
	vol *= s.hours.volatilityMultiplier(at)

	change := (s.rng.Float64() - 0.5) * 2 * vol

	// 60% neutral, 20% bullish, 20% bearish
	switch r := s.rng.Float64(); {
	case r < 0.2:
		change += s.rng.Float64() * sentimentSwing
	case r < 0.4:
		change -= s.rng.Float64() * sentimentSwing
	}

	change += (s.rng.Float64() - 0.5) * currencySwing

	switch s.hours.local(at).Weekday() {
	case time.Monday:
		change += weeklyDrift
	case time.Friday:
		change -= weeklyDrift
	}

	return math.Max(-s.maxStep, math.Min(s.maxStep, change))
}

// Step moves both 24KT bases by one simulated tick.
func (s *Simulator) Step(gold24, silver24 int64, at time.Time) (int64, int64) {
	g := math.Round(float64(gold24) * (1 + s.Factor(models.Gold, at)))
	sv := math.Round(float64(silver24) * (1 + s.Factor(models.Silver, at)))
	return int64(g), int64(sv)
}
