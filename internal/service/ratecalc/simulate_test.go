package ratecalc

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"JewarRates/internal/domain/models"

	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func TestSimulatorStaysWithinBound(t *testing.T) {
	t.Parallel()

	s := NewSimulator(WithRand(seeded(42)))
	// Monday 09:30 IST: highest volatility multiplier plus weekly drift
	at := time.Date(2024, 3, 4, 9, 30, 0, 0, IST)

	for i := 0; i < 5000; i++ {
		for _, m := range []models.Metal{models.Gold, models.Silver} {
			f := s.Factor(m, at)
			require.LessOrEqual(t, math.Abs(f), DefaultMaxStep)
		}
	}
}

func TestSimulatorStepBoundedAndDeterministic(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 6, 14, 0, 0, 0, IST)
	a := NewSimulator(WithRand(seeded(7)))
	b := NewSimulator(WithRand(seeded(7)))

	g1, s1 := a.Step(99150, 1065, at)
	g2, s2 := b.Step(99150, 1065, at)
	require.Equal(t, g1, g2)
	require.Equal(t, s1, s2)

	require.InDelta(t, 99150, g1, 99150*DefaultMaxStep+1)
	require.InDelta(t, 1065, s1, 1065*DefaultMaxStep+1)
}

func TestSimulatorMaxStepOverride(t *testing.T) {
	t.Parallel()

	s := NewSimulator(WithRand(seeded(1)), WithMaxStep(0.0001))
	at := time.Date(2024, 3, 4, 9, 0, 0, 0, IST)
	for i := 0; i < 200; i++ {
		require.LessOrEqual(t, math.Abs(s.Factor(models.Silver, at)), 0.0001)
	}
}

func TestVolatilityMultiplier(t *testing.T) {
	t.Parallel()

	h := DefaultMarketHours()
	tests := []struct {
		name string
		at   time.Time
		want float64
	}{
		{"opening hour", time.Date(2024, 3, 5, 9, 15, 0, 0, IST), 2.0},
		{"closing hour", time.Date(2024, 3, 5, 16, 45, 0, 0, IST), 2.0},
		{"midday", time.Date(2024, 3, 5, 12, 0, 0, 0, IST), 1.5},
		{"evening", time.Date(2024, 3, 5, 20, 0, 0, 0, IST), 0.8},
		{"saturday", time.Date(2024, 3, 9, 12, 0, 0, 0, IST), 0.8},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, h.volatilityMultiplier(tt.at), tt.name)
	}
}

func TestMarketStatus(t *testing.T) {
	t.Parallel()

	h := DefaultMarketHours()

	open := h.Status(time.Date(2024, 3, 5, 10, 0, 0, 0, IST))
	require.True(t, open.IsOpen)
	require.Equal(t, "OPEN", open.Status)
	require.Equal(t, time.Date(2024, 3, 6, 9, 0, 0, 0, IST), open.NextOpen)

	early := h.Status(time.Date(2024, 3, 5, 7, 0, 0, 0, IST))
	require.False(t, early.IsOpen)
	require.Equal(t, time.Date(2024, 3, 5, 9, 0, 0, 0, IST), early.NextOpen)

	// Friday evening rolls over the weekend
	fri := h.Status(time.Date(2024, 3, 8, 18, 0, 0, 0, IST))
	require.Equal(t, "CLOSED", fri.Status)
	require.Equal(t, time.Date(2024, 3, 11, 9, 0, 0, 0, IST), fri.NextOpen)
}
