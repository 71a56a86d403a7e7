package usecase

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"JewarRates/internal/domain/models"
	"JewarRates/internal/domain/repository"
	"JewarRates/internal/domain/repository/mocks"
	icache "JewarRates/internal/service/cache"
	"JewarRates/internal/service/ratecalc"
	pkgcache "JewarRates/pkg/cache"
	"JewarRates/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// Wednesday 11:00 IST, mid-session.
var fixedNow = time.Date(2025, 1, 15, 11, 0, 0, 0, ratecalc.IST)

type orchestratorFixture struct {
	orch  *RateOrchestrator
	store *icache.RateStore
	mem   *pkgcache.MemoryCache
}

func newOrchestrator(t *testing.T, cfg OrchestratorConfig, fx repository.ExchangeSource, sources ...repository.MetalSource) orchestratorFixture {
	t.Helper()
	mem := pkgcache.NewMemoryCache(pkgcache.WithMemoryCleanup(0))
	t.Cleanup(func() { _ = mem.Close() })

	store := icache.NewRateStore(mem, nil)
	sim := ratecalc.NewSimulator(ratecalc.WithRand(rand.New(rand.NewPCG(1, 2))))
	orch := NewRateOrchestrator(
		store,
		sources,
		fx,
		ratecalc.NewValidator(ratecalc.DefaultBands()),
		sim,
		metrics.New(prometheus.NewRegistry()),
		nil,
		cfg,
		WithClock(func() time.Time { return fixedNow }),
	)
	return orchestratorFixture{orch: orch, store: store, mem: mem}
}

func TestOrchestratorFetchesFromFirstHealthySource(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	fx := mocks.NewMockExchangeSource(ctrl)
	metalsAPI := mocks.NewMockMetalSource(ctrl)
	goldAPI := mocks.NewMockMetalSource(ctrl)

	fx.EXPECT().Name().Return(models.Source("exchange_rate_api")).AnyTimes()
	fx.EXPECT().Fetch(gomock.Any()).Return(models.ExchangeRate{USDToINR: 83, Source: models.SourceFixerAPI}, nil).Times(1)

	metalsAPI.EXPECT().Name().Return(models.SourceMetalsAPI).AnyTimes()
	goldAPI.EXPECT().Name().Return(models.SourceGoldAPI).AnyTimes()
	gomock.InOrder(
		metalsAPI.EXPECT().Fetch(gomock.Any()).Return(models.Quote{}, models.NotConfiguredError(models.SourceMetalsAPI, "no key")),
		goldAPI.EXPECT().Fetch(gomock.Any()).Return(models.Quote{GoldUSDPerOunce: 2000, SilverUSDPerOunce: 25, Source: models.SourceGoldAPI}, nil),
	)

	f := newOrchestrator(t, DefaultOrchestratorConfig(), fx, metalsAPI, goldAPI)

	// Act
	table := f.orch.Fetch(context.Background())

	// Assert
	require.Equal(t, models.SourceGoldAPI, table.Source)
	require.Equal(t, int64(53370), table.Gold[models.K24])
	require.Equal(t, int64(48923), table.Gold[models.K22])
	require.Equal(t, int64(667), table.Silver[models.K24])
	require.Equal(t, 83.0, table.ExchangeRate)
	require.Empty(t, table.Warning)

	cached, ok := f.store.Table(context.Background())
	require.True(t, ok)
	require.Equal(t, table, cached)

	rate, ok := f.store.ExchangeRate(context.Background())
	require.True(t, ok)
	require.Equal(t, 83.0, rate.USDToINR)
}

func TestOrchestratorServesCachedTable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fx := mocks.NewMockExchangeSource(ctrl)
	src := mocks.NewMockMetalSource(ctrl)
	fx.EXPECT().Fetch(gomock.Any()).Times(0)
	src.EXPECT().Fetch(gomock.Any()).Times(0)

	f := newOrchestrator(t, DefaultOrchestratorConfig(), fx, src)
	want := ratecalc.BuildTable(53370, 667, models.SourceMetalsAPI,
		models.ExchangeRate{USDToINR: 83, Source: models.SourceFixerAPI}, fixedNow)
	f.store.SetTable(context.Background(), want, time.Minute)

	got := f.orch.Fetch(context.Background())
	require.Equal(t, want, got)
}

func TestOrchestratorRejectsImplausibleQuote(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fx := mocks.NewMockExchangeSource(ctrl)
	bad := mocks.NewMockMetalSource(ctrl)
	good := mocks.NewMockMetalSource(ctrl)

	fx.EXPECT().Fetch(gomock.Any()).Return(models.ExchangeRate{USDToINR: 83, Source: models.SourceFixerAPI}, nil)
	bad.EXPECT().Name().Return(models.SourceMetalsAPI).AnyTimes()
	good.EXPECT().Name().Return(models.SourceGoldAPI).AnyTimes()
	bad.EXPECT().Fetch(gomock.Any()).Return(models.Quote{GoldUSDPerOunce: 20, SilverUSDPerOunce: 25, Source: models.SourceMetalsAPI}, nil)
	good.EXPECT().Fetch(gomock.Any()).Return(models.Quote{GoldUSDPerOunce: 2000, SilverUSDPerOunce: 25, Source: models.SourceGoldAPI}, nil)

	f := newOrchestrator(t, DefaultOrchestratorConfig(), fx, bad, good)

	table := f.orch.Fetch(t.Context())
	require.Equal(t, models.SourceGoldAPI, table.Source)
}

func TestOrchestratorDefaultsExchangeRateWithoutCaching(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fx := mocks.NewMockExchangeSource(ctrl)
	src := mocks.NewMockMetalSource(ctrl)

	fx.EXPECT().Name().Return(models.Source("exchange_rate_api")).AnyTimes()
	fx.EXPECT().Fetch(gomock.Any()).Return(models.ExchangeRate{}, models.ErrAllSourcesExhausted)
	src.EXPECT().Name().Return(models.SourceGoldAPI).AnyTimes()
	src.EXPECT().Fetch(gomock.Any()).Return(models.Quote{GoldUSDPerOunce: 2000, SilverUSDPerOunce: 25, Source: models.SourceGoldAPI}, nil)

	f := newOrchestrator(t, DefaultOrchestratorConfig(), fx, src)

	table := f.orch.Fetch(t.Context())
	require.Equal(t, 83.5, table.ExchangeRate)
	require.Equal(t, models.SourceDefault, table.ExchangeSource)

	_, ok := f.store.ExchangeRate(t.Context())
	require.False(t, ok)
}

func TestOrchestratorSimulatesWhenSourcesExhausted(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fx := mocks.NewMockExchangeSource(ctrl)
	src := mocks.NewMockMetalSource(ctrl)

	fx.EXPECT().Fetch(gomock.Any()).Return(models.ExchangeRate{USDToINR: 83, Source: models.SourceFixerAPI}, nil)
	src.EXPECT().Name().Return(models.SourceGoldAPI).AnyTimes()
	src.EXPECT().Fetch(gomock.Any()).Return(models.Quote{}, models.UnreachableError(models.SourceGoldAPI, 503, "Service Unavailable", nil))

	f := newOrchestrator(t, DefaultOrchestratorConfig(), fx, src)

	table := f.orch.Fetch(t.Context())

	require.Equal(t, models.SourceSimulation, table.Source)
	require.NotEmpty(t, table.Warning)
	require.InDelta(t, 99150, table.Gold.Base(), 99150*ratecalc.DefaultMaxStep+1)
	require.InDelta(t, 1065, table.Silver.Base(), 1065*ratecalc.DefaultMaxStep+1)
	require.Len(t, table.Gold, len(models.KaratsFor(models.Gold)))
}

func TestOrchestratorStaticFallbackWhenSimulationDisabled(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fx := mocks.NewMockExchangeSource(ctrl)
	src := mocks.NewMockMetalSource(ctrl)

	fx.EXPECT().Fetch(gomock.Any()).Return(models.ExchangeRate{USDToINR: 83, Source: models.SourceFixerAPI}, nil)
	src.EXPECT().Name().Return(models.SourceGoldAPI).AnyTimes()
	src.EXPECT().Fetch(gomock.Any()).Return(models.Quote{}, errors.New("dial tcp: refused"))

	cfg := DefaultOrchestratorConfig()
	cfg.SimulationEnabled = false
	f := newOrchestrator(t, cfg, fx, src)

	table := f.orch.Fetch(t.Context())

	require.Equal(t, models.SourceFallback, table.Source)
	require.Equal(t, fallbackWarning, table.Warning)
	require.Equal(t, int64(99150), table.Gold.Base())
	require.Equal(t, int64(90888), table.Gold[models.K22])
	require.Equal(t, int64(1065), table.Silver.Base())
	require.Equal(t, 83.0, table.ExchangeRate)
}

func TestOrchestratorInvalidate(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fx := mocks.NewMockExchangeSource(ctrl)
	src := mocks.NewMockMetalSource(ctrl)

	fx.EXPECT().Fetch(gomock.Any()).Return(models.ExchangeRate{USDToINR: 83, Source: models.SourceFixerAPI}, nil).Times(1)
	src.EXPECT().Name().Return(models.SourceGoldAPI).AnyTimes()
	src.EXPECT().Fetch(gomock.Any()).Return(models.Quote{GoldUSDPerOunce: 2000, SilverUSDPerOunce: 25, Source: models.SourceGoldAPI}, nil).Times(2)

	f := newOrchestrator(t, DefaultOrchestratorConfig(), fx, src)

	_ = f.orch.Fetch(t.Context())
	_ = f.orch.Fetch(t.Context())
	require.NoError(t, f.orch.Invalidate(t.Context()))
	_ = f.orch.Fetch(t.Context())
}

func TestOrchestratorStopsAtFirstSuccessfulSource(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fx := mocks.NewMockExchangeSource(ctrl)
	metalsAPI := mocks.NewMockMetalSource(ctrl)
	goldAPI := mocks.NewMockMetalSource(ctrl)

	fx.EXPECT().Name().Return(models.SourceFixerAPI).AnyTimes()
	fx.EXPECT().Fetch(gomock.Any()).Return(models.ExchangeRate{USDToINR: 83, Source: models.SourceFixerAPI}, nil).Times(1)
	metalsAPI.EXPECT().Name().Return(models.SourceMetalsAPI).AnyTimes()
	goldAPI.EXPECT().Name().Return(models.SourceGoldAPI).AnyTimes()
	metalsAPI.EXPECT().Fetch(gomock.Any()).
		Return(models.Quote{GoldUSDPerOunce: 2000, SilverUSDPerOunce: 25, Source: models.SourceMetalsAPI}, nil).
		Times(1)
	goldAPI.EXPECT().Fetch(gomock.Any()).Times(0)

	f := newOrchestrator(t, DefaultOrchestratorConfig(), fx, metalsAPI, goldAPI)

	table := f.orch.Fetch(context.Background())

	require.Equal(t, models.SourceMetalsAPI, table.Source)
	require.Equal(t, int64(53370), table.Gold[models.K24])
}

func TestOrchestratorFetchFreshIgnoresCachedTable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fx := mocks.NewMockExchangeSource(ctrl)
	src := mocks.NewMockMetalSource(ctrl)

	fx.EXPECT().Name().Return(models.SourceFixerAPI).AnyTimes()
	fx.EXPECT().Fetch(gomock.Any()).Return(models.ExchangeRate{USDToINR: 83, Source: models.SourceFixerAPI}, nil).AnyTimes()
	src.EXPECT().Name().Return(models.SourceMetalsAPI).AnyTimes()
	src.EXPECT().Fetch(gomock.Any()).
		Return(models.Quote{GoldUSDPerOunce: 2000, SilverUSDPerOunce: 25, Source: models.SourceMetalsAPI}, nil).
		Times(1)

	f := newOrchestrator(t, DefaultOrchestratorConfig(), fx, src)
	stale := ratecalc.BuildTable(50000, 600, models.SourceGoldAPI,
		models.ExchangeRate{USDToINR: 82, Source: models.SourceFixerAPI}, fixedNow.Add(-time.Minute))
	f.store.SetTable(context.Background(), stale, time.Minute)

	got := f.orch.FetchFresh(context.Background())

	require.Equal(t, models.SourceMetalsAPI, got.Source)
	require.Equal(t, int64(53370), got.Gold.Base())

	cached, ok := f.store.Table(context.Background())
	require.True(t, ok)
	require.Equal(t, got, cached)
}
