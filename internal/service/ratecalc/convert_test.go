package ratecalc

import (
	"testing"
	"time"

	"JewarRates/internal/domain/models"

	"github.com/stretchr/testify/require"
)

func TestConvertToINRPer10g(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		usd  float64
		fx   float64
		want int64
	}{
		{name: "exact ounce multiple", usd: 311.035, fx: 1, want: 100},
		{name: "gold at 83", usd: 2000, fx: 83, want: 53370},
		{name: "silver at 83", usd: 25, fx: 83, want: 667},
		{name: "zero price", usd: 0, fx: 83, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ConvertToINRPer10g(tt.usd, tt.fx))
		})
	}
}

func TestExpandKaratTableGold(t *testing.T) {
	t.Parallel()

	got := ExpandKaratTable(53370, models.Gold)
	require.Equal(t, models.KaratTable{
		models.K24: 53370,
		models.K22: 48923,
		models.K20: 44475,
		models.K18: 40028,
		models.K14: 31133,
	}, got)
}

func TestExpandKaratTableSilver(t *testing.T) {
	t.Parallel()

	got := ExpandKaratTable(1065, models.Silver)
	require.Equal(t, models.KaratTable{
		models.K24: 1065,
		models.K22: 976,
		models.K18: 799,
		models.K14: 621,
		models.K9:  399,
	}, got)
}

func TestExpandKaratTableIsMonotonic(t *testing.T) {
	t.Parallel()

	for _, base := range []int64{1000, 53370, 99150, 123457} {
		for _, m := range []models.Metal{models.Gold, models.Silver} {
			table := ExpandKaratTable(base, m)
			karats := models.KaratsFor(m)
			require.Equal(t, base, table[models.K24])
			for i := 1; i < len(karats); i++ {
				require.Less(t, table[karats[i]], table[karats[i-1]], "%s %d", m, base)
			}
		}
	}
}

func TestFromQuoteEndToEnd(t *testing.T) {
	t.Parallel()

	// Arrange
	at := time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC)
	q := models.Quote{GoldUSDPerOunce: 2000, SilverUSDPerOunce: 25, Source: models.SourceGoldAPI}
	fx := models.ExchangeRate{USDToINR: 83, Source: models.SourceFixerAPI}

	// Act
	table := FromQuote(q, fx, at)

	// Assert
	require.Equal(t, int64(53370), table.Gold[models.K24])
	require.Equal(t, int64(48923), table.Gold[models.K22])
	require.Equal(t, int64(667), table.Silver[models.K24])
	require.Equal(t, models.SourceGoldAPI, table.Source)
	require.Equal(t, models.SourceFixerAPI, table.ExchangeSource)
	require.InDelta(t, 83.0, table.ExchangeRate, 1e-9)
	require.Equal(t, at, table.LastUpdated)
}

func TestOunceGramHelpers(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 31.1035, TroyOunceToGrams(1), 1e-9)
	require.InDelta(t, 1.0, GramsToTroyOunce(31.1035), 1e-9)
	require.InDelta(t, 10.0, PercentageChange(100, 110), 1e-9)
	require.Zero(t, PercentageChange(0, 110))
}
