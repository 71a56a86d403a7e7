package models

import (
	"strconv"
	"strings"
	"time"
)

// Source tags where a quote, exchange rate or table came from.
type Source string

const (
	SourceMetalsAPI       Source = "metals_api"
	SourceGoldAPI         Source = "gold_api"
	SourceFixerAPI        Source = "fixer_api"
	SourceExchangeRateAPI Source = "exchangerate_api_free"
	SourceCurrencyAPI     Source = "currency_api_free"
	SourceDefault         Source = "default"
	SourceSimulation      Source = "simulation"
	SourceFallback        Source = "fallback"
)

// IsLive reports whether the table was built from a real upstream quote.
func (s Source) IsLive() bool {
	return s != SourceSimulation && s != SourceFallback && s != ""
}

type Metal string

const (
	Gold   Metal = "gold"
	Silver Metal = "silver"
)

// Karat is a purity key such as "24KT".
type Karat string

const (
	K24 Karat = "24KT"
	K22 Karat = "22KT"
	K20 Karat = "20KT"
	K18 Karat = "18KT"
	K14 Karat = "14KT"
	K9  Karat = "9KT"
)

// Purity returns the numeric karat (24 for "24KT"), or 0 when malformed.
func (k Karat) Purity() int {
	n, err := strconv.Atoi(strings.TrimSuffix(string(k), "KT"))
	if err != nil || n <= 0 || n > 24 {
		return 0
	}
	return n
}

// KaratsFor lists the karats published for a metal, highest purity first.
func KaratsFor(m Metal) []Karat {
	switch m {
	case Gold:
		return []Karat{K24, K22, K20, K18, K14}
	case Silver:
		return []Karat{K24, K22, K18, K14, K9}
	default:
		return nil
	}
}

// KaratTable maps karat to INR per 10 grams.
type KaratTable map[Karat]int64

// Base returns the 24KT value.
func (t KaratTable) Base() int64 { return t[K24] }

// Quote is a raw spot quote from one metal source.
type Quote struct {
	GoldUSDPerOunce   float64   `json:"goldUsdPerOunce"`
	SilverUSDPerOunce float64   `json:"silverUsdPerOunce"`
	Source            Source    `json:"source"`
	FetchedAt         time.Time `json:"fetchedAt"`
}

type ExchangeRate struct {
	USDToINR  float64   `json:"usdToInr"`
	Source    Source    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// RateTable is the published artifact consumed by the storefront.
type RateTable struct {
	LastUpdated    time.Time  `json:"lastUpdated"`
	Gold           KaratTable `json:"gold"`
	Silver         KaratTable `json:"silver"`
	Source         Source     `json:"source"`
	ExchangeRate   float64    `json:"exchangeRate"`
	ExchangeSource Source     `json:"exchangeSource,omitempty"`
	Warning        string     `json:"warning,omitempty"`
}

// Clone returns a deep copy so callers can't mutate shared karat maps.
func (t RateTable) Clone() RateTable {
	out := t
	out.Gold = make(KaratTable, len(t.Gold))
	for k, v := range t.Gold {
		out.Gold[k] = v
	}
	out.Silver = make(KaratTable, len(t.Silver))
	for k, v := range t.Silver {
		out.Silver[k] = v
	}
	return out
}

// IsZero reports whether the table carries no rates.
func (t RateTable) IsZero() bool {
	return t.Gold.Base() == 0 && t.Silver.Base() == 0
}

// Subscriber receives every published table.
type Subscriber func(RateTable)

type HealthStatus string

const (
	Healthy       HealthStatus = "healthy"
	Unhealthy     HealthStatus = "unhealthy"
	NotConfigured HealthStatus = "not_configured"
)

type SourceHealth struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message"`
}

// HealthReport is keyed by source name.
type HealthReport map[string]SourceHealth

// UpdaterStatus describes the background refresh loop.
type UpdaterStatus struct {
	Running       bool          `json:"isRunning"`
	Updating      bool          `json:"isUpdating"`
	Interval      time.Duration `json:"-"`
	IntervalMs    int64         `json:"updateInterval"`
	NextUpdate    *time.Time    `json:"nextUpdate,omitempty"`
	Subscribers   int           `json:"subscribers"`
	LastPublished time.Time     `json:"lastPublished"`
}

// MarketStatus is the trading-hours view shown next to the rates.
type MarketStatus struct {
	IsOpen   bool      `json:"isOpen"`
	Status   string    `json:"status"`
	NextOpen time.Time `json:"nextOpen"`
}
