package models

// Requests and views for the rates HTTP endpoints.

type EstimateRequest struct {
	Metal            Metal   `json:"metal" validate:"required,oneof=gold silver"`
	Purity           Karat   `json:"purity" default:"22KT" validate:"required"`
	WeightGrams      float64 `json:"weight_grams" validate:"gt=0,lte=100000"`
	MakingChargesPct float64 `json:"making_charges_pct" default:"3.5" validate:"gte=0,lte=100"`
	GSTPct           float64 `json:"gst_pct" default:"3" validate:"gte=0,lte=100"`
}

// Estimate is a jewellery cost breakdown in INR.
type Estimate struct {
	Metal            Metal   `json:"metal"`
	Purity           Karat   `json:"purity"`
	WeightGrams      float64 `json:"weightGrams"`
	RatePer10g       int64   `json:"ratePer10g"`
	BaseValue        float64 `json:"baseValue"`
	MakingCharges    float64 `json:"makingCharges"`
	Subtotal         float64 `json:"subtotal"`
	GST              float64 `json:"gst"`
	Total            float64 `json:"total"`
	MakingChargesPct float64 `json:"makingChargesPct"`
	GSTPct           float64 `json:"gstPct"`
	RateSource       Source  `json:"rateSource"`
}

// RatesSettings is the operator view of the refresh configuration.
type RatesSettings struct {
	UpdateIntervalMs int64           `json:"updateInterval"`
	CacheTTLSeconds  int64           `json:"cacheTTL"`
	ChangeThreshold  float64         `json:"changeThreshold"`
	APIsConfigured   map[string]bool `json:"apisConfigured"`
	CacheBackend     string          `json:"cacheBackend"`
	RedisEnabled     bool            `json:"redisEnabled"`
	KafkaEnabled     bool            `json:"kafkaEnabled"`
	SimulationOn     bool            `json:"simulationEnabled"`
}
