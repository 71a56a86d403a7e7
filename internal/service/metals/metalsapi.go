package metals

import (
	"context"
	"fmt"
	"strings"
	"time"

	"JewarRates/internal/domain/models"
	"JewarRates/internal/domain/repository"
	"JewarRates/internal/service/upstream"
	xhttp "JewarRates/pkg/http"
)

const DefaultMetalsAPIURL = "https://api.metals.live/v1/spot"

// MetalsAPI reads spot gold and silver from a single metals endpoint.
type MetalsAPI struct {
	http     upstream.Doer
	settings upstream.Settings
	now      func() time.Time
}

var _ repository.MetalSource = (*MetalsAPI)(nil)

func NewMetalsAPI(client upstream.Doer, s upstream.Settings) *MetalsAPI {
	if s.BaseURL == "" {
		s.BaseURL = DefaultMetalsAPIURL
	}
	return &MetalsAPI{http: client, settings: s, now: time.Now}
}

func (c *MetalsAPI) Name() models.Source { return models.SourceMetalsAPI }

func (c *MetalsAPI) Fetch(ctx context.Context) (models.Quote, error) {
	if err := c.settings.RequireKey(c.Name()); err != nil {
		return models.Quote{}, err
	}

	var body map[string]interface{}
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    strings.TrimRight(c.settings.BaseURL, "/") + "/gold,silver",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.settings.APIKey,
		},
		QueryParams: map[string][]string{
			"currency": {"USD"},
			"unit":     {"oz"},
		},
	}, &body)
	if err != nil {
		return models.Quote{}, upstream.Classify(c.Name(), err)
	}

	gold, err := lookupPrice(body, "gold", "XAU", "GOLD")
	if err != nil {
		return models.Quote{}, models.InvalidResponseError(c.Name(), fmt.Errorf("gold: %w", err))
	}
	silver, err := lookupPrice(body, "silver", "XAG", "SILVER")
	if err != nil {
		return models.Quote{}, models.InvalidResponseError(c.Name(), fmt.Errorf("silver: %w", err))
	}

	return models.Quote{
		GoldUSDPerOunce:   gold,
		SilverUSDPerOunce: silver,
		Source:            c.Name(),
		FetchedAt:         c.now(),
	}, nil
}
