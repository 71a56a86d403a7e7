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

	"golang.org/x/sync/errgroup"
)

const DefaultGoldAPIURL = "https://www.goldapi.io/api"

// GoldAPI quotes each metal on its own endpoint; both are fetched in
// parallel and either failure fails the whole quote.
type GoldAPI struct {
	http     upstream.Doer
	settings upstream.Settings
	now      func() time.Time
}

var _ repository.MetalSource = (*GoldAPI)(nil)

func NewGoldAPI(client upstream.Doer, s upstream.Settings) *GoldAPI {
	if s.BaseURL == "" {
		s.BaseURL = DefaultGoldAPIURL
	}
	return &GoldAPI{http: client, settings: s, now: time.Now}
}

func (c *GoldAPI) Name() models.Source { return models.SourceGoldAPI }

func (c *GoldAPI) Fetch(ctx context.Context) (models.Quote, error) {
	if err := c.settings.RequireKey(c.Name()); err != nil {
		return models.Quote{}, err
	}

	var gold, silver float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := c.price(gctx, "XAU")
		gold = v
		return err
	})
	g.Go(func() error {
		v, err := c.price(gctx, "XAG")
		silver = v
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Quote{}, err
	}

	return models.Quote{
		GoldUSDPerOunce:   gold,
		SilverUSDPerOunce: silver,
		Source:            c.Name(),
		FetchedAt:         c.now(),
	}, nil
}

func (c *GoldAPI) price(ctx context.Context, symbol string) (float64, error) {
	var body map[string]interface{}
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     fmt.Sprintf("%s/%s/USD", strings.TrimRight(c.settings.BaseURL, "/"), symbol),
		Headers: map[string]string{"x-access-token": c.settings.APIKey},
	}, &body)
	if err != nil {
		return 0, upstream.Classify(c.Name(), err)
	}

	v, err := lookupPrice(body, "price")
	if err != nil {
		return 0, models.InvalidResponseError(c.Name(), fmt.Errorf("%s: %w", symbol, err))
	}
	return v, nil
}
