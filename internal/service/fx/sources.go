// Package fx fetches the USD to INR exchange rate.
package fx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"JewarRates/internal/domain/models"
	"JewarRates/internal/domain/repository"
	"JewarRates/internal/service/upstream"
	xhttp "JewarRates/pkg/http"
)

const (
	DefaultFixerURL        = "https://api.fixer.io"
	DefaultExchangeRateURL = "https://api.exchangerate-api.com/v4/latest/USD"
	DefaultCurrencyAPIURL  = "https://api.currencyapi.com/v3/latest"
)

var errNoINR = errors.New("INR rate missing")

// Fixer is the paid primary source.
type Fixer struct {
	http     upstream.Doer
	settings upstream.Settings
	now      func() time.Time
}

var _ repository.ExchangeSource = (*Fixer)(nil)

func NewFixer(client upstream.Doer, s upstream.Settings) *Fixer {
	if s.BaseURL == "" {
		s.BaseURL = DefaultFixerURL
	}
	return &Fixer{http: client, settings: s, now: time.Now}
}

func (f *Fixer) Name() models.Source { return models.SourceFixerAPI }

func (f *Fixer) Fetch(ctx context.Context) (models.ExchangeRate, error) {
	if err := f.settings.RequireKey(f.Name()); err != nil {
		return models.ExchangeRate{}, err
	}

	var body struct {
		Success bool                   `json:"success"`
		Rates   map[string]json.Number `json:"rates"`
		Error   *struct {
			Code int    `json:"code"`
			Info string `json:"info"`
		} `json:"error"`
	}
	err := f.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    strings.TrimRight(f.settings.BaseURL, "/") + "/latest",
		QueryParams: map[string][]string{
			"access_key": {f.settings.APIKey},
			"base":       {"USD"},
			"symbols":    {"INR"},
		},
	}, &body)
	if err != nil {
		return models.ExchangeRate{}, upstream.Classify(f.Name(), err)
	}
	if !body.Success {
		reason := "success=false"
		if body.Error != nil {
			reason = fmt.Sprintf("%d %s", body.Error.Code, body.Error.Info)
		}
		return models.ExchangeRate{}, models.InvalidResponseError(f.Name(), errors.New(reason))
	}

	return parseRate(f.Name(), body.Rates["INR"], f.now())
}

// ExchangeRateAPI is the first free fallback.
type ExchangeRateAPI struct {
	http     upstream.Doer
	settings upstream.Settings
	now      func() time.Time
}

var _ repository.ExchangeSource = (*ExchangeRateAPI)(nil)

func NewExchangeRateAPI(client upstream.Doer, s upstream.Settings) *ExchangeRateAPI {
	if s.BaseURL == "" {
		s.BaseURL = DefaultExchangeRateURL
	}
	return &ExchangeRateAPI{http: client, settings: s, now: time.Now}
}

func (e *ExchangeRateAPI) Name() models.Source { return models.SourceExchangeRateAPI }

func (e *ExchangeRateAPI) Fetch(ctx context.Context) (models.ExchangeRate, error) {
	if err := e.settings.RequireEnabled(e.Name()); err != nil {
		return models.ExchangeRate{}, err
	}

	var body struct {
		Rates map[string]json.Number `json:"rates"`
	}
	err := e.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    e.settings.BaseURL,
	}, &body)
	if err != nil {
		return models.ExchangeRate{}, upstream.Classify(e.Name(), err)
	}
	return parseRate(e.Name(), body.Rates["INR"], e.now())
}

// CurrencyAPI is the second free fallback.
type CurrencyAPI struct {
	http     upstream.Doer
	settings upstream.Settings
	now      func() time.Time
}

var _ repository.ExchangeSource = (*CurrencyAPI)(nil)

func NewCurrencyAPI(client upstream.Doer, s upstream.Settings) *CurrencyAPI {
	if s.BaseURL == "" {
		s.BaseURL = DefaultCurrencyAPIURL
	}
	if s.APIKey == "" {
		s.APIKey = "free"
	}
	return &CurrencyAPI{http: client, settings: s, now: time.Now}
}

func (c *CurrencyAPI) Name() models.Source { return models.SourceCurrencyAPI }

func (c *CurrencyAPI) Fetch(ctx context.Context) (models.ExchangeRate, error) {
	if err := c.settings.RequireEnabled(c.Name()); err != nil {
		return models.ExchangeRate{}, err
	}

	var body struct {
		Data map[string]struct {
			Value json.Number `json:"value"`
		} `json:"data"`
	}
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.settings.BaseURL,
		QueryParams: map[string][]string{
			"apikey":        {c.settings.APIKey},
			"base_currency": {"USD"},
			"currencies":    {"INR"},
		},
	}, &body)
	if err != nil {
		return models.ExchangeRate{}, upstream.Classify(c.Name(), err)
	}
	return parseRate(c.Name(), body.Data["INR"].Value, c.now())
}

func parseRate(src models.Source, n json.Number, at time.Time) (models.ExchangeRate, error) {
	if n == "" {
		return models.ExchangeRate{}, models.InvalidResponseError(src, errNoINR)
	}
	v, err := n.Float64()
	if err != nil {
		return models.ExchangeRate{}, models.InvalidResponseError(src, err)
	}
	return models.ExchangeRate{USDToINR: v, Source: src, FetchedAt: at}, nil
}
