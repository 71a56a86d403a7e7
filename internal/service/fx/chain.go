package fx

import (
	"context"
	"errors"
	"fmt"

	"JewarRates/internal/domain/models"
	"JewarRates/internal/domain/repository"
	"JewarRates/internal/service/ratecalc"
	applogger "JewarRates/pkg/logger"
)

const ChainName models.Source = "exchange_rate_api"

// Chain tries each source in order and returns the first plausible rate.
// It never substitutes a default; callers decide what to do on exhaustion.
type Chain struct {
	sources   []repository.ExchangeSource
	validator *ratecalc.Validator
	logger    *applogger.Logger
}

var _ repository.ExchangeSource = (*Chain)(nil)

func NewChain(v *ratecalc.Validator, l *applogger.Logger, sources ...repository.ExchangeSource) *Chain {
	if l == nil {
		l = applogger.Nop()
	}
	return &Chain{sources: sources, validator: v, logger: l}
}

func (c *Chain) Name() models.Source { return ChainName }

func (c *Chain) Fetch(ctx context.Context) (models.ExchangeRate, error) {
	var errs []error
	configured := 0
	for _, src := range c.sources {
		rate, err := src.Fetch(ctx)
		if err == nil {
			err = c.validator.ValidateExchangeRate(rate.USDToINR)
		}
		if err == nil {
			return rate, nil
		}

		if errors.Is(err, models.ErrNotConfigured) {
			c.logger.Debug("exchange source skipped", applogger.String("source", string(src.Name())), applogger.Error(err))
		} else {
			configured++
			c.logger.Warn("exchange source failed", applogger.String("source", string(src.Name())), applogger.Error(err))
		}
		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
	}
	if configured == 0 && len(errs) > 0 {
		return models.ExchangeRate{}, models.NotConfiguredError(c.Name(), "no exchange source configured")
	}
	return models.ExchangeRate{}, fmt.Errorf("%w: %w", models.ErrAllSourcesExhausted, errors.Join(errs...))
}
