// Package upstream holds what every third-party rate client shares:
// per-source settings and mapping of transport failures onto the
// source error taxonomy.
package upstream

import (
	"context"
	"errors"

	"JewarRates/internal/domain/models"
	xhttp "JewarRates/pkg/http"
)

// UserAgent identifies us to providers.
const UserAgent = "JewarHouse-API/1.0"

// Settings configures one upstream provider.
type Settings struct {
	Enabled bool
	APIKey  string
	BaseURL string
}

// Doer is the subset of xhttp.Client used by source clients.
type Doer interface {
	SendAndParse(ctx context.Context, opts *xhttp.RequestOptions, dest interface{}) error
}

// Classify maps a transport error onto Unreachable or InvalidResponse.
func Classify(src models.Source, err error) error {
	if err == nil {
		return nil
	}
	var srcErr *models.SourceError
	if errors.As(err, &srcErr) {
		return err
	}
	if errors.Is(err, xhttp.ErrDecode) {
		return models.InvalidResponseError(src, err)
	}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return models.UnreachableError(src, se.StatusCode, se.Status, errors.New(se.Body))
	}
	return models.UnreachableError(src, 0, "", err)
}

// RequireKey returns NotConfigured when the provider is disabled or has no key.
func (s Settings) RequireKey(src models.Source) error {
	if !s.Enabled {
		return models.NotConfiguredError(src, "disabled in configuration")
	}
	if s.APIKey == "" {
		return models.NotConfiguredError(src, "API key not provided")
	}
	return nil
}

// RequireEnabled is RequireKey for keyless providers.
func (s Settings) RequireEnabled(src models.Source) error {
	if !s.Enabled {
		return models.NotConfiguredError(src, "disabled in configuration")
	}
	return nil
}
