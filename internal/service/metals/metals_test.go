package metals

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"JewarRates/internal/domain/models"
	"JewarRates/internal/service/upstream"
	xhttp "JewarRates/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func client() *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(2*time.Second), xhttp.WithUserAgent(upstream.UserAgent))
}

func TestMetalsAPIFieldVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"lowercase", `{"gold": 2000, "silver": 25}`},
		{"iso codes", `{"XAU": 2000, "XAG": 25}`},
		{"uppercase strings", `{"GOLD": "2000", "SILVER": "25"}`},
		{"nested rates", `{"rates": {"XAU": 2000, "silver": 25}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/gold,silver", r.URL.Path)
				assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
				assert.Equal(t, "USD", r.URL.Query().Get("currency"))
				assert.Equal(t, "oz", r.URL.Query().Get("unit"))
				_, _ = w.Write([]byte(tt.body))
			})

			src := NewMetalsAPI(client(), upstream.Settings{Enabled: true, APIKey: "k", BaseURL: srv.URL})
			q, err := src.Fetch(t.Context())

			require.NoError(t, err)
			require.InDelta(t, 2000, q.GoldUSDPerOunce, 1e-9)
			require.InDelta(t, 25, q.SilverUSDPerOunce, 1e-9)
			require.Equal(t, models.SourceMetalsAPI, q.Source)
		})
	}
}

func TestMetalsAPINotConfigured(t *testing.T) {
	t.Parallel()

	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, s := range []upstream.Settings{
		{Enabled: true, BaseURL: srv.URL},
		{Enabled: false, APIKey: "k", BaseURL: srv.URL},
	} {
		_, err := NewMetalsAPI(client(), s).Fetch(context.Background())
		require.ErrorIs(t, err, models.ErrNotConfigured)
	}
	require.Zero(t, hits.Load())
}

func TestMetalsAPIInvalidResponse(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"gold": 2000}`, `{"gold": "abc", "silver": 25}`, `not json`} {
		srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := NewMetalsAPI(client(), upstream.Settings{Enabled: true, APIKey: "k", BaseURL: srv.URL}).Fetch(context.Background())
		require.ErrorIs(t, err, models.ErrInvalidResponse, body)
	}
}

func TestMetalsAPIUnreachableKeepsStatus(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := NewMetalsAPI(client(), upstream.Settings{Enabled: true, APIKey: "k", BaseURL: srv.URL}).Fetch(context.Background())

	require.ErrorIs(t, err, models.ErrUnreachable)
	var se *models.SourceError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	require.Equal(t, "Service Unavailable", se.Status)
}

func TestGoldAPIFetchesBothMetals(t *testing.T) {
	t.Parallel()

	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.Header.Get("x-access-token"))
		switch r.URL.Path {
		case "/XAU/USD":
			_, _ = w.Write([]byte(`{"metal":"XAU","price":2012.4}`))
		case "/XAG/USD":
			_, _ = w.Write([]byte(`{"metal":"XAG","price":23.9}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	q, err := NewGoldAPI(client(), upstream.Settings{Enabled: true, APIKey: "tok", BaseURL: srv.URL}).Fetch(t.Context())

	require.NoError(t, err)
	require.InDelta(t, 2012.4, q.GoldUSDPerOunce, 1e-9)
	require.InDelta(t, 23.9, q.SilverUSDPerOunce, 1e-9)
	require.Equal(t, models.SourceGoldAPI, q.Source)
	require.EqualValues(t, 2, hits.Load())
}

func TestGoldAPIOneLegFails(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/XAG/USD" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"price":2012.4}`))
	})

	_, err := NewGoldAPI(client(), upstream.Settings{Enabled: true, APIKey: "tok", BaseURL: srv.URL}).Fetch(t.Context())
	require.ErrorIs(t, err, models.ErrUnreachable)
}

func TestGoldAPINotConfigured(t *testing.T) {
	t.Parallel()

	_, err := NewGoldAPI(client(), upstream.Settings{Enabled: true}).Fetch(t.Context())
	require.ErrorIs(t, err, models.ErrNotConfigured)
}
