package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndParseDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "secret", r.Header.Get("x-access-token"))
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		_, _ = w.Write([]byte(`{"price": 2000.5}`))
	}))
	defer srv.Close()

	c := NewClient(WithTimeout(time.Second), WithUserAgent("test-agent"))
	var out struct {
		Price float64 `json:"price"`
	}
	err := c.SendAndParse(context.Background(), &RequestOptions{
		Method:      MethodGet,
		URL:         srv.URL,
		Headers:     map[string]string{"x-access-token": "secret"},
		QueryParams: map[string][]string{"base": {"USD"}},
	}, &out)
	require.NoError(t, err)
	require.InDelta(t, 2000.5, out.Price, 1e-9)
}

func TestSendAndParseStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	err := NewClient().SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, &struct{}{})

	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	require.Equal(t, "Too Many Requests", se.Status)
	require.Equal(t, "slow down", se.Body)
}

func TestSendAndParseDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	var out map[string]interface{}
	err := NewClient().SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, &out)
	require.ErrorIs(t, err, ErrDecode)
}
