package authclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authclient "github.com/leyinvest/go-auth-client"
)

func TestMetricsObserveRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	metrics := authclient.NewMetrics(reg)

	client, _ := newTestClient(srv.URL)
	client.WithMetrics(metrics)

	require.NoError(t, client.Get(context.Background(), "/users/me/", nil))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, fam := range families {
		names[fam.GetName()] = true
	}
	assert.True(t, names["authclient_requests_total"])
	assert.True(t, names["authclient_request_duration_seconds"])
}

func TestMetricsRecordRetries(t *testing.T) {
	transport := &scriptedTransport{
		respond: func(call int, r *http.Request) (*http.Response, error) {
			return nil, timeoutError{}
		},
	}

	reg := prometheus.NewRegistry()
	metrics := authclient.NewMetrics(reg)

	client, _ := newTestClient("http://api.test")
	client.WithHTTPClient(&http.Client{Transport: transport}).WithMetrics(metrics)

	err := client.Get(context.Background(), "/users/me/", nil)
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	var retries float64
	for _, fam := range families {
		if fam.GetName() == "authclient_retries_total" {
			for _, m := range fam.GetMetric() {
				retries += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, float64(2), retries)
}

func TestClientWithoutMetricsIsSafe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client, _ := newTestClient(srv.URL)
	require.NoError(t, client.Get(context.Background(), "/users/me/", nil))
}
