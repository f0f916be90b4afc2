package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/inis-relay/internal/observability/metrics"
	"github.com/wolfman30/inis-relay/pkg/logging"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	return New(Config{Logger: logging.Discard(), Metrics: metrics.NewRelayMetrics(prometheus.NewRegistry())})
}

func TestPostJSONSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		assert.Empty(t, r.Header.Get("Authorization"))
		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Ada", got["name"])
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"saved"}`))
	}))
	defer server.Close()

	resp, err := newTestClient(t).PostJSON(context.Background(), "sheets", server.URL, map[string]string{"name": "Ada"})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.NoError(t, resp.Err())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"status": "saved"}, resp.Body)
}

func TestPostJSONBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"abc"}`))
	}))
	defer server.Close()

	resp, err := newTestClient(t).PostJSON(context.Background(), "vapi", server.URL, struct{}{}, WithBearerToken("secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, resp.OK())
}

func TestPostJSONTolerantBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want any
	}{
		{"empty", "", map[string]any{}},
		{"html", "<html>oops</html>", map[string]any{}},
		{"truncated", `{"status":`, map[string]any{}},
		{"array", `[1,2]`, []any{float64(1), float64(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			resp, err := newTestClient(t).PostJSON(context.Background(), "sheets", server.URL, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Body)
		})
	}
}

func TestPostJSONNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":"insufficient credit"}`))
	}))
	defer server.Close()

	resp, err := newTestClient(t).PostJSON(context.Background(), "vapi", server.URL, nil)
	require.NoError(t, err)
	assert.False(t, resp.OK())

	var statusErr *StatusError
	require.ErrorAs(t, resp.Err(), &statusErr)
	assert.Equal(t, http.StatusPaymentRequired, statusErr.StatusCode)
	assert.Equal(t, "insufficient credit", statusErr.Error())
}

func TestStatusErrorFallbackMessage(t *testing.T) {
	assert.Equal(t, "Request failed", (&StatusError{StatusCode: 500, Body: map[string]any{}}).Error())
	assert.Equal(t, "Request failed", (&StatusError{StatusCode: 500, Body: map[string]any{"error": map[string]any{"code": 1}}}).Error())
	assert.Equal(t, "Request failed", (&StatusError{StatusCode: 500, Body: "nope"}).Error())
}

func TestPostJSONTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	resp, err := newTestClient(t).PostJSON(context.Background(), "sheets", url, nil)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestPostJSONMarshalFailure(t *testing.T) {
	_, err := newTestClient(t).PostJSON(context.Background(), "sheets", "http://127.0.0.1:1", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTransport))
}

func TestPostJSONRecordsMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	client := New(Config{Logger: logging.Discard(), Metrics: metrics.NewRelayMetrics(reg)})
	_, err := client.PostJSON(context.Background(), "sheets", server.URL, nil)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "inis_relay_forward_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewDefaults(t *testing.T) {
	client := New(Config{})
	assert.NotNil(t, client.httpClient)
	assert.Zero(t, client.httpClient.Timeout)
	assert.NotNil(t, client.logger)
	assert.Equal(t, defaultUserAgent, client.userAgent)
}
