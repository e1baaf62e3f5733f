package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gapura/internal/httpclient"
	"gapura/pkg/core"
)

func newTestForwarder(t *testing.T) *Forwarder {
	t.Helper()
	client, err := httpclient.NewClient(&httpclient.Config{Timeout: 5 * time.Second}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewForwarder(client, fixedSigner("5000", 1700000000000), zerolog.Nop())
}

func upstreamCreds(baseURL string, signed bool) core.Credentials {
	creds := core.Credentials{BaseURL: baseURL}
	if signed {
		creds.APIKey = "test-api-key"
		creds.SecretKey = "test-secret"
	}
	return creds
}

func TestForwarder_Forward_GetUnsigned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/v5/market/time", r.URL.Path)
		assert.Empty(t, r.Header.Get(HeaderAPIKey))
		assert.Empty(t, r.Header.Get(HeaderSign))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"retCode":0,"time":1700000000000}`))
	}))
	defer server.Close()

	f := newTestForwarder(t)

	resp, err := f.Forward(context.Background(), &ProxyRequest{
		Method:       http.MethodGet,
		UpstreamPath: "v5/market/time",
		Body:         core.EmptyBody(),
	}, upstreamCreds(server.URL, false))

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.ContentType)
	assert.Equal(t, `{"retCode":0,"time":1700000000000}`, string(resp.Body))
}

func TestForwarder_Forward_GetSignedQueryPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Query must survive byte-for-byte, including exchange-specific encodings.
		assert.Equal(t, "category=spot&symbol=BTC%2FUSDT", r.URL.RawQuery)
		assert.Equal(t, "test-api-key", r.Header.Get(HeaderAPIKey))
		assert.Equal(t, "1700000000000", r.Header.Get(HeaderTimestamp))
		assert.Equal(t, "5000", r.Header.Get(HeaderRecvWindow))
		assert.Equal(t,
			expectedSignature("1700000000000", "test-api-key", "5000",
				"category=spot&symbol=BTC%2FUSDT", "test-secret"),
			r.Header.Get(HeaderSign))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"retCode":0}`))
	}))
	defer server.Close()

	f := newTestForwarder(t)

	resp, err := f.Forward(context.Background(), &ProxyRequest{
		Method:       http.MethodGet,
		UpstreamPath: "v5/market/tickers",
		RawQuery:     "category=spot&symbol=BTC%2FUSDT",
		Body:         core.EmptyBody(),
	}, upstreamCreds(server.URL, true))

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestForwarder_Forward_PostBodyByteIdentity(t *testing.T) {
	sent := []byte(`{"symbol":"BTCUSDT","qty":"0.001"}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, sent, body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		// The signature must cover exactly the transmitted bytes.
		assert.Equal(t,
			expectedSignature(r.Header.Get(HeaderTimestamp), "test-api-key", "5000",
				string(body), "test-secret"),
			r.Header.Get(HeaderSign))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"retCode":0}`))
	}))
	defer server.Close()

	f := newTestForwarder(t)

	resp, err := f.Forward(context.Background(), &ProxyRequest{
		Method:       http.MethodPost,
		UpstreamPath: "v5/order/create",
		Body:         core.RawBody(sent, "application/json"),
	}, upstreamCreds(server.URL, true))

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestForwarder_Forward_MethodUppercased(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	f := newTestForwarder(t)

	_, err := f.Forward(context.Background(), &ProxyRequest{
		Method:       "post",
		UpstreamPath: "v5/order/create",
		Body:         core.RawBody([]byte(`{}`), ""),
	}, upstreamCreds(server.URL, false))

	require.NoError(t, err)
}

func TestForwarder_Forward_RelayAllowlist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		assert.Empty(t, r.Header.Get("X-Internal-Trace"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	f := newTestForwarder(t)

	_, err := f.Forward(context.Background(), &ProxyRequest{
		Method:       http.MethodGet,
		UpstreamPath: "v5/market/time",
		Body:         core.EmptyBody(),
		Relay: map[string]string{
			"Accept":        "application/json",
			"Cache-Control": "no-cache",
		},
	}, upstreamCreds(server.URL, false))

	require.NoError(t, err)
}

func TestForwarder_Forward_PreSignedHeadersRelayed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "client-key", r.Header.Get(HeaderAPIKey))
		assert.Equal(t, "client-signature", r.Header.Get(HeaderSign))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	f := newTestForwarder(t)

	// Pre-signed headers win over server-side signing even with credentials present.
	_, err := f.Forward(context.Background(), &ProxyRequest{
		Method:       http.MethodGet,
		UpstreamPath: "v5/account/wallet-balance",
		Body:         core.EmptyBody(),
		PreSigned: map[string]string{
			HeaderAPIKey: "client-key",
			HeaderSign:   "client-signature",
		},
	}, upstreamCreds(server.URL, true))

	require.NoError(t, err)
}

func TestForwarder_Forward_UpstreamErrorRelayed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"retCode":10004,"retMsg":"invalid signature"}`))
	}))
	defer server.Close()

	f := newTestForwarder(t)

	resp, err := f.Forward(context.Background(), &ProxyRequest{
		Method:       http.MethodGet,
		UpstreamPath: "v5/account/wallet-balance",
		Body:         core.EmptyBody(),
	}, upstreamCreds(server.URL, false))

	// Upstream non-success is not a gateway error; it relays unchanged.
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
	assert.Equal(t, `{"retCode":10004,"retMsg":"invalid signature"}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.ContentType)
}

func TestForwarder_Forward_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	f := newTestForwarder(t)

	_, err := f.Forward(context.Background(), &ProxyRequest{
		Method:       http.MethodGet,
		UpstreamPath: "v5/market/time",
		Body:         core.EmptyBody(),
	}, upstreamCreds(server.URL, false))

	assert.Error(t, err)
	assert.True(t, core.IsNetworkError(err))
}

func TestBuildUpstreamURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		path     string
		rawQuery string
		want     string
	}{
		{"simple", "https://api.bybit.com", "v5/market/time", "", "https://api.bybit.com/v5/market/time"},
		{"with_query", "https://api.bybit.com", "v5/market/tickers", "symbol=BTCUSDT", "https://api.bybit.com/v5/market/tickers?symbol=BTCUSDT"},
		{"leading_slash_path", "https://api.bybit.com", "/v5/market/time", "", "https://api.bybit.com/v5/market/time"},
		{"trailing_slash_base", "https://api.bybit.com/", "v5/market/time", "", "https://api.bybit.com/v5/market/time"},
		{"encoded_query_untouched", "https://api-demo.bybit.com", "v5/order/realtime", "orderLinkId=a%2Bb", "https://api-demo.bybit.com/v5/order/realtime?orderLinkId=a%2Bb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildUpstreamURL(tt.baseURL, tt.path, tt.rawQuery))
		})
	}
}

func TestInferContentType(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"json_object", `{"result":1}`, "application/json"},
		{"json_with_leading_whitespace", "\n  {\"ok\":true}", "application/json"},
		{"html", "<html><body>502 Bad Gateway</body></html>", "text/html"},
		{"plain_text", "maintenance", "text/html"},
		{"empty", "", "text/html"},
		{"json_array_not_object", `[1,2,3]`, "text/html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferContentType([]byte(tt.body)))
		})
	}
}
