package gateway

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"gapura/internal/httpclient"
	"gapura/pkg/core"
)

// relayAllowlist names the caller headers the forwarder relays upstream.
// Anything else is dropped so proxy-internal or client-identifying headers
// never leak to the exchange.
var relayAllowlist = []string{"Accept", "Cache-Control"}

// ProxyRequest describes one inbound call after route extraction. The
// upstream path and raw query are passed through byte-for-byte; only the
// routing prefix has been removed.
type ProxyRequest struct {
	Method       string
	UpstreamPath string
	RawQuery     string
	Body         core.Body

	// Relay holds allow-listed caller headers to forward upstream.
	Relay map[string]string

	// PreSigned holds client-supplied authentication headers. When present
	// they are relayed verbatim instead of signing server-side.
	PreSigned map[string]string
}

// ProxyResponse is the upstream response as relayed to the caller: status
// and body unchanged, content type inferred from the body.
type ProxyResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Forwarder assembles the outbound request, executes it once, and relays
// the upstream response verbatim.
type Forwarder struct {
	client *httpclient.Client
	signer *Signer
	logger zerolog.Logger
}

// NewForwarder creates a Forwarder using the given upstream client and signer.
func NewForwarder(client *httpclient.Client, signer *Signer, logger zerolog.Logger) *Forwarder {
	return &Forwarder{
		client: client,
		signer: signer,
		logger: logger,
	}
}

// Forward executes a single outbound call for the given request and
// credentials. GET and HEAD carry no body; for every other method the bytes
// sent upstream are exactly the bytes the signature was computed over.
// Transport failures surface as NETWORK errors; upstream non-success
// statuses are not errors and relay unchanged.
func (f *Forwarder) Forward(ctx context.Context, req *ProxyRequest, creds core.Credentials) (*ProxyResponse, error) {
	method := strings.ToUpper(req.Method)
	url := buildUpstreamURL(creds.BaseURL, req.UpstreamPath, req.RawQuery)

	headers := make(map[string]string, len(req.Relay)+5)
	for k, v := range req.Relay {
		headers[k] = v
	}

	if len(req.PreSigned) > 0 {
		for k, v := range req.PreSigned {
			headers[k] = v
		}
	} else {
		for k, v := range f.signer.Sign(method, req.RawQuery, req.Body, creds) {
			headers[k] = v
		}
	}

	var body []byte
	if method != http.MethodGet && method != http.MethodHead && !req.Body.IsEmpty() {
		body = req.Body.Bytes()
		headers["Content-Type"] = req.Body.ContentType()
	}

	resp, err := f.client.Execute(ctx, method, url, body, httpclient.WithHeaders(headers))
	if err != nil {
		f.logger.Error().Err(err).
			Str("method", method).
			Str("url", url).
			Msg("upstream call failed")
		return nil, core.NewGatewayError(core.ErrorTypeNetwork, 500, err.Error()).
			WithCode(core.ErrCodeNetwork)
	}

	f.logger.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode()).
		Msg("relaying upstream response")

	return &ProxyResponse{
		StatusCode:  resp.StatusCode(),
		ContentType: inferContentType(resp.Bytes()),
		Body:        resp.Bytes(),
	}, nil
}

// buildUpstreamURL concatenates the base URL, the upstream path, and the
// original raw query. No re-encoding or normalization is applied; exchange
// query encodings must survive the trip byte-for-byte.
func buildUpstreamURL(baseURL, upstreamPath, rawQuery string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(baseURL, "/"))
	b.WriteString("/")
	b.WriteString(strings.TrimPrefix(upstreamPath, "/"))
	if rawQuery != "" {
		b.WriteString("?")
		b.WriteString(rawQuery)
	}
	return b.String()
}

// inferContentType labels the relayed body. The upstream's edge layer
// sometimes returns HTML error pages without a matching content-type header,
// so the type is inferred from the body rather than copied.
func inferContentType(body []byte) string {
	if strings.HasPrefix(strings.TrimSpace(string(body)), "{") {
		return "application/json"
	}
	return "text/html"
}
