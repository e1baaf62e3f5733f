package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gapura/pkg/core"
)

// Bybit V5 authentication header names.
const (
	HeaderAPIKey     = "X-BAPI-API-KEY"
	HeaderTimestamp  = "X-BAPI-TIMESTAMP"
	HeaderSign       = "X-BAPI-SIGN"
	HeaderRecvWindow = "X-BAPI-RECV-WINDOW"
)

// Signer computes the exchange's required authentication headers for an
// outbound call using HMAC-SHA256 over the canonical string
// timestamp + apiKey + recvWindow + payload.
type Signer struct {
	recvWindow string
	now        func() time.Time
}

// NewSigner creates a Signer with the given receive window. The receive
// window is a fixed string per deployment, not recomputed per request.
func NewSigner(recvWindow string) *Signer {
	return &Signer{
		recvWindow: recvWindow,
		now:        time.Now,
	}
}

// Sign returns the authentication headers for an outbound call, or nil when
// the credentials carry no key/secret pair (the call goes out unsigned).
//
// The payload is the raw query string with any leading '?' stripped for
// GET and HEAD, and the exact outbound body bytes for every other method.
// The signature must be computed over precisely what is transmitted; the
// body bytes come from the same core.Body that the forwarder sends.
func (s *Signer) Sign(method, rawQuery string, body core.Body, creds core.Credentials) map[string]string {
	if !creds.Signed() {
		return nil
	}

	timestamp := strconv.FormatInt(s.now().UnixMilli(), 10)
	payload := signingPayload(method, rawQuery, body)

	var canonical strings.Builder
	canonical.WriteString(timestamp)
	canonical.WriteString(creds.APIKey)
	canonical.WriteString(s.recvWindow)
	canonical.WriteString(payload)

	return map[string]string{
		HeaderAPIKey:     creds.APIKey,
		HeaderTimestamp:  timestamp,
		HeaderSign:       signHMAC(canonical.String(), creds.SecretKey),
		HeaderRecvWindow: s.recvWindow,
	}
}

// RecvWindow returns the configured receive window string.
func (s *Signer) RecvWindow() string {
	return s.recvWindow
}

func signingPayload(method, rawQuery string, body core.Body) string {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead:
		return strings.TrimPrefix(rawQuery, "?")
	default:
		return string(body.Bytes())
	}
}

func signHMAC(message, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}
