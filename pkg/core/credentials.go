package core

import "fmt"

// Credentials holds the API base URL and authentication material for one
// upstream environment. Instances are built once at startup and shared
// read-only across all concurrent requests.
type Credentials struct {
	// BaseURL is the fully-qualified root of the upstream REST API.
	BaseURL string `json:"base_url"`
	// APIKey is the public API key identifier.
	APIKey string `json:"api_key"`
	// SecretKey is the private key used for signing requests.
	SecretKey string `json:"secret_key"`
}

// Signed reports whether a complete key/secret pair is present.
// Requests for credentials without a pair are forwarded unsigned under the
// permissive credential policy.
func (c Credentials) Signed() bool {
	return c.APIKey != "" && c.SecretKey != ""
}

// String returns a log-safe representation with the API key masked and the
// secret omitted entirely.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{BaseURL:%s, APIKey:%s}", c.BaseURL, MaskKey(c.APIKey))
}

// MaskKey redacts the middle of an API key for diagnostics.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
