package gateway

import (
	"crypto/subtle"

	"gapura/pkg/core"
)

// AuthGate validates inbound requests against the shared proxy token before
// any forwarding occurs. It performs pure validation with no side effects.
type AuthGate struct {
	token string
	mode  string
}

// NewAuthGate builds an AuthGate from the configured token and auth mode.
func NewAuthGate(cfg *core.Config) *AuthGate {
	return &AuthGate{
		token: cfg.ProxyToken,
		mode:  cfg.AuthMode,
	}
}

// Authorize checks the presented token against the configured one.
//
// With no token configured, strict mode fails closed with a config error and
// open mode allows every caller. The comparison is constant-time since the
// token protects exchange credentials.
func (g *AuthGate) Authorize(presented string) error {
	if g.token == "" {
		if g.mode == core.AuthModeOpen {
			return nil
		}
		return core.NewGatewayError(core.ErrorTypeConfig, 500,
			"proxy token is not configured").WithCode(core.ErrCodeNoProxyToken)
	}

	if subtle.ConstantTimeCompare([]byte(presented), []byte(g.token)) != 1 {
		return core.NewGatewayError(core.ErrorTypeUnauthorized, 401,
			"Unauthorized").WithCode(core.ErrCodeUnauthorized)
	}
	return nil
}
