// Package credstore holds the per-environment upstream credentials,
// resolved once from process configuration and read-only thereafter.
package credstore

import (
	"fmt"

	"gapura/pkg/core"
)

// Fixed base URLs for the exchange's deployments. These are part of the
// gateway's contract with the upstream, not operator configuration.
const (
	MainnetURL = "https://api.bybit.com"
	DemoURL    = "https://api-demo.bybit.com"
)

// Store maps environments to their credentials. All fields are populated at
// construction and never mutated, so lookups need no locking under
// concurrent fan-out.
type Store struct {
	creds  map[core.Environment]core.Credentials
	policy string
}

// New builds a Store from the configured key pairs and credential policy.
func New(cfg *core.Config) *Store {
	return NewWithBaseURLs(cfg, MainnetURL, DemoURL)
}

// NewWithBaseURLs builds a Store pointing at the given base URLs instead of
// the exchange's fixed hosts. Used by tests that stand in for the upstream.
func NewWithBaseURLs(cfg *core.Config, mainnetURL, demoURL string) *Store {
	return &Store{
		creds: map[core.Environment]core.Credentials{
			core.EnvironmentMainnet: {
				BaseURL:   mainnetURL,
				APIKey:    cfg.MainnetKeys.APIKey,
				SecretKey: cfg.MainnetKeys.SecretKey,
			},
			core.EnvironmentDemo: {
				BaseURL:   demoURL,
				APIKey:    cfg.DemoKeys.APIKey,
				SecretKey: cfg.DemoKeys.SecretKey,
			},
		},
		policy: cfg.CredentialPolicy,
	}
}

// Lookup returns the credentials for the given environment.
//
// Under the strict policy, an environment without a complete key/secret pair
// fails with NO_CREDENTIALS. Under the permissive policy the credentials are
// returned with empty key material and the caller forwards the request
// unsigned, treating it as a public exchange call.
func (s *Store) Lookup(env core.Environment) (core.Credentials, error) {
	creds, ok := s.creds[env]
	if !ok {
		return core.Credentials{}, core.NewGatewayError(core.ErrorTypeInvalidEnvironment, 400,
			fmt.Sprintf("unknown environment: %d", int(env))).WithCode(core.ErrCodeInvalidEnvironment)
	}

	if !creds.Signed() && s.policy == core.CredentialPolicyStrict {
		return core.Credentials{}, core.NewGatewayError(core.ErrorTypeConfig, 500,
			fmt.Sprintf("no credentials configured for environment %s", env)).
			WithCode(core.ErrCodeNoCredentials)
	}

	return creds, nil
}

// Policy returns the active credential policy.
func (s *Store) Policy() string {
	return s.policy
}
