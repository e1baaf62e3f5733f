package core

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// AuthMode selects how the gateway treats an unconfigured proxy token.
const (
	// AuthModeStrict refuses to serve until a proxy token is configured.
	AuthModeStrict = "strict"
	// AuthModeOpen allows all callers when no proxy token is configured.
	// This is a documented opt-in mode and never the default.
	AuthModeOpen = "open"
)

// CredentialPolicy selects how the gateway treats a missing key/secret pair.
const (
	// CredentialPolicyStrict fails requests for environments without credentials.
	CredentialPolicyStrict = "strict"
	// CredentialPolicyPermissive forwards such requests unsigned, treating
	// them as public, unauthenticated exchange calls.
	CredentialPolicyPermissive = "permissive"
)

// KeyPair holds one environment's API key and secret.
type KeyPair struct {
	APIKey    string `json:"api_key"`
	SecretKey string `json:"secret_key"`
}

// Config contains all configuration for the gateway process.
// It is resolved once at startup and never mutated; components receive it
// explicitly through their constructors rather than reading ambient state.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `json:"listen_addr" validate:"required"`

	// ProxyToken is the shared secret required from callers of this proxy.
	// It is distinct from the exchange's own API credentials.
	ProxyToken string `json:"proxy_token"`

	AuthMode         string `json:"auth_mode" validate:"oneof=strict open"`
	CredentialPolicy string `json:"credential_policy" validate:"oneof=strict permissive"`

	// DefaultEnvironment is used when a request names no environment in
	// either the selector header or the query parameter.
	DefaultEnvironment Environment `json:"default_environment"`

	// RecvWindow bounds the upstream's tolerance for clock skew between
	// signing time and receipt time, in milliseconds.
	RecvWindow string `json:"recv_window" validate:"required,number"`

	// Timeout is the maximum duration for outbound upstream calls.
	Timeout time.Duration `json:"timeout" validate:"min=1ms"`

	LogLevel string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// MainnetKeys and DemoKeys are the per-environment credential pairs.
	// Either pair may be absent; the credential policy decides whether such
	// requests fail or are forwarded unsigned.
	MainnetKeys KeyPair `json:"mainnet_keys"`
	DemoKeys    KeyPair `json:"demo_keys"`
}

// DefaultConfig returns a Config initialized with safe defaults:
// strict auth, strict credential policy, mainnet default environment,
// "5000" receive window, and a 15s upstream timeout.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:         ":8090",
		AuthMode:           AuthModeStrict,
		CredentialPolicy:   CredentialPolicyStrict,
		DefaultEnvironment: EnvironmentMainnet,
		RecvWindow:         "5000",
		Timeout:            15 * time.Second,
		LogLevel:           "info",
	}
}

// LoadConfig builds a Config from GAPURA_* environment variables on top of
// the defaults. It is read once at startup; later changes to the process
// environment have no effect.
func LoadConfig() (*Config, error) {
	c := DefaultConfig()

	if v := os.Getenv("GAPURA_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("GAPURA_PROXY_TOKEN"); v != "" {
		c.ProxyToken = v
	}
	if v := os.Getenv("GAPURA_AUTH_MODE"); v != "" {
		c.AuthMode = v
	}
	if v := os.Getenv("GAPURA_CREDENTIAL_POLICY"); v != "" {
		c.CredentialPolicy = v
	}
	if v := os.Getenv("GAPURA_DEFAULT_ENV"); v != "" {
		env, err := ParseEnvironment(v)
		if err != nil {
			return nil, err
		}
		c.DefaultEnvironment = env
	}
	if v := os.Getenv("GAPURA_RECV_WINDOW"); v != "" {
		c.RecvWindow = v
	}
	if v := os.Getenv("GAPURA_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, NewGatewayError(ErrorTypeConfig, 500,
				"invalid GAPURA_TIMEOUT: "+err.Error()).WithCode(ErrCodeInvalidConfig)
		}
		c.Timeout = d
	}
	if v := os.Getenv("GAPURA_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	c.MainnetKeys = KeyPair{
		APIKey:    os.Getenv("GAPURA_MAINNET_API_KEY"),
		SecretKey: os.Getenv("GAPURA_MAINNET_API_SECRET"),
	}
	c.DemoKeys = KeyPair{
		APIKey:    os.Getenv("GAPURA_DEMO_API_KEY"),
		SecretKey: os.Getenv("GAPURA_DEMO_API_SECRET"),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var validate = validator.New()

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// WithProxyToken sets the proxy token and returns the config for chaining.
func (c *Config) WithProxyToken(token string) *Config {
	c.ProxyToken = token
	return c
}

// WithAuthMode sets the auth mode and returns the config for chaining.
func (c *Config) WithAuthMode(mode string) *Config {
	c.AuthMode = mode
	return c
}

// WithCredentialPolicy sets the credential policy and returns the config for chaining.
func (c *Config) WithCredentialPolicy(policy string) *Config {
	c.CredentialPolicy = policy
	return c
}

// WithKeys sets the key pair for the given environment and returns the
// config for chaining.
func (c *Config) WithKeys(env Environment, keys KeyPair) *Config {
	switch env {
	case EnvironmentMainnet:
		c.MainnetKeys = keys
	case EnvironmentDemo:
		c.DemoKeys = keys
	}
	return c
}

// WithTimeout sets the upstream timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// Keys returns the configured key pair for the given environment.
func (c *Config) Keys(env Environment) KeyPair {
	if env == EnvironmentDemo {
		return c.DemoKeys
	}
	return c.MainnetKeys
}
