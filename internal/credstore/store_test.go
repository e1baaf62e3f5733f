package credstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gapura/pkg/core"
)

func TestStore_Lookup_Strict(t *testing.T) {
	cfg := core.DefaultConfig().
		WithKeys(core.EnvironmentMainnet, core.KeyPair{APIKey: "mn-key", SecretKey: "mn-secret"})
	store := New(cfg)

	creds, err := store.Lookup(core.EnvironmentMainnet)
	require.NoError(t, err)
	assert.Equal(t, MainnetURL, creds.BaseURL)
	assert.Equal(t, "mn-key", creds.APIKey)
	assert.Equal(t, "mn-secret", creds.SecretKey)
	assert.True(t, creds.Signed())

	// Demo has no keys configured; strict policy fails fast.
	_, err = store.Lookup(core.EnvironmentDemo)
	assert.Error(t, err)
	assert.True(t, core.IsConfigError(err))
	assert.True(t, core.IsErrorCode(err, core.ErrCodeNoCredentials))
}

func TestStore_Lookup_Permissive(t *testing.T) {
	cfg := core.DefaultConfig().WithCredentialPolicy(core.CredentialPolicyPermissive)
	store := New(cfg)

	creds, err := store.Lookup(core.EnvironmentDemo)
	require.NoError(t, err)
	assert.Equal(t, DemoURL, creds.BaseURL)
	assert.False(t, creds.Signed())
}

func TestStore_Lookup_IncompletePairIsUnsigned(t *testing.T) {
	cfg := core.DefaultConfig().
		WithKeys(core.EnvironmentMainnet, core.KeyPair{APIKey: "key-only"})
	store := New(cfg)

	_, err := store.Lookup(core.EnvironmentMainnet)

	// A key without a secret must never reach the signer.
	assert.True(t, core.IsErrorCode(err, core.ErrCodeNoCredentials))
}

func TestStore_BaseURLsPerEnvironment(t *testing.T) {
	cfg := core.DefaultConfig().
		WithCredentialPolicy(core.CredentialPolicyPermissive)
	store := New(cfg)

	mainnet, err := store.Lookup(core.EnvironmentMainnet)
	require.NoError(t, err)
	demo, err := store.Lookup(core.EnvironmentDemo)
	require.NoError(t, err)

	assert.Equal(t, "https://api.bybit.com", mainnet.BaseURL)
	assert.Equal(t, "https://api-demo.bybit.com", demo.BaseURL)
}

func TestStore_Policy(t *testing.T) {
	cfg := core.DefaultConfig().WithCredentialPolicy(core.CredentialPolicyPermissive)

	assert.Equal(t, core.CredentialPolicyPermissive, New(cfg).Policy())
}
