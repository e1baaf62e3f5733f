package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentials_Signed(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  bool
	}{
		{"complete_pair", Credentials{APIKey: "key", SecretKey: "secret"}, true},
		{"missing_secret", Credentials{APIKey: "key"}, false},
		{"missing_key", Credentials{SecretKey: "secret"}, false},
		{"missing_both", Credentials{BaseURL: "https://api.bybit.com"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.creds.Signed())
		})
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty", "", ""},
		{"short", "abcd", "****"},
		{"exactly_eight", "abcdefgh", "****"},
		{"long", "abcdefghijklmnop", "abcd****mnop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskKey(tt.key))
		})
	}
}

func TestCredentials_String(t *testing.T) {
	creds := Credentials{
		BaseURL:   "https://api.bybit.com",
		APIKey:    "abcdefghijklmnop",
		SecretKey: "topsecretvalue",
	}

	s := creds.String()

	assert.Contains(t, s, "abcd****mnop")
	assert.NotContains(t, s, "topsecretvalue")
	assert.NotContains(t, s, "abcdefghijklmnop")
}
