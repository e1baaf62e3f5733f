package gateway

import (
	"strings"

	"gapura/pkg/core"
)

// SelectEnvironment resolves which upstream environment a request targets.
//
// Precedence: an explicit header value wins over an explicit query-parameter
// value, which wins over the configured default. Values are trimmed and
// lower-cased before comparison; anything outside the recognized set fails
// with an InvalidEnvironment error carrying the offending value.
func SelectEnvironment(headerValue, queryValue string, def core.Environment) (core.Environment, error) {
	if v := strings.TrimSpace(headerValue); v != "" {
		return core.ParseEnvironment(v)
	}
	if v := strings.TrimSpace(queryValue); v != "" {
		return core.ParseEnvironment(v)
	}
	return def, nil
}
