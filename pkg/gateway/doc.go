// Package gateway implements the request-forwarding pipeline of the proxy:
// proxy-token authorization, environment selection, request signing, and
// transparent passthrough of method, path, query, body, and response.
//
// Bybit API Documentation: https://bybit-exchange.github.io/docs/v5/intro
package gateway
