package core

import "strings"

// Environment represents one of the exchange's isolated deployments.
// Each environment has its own base URL and credential set.
type Environment int

// Environment constants define the supported upstream deployments.
const (
	// EnvironmentMainnet targets the exchange's production deployment.
	EnvironmentMainnet Environment = iota
	// EnvironmentDemo targets the exchange's demo-trading deployment.
	EnvironmentDemo
)

// String returns the string representation of the environment.
func (e Environment) String() string {
	return [...]string{"mainnet", "demo"}[e]
}

// ParseEnvironment converts a raw selector value into an Environment.
// The value is trimmed and lower-cased before comparison. Anything outside
// {"mainnet", "demo"} fails with an InvalidEnvironment error carrying the
// offending value.
func ParseEnvironment(value string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "mainnet":
		return EnvironmentMainnet, nil
	case "demo":
		return EnvironmentDemo, nil
	default:
		return 0, NewGatewayError(ErrorTypeInvalidEnvironment, 400,
			"unknown environment: "+value).WithCode(ErrCodeInvalidEnvironment)
	}
}
