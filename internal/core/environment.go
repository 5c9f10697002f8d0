package core

import "strings"

// Environment names the deployment the console runs in. It drives log format
// and level defaults.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether logs should be emitted as JSON at Info level.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment accepts the canonical names and their short forms
// (dev, stage, test, prod), case-insensitively. Anything else maps to
// Development.
func ParseEnvironment(v string) Environment {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	case "testing", "test":
		return Testing
	default:
		return Development
	}
}
