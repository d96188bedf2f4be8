package config

import (
	"os"
	"regexp"
)

// envVarPattern matches ${VAR_NAME} placeholders in raw config content.
var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// ExpandEnv replaces ${VAR} placeholders with environment values before
// the content is parsed. A placeholder whose variable is unset (or empty)
// survives verbatim; validation and model-availability checks treat the
// surviving "${" as a disabled credential rather than an error.
//
// Examples:
//   - api_key: ${OPENAI_API_KEY}   → the variable's value when set
//   - api_key: ${UNSET_KEY}        → "${UNSET_KEY}" unchanged
func ExpandEnv(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envVarPattern.FindSubmatch(match)[1]
		if val := os.Getenv(string(name)); val != "" {
			return []byte(val)
		}
		return match
	})
}
