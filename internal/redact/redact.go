// Package redact scrubs sensitive fragments from strings before they are
// logged. Error chains from the store and the Gemini client can carry
// connection strings, API keys, SQL text, file paths and raw photo payloads;
// none of that belongs in a log line or an HTTP response.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactedDSNPlaceholder        = "[REDACTED_DSN]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedBlobPlaceholder       = "[REDACTED_BLOB]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules run in order; earlier rules consume text later ones would mangle.
var rules = []rule{
	// Everything after a panic header is a stack dump.
	{regexp.MustCompile(`(?s)(?:panic:|goroutine \d+ \[).*`), RedactedStackPlaceholder},

	// Database URLs, including credentials and host.
	{regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|sqlite|file)://\S+`), RedactedDSNPlaceholder},

	// Google API keys as issued for Gemini.
	{regexp.MustCompile(`AIza[0-9A-Za-z_\-]{20,}`), RedactedKeyPlaceholder},

	// key=value or key: value credentials.
	{
		regexp.MustCompile(`(?i)\b(api[_-]?key|password|passwd|secret|token)\s*[=:]\s*['"]?[^\s'"&]+`),
		"${1}=" + RedactedCredentialPlaceholder,
	},

	// Long base64 runs, typically photo payloads echoed back in errors.
	{regexp.MustCompile(`[A-Za-z0-9+/]{64,}={0,2}`), RedactedBlobPlaceholder},

	// SQL statements up to the next semicolon. Keywords are matched
	// uppercase only so prose such as "update failed" survives.
	{regexp.MustCompile(`\b(SELECT|INSERT INTO|UPDATE|DELETE FROM)\s[^;]*`), "${1} " + RedactedSQLPlaceholder},

	// Filesystem paths.
	{regexp.MustCompile(`(?:/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(?:\\[^\\\s]+)+`), RedactedPathPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
