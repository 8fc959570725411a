package safety

import "regexp"

const redactedPlaceholder = "***REDACTED***"

var (
	bearerPattern    = regexp.MustCompile(`(?i)bearer\s+[a-z0-9._~+/-]+=*`)
	tokenPairPattern = regexp.MustCompile(`(?i)(access_token|refresh_token|client_secret)=[^&\s"']+`)
)

// Redact scrubs bearer tokens and access_token/refresh_token/client_secret
// key-value pairs from text before it reaches a log line, mirroring the
// habit of never logging a raw Authorization header outright.
func Redact(text string) string {
	text = bearerPattern.ReplaceAllString(text, "Bearer "+redactedPlaceholder)
	text = tokenPairPattern.ReplaceAllString(text, "$1="+redactedPlaceholder)
	return text
}
