package history

import "regexp"

// secret is a credential pattern scrubbed from values before they are
// stored.
type secret struct {
	re   *regexp.Regexp
	repl string
}

var secrets = []secret{
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "[AWS_ACCESS_KEY_REDACTED]"},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), "[JWT_REDACTED]"},
	{regexp.MustCompile(`xox[baprs]-[0-9a-zA-Z-]+`), "[SLACK_TOKEN_REDACTED]"},
	{regexp.MustCompile(`gh[po]_[A-Za-z0-9]{36}`), "[GITHUB_TOKEN_REDACTED]"},
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_.-]{20,}`), "Bearer [TOKEN_REDACTED]"},
	{regexp.MustCompile(`(?i)(password|passwd|token|secret|api_key|private[_-]?key)\s*[=:]\s*\S+`), "$1=[REDACTED]"},
}

// Redact replaces credentials in value with placeholders.
func Redact(value string) string {
	for _, s := range secrets {
		value = s.re.ReplaceAllString(value, s.repl)
	}
	return value
}
