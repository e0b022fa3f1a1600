package normalize

import (
	"strings"
	"unicode"
)

// ToLowerDotPath normalizes an environment-style key to a lowercase
// dot-separated path. Double underscores (__) are treated as level
// separators and converted to dots. Single underscores within a level
// become hyphens, matching field keys.
// Examples:
//   - "FOO__BAR" → "foo.bar"
//   - "DB_MAX_CONNECTIONS" → "db-max-connections"
//   - "API__RATE_LIMIT" → "api.rate-limit"
func ToLowerDotPath(key string) string {
	normalized := strings.ReplaceAll(key, "__", ".")
	normalized = strings.ReplaceAll(normalized, "_", "-")
	return strings.ToLower(normalized)
}

// HyphenSnake derives a configuration key from a struct field name by
// splitting camel-case words with hyphens. Runs of capitals are kept as one
// word.
// Examples:
//   - "Host" → "host"
//   - "MaxConnections" → "max-connections"
//   - "APIKey" → "api-key"
//   - "HTTPServer" → "http-server"
//   - "Port2" → "port2"
func HyphenSnake(fieldName string) string {
	runes := []rune(fieldName)
	var b strings.Builder
	b.Grow(len(runes) + 4)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('-')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
