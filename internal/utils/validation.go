package utils

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// SanitizeText normalizes untrusted text input: markup and control
// characters are stripped, runs of whitespace collapse to one space.
// Referral codes pass through here before being stored.
func SanitizeText(input string) string {
	cleaned := tagPattern.ReplaceAllString(input, "")

	var b strings.Builder
	for _, r := range cleaned {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}

	cleaned = whitespacePattern.ReplaceAllString(b.String(), " ")
	return strings.TrimSpace(cleaned)
}

// IsLocalHost reports whether the request host is a local or dev
// address. Cookies set for such hosts carry no domain restriction.
func IsLocalHost(host string) bool {
	return strings.Contains(host, "localhost") || strings.Contains(host, ":")
}
