package utils

import (
	"net/url"
	"strings"
)

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

// IsHTTPURL reports whether raw is an absolute http or https URL with a host.
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// NormalizeWikiURI trims whitespace, Slack link brackets and trailing slashes so
// that the same wiki is always stored and matched under one spelling.
func NormalizeWikiURI(raw string) string {
	uri := strings.TrimSpace(raw)
	uri = strings.Trim(uri, "<>")
	if i := strings.Index(uri, "|"); i >= 0 {
		uri = uri[:i]
	}
	return strings.TrimRight(uri, "/")
}
