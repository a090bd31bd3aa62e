package common

import (
	"net/url"
	"strings"
)

// Domain extracts the host portion of a URL for display and site targeting.
// Returns an empty string when the URL cannot be parsed.
func Domain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

// IsValidURL reports whether the string parses as an absolute http(s) URL.
func IsValidURL(rawURL string) bool {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// ResolveURL resolves a possibly-relative reference against a base URL.
// Protocol-relative references ("//cdn.example.com/x.png") inherit the base
// scheme. Returns an empty string when resolution fails.
func ResolveURL(ref string, base *url.URL) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if strings.HasPrefix(ref, "//") {
		return base.Scheme + ":" + ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(parsed).String()
}
