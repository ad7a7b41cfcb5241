package helpers

import (
	"errors"
	"net/url"
	"strings"
)

var trackingQueryParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"gclid":        {},
	"fbclid":       {},
	"msclkid":      {},
	"ref":          {},
}

// CanonicalLink normalises a tool link for use as the store's identity key.
// It lowercases scheme and host, defaults the scheme to https, strips
// fragments, tracking query parameters and trailing slashes. Two links that
// differ only in those respects would otherwise produce duplicate rows.
func CanonicalLink(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	if parsed.Host == "" {
		return "", errors.New("url missing host")
	}
	parsed.Fragment = ""

	q := parsed.Query()
	for key := range q {
		if _, ok := trackingQueryParams[strings.ToLower(key)]; ok {
			q.Del(key)
		}
	}
	parsed.RawQuery = q.Encode()
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")

	return parsed.String(), nil
}

// Domain returns the lowercased host of a URL without any www prefix, or ""
// when the URL does not parse.
func Domain(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// MatchesDomain reports whether the URL's host is domain or one of its
// subdomains.
func MatchesDomain(raw, domain string) bool {
	host := Domain(raw)
	return host == domain || strings.HasSuffix(host, "."+domain)
}
