package utils

import (
	"net/http"
	"net/url"
	"strings"
)

// OriginAllowed reports whether a browser request may act on the studio. Requests
// without an Origin header (CLI tools, same-origin navigations) pass. Otherwise the
// origin must name the host the request was sent to, or appear in allowed.
func OriginAllowed(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSuffix(strings.TrimSpace(a), "/"), origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
