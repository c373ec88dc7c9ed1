package command

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

// NormalizeImageURL reports whether raw is an absolute http(s) URL and returns
// its normalized form.
func NormalizeImageURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return purell.NormalizeURL(u, purell.FlagsSafe), true
}
