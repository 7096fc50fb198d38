package converter

import (
	"net/url"
	"strings"
)

// embedAllowlist holds the embed providers whose iframes are preserved
// without a review warning. Matching is by host suffix, so subdomains like
// player.vimeo.com or w.soundcloud.com are covered by their apex entries.
// Loaded once, never mutated at runtime.
var embedAllowlist = []string{
	"youtube.com",
	"youtube-nocookie.com",
	"youtu.be",
	"vimeo.com",
	"dailymotion.com",
	"wistia.com",
	"google.com",
	"spotify.com",
	"soundcloud.com",
	"bandcamp.com",
	"codepen.io",
	"jsfiddle.net",
	"codesandbox.io",
}

// embedAllowed reports whether the iframe src points at an allowlisted
// provider. An unparseable or schemeless src is treated as not allowlisted
// rather than an error; the caller degrades to a warning.
func embedAllowed(src string) bool {
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	host = strings.TrimPrefix(host, "www.")

	for _, allowed := range embedAllowlist {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
