package crawl

import (
	"net/url"
	"strings"
)

// skipExtensions lists path suffixes that never point at documentation text.
var skipExtensions = map[string]struct{}{
	".css": {}, ".js": {}, ".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {},
	".svg": {}, ".ico": {}, ".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {},
	".pdf": {}, ".zip": {}, ".gz": {}, ".mp4": {}, ".mp3": {}, ".webp": {},
	".avif": {},
}

// skipPathMarkers lists path fragments that mark auth flows, static asset
// trees, and internal API routes.
var skipPathMarkers = []string{
	"/login", "/logout", "/signin", "/signout", "/signup", "/register",
	"/auth", "/oauth", "/sso", "/static", "/assets", "/dist", "/build",
	"/api/", "/_next/", "/__",
}

// admissible reports whether link should be enqueued while crawling a
// site rooted at root: same host, no non-document extension, no
// non-content path marker.
func admissible(root, link *url.URL) bool {
	if link.Host != root.Host {
		return false
	}

	path := strings.ToLower(link.Path)
	for ext := range skipExtensions {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}
	for _, marker := range skipPathMarkers {
		if strings.Contains(path, marker) {
			return false
		}
	}
	return true
}

// skipHref reports whether an anchor href is a non-navigational scheme
// or a fragment-only link.
func skipHref(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	if href == "" || strings.HasPrefix(href, "#") {
		return true
	}
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "sms:", "ftp:", "data:"} {
		if strings.HasPrefix(href, prefix) {
			return true
		}
	}
	return false
}

// stripFragment renders u without its fragment so that anchor variants
// of the same page share one visited-set entry.
func stripFragment(u *url.URL) string {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	return c.String()
}
