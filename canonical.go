package auditor

import (
	"errors"
	"net/url"
	"strings"
)

// Canonicalizer turns hrefs into canonical absolute URL strings and answers
// same-origin queries against the origin it was built with. Two URLs are the
// same crawl target iff their canonical forms are byte-equal.
type Canonicalizer struct {
	origin *url.URL
}

func NewCanonicalizer(originURL string) (c *Canonicalizer, err error) {
	origin, errParse := url.Parse(originURL)
	if errParse != nil {
		return nil, errParse
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, errors.New("origin needs scheme and host: " + originURL)
	}
	origin.Scheme = strings.ToLower(origin.Scheme)
	origin.Host = stripDefaultPort(origin.Scheme, strings.ToLower(origin.Host))
	return &Canonicalizer{origin: origin}, nil
}

// Canonicalize resolves href against base (base may be nil for absolute
// input) and normalizes: lowercase scheme and host, fragment dropped,
// default port dropped, trailing slash dropped except for the root path.
// ok is false for anything unparseable or without scheme and host.
// Canonicalization is idempotent.
func (c *Canonicalizer) Canonicalize(href string, base *url.URL) (canonical string, ok bool) {
	// let us ditch anchors
	anchorParts := strings.Split(strings.TrimSpace(href), "#")
	ref, errParseRef := url.Parse(anchorParts[0])
	if errParseRef != nil {
		return "", false
	}
	link := ref
	if base != nil {
		link = base.ResolveReference(ref)
	}
	if link.Scheme == "" || link.Host == "" {
		return "", false
	}
	link.Scheme = strings.ToLower(link.Scheme)
	link.Host = stripDefaultPort(link.Scheme, strings.ToLower(link.Host))
	link.Fragment = ""
	link.RawFragment = ""
	if link.Path == "" {
		link.Path = "/"
	}
	if len(link.Path) > 1 && strings.HasSuffix(link.Path, "/") {
		link.Path = strings.TrimSuffix(link.Path, "/")
		link.RawPath = ""
	}
	return link.String(), true
}

// IsSameOrigin reports whether raw shares scheme and host with the fixed
// origin. Unparseable input is never same-origin.
func (c *Canonicalizer) IsSameOrigin(raw string) bool {
	u, errParse := url.Parse(raw)
	if errParse != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	host := stripDefaultPort(scheme, strings.ToLower(u.Host))
	return scheme == c.origin.Scheme && host == c.origin.Host
}

func (c *Canonicalizer) Origin() *url.URL {
	originCopy := *c.origin
	return &originCopy
}

func stripDefaultPort(scheme, host string) string {
	switch scheme {
	case "http":
		return strings.TrimSuffix(host, ":80")
	case "https":
		return strings.TrimSuffix(host, ":443")
	}
	return host
}
