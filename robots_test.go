package auditor

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testRobotsTxt = `
# global rules
User-agent: *
Disallow: /admin
Disallow: /admin/secret
Allow: /admin/public
Disallow: /tmp*
Disallow: /search? # query pages

User-agent: evilbot
Disallow: /
`

func mustParseURL(t *testing.T, raw string) *url.URL {
	u, errParse := url.Parse(raw)
	assert.NoError(t, errParse)
	return u
}

func TestParseRobots(t *testing.T) {
	ruleset := ParseRobots(testRobotsTxt)

	assert.False(t, ruleset.IsAllowed(mustParseURL(t, "https://example.com/admin")))
	assert.False(t, ruleset.IsAllowed(mustParseURL(t, "https://example.com/admin/users")))
	assert.True(t, ruleset.IsAllowed(mustParseURL(t, "https://example.com/admin/public")))
	assert.True(t, ruleset.IsAllowed(mustParseURL(t, "https://example.com/")))
	assert.True(t, ruleset.IsAllowed(mustParseURL(t, "https://example.com/blog")))

	// named agent rules are parsed past, never evaluated
	assert.True(t, ruleset.IsAllowed(mustParseURL(t, "https://example.com/anything")))
}

func TestRobotsWildcardSuffix(t *testing.T) {
	ruleset := ParseRobots(testRobotsTxt)
	assert.False(t, ruleset.IsAllowed(mustParseURL(t, "https://example.com/tmpfile")))
	assert.False(t, ruleset.IsAllowed(mustParseURL(t, "https://example.com/tmp/deeper")))
}

func TestRobotsQueryMatching(t *testing.T) {
	ruleset := ParseRobots(testRobotsTxt)
	// path for matching is pathname + query
	assert.False(t, ruleset.IsAllowed(mustParseURL(t, "https://example.com/search?q=x")))
	assert.True(t, ruleset.IsAllowed(mustParseURL(t, "https://example.com/search")))
}

func TestRobotsDisallowRuleLongestMatch(t *testing.T) {
	ruleset := ParseRobots(testRobotsTxt)
	assert.Equal(t, "/admin/secret", ruleset.DisallowRule(mustParseURL(t, "https://example.com/admin/secret/key")))
	assert.Equal(t, "/admin", ruleset.DisallowRule(mustParseURL(t, "https://example.com/admin/users")))
	assert.Equal(t, "", ruleset.DisallowRule(mustParseURL(t, "https://example.com/blog")))
}

func TestRobotsRootDisallow(t *testing.T) {
	ruleset := ParseRobots("User-agent: *\nDisallow: /\n")
	assert.False(t, ruleset.IsAllowed(mustParseURL(t, "https://example.com/")))
	assert.False(t, ruleset.IsAllowed(mustParseURL(t, "https://example.com/anywhere")))
}

func TestRobotsEmptyAllowsEverything(t *testing.T) {
	ruleset := ParseRobots("")
	assert.True(t, ruleset.IsAllowed(mustParseURL(t, "https://example.com/admin")))
	assert.Equal(t, "", ruleset.DisallowRule(mustParseURL(t, "https://example.com/admin")))
}

func TestFetchRobotsDegradesToAllowAll(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer testServer.Close()

	transport := NewHTTPTransport(time.Second, "test-agent")
	ruleset := FetchRobots(transport, testServer.URL)
	assert.True(t, ruleset.IsAllowed(mustParseURL(t, testServer.URL+"/anything")))
}

func TestFetchRobots(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		http.NotFound(w, r)
	}))
	defer testServer.Close()

	transport := NewHTTPTransport(time.Second, "test-agent")
	ruleset := FetchRobots(transport, testServer.URL)
	assert.False(t, ruleset.IsAllowed(mustParseURL(t, testServer.URL+"/private/x")))
	assert.True(t, ruleset.IsAllowed(mustParseURL(t, testServer.URL+"/public")))
}
