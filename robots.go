package auditor

import (
	"net/url"
	"strings"
)

// Ruleset holds the Allow/Disallow rules of the wildcard user agent block.
// Rules for named agents are scanned past and never evaluated, the crawler
// only ever identifies as one agent.
type Ruleset struct {
	allow    []string
	disallow []string
}

// ParseRobots scans a robots.txt body line by line. Comments are stripped,
// the active User-agent block is tracked and rules are only recorded while
// that block belongs to the wildcard agent.
func ParseRobots(text string) *Ruleset {
	ruleset := &Ruleset{}
	wildcardActive := false
	for _, line := range strings.Split(text, "\n") {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		field := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		switch field {
		case "user-agent":
			wildcardActive = value == "*"
		case "allow":
			if wildcardActive && value != "" {
				ruleset.allow = append(ruleset.allow, value)
			}
		case "disallow":
			if wildcardActive && value != "" {
				ruleset.disallow = append(ruleset.disallow, value)
			}
		}
	}
	return ruleset
}

// IsAllowed evaluates path + query against the ruleset. An Allow match wins
// immediately, otherwise any matching Disallow rule denies, otherwise the
// URL is allowed.
func (r *Ruleset) IsAllowed(u *url.URL) bool {
	path := robotsPath(u)
	for _, rule := range r.allow {
		if ruleMatches(rule, path) {
			return true
		}
	}
	return r.DisallowRule(u) == ""
}

// DisallowRule returns the longest matching disallow rule for u, or the
// empty string. The rule text is surfaced as issue evidence.
func (r *Ruleset) DisallowRule(u *url.URL) string {
	path := robotsPath(u)
	matched := ""
	for _, rule := range r.disallow {
		if !ruleMatches(rule, path) {
			continue
		}
		if len(rule) > len(matched) {
			matched = rule
		}
	}
	return matched
}

func robotsPath(u *url.URL) string {
	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}

// ruleMatches implements prefix matching, with a wildcard suffix rule like
// /foo* matching by the prefix before the star.
func ruleMatches(rule, path string) bool {
	if rule == "/" {
		return true
	}
	if i := strings.Index(rule, "*"); i >= 0 {
		rule = rule[:i]
	}
	return strings.HasPrefix(path, rule)
}

// FetchRobots loads and parses /robots.txt for the given base URL. An
// unfetchable or absent robots.txt yields the empty ruleset which allows
// everything, never an error.
func FetchRobots(transport Transport, baseURL string) *Ruleset {
	resp, errGet := transport.Fetch(strings.TrimSuffix(baseURL, "/") + "/robots.txt")
	if errGet != nil || resp == nil || resp.Status != 200 {
		return &Ruleset{}
	}
	return ParseRobots(string(resp.Body))
}
