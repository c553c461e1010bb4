package auditor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/TarunShaji/Website-Auditor/vo"
)

// CheckInput is everything the rule evaluation engine reads: the page store
// and its discovery order, the link graph, the sitemap URL set and the
// robots ruleset. Checks never mutate any of it.
type CheckInput struct {
	Seed    string
	Records map[string]*vo.PageRecord
	Order   []string
	Graph   LinkGraph
	Sitemap map[string]bool
}

type checkFunc func(in *CheckInput) []vo.Issue

// checkList is the fixed evaluation order. Issues aggregate in declaration
// order, then discovery order within a check.
var checkList = []checkFunc{
	checkBrokenPages,
	checkBrokenInternalLinks,
	checkRedirectChains,
	checkRedirectLoops,
	checkBlockedByRobots,
	checkNoindexPages,
	checkSitemapOrphans,
	checkZeroIncomingLinks,
	checkZeroOutgoingLinks,
	checkMissingTitles,
	checkMissingH1s,
	checkDuplicateTitles,
	checkDuplicateMetaDescriptions,
	checkMultipleH1s,
}

// EvaluateChecks runs every check unconditionally and returns the combined
// issue list.
func EvaluateChecks(in *CheckInput) []vo.Issue {
	issues := []vo.Issue{}
	for _, check := range checkList {
		issues = append(issues, check(in)...)
	}
	return issues
}

func checkBrokenPages(in *CheckInput) (issues []vo.Issue) {
	for _, targetURL := range in.Order {
		rec := in.Records[targetURL]
		if rec.HTTPStatus >= 400 {
			issues = append(issues, vo.Issue{
				Kind:     vo.IssueBrokenPage,
				URL:      targetURL,
				Message:  fmt.Sprintf("page responds with status %d", rec.HTTPStatus),
				Evidence: vo.BrokenPageEvidence{Status: rec.HTTPStatus},
			})
		}
	}
	return
}

func checkBrokenInternalLinks(in *CheckInput) (issues []vo.Issue) {
	for _, sourceURL := range in.Order {
		rec := in.Records[sourceURL]
		for _, targetURL := range rec.InternalOutgoingLinks {
			target, ok := in.Records[targetURL]
			if !ok || target.HTTPStatus < 400 {
				continue
			}
			issues = append(issues, vo.Issue{
				Kind:    vo.IssueBrokenInternalLink,
				URL:     sourceURL,
				Message: fmt.Sprintf("links to %s which responds with status %d", targetURL, target.HTTPStatus),
				Evidence: vo.BrokenLinkEvidence{
					Target: targetURL,
					Status: target.HTTPStatus,
				},
			})
		}
	}
	return
}

func checkRedirectChains(in *CheckInput) (issues []vo.Issue) {
	for _, targetURL := range in.Order {
		rec := in.Records[targetURL]
		if len(rec.RedirectChain) > 1 {
			issues = append(issues, vo.Issue{
				Kind:    vo.IssueRedirectChain,
				URL:     targetURL,
				Message: fmt.Sprintf("redirect chain of %d hops before reaching %s", len(rec.RedirectChain), rec.FinalURL),
				Evidence: vo.RedirectEvidence{
					Chain:    rec.RedirectChain,
					FinalURL: rec.FinalURL,
				},
			})
		}
	}
	return
}

func checkRedirectLoops(in *CheckInput) (issues []vo.Issue) {
	for _, targetURL := range in.Order {
		rec := in.Records[targetURL]
		if len(rec.RedirectChain) == 0 {
			continue
		}
		seen := map[string]bool{}
		loop := false
		for _, hop := range rec.RedirectChain {
			if seen[hop] {
				loop = true
				break
			}
			seen[hop] = true
		}
		if !loop && rec.FinalURL != targetURL && seen[rec.FinalURL] {
			loop = true
		}
		if loop {
			issues = append(issues, vo.Issue{
				Kind:    vo.IssueRedirectLoop,
				URL:     targetURL,
				Message: "redirects loop back to an already visited URL",
				Evidence: vo.RedirectEvidence{
					Chain:    rec.RedirectChain,
					FinalURL: rec.FinalURL,
				},
			})
		}
	}
	return
}

func checkBlockedByRobots(in *CheckInput) (issues []vo.Issue) {
	for _, targetURL := range in.Order {
		rec := in.Records[targetURL]
		if rec.BlockedByRobots {
			issues = append(issues, vo.Issue{
				Kind:     vo.IssueBlockedByRobots,
				URL:      targetURL,
				Message:  fmt.Sprintf("blocked by robots.txt rule %q", rec.BlockedByRobotsRule),
				Evidence: vo.RobotsEvidence{Rule: rec.BlockedByRobotsRule},
			})
		}
	}
	return
}

func checkNoindexPages(in *CheckInput) (issues []vo.Issue) {
	for _, targetURL := range in.Order {
		rec := in.Records[targetURL]
		metaRobots := strings.ToLower(rec.MetaRobots)
		if !strings.Contains(metaRobots, "noindex") && !strings.Contains(rec.XRobotsTag, "noindex") {
			continue
		}
		issues = append(issues, vo.Issue{
			Kind:    vo.IssueNoindexPage,
			URL:     targetURL,
			Message: "page is marked noindex",
			Evidence: vo.NoindexEvidence{
				MetaRobots: rec.MetaRobots,
				XRobotsTag: rec.XRobotsTag,
			},
		})
	}
	return
}

func checkSitemapOrphans(in *CheckInput) (issues []vo.Issue) {
	sitemapURLs := make([]string, 0, len(in.Sitemap))
	for sitemapURL := range in.Sitemap {
		sitemapURLs = append(sitemapURLs, sitemapURL)
	}
	sort.Strings(sitemapURLs)
	for _, sitemapURL := range sitemapURLs {
		if _, ok := in.Records[sitemapURL]; ok {
			continue
		}
		issues = append(issues, vo.Issue{
			Kind:    vo.IssueSitemapOrphan,
			URL:     sitemapURL,
			Message: "listed in the sitemap but not reachable through internal links",
		})
	}
	return
}

func checkZeroIncomingLinks(in *CheckInput) (issues []vo.Issue) {
	for _, targetURL := range in.Order {
		rec := in.Records[targetURL]
		if rec.ResourceType != vo.ResourceTypePage || targetURL == in.Seed || rec.BlockedByRobots {
			continue
		}
		if rec.IncomingInternalLinkCount == 0 {
			issues = append(issues, vo.Issue{
				Kind:    vo.IssueZeroIncomingLinks,
				URL:     targetURL,
				Message: "no crawled page links to this page",
			})
		}
	}
	return
}

func checkZeroOutgoingLinks(in *CheckInput) (issues []vo.Issue) {
	for _, targetURL := range in.Order {
		rec := in.Records[targetURL]
		if rec.ResourceType != vo.ResourceTypePage || rec.HTTPStatus != 200 {
			continue
		}
		if len(rec.InternalOutgoingLinks) == 0 {
			issues = append(issues, vo.Issue{
				Kind:    vo.IssueZeroOutgoingLinks,
				URL:     targetURL,
				Message: "page has no internal outgoing links",
			})
		}
	}
	return
}

func checkMissingTitles(in *CheckInput) (issues []vo.Issue) {
	for _, targetURL := range in.Order {
		rec := in.Records[targetURL]
		if rec.ResourceType != vo.ResourceTypePage || rec.HTTPStatus != 200 {
			continue
		}
		if strings.TrimSpace(rec.Title) == "" {
			issues = append(issues, vo.Issue{
				Kind:    vo.IssueMissingTitle,
				URL:     targetURL,
				Message: "page has no title",
			})
		}
	}
	return
}

func checkMissingH1s(in *CheckInput) (issues []vo.Issue) {
	for _, targetURL := range in.Order {
		rec := in.Records[targetURL]
		if rec.ResourceType != vo.ResourceTypePage || rec.HTTPStatus != 200 {
			continue
		}
		if len(rec.H1s) == 0 {
			issues = append(issues, vo.Issue{
				Kind:    vo.IssueMissingH1,
				URL:     targetURL,
				Message: "page has no h1",
			})
		}
	}
	return
}

// duplicateGroups collects value -> affected URLs in discovery order over
// 200 PAGE records.
func duplicateGroups(in *CheckInput, value func(*vo.PageRecord) string) map[string][]string {
	groups := map[string][]string{}
	for _, targetURL := range in.Order {
		rec := in.Records[targetURL]
		if rec.ResourceType != vo.ResourceTypePage || rec.HTTPStatus != 200 {
			continue
		}
		v := strings.TrimSpace(value(rec))
		if v == "" {
			continue
		}
		groups[v] = append(groups[v], targetURL)
	}
	return groups
}

// checkDuplicateTitles emits one issue per affected URL, each evidencing the
// full group. checkDuplicateMetaDescriptions emits one issue per group. The
// asymmetry is deliberate, downstream consumers depend on both shapes.
func checkDuplicateTitles(in *CheckInput) (issues []vo.Issue) {
	groups := duplicateGroups(in, func(rec *vo.PageRecord) string { return rec.Title })
	for _, targetURL := range in.Order {
		rec := in.Records[targetURL]
		title := strings.TrimSpace(rec.Title)
		urls := groups[title]
		if title == "" || len(urls) < 2 || rec.ResourceType != vo.ResourceTypePage || rec.HTTPStatus != 200 {
			continue
		}
		issues = append(issues, vo.Issue{
			Kind:    vo.IssueDuplicateTitle,
			URL:     targetURL,
			Message: fmt.Sprintf("title %q is shared by %d pages", title, len(urls)),
			Evidence: vo.DuplicateEvidence{
				Value: title,
				URLs:  urls,
			},
		})
	}
	return
}

func checkDuplicateMetaDescriptions(in *CheckInput) (issues []vo.Issue) {
	groups := duplicateGroups(in, func(rec *vo.PageRecord) string { return rec.MetaDescription })
	emitted := map[string]bool{}
	for _, targetURL := range in.Order {
		rec := in.Records[targetURL]
		description := strings.TrimSpace(rec.MetaDescription)
		urls := groups[description]
		if description == "" || len(urls) < 2 || emitted[description] {
			continue
		}
		if rec.ResourceType != vo.ResourceTypePage || rec.HTTPStatus != 200 {
			continue
		}
		emitted[description] = true
		issues = append(issues, vo.Issue{
			Kind:    vo.IssueDuplicateMetaDescription,
			URL:     urls[0],
			Message: fmt.Sprintf("meta description is shared by %d pages", len(urls)),
			Evidence: vo.DuplicateEvidence{
				Value: description,
				URLs:  urls,
			},
		})
	}
	return
}

func checkMultipleH1s(in *CheckInput) (issues []vo.Issue) {
	for _, targetURL := range in.Order {
		rec := in.Records[targetURL]
		if len(rec.H1s) > 1 {
			issues = append(issues, vo.Issue{
				Kind:     vo.IssueMultipleH1,
				URL:      targetURL,
				Message:  fmt.Sprintf("page has %d h1 headings", len(rec.H1s)),
				Evidence: vo.MultipleH1Evidence{H1s: rec.H1s},
			})
		}
	}
	return
}
