package auditor

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/TarunShaji/Website-Auditor/vo"
)

// Document is what the parser hands back to the crawl engine: page metadata
// plus every anchor, already canonicalized and classified internal/external.
type Document struct {
	Title           string
	H1s             []string
	MetaRobots      string
	MetaDescription string
	Links           []vo.Link
	ContentLinks    []vo.ContentLink
}

// anchors inside these regions or pointing at these paths never reach the
// classification stage
var contentExcludedRegions = "nav, header, footer, aside"

var contentExcludedPaths = []string{
	"/cart",
	"/checkout",
	"/login",
	"/account",
	"/search",
}

// ParseDocument extracts metadata and links from an HTML body. base is the
// URL the document was served from, every href is resolved against it.
func ParseDocument(body []byte, base *url.URL, canon *Canonicalizer) (doc Document, err error) {
	gqDoc, errNewDoc := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if errNewDoc != nil {
		return doc, errNewDoc
	}

	doc.Title = strings.TrimSpace(gqDoc.Find("title").First().Text())
	description, _ := gqDoc.Find("meta[name=description]").First().Attr("content")
	doc.MetaDescription = strings.TrimSpace(description)
	robots, _ := gqDoc.Find("meta[name=robots]").First().Attr("content")
	doc.MetaRobots = strings.TrimSpace(robots)
	gqDoc.Find("h1").Each(func(i int, sel *goquery.Selection) {
		doc.H1s = append(doc.H1s, strings.TrimSpace(sel.Text()))
	})

	seenContentLinks := map[string]bool{}
	gqDoc.Find("a").Each(func(i int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}
		if skipScheme(href) {
			return
		}
		normalized, ok := canon.Canonicalize(href, base)
		if !ok {
			return
		}
		link := vo.Link{
			Original:   href,
			Normalized: normalized,
			IsInternal: canon.IsSameOrigin(normalized),
		}
		doc.Links = append(doc.Links, link)

		if !link.IsInternal || inExcludedRegion(sel) || hasExcludedPath(normalized) {
			return
		}
		anchorText := strings.TrimSpace(sel.Text())
		dedupKey := normalized + "\x00" + anchorText
		if seenContentLinks[dedupKey] {
			return
		}
		seenContentLinks[dedupKey] = true
		doc.ContentLinks = append(doc.ContentLinks, vo.ContentLink{
			DestinationURL: normalized,
			AnchorText:     anchorText,
			ContextType:    "content",
		})
	})
	return doc, nil
}

func skipScheme(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "data:")
}

func inExcludedRegion(sel *goquery.Selection) bool {
	return sel.Closest(contentExcludedRegions).Length() > 0
}

func hasExcludedPath(canonical string) bool {
	u, errParse := url.Parse(canonical)
	if errParse != nil {
		return true
	}
	for _, prefix := range contentExcludedPaths {
		if strings.HasPrefix(u.Path, prefix) {
			return true
		}
	}
	return false
}
