package auditor

import (
	"encoding/xml"
	"strings"

	"github.com/sirupsen/logrus"
)

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// sitemapDoc covers both a urlset and a sitemapindex document.
type sitemapDoc struct {
	Sitemaps []sitemapLoc `xml:"sitemap"`
	URLs     []sitemapLoc `xml:"url"`
}

// SitemapReader resolves /sitemap.xml, recursing into sitemap indexes up to
// a fixed depth, and returns the canonical URL set it found. Failures at any
// level contribute an empty result for that branch, never an error.
type SitemapReader struct {
	transport Transport
	canon     *Canonicalizer
	maxDepth  int
	logger    logrus.FieldLogger
}

func NewSitemapReader(transport Transport, canon *Canonicalizer, maxDepth int, logger logrus.FieldLogger) *SitemapReader {
	if maxDepth <= 0 {
		maxDepth = 5
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SitemapReader{
		transport: transport,
		canon:     canon,
		maxDepth:  maxDepth,
		logger:    logger,
	}
}

func (s *SitemapReader) Fetch(baseURL string) map[string]bool {
	urls := map[string]bool{}
	s.fetchLevel(strings.TrimSuffix(baseURL, "/")+"/sitemap.xml", 0, urls)
	return urls
}

func (s *SitemapReader) fetchLevel(sitemapURL string, depth int, urls map[string]bool) {
	if depth >= s.maxDepth {
		// depth cap, not a cycle detector
		return
	}
	resp, errGet := s.transport.Fetch(sitemapURL)
	if errGet != nil || resp == nil || resp.Status != 200 {
		s.logger.WithField("sitemap", sitemapURL).Debug("sitemap not available")
		return
	}
	doc := sitemapDoc{}
	if errDecode := xml.Unmarshal(resp.Body, &doc); errDecode != nil {
		s.logger.WithField("sitemap", sitemapURL).WithError(errDecode).Warn("could not parse sitemap")
		return
	}
	for _, child := range doc.Sitemaps {
		childURL := strings.TrimSpace(child.Loc)
		if childURL != "" {
			s.fetchLevel(childURL, depth+1, urls)
		}
	}
	for _, entry := range doc.URLs {
		canonical, ok := s.canon.Canonicalize(strings.TrimSpace(entry.Loc), nil)
		if ok {
			urls[canonical] = true
		}
	}
}
