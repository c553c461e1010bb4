package auditor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/TarunShaji/Website-Auditor/vo"
)

// Crawler owns the traversal state of one audit run: queue, visited set,
// page store and link graph. All four are written from the single traversal
// loop only, there is never a concurrent writer.
type Crawler struct {
	transport    Transport
	canon        *Canonicalizer
	robots       *Ruleset
	maxRedirects int
	pageBudget   int
	limiter      *rate.Limiter
	logger       logrus.FieldLogger
	metrics      *Metrics

	seed      string
	queue     []string
	queued    map[string]bool
	visited   map[string]bool
	pageStore map[string]*vo.PageRecord
	order     []string
	linkGraph LinkGraph
}

type CrawlerOptions struct {
	Transport Transport
	Canon     *Canonicalizer
	Robots    *Ruleset

	// MaxRedirects defaults to 5, PageBudget 0 means unlimited, Delay 0
	// means no politeness delay between requests.
	MaxRedirects int
	PageBudget   int
	Delay        time.Duration

	Logger  logrus.FieldLogger
	Metrics *Metrics
}

func NewCrawler(opts CrawlerOptions) *Crawler {
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = 5
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Robots == nil {
		opts.Robots = &Ruleset{}
	}
	var limiter *rate.Limiter
	if opts.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}
	return &Crawler{
		transport:    opts.Transport,
		canon:        opts.Canon,
		robots:       opts.Robots,
		maxRedirects: opts.MaxRedirects,
		pageBudget:   opts.PageBudget,
		limiter:      limiter,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		queued:       map[string]bool{},
		visited:      map[string]bool{},
		pageStore:    map[string]*vo.PageRecord{},
		linkGraph:    LinkGraph{},
	}
}

// Run performs the breadth first traversal from seedURL. The seed is
// canonicalized like every discovered link, one identity contract for all
// URLs. Per-URL failures become data on the records, Run itself only fails
// on an unusable seed.
func (c *Crawler) Run(seedURL string) error {
	seed, ok := c.canon.Canonicalize(seedURL, nil)
	if !ok {
		return fmt.Errorf("cannot canonicalize seed url %q", seedURL)
	}
	c.seed = seed
	c.enqueue(seed)

	pages := 0
	for len(c.queue) > 0 {
		if c.pageBudget > 0 && pages >= c.pageBudget {
			c.logger.WithField("budget", c.pageBudget).Info("page budget reached")
			break
		}
		targetURL := c.queue[0]
		c.queue = c.queue[1:]
		delete(c.queued, targetURL)
		if c.visited[targetURL] {
			continue
		}
		c.visited[targetURL] = true

		rec := c.crawlOne(targetURL)
		c.pageStore[targetURL] = rec
		c.order = append(c.order, targetURL)
		if rec.ResourceType == vo.ResourceTypePage {
			pages++
		}
		c.metrics.observeFetch(rec)
		c.metrics.setProgress(len(c.queue), len(c.pageStore))
	}
	return nil
}

func (c *Crawler) Seed() string                       { return c.seed }
func (c *Crawler) Records() map[string]*vo.PageRecord { return c.pageStore }
func (c *Crawler) Order() []string                    { return c.order }
func (c *Crawler) Graph() LinkGraph                   { return c.linkGraph }

func (c *Crawler) enqueue(targetURL string) {
	if c.visited[targetURL] || c.queued[targetURL] {
		return
	}
	c.queued[targetURL] = true
	c.queue = append(c.queue, targetURL)
}

// crawlOne handles one dequeued URL: robots gate, fetch with redirect
// following, classification, parsing and edge recording.
func (c *Crawler) crawlOne(targetURL string) *vo.PageRecord {
	rec := &vo.PageRecord{
		URL:      targetURL,
		FinalURL: targetURL,
		Time:     time.Now(),
	}

	target, errParse := url.Parse(targetURL)
	if errParse != nil {
		// canonical URLs always parse, anything else is a programming error
		rec.ResourceType = vo.ResourceTypePage
		rec.FetchError = vo.FetchErrorUnknown
		return rec
	}

	if !c.robots.IsAllowed(target) {
		rec.ResourceType = vo.ResourceTypePage
		rec.BlockedByRobots = true
		rec.BlockedByRobotsRule = c.robots.DisallowRule(target)
		c.logger.WithField("url", targetURL).WithField("rule", rec.BlockedByRobotsRule).Info("blocked by robots")
		return rec
	}

	if c.limiter != nil {
		c.limiter.Wait(context.Background())
	}

	start := time.Now()
	resp, chain, fetchErr := c.fetchWithRedirects(targetURL)
	rec.Duration = time.Since(start)
	rec.RedirectChain = chain
	if fetchErr != vo.FetchErrorNone {
		rec.ResourceType = vo.ResourceTypePage
		rec.FetchError = fetchErr
		c.logger.WithField("url", targetURL).WithField("error", string(fetchErr)).Warn("fetch failed")
		return rec
	}

	rec.HTTPStatus = resp.Status
	rec.FinalURL = resp.FinalURL
	rec.Headers = flattenHeaders(resp.Headers)
	rec.XRobotsTag = strings.ToLower(resp.Headers.Get("X-Robots-Tag"))

	contentType := resp.Headers.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		rec.ResourceType = vo.ResourceTypeResource
		return rec
	}
	rec.ResourceType = vo.ResourceTypePage

	base, errParseBase := url.Parse(resp.FinalURL)
	if errParseBase != nil {
		base = target
	}
	doc, errParseDoc := ParseDocument(resp.Body, base, c.canon)
	if errParseDoc != nil {
		rec.FetchError = vo.FetchErrorException
		return rec
	}
	rec.Title = doc.Title
	rec.H1s = doc.H1s
	rec.MetaRobots = doc.MetaRobots
	rec.MetaDescription = doc.MetaDescription

	seenInternal := map[string]bool{}
	for _, link := range doc.Links {
		if !link.IsInternal {
			rec.ExternalOutgoingLinks = append(rec.ExternalOutgoingLinks, link.Original)
			continue
		}
		c.linkGraph.AddEdge(targetURL, link.Normalized)
		if !seenInternal[link.Normalized] {
			seenInternal[link.Normalized] = true
			rec.InternalOutgoingLinks = append(rec.InternalOutgoingLinks, link.Normalized)
		}
		c.enqueue(link.Normalized)
	}
	for _, contentLink := range doc.ContentLinks {
		contentLink.SourceURL = targetURL
		rec.ContentInternalLinks = append(rec.ContentInternalLinks, contentLink)
	}
	return rec
}

// fetchWithRedirects drives redirect following as a bounded loop. The
// pre-redirect URL is appended to the chain before each hop. No loop
// detection happens here, the crawler records facts and the rule engine
// inspects the finished chain.
func (c *Crawler) fetchWithRedirects(targetURL string) (resp *Response, chain []string, fetchErr vo.FetchError) {
	currentURL := targetURL
	for hops := 0; ; {
		r, errFetch := c.transport.Fetch(currentURL)
		if errFetch != nil {
			return nil, chain, classifyFetchError(errFetch)
		}
		if r == nil {
			return nil, chain, vo.FetchErrorUnknown
		}
		if r.Status >= 300 && r.Status < 400 {
			location := r.Headers.Get("Location")
			if location == "" {
				// terminal, handed back as-is
				r.FinalURL = currentURL
				return r, chain, vo.FetchErrorNone
			}
			next, errResolve := resolveLocation(currentURL, location)
			if errResolve != nil {
				r.FinalURL = currentURL
				return r, chain, vo.FetchErrorNone
			}
			hops++
			if hops > c.maxRedirects {
				return nil, chain, vo.FetchErrorMaxRedirects
			}
			chain = append(chain, currentURL)
			currentURL = next
			continue
		}
		r.FinalURL = currentURL
		return r, chain, vo.FetchErrorNone
	}
}

func resolveLocation(currentURL, location string) (string, error) {
	current, errParseCurrent := url.Parse(currentURL)
	if errParseCurrent != nil {
		return "", errParseCurrent
	}
	next, errParseNext := url.Parse(location)
	if errParseNext != nil {
		return "", errParseNext
	}
	return current.ResolveReference(next).String(), nil
}

func classifyFetchError(err error) vo.FetchError {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return vo.FetchErrorNetwork
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return vo.FetchErrorNetwork
	}
	return vo.FetchErrorException
}

func flattenHeaders(headers map[string][]string) map[string]string {
	flat := make(map[string]string, len(headers))
	for name, values := range headers {
		if len(values) > 0 {
			flat[name] = values[0]
		}
	}
	return flat
}
