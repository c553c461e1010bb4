// Package auditor crawls a website breadth first, builds the internal link
// graph and evaluates a fixed rule set over the result to surface technical
// defects: broken pages and links, redirect pathologies, orphaned content,
// missing metadata.
package auditor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/TarunShaji/Website-Auditor/config"
	"github.com/TarunShaji/Website-Auditor/vo"
)

// Auditor wires the collaborators of one audit run: transport, robots,
// sitemap, crawl engine, rule evaluation and the optional classifier.
type Auditor struct {
	conf       *config.Config
	transport  Transport
	classifier Classifier
	logger     logrus.FieldLogger
	metrics    *Metrics
}

type Option func(*Auditor)

func WithTransport(t Transport) Option {
	return func(a *Auditor) { a.transport = t }
}

func WithClassifier(c Classifier) Option {
	return func(a *Auditor) { a.classifier = c }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Auditor) { a.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(a *Auditor) { a.metrics = m }
}

func New(conf *config.Config, opts ...Option) *Auditor {
	a := &Auditor{
		conf:   conf,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.transport == nil {
		a.transport = NewHTTPTransport(time.Duration(conf.TimeoutSeconds)*time.Second, conf.Agent)
	}
	return a
}

// Run performs one complete audit. Per-URL failures are data on the records,
// only an unusable target URL fails the run.
func (a *Auditor) Run(ctx context.Context) (*vo.AuditResult, error) {
	startedAt := time.Now()
	baseURL := a.conf.Target.BaseURL

	canon, errCanon := NewCanonicalizer(baseURL)
	if errCanon != nil {
		return nil, errCanon
	}

	robots := FetchRobots(a.transport, baseURL)
	sitemap := NewSitemapReader(a.transport, canon, a.conf.SitemapDepth, a.logger).Fetch(baseURL)
	a.logger.WithField("target", baseURL).WithField("sitemap_urls", len(sitemap)).Info("starting crawl")

	crawler := NewCrawler(CrawlerOptions{
		Transport:    a.transport,
		Canon:        canon,
		Robots:       robots,
		MaxRedirects: a.conf.MaxRedirects,
		PageBudget:   a.conf.PageBudget,
		Delay:        time.Duration(a.conf.DelayMillis) * time.Millisecond,
		Logger:       a.logger,
		Metrics:      a.metrics,
	})
	if errRun := crawler.Run(baseURL); errRun != nil {
		return nil, errRun
	}

	records := crawler.Records()
	order := crawler.Order()
	graph := crawler.Graph()
	ApplyIncomingCounts(records, graph)

	issues := EvaluateChecks(&CheckInput{
		Seed:    crawler.Seed(),
		Records: records,
		Order:   order,
		Graph:   graph,
		Sitemap: sitemap,
	})

	if a.conf.Classifier.Enabled && a.classifier != nil {
		issues = append(issues, RunClassification(
			ctx,
			a.classifier,
			records,
			order,
			a.conf.Classifier.BatchSize,
			a.conf.Classifier.Workers,
			a.logger,
		)...)
	}
	a.metrics.countIssues(issues)

	orderedRecords := make([]vo.PageRecord, len(order))
	for i, targetURL := range order {
		orderedRecords[i] = *records[targetURL]
	}

	a.logger.WithField("pages", len(orderedRecords)).WithField("issues", len(issues)).Info("audit complete")
	return &vo.AuditResult{
		RunID:      uuid.NewString(),
		Seed:       crawler.Seed(),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Records:    orderedRecords,
		Issues:     issues,
		Graph:      graph.Adjacency(),
	}, nil
}
