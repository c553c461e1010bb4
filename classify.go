package auditor

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/TarunShaji/Website-Auditor/vo"
)

// Classification is one verdict of the external classifier for a content
// link.
type Classification struct {
	SourceURL      string
	DestinationURL string
	AnchorText     string
	IsMismatch     bool
	IsSoft404      bool
	Confidence     float64
	Explanation    string
}

// Classifier is the optional AI collaborator. It never participates in
// graph construction, it only contributes supplementary issues.
type Classifier interface {
	ClassifyBatch(ctx context.Context, batch []vo.ContentLink) ([]Classification, error)
}

// RunClassification batches every content link over a bounded worker group.
// Each batch writes into its own result slot, slots are concatenated after
// the join. A failed batch degrades to zero results and never halts the
// others.
func RunClassification(
	ctx context.Context,
	classifier Classifier,
	records map[string]*vo.PageRecord,
	order []string,
	batchSize int,
	workers int,
	logger logrus.FieldLogger,
) []vo.Issue {
	if classifier == nil {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 20
	}
	if workers <= 0 {
		workers = 3
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	contentLinks := []vo.ContentLink{}
	for _, targetURL := range order {
		contentLinks = append(contentLinks, records[targetURL].ContentInternalLinks...)
	}
	if len(contentLinks) == 0 {
		return nil
	}

	batches := [][]vo.ContentLink{}
	for start := 0; start < len(contentLinks); start += batchSize {
		end := start + batchSize
		if end > len(contentLinks) {
			end = len(contentLinks)
		}
		batches = append(batches, contentLinks[start:end])
	}

	results := make([][]Classification, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			classifications, errClassify := classifier.ClassifyBatch(gctx, batch)
			if errClassify != nil {
				logger.WithField("batch", i).WithError(errClassify).Warn("classification batch failed")
				return nil
			}
			results[i] = classifications
			return nil
		})
	}
	// workers only ever return nil, the join is for completion
	_ = g.Wait()

	issues := []vo.Issue{}
	for _, classifications := range results {
		for _, cl := range classifications {
			evidence := vo.ClassificationEvidence{
				AnchorText:  cl.AnchorText,
				Destination: cl.DestinationURL,
				Confidence:  cl.Confidence,
				Explanation: cl.Explanation,
			}
			if cl.IsMismatch {
				issues = append(issues, vo.Issue{
					Kind:     vo.IssueLinkTextMismatch,
					URL:      cl.SourceURL,
					Message:  fmt.Sprintf("anchor %q does not match the destination %s", cl.AnchorText, cl.DestinationURL),
					Evidence: evidence,
				})
			}
			if cl.IsSoft404 {
				issues = append(issues, vo.Issue{
					Kind:     vo.IssueSoft404,
					URL:      cl.DestinationURL,
					Message:  "destination looks like a soft 404",
					Evidence: evidence,
				})
			}
		}
	}
	return issues
}
