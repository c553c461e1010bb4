package vo

import "time"

// AuditResult is everything one completed run produced: the page records in
// discovery order, the flat issue list and the raw link graph as an
// adjacency map.
type AuditResult struct {
	RunID      string
	Seed       string
	StartedAt  time.Time
	FinishedAt time.Time
	Records    []PageRecord
	Issues     []Issue
	Graph      map[string][]string
}

func (r *AuditResult) PageCount() (pages int) {
	for _, rec := range r.Records {
		if rec.ResourceType == ResourceTypePage {
			pages++
		}
	}
	return
}

func (r *AuditResult) IssuesByKind() map[IssueKind][]Issue {
	byKind := map[IssueKind][]Issue{}
	for _, issue := range r.Issues {
		byKind[issue.Kind] = append(byKind[issue.Kind], issue)
	}
	return byKind
}
