package auditor

import (
	"sort"

	"github.com/TarunShaji/Website-Auditor/vo"
)

// LinkGraph maps a canonical source URL to the set of distinct canonical
// targets it links to. Duplicate anchors to the same target collapse to one
// edge, incoming counts reflect distinct linking pages.
type LinkGraph map[string]map[string]bool

func (g LinkGraph) AddEdge(source, target string) {
	targets, ok := g[source]
	if !ok {
		targets = map[string]bool{}
		g[source] = targets
	}
	targets[target] = true
}

func (g LinkGraph) HasEdge(source, target string) bool {
	return g[source][target]
}

// IncomingCounts counts, per target, the distinct sources linking to it.
func (g LinkGraph) IncomingCounts() map[string]int {
	counts := map[string]int{}
	for _, targets := range g {
		for target := range targets {
			counts[target]++
		}
	}
	return counts
}

// Adjacency renders the graph as a plain map with sorted target lists, the
// shape reports and sinks consume.
func (g LinkGraph) Adjacency() map[string][]string {
	adjacency := make(map[string][]string, len(g))
	for source, targets := range g {
		list := make([]string, 0, len(targets))
		for target := range targets {
			list = append(list, target)
		}
		sort.Strings(list)
		adjacency[source] = list
	}
	return adjacency
}

// ApplyIncomingCounts runs the single post-traversal pass: every PAGE record
// gets the distinct-source count for its URL, everything else gets 0. It
// reads only the immutable edge list, so it is independent of traversal
// order.
func ApplyIncomingCounts(records map[string]*vo.PageRecord, g LinkGraph) {
	counts := g.IncomingCounts()
	for targetURL, rec := range records {
		if rec.ResourceType == vo.ResourceTypePage {
			rec.IncomingInternalLinkCount = counts[targetURL]
		} else {
			rec.IncomingInternalLinkCount = 0
		}
	}
}
