package auditor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TarunShaji/Website-Auditor/vo"
)

func TestLinkGraphEdgesCollapse(t *testing.T) {
	g := LinkGraph{}
	g.AddEdge("https://ex.com/", "https://ex.com/a")
	g.AddEdge("https://ex.com/", "https://ex.com/a")
	g.AddEdge("https://ex.com/", "https://ex.com/b")
	g.AddEdge("https://ex.com/b", "https://ex.com/a")

	assert.True(t, g.HasEdge("https://ex.com/", "https://ex.com/a"))
	counts := g.IncomingCounts()
	// duplicate anchors collapse, counts reflect distinct linking pages
	assert.Equal(t, 2, counts["https://ex.com/a"])
	assert.Equal(t, 1, counts["https://ex.com/b"])
	assert.Equal(t, 0, counts["https://ex.com/"])
}

func TestLinkGraphAdjacency(t *testing.T) {
	g := LinkGraph{}
	g.AddEdge("https://ex.com/", "https://ex.com/b")
	g.AddEdge("https://ex.com/", "https://ex.com/a")

	adjacency := g.Adjacency()
	assert.Equal(t, []string{"https://ex.com/a", "https://ex.com/b"}, adjacency["https://ex.com/"])
}

func TestApplyIncomingCounts(t *testing.T) {
	g := LinkGraph{}
	g.AddEdge("https://ex.com/", "https://ex.com/a")
	g.AddEdge("https://ex.com/a", "https://ex.com/")
	g.AddEdge("https://ex.com/", "https://ex.com/asset.png")

	records := map[string]*vo.PageRecord{
		"https://ex.com/": {
			URL:          "https://ex.com/",
			ResourceType: vo.ResourceTypePage,
		},
		"https://ex.com/a": {
			URL:          "https://ex.com/a",
			ResourceType: vo.ResourceTypePage,
		},
		"https://ex.com/asset.png": {
			URL:          "https://ex.com/asset.png",
			ResourceType: vo.ResourceTypeResource,
			// pre-set to prove the pass resets non-pages
			IncomingInternalLinkCount: 7,
		},
		"https://ex.com/unlinked": {
			URL:          "https://ex.com/unlinked",
			ResourceType: vo.ResourceTypePage,
		},
	}
	ApplyIncomingCounts(records, g)

	assert.Equal(t, 1, records["https://ex.com/"].IncomingInternalLinkCount)
	assert.Equal(t, 1, records["https://ex.com/a"].IncomingInternalLinkCount)
	assert.Equal(t, 0, records["https://ex.com/asset.png"].IncomingInternalLinkCount)
	assert.Equal(t, 0, records["https://ex.com/unlinked"].IncomingInternalLinkCount)
}
