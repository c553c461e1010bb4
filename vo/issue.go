package vo

type IssueKind string

const (
	IssueBrokenPage               IssueKind = "BROKEN_PAGE"
	IssueBrokenInternalLink       IssueKind = "BROKEN_INTERNAL_LINK"
	IssueRedirectChain            IssueKind = "REDIRECT_CHAIN"
	IssueRedirectLoop             IssueKind = "REDIRECT_LOOP"
	IssueBlockedByRobots          IssueKind = "BLOCKED_BY_ROBOTS"
	IssueNoindexPage              IssueKind = "NOINDEX_PAGE"
	IssueSitemapOrphan            IssueKind = "SITEMAP_ORPHAN"
	IssueZeroIncomingLinks        IssueKind = "ZERO_INCOMING_LINKS"
	IssueZeroOutgoingLinks        IssueKind = "ZERO_OUTGOING_LINKS"
	IssueMissingTitle             IssueKind = "MISSING_TITLE"
	IssueMissingH1                IssueKind = "MISSING_H1"
	IssueDuplicateTitle           IssueKind = "DUPLICATE_TITLE"
	IssueDuplicateMetaDescription IssueKind = "DUPLICATE_META_DESCRIPTION"
	IssueMultipleH1               IssueKind = "MULTIPLE_H1"

	// contributed by the optional classification stage only
	IssueLinkTextMismatch IssueKind = "LINK_TEXT_MISMATCH"
	IssueSoft404          IssueKind = "SOFT_404"
)

// Evidence is the kind-specific payload of an Issue. Each kind carries its
// own struct so consumers never have to dig through an untyped bag.
type Evidence interface {
	isEvidence()
}

type BrokenPageEvidence struct {
	Status int
}

type BrokenLinkEvidence struct {
	Target string
	Status int
}

type RedirectEvidence struct {
	Chain    []string
	FinalURL string
}

type RobotsEvidence struct {
	Rule string
}

type NoindexEvidence struct {
	MetaRobots string
	XRobotsTag string
}

type DuplicateEvidence struct {
	Value string
	URLs  []string
}

type MultipleH1Evidence struct {
	H1s []string
}

type ClassificationEvidence struct {
	AnchorText  string
	Destination string
	Confidence  float64
	Explanation string
}

func (BrokenPageEvidence) isEvidence()     {}
func (BrokenLinkEvidence) isEvidence()     {}
func (RedirectEvidence) isEvidence()       {}
func (RobotsEvidence) isEvidence()         {}
func (NoindexEvidence) isEvidence()        {}
func (DuplicateEvidence) isEvidence()      {}
func (MultipleH1Evidence) isEvidence()     {}
func (ClassificationEvidence) isEvidence() {}

// Issue is one finding of the rule evaluation engine. Derived data, never
// mutated after creation.
type Issue struct {
	Kind     IssueKind
	URL      string
	Message  string
	Evidence Evidence
}
