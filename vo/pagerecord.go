package vo

import "time"

type ResourceType string

const (
	ResourceTypeUnset    ResourceType = ""
	ResourceTypePage     ResourceType = "page"
	ResourceTypeResource ResourceType = "resource"
)

// FetchError classifies why a fetch attempt produced no usable response.
type FetchError string

const (
	FetchErrorNone         FetchError = ""
	FetchErrorNetwork      FetchError = "network_error"
	FetchErrorMaxRedirects FetchError = "max_redirects_exceeded"
	FetchErrorException    FetchError = "exception_during_fetch"
	FetchErrorUnknown      FetchError = "unknown_fetch_failure"
)

// Link is one anchor discovered while parsing a document.
type Link struct {
	Original   string
	Normalized string
	IsInternal bool
}

// ContentLink is an anchor/destination pair taken from the content area of a
// page. It feeds the optional classification stage and never the link graph.
type ContentLink struct {
	SourceURL      string
	DestinationURL string
	AnchorText     string
	ContextType    string
}

// PageRecord holds the outcome of the single fetch attempt for one URL.
// It is mutated during that attempt only; after the traversal ends the sole
// field still written is IncomingInternalLinkCount.
type PageRecord struct {
	URL          string
	FinalURL     string
	ResourceType ResourceType

	HTTPStatus    int
	RedirectChain []string
	FetchError    FetchError

	Headers    map[string]string
	XRobotsTag string

	Title           string
	H1s             []string
	MetaDescription string
	MetaRobots      string

	InternalOutgoingLinks []string
	ExternalOutgoingLinks []string
	ContentInternalLinks  []ContentLink

	IncomingInternalLinkCount int

	BlockedByRobots     bool
	BlockedByRobotsRule string

	Duration time.Duration
	Time     time.Time
}
