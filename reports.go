package auditor

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/TarunShaji/Website-Auditor/vo"
)

func printers(w io.Writer) (printh func(header ...interface{}), println func(a ...interface{}), printsep func()) {
	printsep = func() {
		fmt.Fprintln(w, "-----------------------------------------------------------------------------")
	}
	println = func(a ...interface{}) { fmt.Fprintln(w, a...) }
	printh = func(header ...interface{}) {
		println()
		println(header...)
		printsep()
	}
	return
}

func ReportSummary(result *vo.AuditResult, w io.Writer) {
	printh, println, _ := printers(w)
	printh("audit", result.RunID)
	println("seed:", result.Seed)
	println("duration:", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
	println("records:", len(result.Records), " pages:", result.PageCount(), " issues:", len(result.Issues))

	printh("status codes")
	statusMap := map[int]int{}
	for _, rec := range result.Records {
		statusMap[rec.HTTPStatus]++
	}
	codes := sort.IntSlice{}
	for code := range statusMap {
		codes = append(codes, code)
	}
	sort.Sort(codes)
	for _, code := range codes {
		println(code, statusMap[code])
	}

	printh("issues by kind")
	byKind := result.IssuesByKind()
	kinds := make([]string, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		println(kind, len(byKind[vo.IssueKind(kind)]))
	}
}

func ReportIssues(result *vo.AuditResult, w io.Writer) {
	printh, println, _ := printers(w)
	printh("issues", len(result.Issues))
	for _, issue := range result.Issues {
		println(string(issue.Kind), issue.URL)
		println("	", issue.Message)
	}
}

// ReportBrokenLinks lists every broken target together with the pages
// linking to it.
func ReportBrokenLinks(result *vo.AuditResult, w io.Writer) {
	printh, println, _ := printers(w)
	printh("broken links")
	broken := map[string][]string{}
	for _, rec := range result.Records {
		if rec.HTTPStatus >= 400 {
			broken[rec.URL] = []string{}
		}
	}
	for _, rec := range result.Records {
		for _, target := range rec.InternalOutgoingLinks {
			if _, ok := broken[target]; ok {
				broken[target] = append(broken[target], rec.URL)
			}
		}
	}
	brokenKeys := make([]string, 0, len(broken))
	for target := range broken {
		brokenKeys = append(brokenKeys, target)
	}
	sort.Strings(brokenKeys)
	for _, target := range brokenKeys {
		sources := broken[target]
		sort.Strings(sources)
		println(target, " (", len(sources), "):")
		for i, source := range sources {
			if i > 19 {
				println("	...")
				break
			}
			println("	", source)
		}
	}
}

type score struct {
	URL      string
	Status   int
	Duration time.Duration
}

type scores []score

func (s scores) Len() int           { return len(s) }
func (s scores) Less(i, j int) bool { return s[i].Duration > s[j].Duration }
func (s scores) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// ReportSlowest prints pages by descending fetch duration.
func ReportSlowest(result *vo.AuditResult, w io.Writer) {
	printh, println, _ := printers(w)
	printh("slowest pages")
	list := make(scores, len(result.Records))
	for i, rec := range result.Records {
		list[i] = score{
			URL:      rec.URL,
			Status:   rec.HTTPStatus,
			Duration: rec.Duration,
		}
	}
	sort.Sort(list)
	for i, s := range list {
		if i > 49 {
			break
		}
		println(i, s.Status, s.URL, s.Duration)
	}
}
