package auditor

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TarunShaji/Website-Auditor/vo"
)

// Service is the process boundary: it holds the latest audit result and
// serves it as JSON and as text reports, next to the metrics endpoint.
type Service struct {
	mu     sync.RWMutex
	latest *vo.AuditResult
	mux    *http.ServeMux
}

func NewService(reg *prometheus.Registry) *Service {
	s := &Service{
		mux: http.NewServeMux(),
	}
	s.mux.HandleFunc("/status", s.handleStatus)
	s.mux.HandleFunc("/result", s.handleResult)
	s.mux.HandleFunc("/reports/summary", s.reportHandler(ReportSummary))
	s.mux.HandleFunc("/reports/issues", s.reportHandler(ReportIssues))
	s.mux.HandleFunc("/reports/broken-links", s.reportHandler(ReportBrokenLinks))
	s.mux.HandleFunc("/reports/slow", s.reportHandler(ReportSlowest))
	if reg != nil {
		s.mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return s
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// SetResult publishes a completed run.
func (s *Service) SetResult(result *vo.AuditResult) {
	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()
}

func (s *Service) result() *vo.AuditResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	result := s.result()
	status := map[string]interface{}{
		"ready": result != nil,
	}
	if result != nil {
		status["runId"] = result.RunID
		status["seed"] = result.Seed
		status["records"] = len(result.Records)
		status["pages"] = result.PageCount()
		status["issues"] = len(result.Issues)
	}
	writeJSON(w, status)
}

func (s *Service) handleResult(w http.ResponseWriter, r *http.Request) {
	result := s.result()
	if result == nil {
		http.Error(w, "no audit has completed yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, result)
}

func (s *Service) reportHandler(report func(result *vo.AuditResult, w io.Writer)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := s.result()
		if result == nil {
			http.Error(w, "no audit has completed yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		report(result, w)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if errEncode := json.NewEncoder(w).Encode(v); errEncode != nil {
		http.Error(w, errEncode.Error(), http.StatusInternalServerError)
	}
}
