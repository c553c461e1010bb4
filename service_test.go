package auditor

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/TarunShaji/Website-Auditor/vo"
)

func TestServiceBeforeFirstRun(t *testing.T) {
	s := NewService(prometheus.NewRegistry())

	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest("GET", "/result", nil))
	assert.Equal(t, 503, recorder.Code)

	recorder = httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest("GET", "/status", nil))
	assert.Equal(t, 200, recorder.Code)
	status := map[string]interface{}{}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))
	assert.Equal(t, false, status["ready"])
}

func TestServiceServesResult(t *testing.T) {
	s := NewService(prometheus.NewRegistry())
	s.SetResult(&vo.AuditResult{
		RunID: "run-1",
		Seed:  "https://example.com/",
		Records: []vo.PageRecord{
			{URL: "https://example.com/", ResourceType: vo.ResourceTypePage, HTTPStatus: 200},
		},
		Issues: []vo.Issue{
			{Kind: vo.IssueMissingTitle, URL: "https://example.com/", Message: "page has no title"},
		},
	})

	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest("GET", "/status", nil))
	status := map[string]interface{}{}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))
	assert.Equal(t, true, status["ready"])
	assert.Equal(t, "run-1", status["runId"])

	recorder = httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest("GET", "/reports/summary", nil))
	assert.Equal(t, 200, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "MISSING_TITLE")

	recorder = httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, recorder.Code)
}
