package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/TarunShaji/Website-Auditor/vo"
)

func testResult() *vo.AuditResult {
	return &vo.AuditResult{
		RunID:      "0b7f3f3a-1111-2222-3333-444455556666",
		Seed:       "https://example.com/",
		StartedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2024, 3, 1, 12, 5, 0, 0, time.UTC),
		Records: []vo.PageRecord{
			{
				URL:          "https://example.com/",
				FinalURL:     "https://example.com/",
				ResourceType: vo.ResourceTypePage,
				HTTPStatus:   200,
				Title:        "home",
			},
			{
				URL:          "https://example.com/broken",
				FinalURL:     "https://example.com/broken",
				ResourceType: vo.ResourceTypePage,
				HTTPStatus:   404,
			},
		},
		Issues: []vo.Issue{
			{
				Kind:    vo.IssueBrokenPage,
				URL:     "https://example.com/broken",
				Message: "page responds with status 404",
			},
		},
	}
}

func TestSaveAudit(t *testing.T) {
	db, mock, errMock := sqlmock.New()
	assert.NoError(t, errMock)
	defer db.Close()

	result := testResult()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO audit_runs").
		WithArgs(result.RunID, result.Seed, result.StartedAt, result.FinishedAt, 2, 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	pageStmt := mock.ExpectPrepare("INSERT INTO audit_pages")
	pageStmt.ExpectExec().
		WithArgs(result.RunID, "https://example.com/", "https://example.com/", "page", 200, "", "", "home", "", 0, false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	pageStmt.ExpectExec().
		WithArgs(result.RunID, "https://example.com/broken", "https://example.com/broken", "page", 404, "", "", "", "", 0, false).
		WillReturnResult(sqlmock.NewResult(2, 1))
	issueStmt := mock.ExpectPrepare("INSERT INTO audit_issues")
	issueStmt.ExpectExec().
		WithArgs(result.RunID, "BROKEN_PAGE", "https://example.com/broken", "page responds with status 404").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	pg := &PostgresDB{DB: db}
	assert.NoError(t, pg.SaveAudit(result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAuditRollsBackOnError(t *testing.T) {
	db, mock, errMock := sqlmock.New()
	assert.NoError(t, errMock)
	defer db.Close()

	result := testResult()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO audit_runs").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	pg := &PostgresDB{DB: db}
	assert.Error(t, pg.SaveAudit(result))
	assert.NoError(t, mock.ExpectationsWereMet())
}
