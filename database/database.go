// Package database persists completed audit runs to Postgres.
package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/TarunShaji/Website-Auditor/vo"
)

type PostgresDB struct {
	DB *sql.DB
}

func NewPostgresDB(databaseURL string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	pgDB := &PostgresDB{DB: db}
	if err := pgDB.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return pgDB, nil
}

func (p *PostgresDB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS audit_runs (
			id UUID PRIMARY KEY,
			seed TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP NOT NULL,
			pages INTEGER NOT NULL,
			issues INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_pages (
			id SERIAL PRIMARY KEY,
			run_id UUID REFERENCES audit_runs(id),
			url TEXT NOT NULL,
			final_url TEXT,
			resource_type TEXT,
			http_status INTEGER,
			fetch_error TEXT,
			redirect_chain TEXT,
			title TEXT,
			meta_description TEXT,
			incoming_links INTEGER,
			blocked_by_robots BOOLEAN
		)`,
		`CREATE TABLE IF NOT EXISTS audit_issues (
			id SERIAL PRIMARY KEY,
			run_id UUID REFERENCES audit_runs(id),
			kind TEXT NOT NULL,
			url TEXT,
			message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_pages_run ON audit_pages(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_issues_run ON audit_issues(run_id)`,
	}
	for _, query := range queries {
		if _, err := p.DB.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}
	return nil
}

// SaveAudit writes the run row, its page rows and its issue rows in one
// transaction.
func (p *PostgresDB) SaveAudit(result *vo.AuditResult) error {
	tx, err := p.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO audit_runs (id, seed, started_at, finished_at, pages, issues)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		result.RunID, result.Seed, result.StartedAt, result.FinishedAt,
		result.PageCount(), len(result.Issues),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	pageStmt, err := tx.Prepare(`
		INSERT INTO audit_pages (run_id, url, final_url, resource_type, http_status, fetch_error, redirect_chain, title, meta_description, incoming_links, blocked_by_robots)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`)
	if err != nil {
		return err
	}
	defer pageStmt.Close()
	for _, rec := range result.Records {
		_, err = pageStmt.Exec(
			result.RunID, rec.URL, rec.FinalURL, string(rec.ResourceType),
			rec.HTTPStatus, string(rec.FetchError), strings.Join(rec.RedirectChain, " -> "),
			rec.Title, rec.MetaDescription, rec.IncomingInternalLinkCount, rec.BlockedByRobots,
		)
		if err != nil {
			return fmt.Errorf("failed to insert page %s: %w", rec.URL, err)
		}
	}

	issueStmt, err := tx.Prepare(`
		INSERT INTO audit_issues (run_id, kind, url, message)
		VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return err
	}
	defer issueStmt.Close()
	for _, issue := range result.Issues {
		_, err = issueStmt.Exec(result.RunID, string(issue.Kind), issue.URL, issue.Message)
		if err != nil {
			return fmt.Errorf("failed to insert issue: %w", err)
		}
	}

	return tx.Commit()
}
