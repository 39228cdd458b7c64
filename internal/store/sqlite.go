package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id            TEXT PRIMARY KEY,
	company_name  TEXT NOT NULL,
	industry      TEXT NOT NULL,
	status        TEXT NOT NULL,
	overall_score REAL NOT NULL DEFAULT 0,
	data          TEXT NOT NULL,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	success    INTEGER NOT NULL,
	lead_count INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	stages     TEXT,
	error      TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_score ON leads(overall_score DESC);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_industry ON leads(industry);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveLead(ctx context.Context, lead *model.Lead) error {
	data, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrapf(err, "sqlite: marshal lead %s", lead.ID)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO leads (id, company_name, industry, status, overall_score, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_name = excluded.company_name,
			industry = excluded.industry,
			status = excluded.status,
			overall_score = excluded.overall_score,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		lead.ID, lead.Company.Name, string(lead.Company.Industry), string(lead.Status),
		overallScore(lead), string(data), lead.CreatedAt, lead.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: save lead %s", lead.ID)
}

func (s *SQLiteStore) SaveLeads(ctx context.Context, leads []*model.Lead) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save leads")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO leads (id, company_name, industry, status, overall_score, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_name = excluded.company_name,
			industry = excluded.industry,
			status = excluded.status,
			overall_score = excluded.overall_score,
			data = excluded.data,
			updated_at = excluded.updated_at`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare save leads")
	}
	defer stmt.Close() //nolint:errcheck

	for _, lead := range leads {
		data, err := json.Marshal(lead)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal lead %s", lead.ID)
		}
		if _, err := stmt.ExecContext(ctx,
			lead.ID, lead.Company.Name, string(lead.Company.Industry), string(lead.Status),
			overallScore(lead), string(data), lead.CreatedAt, lead.UpdatedAt,
		); err != nil {
			return eris.Wrapf(err, "sqlite: save lead %s", lead.ID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit save leads")
}

func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM leads WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("lead not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get lead %s", id)
	}
	return unmarshalLead(data)
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]*model.Lead, error) {
	query := `SELECT data FROM leads WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Industry != "" {
		query += ` AND industry = ?`
		args = append(args, string(filter.Industry))
	}
	if filter.MinScore > 0 {
		query += ` AND overall_score >= ?`
		args = append(args, filter.MinScore)
	}
	query += ` ORDER BY overall_score DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close() //nolint:errcheck

	return scanLeads(rows)
}

func (s *SQLiteStore) TopLeads(ctx context.Context, limit int) ([]*model.Lead, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.ListLeads(ctx, LeadFilter{Limit: limit})
}

func (s *SQLiteStore) SaveRun(ctx context.Context, result *model.ExecutionResult) (*RunRecord, error) {
	record := &RunRecord{
		ID:        uuid.New().String(),
		Success:   result.Success,
		LeadCount: len(result.Leads),
		Elapsed:   result.Elapsed,
		Error:     result.Error,
		CreatedAt: time.Now().UTC(),
		Stages:    result.Stages,
	}

	stages, err := json.Marshal(result.Stages)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal stages")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, success, lead_count, elapsed_ms, stages, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Success, record.LeadCount, record.Elapsed.Milliseconds(),
		string(stages), record.Error, record.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: save run")
	}
	return record, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, success, lead_count, elapsed_ms, stages, error, created_at
		FROM runs WHERE id = ?`, id)

	record, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", id)
	}
	return record, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, success, lead_count, elapsed_ms, stages, error, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var records []RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		records = append(records, *record)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		record    RunRecord
		elapsedMS int64
		stages    sql.NullString
		errText   sql.NullString
	)
	if err := row.Scan(&record.ID, &record.Success, &record.LeadCount, &elapsedMS, &stages, &errText, &record.CreatedAt); err != nil {
		return nil, err
	}
	record.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	record.Error = errText.String
	if stages.Valid && stages.String != "" {
		if err := json.Unmarshal([]byte(stages.String), &record.Stages); err != nil {
			return nil, eris.Wrap(err, "unmarshal stages")
		}
	}
	return &record, nil
}

func scanLeads(rows *sql.Rows) ([]*model.Lead, error) {
	var leads []*model.Lead
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "scan lead")
		}
		lead, err := unmarshalLead(data)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, eris.Wrap(rows.Err(), "iterate leads")
}

func unmarshalLead(data string) (*model.Lead, error) {
	var lead model.Lead
	if err := json.Unmarshal([]byte(data), &lead); err != nil {
		return nil, eris.Wrap(err, "unmarshal lead")
	}
	return &lead, nil
}

func overallScore(lead *model.Lead) float64 {
	if lead.Score == nil {
		return 0
	}
	return lead.Score.OverallScore
}
