package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it,
// which keeps the postgres paths testable without a live database.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id            TEXT PRIMARY KEY,
	company_name  TEXT NOT NULL,
	industry      TEXT NOT NULL,
	status        TEXT NOT NULL,
	overall_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	data          JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	success    BOOLEAN NOT NULL,
	lead_count INTEGER NOT NULL,
	elapsed_ms BIGINT NOT NULL,
	stages     JSONB,
	error      TEXT,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_score ON leads(overall_score DESC);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_industry ON leads(industry);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const upsertLeadSQL = `
	INSERT INTO leads (id, company_name, industry, status, overall_score, data, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE SET
		company_name = EXCLUDED.company_name,
		industry = EXCLUDED.industry,
		status = EXCLUDED.status,
		overall_score = EXCLUDED.overall_score,
		data = EXCLUDED.data,
		updated_at = EXCLUDED.updated_at`

func (s *PostgresStore) SaveLead(ctx context.Context, lead *model.Lead) error {
	data, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrapf(err, "postgres: marshal lead %s", lead.ID)
	}
	_, err = s.pool.Exec(ctx, upsertLeadSQL,
		lead.ID, lead.Company.Name, string(lead.Company.Industry), string(lead.Status),
		overallScore(lead), data, lead.CreatedAt, lead.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: save lead %s", lead.ID)
}

func (s *PostgresStore) SaveLeads(ctx context.Context, leads []*model.Lead) error {
	for _, lead := range leads {
		if err := s.SaveLead(ctx, lead); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM leads WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("lead not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lead %s", id)
	}
	return unmarshalLead(string(data))
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]*model.Lead, error) {
	query := `SELECT data FROM leads WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.Industry != "" {
		args = append(args, string(filter.Industry))
		query += fmt.Sprintf(` AND industry = $%d`, len(args))
	}
	if filter.MinScore > 0 {
		args = append(args, filter.MinScore)
		query += fmt.Sprintf(` AND overall_score >= $%d`, len(args))
	}
	query += ` ORDER BY overall_score DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []*model.Lead
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		lead, err := unmarshalLead(string(data))
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: iterate leads")
}

func (s *PostgresStore) TopLeads(ctx context.Context, limit int) ([]*model.Lead, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.ListLeads(ctx, LeadFilter{Limit: limit})
}

func (s *PostgresStore) SaveRun(ctx context.Context, result *model.ExecutionResult) (*RunRecord, error) {
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
		return nil, eris.Wrap(err, "postgres: marshal stages")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO runs (id, success, lead_count, elapsed_ms, stages, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.Success, record.LeadCount, record.Elapsed.Milliseconds(),
		stages, record.Error, record.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: save run")
	}
	return record, nil
}

func (s *PostgresStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, success, lead_count, elapsed_ms, stages, error, created_at
		FROM runs WHERE id = $1`, id)

	record, err := scanPgRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", id)
	}
	return record, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, success, lead_count, elapsed_ms, stages, error, created_at
		FROM runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		record, err := scanPgRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		records = append(records, *record)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func scanPgRun(row rowScanner) (*RunRecord, error) {
	var (
		record    RunRecord
		elapsedMS int64
		stages    []byte
		errText   *string
	)
	if err := row.Scan(&record.ID, &record.Success, &record.LeadCount, &elapsedMS, &stages, &errText, &record.CreatedAt); err != nil {
		return nil, err
	}
	record.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if errText != nil {
		record.Error = *errText
	}
	if len(stages) > 0 {
		if err := json.Unmarshal(stages, &record.Stages); err != nil {
			return nil, eris.Wrap(err, "unmarshal stages")
		}
	}
	return &record, nil
}
