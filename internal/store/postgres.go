package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/agrisurvey/soilreport/internal/db"
	"github.com/agrisurvey/soilreport/internal/report"
	"github.com/agrisurvey/soilreport/internal/retry"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
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

	// The database may still be coming up when the server starts.
	pingCfg := retry.DefaultConfig()
	pingCfg.OnRetry = retry.Logger("postgres ping")
	if err := retry.Do(ctx, pingCfg, pool.Ping); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name        TEXT NOT NULL,
	standard_id TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'queued',
	error       TEXT,
	result      JSONB,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS regions (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name       TEXT NOT NULL UNIQUE,
	parent     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) CreateReport(ctx context.Context, name, standardID string) (*ReportRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO reports (id, name, standard_id, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, name, standardID, string(ReportQueued), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert report")
	}

	return &ReportRecord{
		ID:         id,
		Name:       name,
		StandardID: standardID,
		Status:     ReportQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (s *PostgresStore) CompleteReport(ctx context.Context, id string, result *report.Report) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE reports SET result = $1, status = $2, error = NULL, updated_at = $3 WHERE id = $4`,
		resultJSON, string(ReportComplete), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete report %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "report %s", id)
	}
	return nil
}

func (s *PostgresStore) FailReport(ctx context.Context, id string, cause string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE reports SET status = $1, error = $2, updated_at = $3 WHERE id = $4`,
		string(ReportFailed), cause, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail report %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "report %s", id)
	}
	return nil
}

func (s *PostgresStore) GetReport(ctx context.Context, id string) (*ReportRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, standard_id, status, error, result, created_at, updated_at FROM reports WHERE id = $1`,
		id,
	)
	return scanPgReport(row)
}

func (s *PostgresStore) ListReports(ctx context.Context, filter ReportFilter) ([]ReportRecord, error) {
	query := `SELECT id, name, standard_id, status, error, result, created_at, updated_at FROM reports WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $1`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reports")
	}
	defer rows.Close()

	var records []ReportRecord
	for rows.Next() {
		r, err := scanPgReport(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list reports iterate")
}

func (s *PostgresStore) UpsertRegion(ctx context.Context, name, parent string) (*Region, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	row := s.pool.QueryRow(ctx,
		`INSERT INTO regions (id, name, parent, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO UPDATE SET parent = EXCLUDED.parent
		 RETURNING id, name, parent, created_at`,
		id, name, parent, now,
	)
	var r Region
	if err := row.Scan(&r.ID, &r.Name, &r.Parent, &r.CreatedAt); err != nil {
		return nil, eris.Wrapf(err, "postgres: upsert region %s", name)
	}
	return &r, nil
}

func (s *PostgresStore) ListRegions(ctx context.Context) ([]Region, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, parent, created_at FROM regions ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list regions")
	}
	defer rows.Close()

	var regions []Region
	for rows.Next() {
		var r Region
		if err := rows.Scan(&r.ID, &r.Name, &r.Parent, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan region")
		}
		regions = append(regions, r)
	}
	return regions, eris.Wrap(rows.Err(), "postgres: list regions iterate")
}

func (s *PostgresStore) DeleteRegion(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM regions WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete region %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "region %s", id)
	}
	return nil
}

// ImportRegions bulk-loads a region directory, keyed by name. A fresh
// directory goes through the COPY protocol; a populated one falls back to
// per-row upserts so existing ids survive.
func (s *PostgresStore) ImportRegions(ctx context.Context, regions []Region) (int64, error) {
	now := time.Now().UTC()
	rows := make([][]any, 0, len(regions))
	for _, r := range regions {
		id := r.ID
		if id == "" {
			id = uuid.New().String()
		}
		rows = append(rows, []any{id, r.Name, r.Parent, now})
	}

	var existing int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM regions`).Scan(&existing); err != nil {
		return 0, eris.Wrap(err, "postgres: count regions")
	}
	if existing == 0 {
		return db.CopyFrom(ctx, s.pool, "regions", []string{"id", "name", "parent", "created_at"}, rows)
	}

	return db.Upsert(ctx, s.pool, db.UpsertConfig{
		Table:        "regions",
		Columns:      []string{"id", "name", "parent", "created_at"},
		ConflictKeys: []string{"name"},
		UpdateCols:   []string{"parent"},
	}, rows)
}

func scanPgReport(row pgx.Row) (*ReportRecord, error) {
	var r ReportRecord
	var errMsg *string
	var resultJSON []byte

	err := row.Scan(&r.ID, &r.Name, &r.StandardID, &r.Status, &errMsg, &resultJSON, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrap(ErrNotFound, "report")
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan report")
	}

	if errMsg != nil {
		r.Error = *errMsg
	}
	if len(resultJSON) > 0 {
		r.Result = &report.Report{}
		if err := json.Unmarshal(resultJSON, r.Result); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal result")
		}
	}
	return &r, nil
}
