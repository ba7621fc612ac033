package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/agrisurvey/soilreport/internal/report"
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
CREATE TABLE IF NOT EXISTS reports (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	standard_id TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'queued',
	error       TEXT,
	result      TEXT,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS regions (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	parent     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateReport(ctx context.Context, name, standardID string) (*ReportRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, name, standard_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, standardID, string(ReportQueued), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert report")
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

func (s *SQLiteStore) CompleteReport(ctx context.Context, id string, result *report.Report) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE reports SET result = ?, status = ?, error = NULL, updated_at = ? WHERE id = ?`,
		string(resultJSON), string(ReportComplete), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete report %s", id)
	}
	return checkRowsAffected(res, "report", id)
}

func (s *SQLiteStore) FailReport(ctx context.Context, id string, cause string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reports SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(ReportFailed), cause, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail report %s", id)
	}
	return checkRowsAffected(res, "report", id)
}

func (s *SQLiteStore) GetReport(ctx context.Context, id string) (*ReportRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, standard_id, status, error, result, created_at, updated_at FROM reports WHERE id = ?`,
		id,
	)
	return scanReport(row)
}

func (s *SQLiteStore) ListReports(ctx context.Context, filter ReportFilter) ([]ReportRecord, error) {
	query := `SELECT id, name, standard_id, status, error, result, created_at, updated_at FROM reports WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reports")
	}
	defer rows.Close()

	var records []ReportRecord
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list reports iterate")
}

func (s *SQLiteStore) UpsertRegion(ctx context.Context, name, parent string) (*Region, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO regions (id, name, parent, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET parent = excluded.parent`,
		id, name, parent, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: upsert region %s", name)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, parent, created_at FROM regions WHERE name = ?`, name)
	var r Region
	if err := row.Scan(&r.ID, &r.Name, &r.Parent, &r.CreatedAt); err != nil {
		return nil, eris.Wrapf(err, "sqlite: read back region %s", name)
	}
	return &r, nil
}

func (s *SQLiteStore) ListRegions(ctx context.Context) ([]Region, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, parent, created_at FROM regions ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list regions")
	}
	defer rows.Close()

	var regions []Region
	for rows.Next() {
		var r Region
		if err := rows.Scan(&r.ID, &r.Name, &r.Parent, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan region")
		}
		regions = append(regions, r)
	}
	return regions, eris.Wrap(rows.Err(), "sqlite: list regions iterate")
}

func (s *SQLiteStore) DeleteRegion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM regions WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete region %s", id)
	}
	return checkRowsAffected(res, "region", id)
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanReport(row scannable) (*ReportRecord, error) {
	var r ReportRecord
	var errMsg, resultJSON sql.NullString

	err := row.Scan(&r.ID, &r.Name, &r.StandardID, &r.Status, &errMsg, &resultJSON, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrap(ErrNotFound, "report")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan report")
	}

	r.Error = errMsg.String
	if resultJSON.Valid {
		r.Result = &report.Report{}
		if err := json.Unmarshal([]byte(resultJSON.String), r.Result); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal result")
		}
	}
	return &r, nil
}
