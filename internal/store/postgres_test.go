package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetReport_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, name, standard_id, status, error, result, created_at, updated_at FROM reports WHERE id = \$1`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetReport(context.Background(), "nonexistent")
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateReport(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO reports`).
		WithArgs(pgxmock.AnyArg(), "春季调查", "jiangsu", "queued", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec, err := s.CreateReport(context.Background(), "春季调查", "jiangsu")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, ReportQueued, rec.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteReport_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE reports SET result`).
		WithArgs(pgxmock.AnyArg(), "complete", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteReport(context.Background(), "missing", sampleReport())
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FailReport(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE reports SET status`).
		WithArgs("failed", "boom", pgxmock.AnyArg(), "rid").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.FailReport(context.Background(), "rid", "boom"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteRegion_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM regions WHERE id = \$1`).
		WithArgs("rid").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.DeleteRegion(context.Background(), "rid")
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ImportRegions_FreshDirectoryCopies(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM regions`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectCopyFrom(pgx.Identifier{"regions"}, []string{"id", "name", "parent", "created_at"}).
		WillReturnResult(2)

	n, err := s.ImportRegions(context.Background(), []Region{
		{Name: "东镇", Parent: "示范县"},
		{Name: "西镇", Parent: "示范县"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ImportRegions_PopulatedDirectoryUpserts(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM regions`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))
	for _, name := range []string{"东镇", "西镇"} {
		mock.ExpectExec(`INSERT INTO "regions" .* ON CONFLICT`).
			WithArgs(pgxmock.AnyArg(), name, "示范县", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	n, err := s.ImportRegions(context.Background(), []Region{
		{Name: "东镇", Parent: "示范县"},
		{Name: "西镇", Parent: "示范县"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
