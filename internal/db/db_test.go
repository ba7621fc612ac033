package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "regions", []string{"id", "name"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"regions"}, []string{"id", "name"}).WillReturnResult(3)

	rows := [][]any{{"1", "东镇"}, {"2", "西镇"}, {"3", "南镇"}}
	n, err := CopyFrom(context.Background(), mock, "regions", []string{"id", "name"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"regions"}, []string{"id"}).WillReturnError(fmt.Errorf("copy failed"))

	_, err = CopyFrom(context.Background(), mock, "regions", []string{"id"}, [][]any{{"1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO regions")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_EmptyRows(t *testing.T) {
	n, err := Upsert(context.TODO(), nil, UpsertConfig{Table: "regions", Columns: []string{"id"}, ConflictKeys: []string{"id"}}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestUpsert_Validation(t *testing.T) {
	_, err := Upsert(context.TODO(), nil, UpsertConfig{Table: "regions"}, [][]any{{"1"}})
	assert.Error(t, err)

	_, err = Upsert(context.TODO(), nil, UpsertConfig{Table: "regions", Columns: []string{"id"}}, [][]any{{"1"}})
	assert.Error(t, err)
}

func TestUpsert_Success(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	for _, name := range []string{"东镇", "西镇"} {
		mock.ExpectExec(`INSERT INTO "regions" .* ON CONFLICT .* DO UPDATE SET`).
			WithArgs(pgxmock.AnyArg(), name).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	cfg := UpsertConfig{Table: "regions", Columns: []string{"id", "name"}, ConflictKeys: []string{"id"}}
	n, err := Upsert(context.Background(), mock, cfg, [][]any{{"1", "东镇"}, {"2", "西镇"}})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_RowWidthMismatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cfg := UpsertConfig{Table: "regions", Columns: []string{"id", "name"}, ConflictKeys: []string{"id"}}
	_, err = Upsert(context.Background(), mock, cfg, [][]any{{"1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row has 1 values")
}
