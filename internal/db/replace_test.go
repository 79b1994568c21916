package db

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTextTableSQL(t *testing.T) {
	sql := CreateTextTableSQL("datalaboral", []string{"cedula", "nombre_patrono"})
	assert.Equal(t, `CREATE TABLE "datalaboral" ("cedula" TEXT, "nombre_patrono" TEXT)`, sql)
}

func TestCreateTextTableSQL_QuotesIdentifiers(t *testing.T) {
	sql := CreateTextTableSQL("data", []string{`we"ird`})
	assert.Contains(t, sql, `"we""ird" TEXT`)
}

func TestReplaceTable_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"cedula", "provincia"}
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "datalocalizacion"`)).
		WillReturnResult(pgxmock.NewResult("DROP", 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE "datalocalizacion"`)).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"datalocalizacion"}, cols).WillReturnResult(2)
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := ReplaceTable(context.Background(), mock, "datalocalizacion", cols, [][]any{{"1", "Heredia"}, {"2", "Limón"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestReplaceTable_CreateFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DROP TABLE").WillReturnResult(pgxmock.NewResult("DROP", 0))
	mock.ExpectExec("CREATE TABLE").WillReturnError(fmt.Errorf("permission denied"))
	mock.ExpectRollback()

	_, err = ReplaceTable(context.Background(), mock, "datamueble", []string{"cedula"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db: replace: create datamueble")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceTable_NoColumns(t *testing.T) {
	_, err := ReplaceTable(context.Background(), nil, "vacia", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns")
}
