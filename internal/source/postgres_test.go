package source

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
)

func TestPostgres_Load(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("information_schema.tables").
		WithArgs("public", "datalocalizacion").
		WillReturnRows(mock.NewRows([]string{"table_name"}).AddRow("DataLocalizacion"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "public"."DataLocalizacion"`)).
		WillReturnRows(mock.NewRows([]string{"Cedula", "Provincia"}).
			AddRow("1", "Heredia").
			AddRow("2", nil))

	src := NewPostgresWithPool(mock, "")
	got, err := src.Load(context.Background(), "datalocalizacion")
	require.NoError(t, err)
	assert.Equal(t, "datalocalizacion", got.Name)
	assert.Equal(t, []string{"Cedula", "Provincia"}, got.Columns)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "Heredia", got.String(0, "Provincia"))
	assert.True(t, got.Value(1, "Provincia").IsNull())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_LoadMissingTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("information_schema.tables").
		WithArgs("public", "datamueble").
		WillReturnRows(mock.NewRows([]string{"table_name"}))

	_, err = NewPostgresWithPool(mock, "public").Load(context.Background(), "datamueble")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMissingTable))
}

func TestPostgres_LoadQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("information_schema.tables").
		WithArgs("public", "graduados").
		WillReturnRows(mock.NewRows([]string{"table_name"}).AddRow("graduados"))
	mock.ExpectQuery("SELECT").WillReturnError(fmt.Errorf("connection reset"))

	_, err = NewPostgresWithPool(mock, "public").Load(context.Background(), "graduados")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: select graduados")
}

func TestPostgres_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tbl := table.New("datamueble", []string{"cedula", "valor_contrato"})
	tbl.Append([]table.Value{table.TextValue("1"), table.NumberValue(15100)})
	tbl.Append([]table.Value{table.TextValue("2"), {}})

	mock.ExpectBegin()
	mock.ExpectExec("DROP TABLE").WillReturnResult(pgxmock.NewResult("DROP", 0))
	mock.ExpectExec("CREATE TABLE").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"datamueble"}, []string{"cedula", "valor_contrato"}).WillReturnResult(2)
	mock.ExpectCommit()
	mock.ExpectRollback()

	require.NoError(t, NewPostgresWithPool(mock, "public").Save(context.Background(), tbl))
}

func TestCellFromSQL(t *testing.T) {
	assert.True(t, cellFromSQL(nil).IsNull())
	assert.True(t, cellFromSQL("").IsNull())
	assert.Equal(t, table.TextValue("x"), cellFromSQL([]byte("x")))
	assert.Equal(t, table.NumberValue(2020), cellFromSQL(int64(2020)))
	assert.Equal(t, table.NumberValue(1.5), cellFromSQL(float32(1.5)))
	assert.Equal(t, table.TextValue("S"), cellFromSQL(true))
}
