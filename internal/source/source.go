// Package source loads the dashboard tables from files or databases and keeps
// them in a process-wide cache.
package source

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/transform"
)

// Known table names, already normalized.
const (
	Graduados        = "graduados"
	DataLaboral      = "datalaboral"
	DataInmueble     = "datainmueble"
	DataMueble       = "datamueble"
	DataLocalizacion = "datalocalizacion"
)

// Tables lists every table the dashboard knows about.
var Tables = []string{Graduados, DataLaboral, DataInmueble, DataMueble, DataLocalizacion}

// Sentinel errors for load outcomes the pages turn into notices.
var (
	ErrMissingTable = eris.New("source: table not found")
	ErrEmptyTable   = eris.New("source: table is empty")
)

// Column names shared by every table.
const (
	ColCedula         = "cedula"
	ColAnioGraduacion = "anio_graduacion"
)

// Source loads one raw table by name.
type Source interface {
	Name() string
	Load(ctx context.Context, name string) (*table.Table, error)
}

// Saver persists a table. Database sources implement it for the import command.
type Saver interface {
	Save(ctx context.Context, t *table.Table) error
}

// Normalize applies the cleanup every table receives regardless of where it
// was loaded from: column names are trimmed and lower-cased, the identifier
// becomes a trimmed string, and graduates of the excluded year are dropped.
func Normalize(t *table.Table, excludedYear string) *table.Table {
	if t == nil {
		return nil
	}
	t.Name = table.NormalizeName(t.Name)
	t.NormalizeColumns()

	if t.Has(ColCedula) {
		for i := range t.Rows {
			id := transform.NormalizeID(t.String(i, ColCedula))
			if id == "" {
				t.Set(i, ColCedula, table.Value{})
				continue
			}
			t.Set(i, ColCedula, table.TextValue(id))
		}
	}

	if t.Name != Graduados || !t.Has(ColAnioGraduacion) {
		return t
	}

	for i := range t.Rows {
		v := t.Value(i, ColAnioGraduacion)
		if !v.IsNull() {
			t.Set(i, ColAnioGraduacion, table.TextValue(strings.TrimSpace(v.String())))
		}
	}
	if excludedYear == "" {
		return t
	}
	return t.Filter(func(row int) bool {
		return t.String(row, ColAnioGraduacion) != excludedYear
	})
}

// matchName returns the candidate equal to want ignoring case, preferring an
// exact match.
func matchName(want string, candidates []string) (string, bool) {
	for _, c := range candidates {
		if c == want {
			return c, true
		}
	}
	for _, c := range candidates {
		if strings.EqualFold(c, want) {
			return c, true
		}
	}
	return "", false
}
