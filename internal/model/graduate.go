// Package model holds the typed records the aggregations work on, decoded
// from normalized tables.
package model

import (
	"strings"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
)

// Graduate table columns.
const (
	ColCedula         = "cedula"
	ColUniversidad    = "universidad"
	ColGrado          = "grado"
	ColCodGrado       = "cod_grado"
	ColFacultad       = "facultad"
	ColCarrera        = "carrera"
	ColEnfasis        = "enfasis"
	ColAnioGraduacion = "anio_graduacion"
	ColCodGraduacion  = "cod_graduacion"
)

// Graduate is one completed program. A person with several programs has
// several rows.
type Graduate struct {
	ID         string `json:"cedula"`
	University string `json:"universidad"`
	Level      string `json:"grado"`
	Faculty    string `json:"facultad"`
	Career     string `json:"carrera"`
	Emphasis   string `json:"enfasis"`
	Year       string `json:"anio_graduacion"`
	Period     string `json:"cod_graduacion"`
}

// Field returns the value of a graduate column by name.
func (g Graduate) Field(col string) string {
	switch col {
	case ColCedula:
		return g.ID
	case ColUniversidad:
		return g.University
	case ColGrado, ColCodGrado:
		return g.Level
	case ColFacultad:
		return g.Faculty
	case ColCarrera:
		return g.Career
	case ColEnfasis:
		return g.Emphasis
	case ColAnioGraduacion:
		return g.Year
	case ColCodGraduacion:
		return g.Period
	default:
		return ""
	}
}

// Graduates is a decoded graduate table.
type Graduates struct {
	Rows []Graduate
	// LevelColumn is the column the level came from: grado, cod_grado or "".
	LevelColumn string
}

// GraduatesFromTable decodes a normalized graduate table. The degree level
// comes from grado, falling back to cod_grado.
func GraduatesFromTable(t *table.Table) Graduates {
	out := Graduates{}
	switch {
	case t.Has(ColGrado):
		out.LevelColumn = ColGrado
	case t.Has(ColCodGrado):
		out.LevelColumn = ColCodGrado
	}

	out.Rows = make([]Graduate, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		g := Graduate{
			ID:         cell(t, i, ColCedula),
			University: cell(t, i, ColUniversidad),
			Faculty:    cell(t, i, ColFacultad),
			Career:     cell(t, i, ColCarrera),
			Emphasis:   cell(t, i, ColEnfasis),
			Year:       cell(t, i, ColAnioGraduacion),
			Period:     cell(t, i, ColCodGraduacion),
		}
		if out.LevelColumn != "" {
			g.Level = cell(t, i, out.LevelColumn)
		}
		out.Rows = append(out.Rows, g)
	}
	return out
}

// IDs returns the distinct identifiers.
func (g Graduates) IDs() IDSet {
	s := make(IDSet, len(g.Rows))
	for _, r := range g.Rows {
		s.Add(r.ID)
	}
	return s
}

// Restrict returns the rows whose identifier is in ids.
func (g Graduates) Restrict(ids IDSet) Graduates {
	out := Graduates{LevelColumn: g.LevelColumn}
	for _, r := range g.Rows {
		if ids.Has(r.ID) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

func cell(t *table.Table, row int, col string) string {
	return strings.TrimSpace(t.String(row, col))
}
