package model

import (
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/transform"
)

// Labor table columns.
const (
	ColNombrePatrono     = "nombre_patrono"
	ColTipoPatrono       = "tipo_patrono"
	ColActividadEmpresa  = "actividad_empresa"
	ColIngresoAproximado = "ingreso_aproximado"
	ColLaboraActualmente = "labora_actualmente"
	ColAntiguedadMeses   = "antiguedad_meses"
)

// LaborRecord is one job held by a person at the snapshot date.
type LaborRecord struct {
	Row          int // position in the source table, used as the last tie-break
	ID           string
	Employer     string
	EmployerType string
	Activity     string
	Income       Amount
	Active       bool
	Tenure       Amount // months
}

// Labor is a decoded labor table plus which optional columns it carried.
type Labor struct {
	Records []LaborRecord

	HasActive       bool
	HasEmployer     bool
	HasEmployerType bool
	HasActivity     bool
	HasIncome       bool
	HasTenure       bool
}

// LaborFromTable decodes a normalized labor table. A nil table decodes to an
// empty collection.
func LaborFromTable(t *table.Table) Labor {
	l := Labor{
		HasActive:       t.Has(ColLaboraActualmente),
		HasEmployer:     t.Has(ColNombrePatrono),
		HasEmployerType: t.Has(ColTipoPatrono),
		HasActivity:     t.Has(ColActividadEmpresa),
		HasIncome:       t.Has(ColIngresoAproximado),
		HasTenure:       t.Has(ColAntiguedadMeses),
	}
	l.Records = make([]LaborRecord, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		l.Records = append(l.Records, LaborRecord{
			Row:          i,
			ID:           cell(t, i, ColCedula),
			Employer:     t.String(i, ColNombrePatrono),
			EmployerType: cell(t, i, ColTipoPatrono),
			Activity:     cell(t, i, ColActividadEmpresa),
			Income:       MoneyOf(t.Value(i, ColIngresoAproximado)),
			Active:       transform.IsActiveFlag(t.String(i, ColLaboraActualmente)),
			Tenure:       CountOf(t.Value(i, ColAntiguedadMeses)),
		})
	}
	return l
}

// For returns the records whose identifier is in ids.
func (l Labor) For(ids IDSet) []LaborRecord {
	var out []LaborRecord
	for _, r := range l.Records {
		if ids.Has(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// ActiveFor returns the records of ids flagged as current employment. Without
// the flag column every record counts as active.
func (l Labor) ActiveFor(ids IDSet) []LaborRecord {
	recs := l.For(ids)
	if !l.HasActive {
		return recs
	}
	out := recs[:0:0]
	for _, r := range recs {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}
