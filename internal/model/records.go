package model

import (
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
)

// Columns of the property, asset and location tables.
const (
	ColValorFiscal   = "valor_fiscal"
	ColValorContrato = "valor_contrato"
	ColProvincia     = "provincia"
)

// ValueRecord is a per-person amount: a property fiscal value or an asset
// contract value.
type ValueRecord struct {
	ID    string
	Value Amount
}

// PropertyFromTable decodes datainmueble.
func PropertyFromTable(t *table.Table) []ValueRecord {
	return valuesFromTable(t, ColValorFiscal)
}

// AssetsFromTable decodes datamueble.
func AssetsFromTable(t *table.Table) []ValueRecord {
	return valuesFromTable(t, ColValorContrato)
}

func valuesFromTable(t *table.Table, col string) []ValueRecord {
	if !t.Has(col) {
		return nil
	}
	out := make([]ValueRecord, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out = append(out, ValueRecord{ID: cell(t, i, ColCedula), Value: MoneyOf(t.Value(i, col))})
	}
	return out
}

// LocationRecord is one registered address of a person.
type LocationRecord struct {
	ID       string
	Province string // raw source text
}

// Locations is a decoded location table.
type Locations struct {
	Records     []LocationRecord
	HasProvince bool
}

// LocationsFromTable decodes datalocalizacion.
func LocationsFromTable(t *table.Table) Locations {
	out := Locations{HasProvince: t.Has(ColProvincia)}
	out.Records = make([]LocationRecord, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out.Records = append(out.Records, LocationRecord{ID: cell(t, i, ColCedula), Province: t.String(i, ColProvincia)})
	}
	return out
}

// SumByID adds the valid amounts of ids per identifier. Identifiers whose
// every amount is invalid are absent.
func SumByID(recs []ValueRecord, ids IDSet) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range recs {
		if !ids.Has(r.ID) || !r.Value.Valid {
			continue
		}
		out[r.ID] += r.Value.Value
	}
	return out
}
