package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/model"
)

func grads(rows ...model.Graduate) model.Graduates {
	return model.Graduates{Rows: rows, LevelColumn: model.ColGrado}
}

func active(id string) model.LaborRecord {
	return model.LaborRecord{ID: id, Active: true}
}

func inactive(id string) model.LaborRecord {
	return model.LaborRecord{ID: id}
}

// labor numbers rows in order and marks every optional column present.
func labor(recs ...model.LaborRecord) model.Labor {
	for i := range recs {
		recs[i].Row = i
	}
	return model.Labor{
		Records:         recs,
		HasActive:       true,
		HasEmployer:     true,
		HasEmployerType: true,
		HasActivity:     true,
		HasIncome:       true,
		HasTenure:       true,
	}
}

func requireHalt(t *testing.T, err error, level Level, msg string) {
	t.Helper()
	h, ok := AsHalt(err)
	require.True(t, ok, "expected a halt, got %v", err)
	require.Equal(t, level, h.Level)
	require.Equal(t, msg, h.Message)
}
