package source

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
)

// cellFromSQL converts a driver value into a typed cell.
func cellFromSQL(v any) table.Value {
	switch x := v.(type) {
	case nil:
		return table.Value{}
	case string:
		if x == "" {
			return table.Value{}
		}
		return table.TextValue(x)
	case []byte:
		if len(x) == 0 {
			return table.Value{}
		}
		return table.TextValue(string(x))
	case int64:
		return table.NumberValue(float64(x))
	case int32:
		return table.NumberValue(float64(x))
	case int16:
		return table.NumberValue(float64(x))
	case int:
		return table.NumberValue(float64(x))
	case float64:
		return table.NumberValue(x)
	case float32:
		return table.NumberValue(float64(x))
	case bool:
		if x {
			return table.TextValue("S")
		}
		return table.TextValue("N")
	case time.Time:
		return table.TextValue(x.Format("2006-01-02"))
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return table.Value{}
		}
		return table.NumberValue(f.Float64)
	default:
		return table.TextValue(fmt.Sprint(x))
	}
}

// cellToSQL converts a cell into the value written to an all-text SQL table.
func cellToSQL(v table.Value) any {
	if v.IsNull() {
		return nil
	}
	return v.String()
}

func rowToSQL(row []table.Value) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = cellToSQL(v)
	}
	return out
}
