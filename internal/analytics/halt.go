// Package analytics holds the pure aggregation functions behind every page.
// Each function takes the filtered identifier set plus decoded tables and
// returns per-group counts and rates. Counts are distinct identifiers, and
// rates are percentages rounded to one decimal.
package analytics

import (
	"errors"
	"fmt"
)

// Level is the severity of a user-visible halt.
type Level string

// Halt levels.
const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Halt stops a page render with a message for the user. Warnings mean the
// cohort produced nothing to show; errors mean the source data lacks
// something the page needs.
type Halt struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func (h *Halt) Error() string { return h.Message }

// Warn returns a warning halt.
func Warn(format string, args ...any) error {
	return &Halt{Level: LevelWarning, Message: fmt.Sprintf(format, args...)}
}

// Fail returns an error halt.
func Fail(format string, args ...any) error {
	return &Halt{Level: LevelError, Message: fmt.Sprintf(format, args...)}
}

// AsHalt extracts a halt from err.
func AsHalt(err error) (*Halt, bool) {
	var h *Halt
	if errors.As(err, &h) {
		return h, true
	}
	return nil, false
}

// Messages shared by several aggregations.
const (
	msgNoIDs = "No hay cédulas válidas tras aplicar los filtros."
)
