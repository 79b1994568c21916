package model

import (
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/transform"
)

// Amount is an optional number. Invalid amounts are excluded from sums.
type Amount struct {
	Value float64
	Valid bool
}

// Some returns a valid amount.
func Some(v float64) Amount { return Amount{Value: v, Valid: true} }

// MoneyOf reads a monetary cell. Numeric cells are used as-is; text cells go
// through the locale parser ("9.470.000,00" -> 9470000); anything else is
// invalid.
func MoneyOf(v table.Value) Amount {
	switch v.Kind {
	case table.Number:
		return Some(v.Num)
	case table.Text:
		if f, ok := transform.ParseLocaleNumber(v.Text); ok {
			return Some(f)
		}
	}
	return Amount{}
}

// CountOf reads a plain numeric cell such as a tenure in months. Text cells
// are parsed without locale handling.
func CountOf(v table.Value) Amount {
	switch v.Kind {
	case table.Number:
		return Some(v.Num)
	case table.Text:
		if f, ok := transform.ParseNumber(v.Text); ok {
			return Some(f)
		}
	}
	return Amount{}
}
