// Package filter implements the cascading cohort filter shared by every
// page. Each step narrows the graduate table and the next step offers only
// the values that survived.
package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/model"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
)

// All is the option meaning "no restriction".
const All = "Todos"

// NoDataMessage is shown when the cascade leaves no graduates.
const NoDataMessage = "No hay datos disponibles con los filtros seleccionados."

// Def describes one filter step.
type Def struct {
	Label  string `json:"label" yaml:"label"`
	Column string `json:"column" yaml:"column"`
	Param  string `json:"param" yaml:"param"` // query parameter / CLI flag name
}

// Order is the fixed cascade order.
var Order = []Def{
	{Label: "Universidad", Column: model.ColUniversidad, Param: "universidad"},
	{Label: "Nivel", Column: model.ColGrado, Param: "nivel"},
	{Label: "Facultad", Column: model.ColFacultad, Param: "facultad"},
	{Label: "Carrera", Column: model.ColCarrera, Param: "carrera"},
	{Label: "Enfasis", Column: model.ColEnfasis, Param: "enfasis"},
	{Label: "Año de Graduacion", Column: model.ColAnioGraduacion, Param: "anio"},
	{Label: "Periodo", Column: model.ColCodGraduacion, Param: "periodo"},
}

// Selection maps a step column to the requested value. Absent, empty and
// unknown values fall back to the step default.
type Selection map[string]string

// ParseSelection builds a Selection from request parameters named after
// Def.Param. Blank values are skipped.
func ParseSelection(param func(name string) string) Selection {
	sel := make(Selection)
	for _, d := range Order {
		if v := strings.TrimSpace(param(d.Param)); v != "" {
			sel[d.Column] = v
		}
	}
	return sel
}

// Options configures step defaults.
type Options struct {
	PreferredUniversity string
}

// Step is the state of one filter after the cascade ran.
type Step struct {
	Def      `yaml:",inline"`
	Options  []string `json:"options" yaml:"options"`
	Selected string   `json:"selected" yaml:"selected"`
}

// Result is the filtered cohort.
type Result struct {
	Graduates *table.Table
	IDs       model.IDSet
	Steps     []Step
}

// Empty reports whether no graduate survived the cascade.
func (r *Result) Empty() bool { return r.Graduates.Empty() }

// Selections returns label -> chosen value, "Todos" for unrestricted steps.
func (r *Result) Selections() map[string]string {
	out := make(map[string]string, len(r.Steps))
	for _, s := range r.Steps {
		out[s.Label] = s.Selected
	}
	return out
}

// MissingColumnsError reports graduate columns the cascade needs but the
// table lacks.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("Faltan columnas en Graduados: %s", strings.Join(e.Columns, ", "))
}

// Apply runs the cascade over a normalized graduate table. It never mutates
// t.
func Apply(t *table.Table, sel Selection, opts Options) (*Result, error) {
	var need []string
	for _, d := range Order {
		need = append(need, d.Column)
	}
	need = append(need, model.ColCedula)
	if missing := t.Missing(need...); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	res := &Result{Steps: make([]Step, 0, len(Order))}
	cur := t
	for i, d := range Order {
		step := Step{Def: d, Options: options(cur, d.Column)}
		universidad := i == 0

		want := strings.TrimSpace(sel[d.Column])
		switch {
		case universidad:
			step.Selected = pick(step.Options, want, opts.PreferredUniversity)
		case want != "" && want != All && contains(step.Options, want):
			step.Selected = want
		default:
			step.Selected = All
		}

		if step.Selected != "" && step.Selected != All {
			col := d.Column
			value := step.Selected
			src := cur
			cur = src.Filter(func(row int) bool { return src.String(row, col) == value })
		}
		res.Steps = append(res.Steps, step)
	}

	res.Graduates = cur
	res.IDs = make(model.IDSet, cur.Len())
	for i := 0; i < cur.Len(); i++ {
		res.IDs.Add(cur.String(i, model.ColCedula))
	}
	return res, nil
}

// options returns the sorted distinct non-null values of col.
func options(t *table.Table, col string) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := 0; i < t.Len(); i++ {
		v := t.Value(i, col)
		if v.IsNull() {
			continue
		}
		s := v.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// pick chooses the university: the requested one when offered, else the
// preferred one when offered, else the first option. No options means no
// restriction.
func pick(opts []string, want, preferred string) string {
	if len(opts) == 0 {
		return ""
	}
	if want != "" && contains(opts, want) {
		return want
	}
	if preferred != "" && contains(opts, preferred) {
		return preferred
	}
	return opts[0]
}

func contains(opts []string, v string) bool {
	i := sort.SearchStrings(opts, v)
	return i < len(opts) && opts[i] == v
}
