// Package render turns aggregation results into chart specifications,
// metric cards and detail tables, and renders them as PNG or XLSX.
package render

import (
	"encoding/json"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/filter"
)

// Palette is the dashboard color sequence.
var Palette = []string{"#224d67", "#57809b", "#62a8d7"}

// Notice levels.
const (
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Notice is a message shown above the page content.
type Notice struct {
	Level   string `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
}

// View is everything a page shows for one request.
type View struct {
	RenderID string        `json:"render_id" yaml:"render_id"`
	Slug     string        `json:"slug" yaml:"slug"`
	Title    string        `json:"title" yaml:"title"`
	Filters  []filter.Step `json:"filters,omitempty" yaml:"filters,omitempty"`
	Notices  []Notice      `json:"notices,omitempty" yaml:"notices,omitempty"`
	Cards    []Card        `json:"cards,omitempty" yaml:"cards,omitempty"`
	Charts   []Chart       `json:"charts,omitempty" yaml:"charts,omitempty"`
	Tables   []Table       `json:"tables,omitempty" yaml:"tables,omitempty"`
}

// Halted reports whether the page stopped on a warning or an error.
func (v *View) Halted() bool {
	for _, n := range v.Notices {
		if n.Level != NoticeInfo {
			return true
		}
	}
	return false
}

// Card is a single KPI.
type Card struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Table is a detail grid, exported one sheet per table.
type Table struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []string `json:"columns" yaml:"columns"`
	Rows    [][]any  `json:"rows" yaml:"rows"`
}

// ChartKind selects how a chart is drawn.
type ChartKind string

// Chart kinds.
const (
	KindLine       ChartKind = "line"
	KindBar        ChartKind = "bar"
	KindBarH       ChartKind = "barh"
	KindStacked    ChartKind = "stacked_bar"
	KindHeatmap    ChartKind = "heatmap"
	KindChoropleth ChartKind = "choropleth"
	KindHistogram  ChartKind = "histogram"
)

// Chart is a renderer-neutral chart specification.
type Chart struct {
	Kind       ChartKind   `json:"kind" yaml:"kind"`
	Title      string      `json:"title" yaml:"title"`
	XLabel     string      `json:"x_label,omitempty" yaml:"x_label,omitempty"`
	YLabel     string      `json:"y_label,omitempty" yaml:"y_label,omitempty"`
	YRange     []float64   `json:"y_range,omitempty" yaml:"y_range,omitempty"`
	Colors     []string    `json:"colors" yaml:"colors"`
	Series     []Series    `json:"series,omitempty" yaml:"series,omitempty"`
	Heatmap    *Heatmap    `json:"heatmap,omitempty" yaml:"heatmap,omitempty"`
	Choropleth *Choropleth `json:"choropleth,omitempty" yaml:"choropleth,omitempty"`
}

// Series is one named sequence of points.
type Series struct {
	Name   string  `json:"name" yaml:"name"`
	Points []Point `json:"points" yaml:"points"`
}

// Point is one category or x position. Width is set for histogram bins.
type Point struct {
	Label string         `json:"label" yaml:"label"`
	X     float64        `json:"x,omitempty" yaml:"x,omitempty"`
	Width float64        `json:"width,omitempty" yaml:"width,omitempty"`
	Value float64        `json:"value" yaml:"value"`
	Text  string         `json:"text,omitempty" yaml:"text,omitempty"`
	Hover map[string]any `json:"hover,omitempty" yaml:"hover,omitempty"`
}

// Heatmap is a matrix of rates. Nil cells have no graduates.
type Heatmap struct {
	Rows       []string     `json:"rows" yaml:"rows"`
	Columns    []string     `json:"columns" yaml:"columns"`
	Z          [][]*float64 `json:"z" yaml:"z"`
	Graduates  [][]int      `json:"graduates" yaml:"graduates"`
	Employed   [][]int      `json:"employed" yaml:"employed"`
	ColorLabel string       `json:"color_label" yaml:"color_label"`
}

// Choropleth colors boundary features by value.
type Choropleth struct {
	GeoJSON    json.RawMessage  `json:"geojson" yaml:"-"`
	FeatureKey string           `json:"feature_key" yaml:"feature_key"`
	Locations  []string         `json:"locations" yaml:"locations"`
	Values     []float64        `json:"values" yaml:"values"`
	Hover      []map[string]any `json:"hover" yaml:"hover"`
	Range      [2]float64       `json:"range" yaml:"range"`
	// Bounds is min lon, min lat, max lon, max lat.
	Bounds [4]float64 `json:"bounds" yaml:"bounds"`
}
