package render

import (
	"image/color"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PNG image size.
const (
	pngWidth  = 10 * vg.Inch
	pngHeight = 6 * vg.Inch
)

// WritePNG draws c and writes it to w as a PNG image. Choropleths are drawn
// as their bar-chart fallback.
func WritePNG(w io.Writer, c Chart) error {
	p, err := newPlot(c)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return eris.Wrap(err, "render: png writer")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return eris.Wrap(err, "render: write png")
	}
	return nil
}

func newPlot(c Chart) (*plot.Plot, error) {
	if c.Kind == KindChoropleth {
		c = choroplethBars(c)
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	var err error
	switch c.Kind {
	case KindLine:
		err = addLines(p, c)
	case KindBar, KindHistogram:
		err = addBars(p, c, false)
	case KindBarH:
		err = addBars(p, c, true)
	case KindStacked:
		err = addStacked(p, c)
	case KindHeatmap:
		err = addHeatmap(p, c)
	default:
		err = eris.Errorf("render: unsupported chart kind %q", c.Kind)
	}
	if err != nil {
		return nil, err
	}

	if len(c.YRange) == 2 {
		p.Y.Min, p.Y.Max = c.YRange[0], c.YRange[1]
	}
	return p, nil
}

func labels(s Series) []string {
	out := make([]string, len(s.Points))
	for i, pt := range s.Points {
		out[i] = pt.Label
	}
	return out
}

func addLines(p *plot.Plot, c Chart) error {
	p.Add(plotter.NewGrid())
	var names []string
	for i, s := range c.Series {
		xys := make(plotter.XYs, len(s.Points))
		texts := make([]string, len(s.Points))
		for j, pt := range s.Points {
			xys[j] = plotter.XY{X: float64(j), Y: pt.Value}
			texts[j] = pt.Text
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return eris.Wrap(err, "render: line")
		}
		col := hexColor(pick(c.Colors, i))
		line.Color = col
		line.Width = vg.Points(2)
		points.Color = col
		p.Add(line, points)
		p.Legend.Add(s.Name, line)

		lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err == nil {
			lbl.Offset = vg.Point{Y: vg.Points(6)}
			p.Add(lbl)
		}
		if len(s.Points) > len(names) {
			names = labels(s)
		}
	}
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.Legend.Top = true
	return nil
}

func addBars(p *plot.Plot, c Chart, horizontal bool) error {
	if len(c.Series) == 0 {
		return eris.New("render: bar chart without series")
	}
	s := c.Series[0]
	vals := make(plotter.Values, len(s.Points))
	for i, pt := range s.Points {
		vals[i] = pt.Value
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(24))
	if err != nil {
		return eris.Wrap(err, "render: bars")
	}
	bars.Color = hexColor(pick(c.Colors, 0))
	bars.LineStyle.Width = vg.Length(0)
	bars.Horizontal = horizontal
	p.Add(bars)

	if horizontal {
		p.NominalY(labels(s)...)
		return nil
	}
	p.NominalX(labels(s)...)
	if len(s.Points) > 6 {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
	}

	xys := make(plotter.XYs, len(s.Points))
	texts := make([]string, len(s.Points))
	for i, pt := range s.Points {
		xys[i] = plotter.XY{X: float64(i), Y: pt.Value}
		texts[i] = pt.Text
	}
	if lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts}); err == nil {
		lbl.Offset = vg.Point{X: -vg.Points(8), Y: vg.Points(4)}
		p.Add(lbl)
	}
	return nil
}

func addStacked(p *plot.Plot, c Chart) error {
	var below *plotter.BarChart
	for i, s := range c.Series {
		vals := make(plotter.Values, len(s.Points))
		for j, pt := range s.Points {
			vals[j] = pt.Value
		}
		bars, err := plotter.NewBarChart(vals, vg.Points(32))
		if err != nil {
			return eris.Wrap(err, "render: stacked bars")
		}
		bars.Color = hexColor(pick(c.Colors, i))
		bars.LineStyle.Width = vg.Length(0)
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
		below = bars
		if i == 0 {
			p.NominalX(labels(s)...)
		}
	}
	p.Legend.Top = true
	return nil
}

// heatGrid adapts a Heatmap to plotter.GridXYZ. Row 0 is drawn at the top.
type heatGrid struct{ h *Heatmap }

func (g heatGrid) Dims() (c, r int) { return len(g.h.Columns), len(g.h.Rows) }
func (g heatGrid) X(c int) float64  { return float64(c) }
func (g heatGrid) Y(r int) float64  { return float64(r) }
func (g heatGrid) Min() float64     { return 0 }
func (g heatGrid) Max() float64     { return 100 }

func (g heatGrid) Z(c, r int) float64 {
	v := g.h.Z[len(g.h.Rows)-1-r][c]
	if v == nil {
		return math.NaN()
	}
	return *v
}

func addHeatmap(p *plot.Plot, c Chart) error {
	h := c.Heatmap
	if h == nil || len(h.Rows) == 0 || len(h.Columns) == 0 {
		return eris.New("render: empty heatmap")
	}
	hm := plotter.NewHeatMap(heatGrid{h}, palette.Heat(12, 1))
	hm.NaN = color.White
	p.Add(hm)

	rows := make([]string, len(h.Rows))
	for i, r := range h.Rows {
		rows[len(h.Rows)-1-i] = r
	}
	p.NominalX(h.Columns...)
	p.NominalY(rows...)
	return nil
}

// choroplethBars turns a choropleth into the bar chart shown when no map
// can be drawn.
func choroplethBars(c Chart) Chart {
	out := Chart{Kind: KindBar, Title: c.Title, XLabel: "Provincia", YLabel: "Tasa de Empleabilidad (%)", Colors: c.Colors}
	if c.Choropleth == nil {
		return out
	}
	s := Series{Name: "Empleabilidad"}
	top := 0.0
	for i, loc := range c.Choropleth.Locations {
		v := c.Choropleth.Values[i]
		top = math.Max(top, v)
		s.Points = append(s.Points, Point{Label: loc, Value: v, Text: pct(v)})
	}
	sort.SliceStable(s.Points, func(i, j int) bool { return s.Points[i].Value > s.Points[j].Value })
	out.Series = []Series{s}
	out.YRange = []float64{0, math.Max(100, top+5)}
	return out
}

func pick(cs []string, i int) string {
	if len(cs) == 0 {
		return Palette[i%len(Palette)]
	}
	return cs[i%len(cs)]
}

// hexColor parses "#rrggbb", falling back to the first palette color.
func hexColor(s string) color.RGBA {
	if len(s) == 7 && s[0] == '#' {
		if v, err := strconv.ParseUint(s[1:], 16, 32); err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
		}
	}
	return color.RGBA{R: 0x22, G: 0x4d, B: 0x67, A: 255}
}
