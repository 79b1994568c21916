// Package geo loads province boundaries for the choropleth and matches
// province names found in the data against boundary feature names.
package geo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// Boundaries is a collection of named province polygons.
type Boundaries struct {
	Path       string
	Collection *geojson.FeatureCollection
}

// Load reads a boundary file. Files ending in .shp are read as ESRI
// shapefiles (attributes become feature properties); anything else is
// parsed as a GeoJSON FeatureCollection.
func Load(path string) (*Boundaries, error) {
	if path == "" {
		return nil, eris.New("geo: no boundary file configured")
	}
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return loadShapefile(path)
	}
	return loadGeoJSON(path)
}

func loadGeoJSON(path string) (*Boundaries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: read %s", path)
	}
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "geo: decode %s", path)
	}
	if len(fc.Features) == 0 {
		return nil, eris.Errorf("geo: %s has no features", path)
	}
	return &Boundaries{Path: path, Collection: &fc}, nil
}

func loadShapefile(path string) (*Boundaries, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	if len(fields) == 0 {
		return nil, eris.Errorf("geo: %s has no attribute table", path)
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	fc := &geojson.FeatureCollection{}
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}

		props := make(map[string]any, len(names))
		for i, name := range names {
			props[name] = strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
		}
		fc.Features = append(fc.Features, &geojson.Feature{Geometry: mp, Properties: props})
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "geo: read shapefile %s", path)
	}
	if skipped > 0 {
		zap.L().Debug("geo: skipped shapefile records", zap.String("path", path), zap.Int("skipped", skipped))
	}
	if len(fc.Features) == 0 {
		return nil, eris.Errorf("geo: %s has no polygon records", path)
	}
	return &Boundaries{Path: path, Collection: fc}, nil
}

// polygonToMultiPolygon turns every part of a shapefile polygon into its own
// polygon.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, 2*(end-start))
		for _, pt := range p.Points[start:end] {
			flat = append(flat, pt.X, pt.Y)
		}
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			continue
		}
		if err := mp.Push(poly); err != nil {
			continue
		}
	}
	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// JSON encodes the boundaries as a GeoJSON FeatureCollection.
func (b *Boundaries) JSON() (json.RawMessage, error) {
	data, err := json.Marshal(b.Collection)
	if err != nil {
		return nil, eris.Wrap(err, "geo: encode boundaries")
	}
	return data, nil
}

// Bounds returns the extent of every feature geometry.
func (b *Boundaries) Bounds() *geom.Bounds {
	out := geom.NewBounds(geom.XY)
	for _, f := range b.Collection.Features {
		if f.Geometry != nil {
			out.Extend(f.Geometry)
		}
	}
	return out
}

// Values returns the text of property key for every feature that has it.
func (b *Boundaries) Values(key string) []string {
	var out []string
	for _, f := range b.Collection.Features {
		v, ok := f.Properties[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			out = append(out, s)
			continue
		}
		data, err := json.Marshal(v)
		if err != nil {
			continue
		}
		out = append(out, strings.Trim(string(data), `"`))
	}
	return out
}
