package caiosm

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// LayerToGeoJSON returns FeatureCollection of the layer. Geometries must already be in projection proj.
// Named 'crs' member is added for projections other than WGS84.
func LayerToGeoJSON(layer *Layer, proj Projection, indent bool) ([]byte, error) {
	collection := geojson.NewFeatureCollection()
	for i, feature := range layer.Features {
		prepared, err := prepareGeoJSONFeature(feature.Geometry)
		if err != nil {
			return nil, errors.Wrapf(err, "feature #%d", i)
		}
		values := feature.values(layer.Fields)
		for j, field := range layer.Fields {
			prepared.SetProperty(field, values[j])
		}
		collection.AddFeature(prepared)
	}
	data, err := collection.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal feature collection")
	}
	data, err = sjson.SetBytes(data, "name", layer.Name)
	if err != nil {
		return nil, errors.Wrap(err, "Can't set name")
	}
	if !proj.Identity() {
		data, err = sjson.SetBytes(data, "crs", map[string]interface{}{
			"type": "name",
			"properties": map[string]string{
				"name": fmt.Sprintf("urn:ogc:def:crs:EPSG::%d", proj.EPSG),
			},
		})
		if err != nil {
			return nil, errors.Wrap(err, "Can't set crs")
		}
	}
	if indent {
		data = pretty.Pretty(data)
	}
	return data, nil
}

func prepareGeoJSONFeature(geom orb.Geometry) (*geojson.Feature, error) {
	switch g := geom.(type) {
	case orb.LineString:
		return geojson.NewLineStringFeature(lineCoordinates(g)), nil
	case orb.MultiLineString:
		lines := make([][][]float64, len(g))
		for i := range g {
			lines[i] = lineCoordinates(g[i])
		}
		return geojson.NewMultiLineStringFeature(lines...), nil
	case orb.Point:
		return geojson.NewPointFeature([]float64{g.Lon(), g.Lat()}), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "geometry type '%T'", geom)
	}
}

func lineCoordinates(line orb.LineString) [][]float64 {
	pts2d := make([][]float64, len(line))
	for i := range line {
		pts2d[i] = []float64{line[i].Lon(), line[i].Lat()}
	}
	return pts2d
}
