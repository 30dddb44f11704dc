package caiosm

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

type Format uint16

const (
	FORMAT_CSV = Format(iota + 1)
	FORMAT_GEOJSON
	FORMAT_SHAPEFILE
)

func (iotaIdx Format) String() string {
	return [...]string{"csv", "geojson", "shapefile"}[iotaIdx-1]
}

// Extension returns file extension (with dot) of the format
func (iotaIdx Format) Extension() string {
	return [...]string{".csv", ".geojson", ".shp"}[iotaIdx-1]
}

// ParseFormat parses format name. OGR driver names ('ESRI Shapefile', 'GeoJSON') are accepted too.
func ParseFormat(str string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "csv":
		return FORMAT_CSV, nil
	case "geojson", "json":
		return FORMAT_GEOJSON, nil
	case "", "shapefile", "shp", "esri shapefile":
		return FORMAT_SHAPEFILE, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedFormat, "format '%s'", str)
	}
}

const (
	DEFAULT_EXPORT_EPSG     = EPSG_UTM_32N
	DEFAULT_EXPORT_ENCODING = "UTF-8"
)

// ExportOptions are explicit parameters of every export call
type ExportOptions struct {
	Format Format

	// Target coordinate system of geometries
	EPSG int

	// Character encoding of attributes. Written to '.cpg' for shapefiles
	Encoding string

	// Delimiter of CSV files
	Separator rune

	// Indent GeoJSON documents
	Indent bool
}

// DefaultExportOptions returns shapefile in UTM 32N with UTF-8 attributes
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:    FORMAT_SHAPEFILE,
		EPSG:      DEFAULT_EXPORT_EPSG,
		Encoding:  DEFAULT_EXPORT_ENCODING,
		Separator: ',',
	}
}

func (opts ExportOptions) withDefaults() ExportOptions {
	if opts.Format == 0 {
		opts.Format = FORMAT_SHAPEFILE
	}
	if opts.EPSG == 0 {
		opts.EPSG = EPSG_WGS84
	}
	if opts.Encoding == "" {
		opts.Encoding = DEFAULT_EXPORT_ENCODING
	}
	if opts.Separator == 0 {
		opts.Separator = ','
	}
	return opts
}

// Feature is a geometry with attributes
type Feature struct {
	Geometry   orb.Geometry
	Attributes Attributes
}

// Layer is a named set of features sharing the same fields
type Layer struct {
	Name     string
	Fields   []string
	Features []Feature
}

func (layer *Layer) String() string {
	return fmt.Sprintf("layer '%s' (%d features, fields: %s)", layer.Name, len(layer.Features), strings.Join(layer.Fields, ","))
}

// newLayer creates layer. Nil fields means union of feature attributes.
func newLayer(name string, fields []string, features []Feature) *Layer {
	if fields == nil {
		attrsList := make([]Attributes, len(features))
		for i := range features {
			attrsList[i] = features[i].Attributes
		}
		fields = mergeKeys(attrsList...)
	}
	return &Layer{Name: name, Fields: fields, Features: features}
}

// Reproject returns copy of layer with geometries in target projection
func (layer *Layer) Reproject(proj Projection) *Layer {
	features := make([]Feature, len(layer.Features))
	for i, feature := range layer.Features {
		features[i] = Feature{
			Geometry:   proj.Project(feature.Geometry),
			Attributes: feature.Attributes,
		}
	}
	return &Layer{Name: layer.Name, Fields: layer.Fields, Features: features}
}

// values returns attributes in fields order. Absent ones are empty.
func (feature Feature) values(fields []string) []string {
	m := feature.Attributes.Map()
	values := make([]string, len(fields))
	for i, field := range fields {
		values[i] = m[field]
	}
	return values
}

const (
	LAYER_ROUTES     = "routes"
	LAYER_SEGMENTS   = "segments"
	LAYER_MEMBERSHIP = "membership"
)

// RoutesLayer returns one MultiLineString feature per route. Routes without geometry are skipped.
func RoutesLayer(routes []*AssembledRoute, fields []string) *Layer {
	features := make([]Feature, 0, len(routes))
	for _, route := range routes {
		if len(route.Geom) == 0 {
			continue
		}
		features = append(features, Feature{Geometry: route.Geom, Attributes: route.Attributes})
	}
	return newLayer(LAYER_ROUTES, fields, features)
}

// SegmentsLayer returns one LineString feature per segment
func SegmentsLayer(segments []*Segment, fields []string) *Layer {
	features := make([]Feature, len(segments))
	for i, segment := range segments {
		features[i] = Feature{Geometry: segment.Geom, Attributes: segment.Attributes}
	}
	return newLayer(LAYER_SEGMENTS, fields, features)
}

// MembershipLayer returns one LineString feature per membership edge
func MembershipLayer(edges []MembershipEdge) *Layer {
	features := make([]Feature, len(edges))
	for i, edge := range edges {
		features[i] = Feature{
			Geometry: edge.Geom,
			Attributes: Attributes{
				{Key: FIELD_MEMBER_ROUTE, Value: strconv.FormatInt(int64(edge.RouteID), 10)},
				{Key: FIELD_MEMBER_SEGMENT, Value: edge.SegmentID},
			},
		}
	}
	return newLayer(LAYER_MEMBERSHIP, []string{FIELD_MEMBER_ROUTE, FIELD_MEMBER_SEGMENT}, features)
}

// WriteLayer writes layer into file. Extension of the file is replaced with the format one.
// Returned error is always an *EntityError of ErrOutputSink kind.
func WriteLayer(layer *Layer, filename string, opts ExportOptions) error {
	opts = opts.withDefaults()
	proj, err := ProjectionByEPSG(opts.EPSG)
	if err != nil {
		return outputError(filename, err)
	}
	filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + opts.Format.Extension()
	projected := layer.Reproject(proj)
	switch opts.Format {
	case FORMAT_CSV:
		err = writeFile(filename, func(file *os.File) error {
			return WriteLayerCSV(file, projected, opts.Separator, opts.Encoding)
		})
	case FORMAT_GEOJSON:
		var data []byte
		data, err = LayerToGeoJSON(projected, proj, opts.Indent)
		if err == nil {
			err = os.WriteFile(filename, data, 0644)
		}
	case FORMAT_SHAPEFILE:
		err = WriteShapefile(projected, filename, proj, opts.Encoding)
	default:
		err = errors.Wrapf(ErrUnsupportedFormat, "format %d", opts.Format)
	}
	if err != nil {
		return outputError(filename, err)
	}
	return nil
}

func writeFile(filename string, write func(file *os.File) error) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	err = write(file)
	if err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
