package caiosm

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

const (
	shapefileFieldNameLength = 10
	shapefileStringLength    = 254
	shapefileNumberLength    = 18
)

// WriteShapefile writes layer of (Multi)LineStrings as polyline shapefile with '.prj' and '.cpg' sidecars.
// Geometries must already be in projection proj. Field names longer than 10 characters are truncated
// (and suffixed with '_N' when truncation makes them clash), string values are cut to 254 bytes.
func WriteShapefile(layer *Layer, filename string, proj Projection, encodingName string) error {
	enc, err := textEncoding(encodingName)
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	writer, err := shp.Create(base+".shp", shp.POLYLINE)
	if err != nil {
		return errors.Wrap(err, "Can't create shapefile")
	}
	err = writer.SetFields(shapefileFields(layer.Fields))
	if err != nil {
		// Writer.Close would dereference the missing attribute table
		return errors.Wrap(err, "Can't create attribute table")
	}
	err = writeShapefileFeatures(writer, layer, enc)
	writer.Close()
	if err != nil {
		return err
	}
	err = fixDbfName(base)
	if err != nil {
		return err
	}

	err = os.WriteFile(base+".prj", []byte(proj.PRJ()), 0644)
	if err != nil {
		return errors.Wrap(err, "Can't write projection file")
	}
	cpg := encodingName
	if cpg == "" {
		cpg = DEFAULT_EXPORT_ENCODING
	}
	err = os.WriteFile(base+".cpg", []byte(cpg), 0644)
	if err != nil {
		return errors.Wrap(err, "Can't write encoding file")
	}
	return nil
}

func writeShapefileFeatures(writer *shp.Writer, layer *Layer, enc encoding.Encoding) error {
	for i, feature := range layer.Features {
		parts, err := shapefileParts(feature.Geometry)
		if err != nil {
			return errors.Wrapf(err, "feature #%d", i)
		}
		row := int(writer.Write(shp.NewPolyLine(parts)))
		for j, value := range feature.values(layer.Fields) {
			var attr interface{} = truncateBytes(encodeString(enc, value), shapefileStringLength, enc == nil)
			if layer.Fields[j] == FIELD_WAY_ID {
				if id, err := strconv.Atoi(value); err == nil {
					attr = id
				}
			}
			err = writer.WriteAttribute(row, j, attr)
			if err != nil {
				return errors.Wrapf(err, "feature #%d field '%s'", i, layer.Fields[j])
			}
		}
	}
	return nil
}

// fixDbfName moves attribute table to '<base>.dbf': go-shp creates it as '<base>dbf' when given '.shp' filename
func fixDbfName(base string) error {
	if _, err := os.Stat(base + "dbf"); err == nil {
		err = os.Rename(base+"dbf", base+".dbf")
		if err != nil {
			return errors.Wrap(err, "Can't rename attribute table")
		}
	}
	if _, err := os.Stat(base + ".dbf"); err != nil {
		return errors.Wrap(err, "Attribute table is missing")
	}
	return nil
}

// truncateBytes cuts str to at most limit bytes. For UTF-8 the cut never splits a multibyte character
func truncateBytes(str string, limit int, utf8Aware bool) string {
	if len(str) <= limit {
		return str
	}
	cut := limit
	if utf8Aware {
		for cut > 0 && !utf8.RuneStart(str[cut]) {
			cut--
		}
	}
	return str[:cut]
}

// shapefileFields declares every field as string except OSM way id.
// DBF field names are case-insensitive, so clashes are detected on lowercased names
func shapefileFields(names []string) []shp.Field {
	fields := make([]shp.Field, len(names))
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		name = uniqueFieldName(name, seen)
		if names[i] == FIELD_WAY_ID {
			fields[i] = shp.NumberField(name, shapefileNumberLength)
			continue
		}
		fields[i] = shp.StringField(name, shapefileStringLength)
	}
	return fields
}

func uniqueFieldName(name string, seen map[string]struct{}) string {
	if len(name) > shapefileFieldNameLength {
		name = name[:shapefileFieldNameLength]
	}
	candidate := name
	for n := 1; ; n++ {
		if _, ok := seen[strings.ToLower(candidate)]; !ok {
			break
		}
		suffix := "_" + strconv.Itoa(n)
		prefix := name
		if len(prefix) > shapefileFieldNameLength-len(suffix) {
			prefix = prefix[:shapefileFieldNameLength-len(suffix)]
		}
		candidate = prefix + suffix
	}
	seen[strings.ToLower(candidate)] = struct{}{}
	return candidate
}

func shapefileParts(geom orb.Geometry) ([][]shp.Point, error) {
	switch g := geom.(type) {
	case orb.LineString:
		return [][]shp.Point{shapefileLine(g)}, nil
	case orb.MultiLineString:
		parts := make([][]shp.Point, len(g))
		for i := range g {
			parts[i] = shapefileLine(g[i])
		}
		return parts, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "geometry type '%T' in polyline shapefile", geom)
	}
}

func shapefileLine(line orb.LineString) []shp.Point {
	pts := make([]shp.Point, len(line))
	for i := range line {
		pts[i] = shp.Point{X: line[i].X(), Y: line[i].Y()}
	}
	return pts
}
