package caiosm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

func TestWriteShapefile(t *testing.T) {
	dir := t.TempDir()
	layer := &Layer{
		Name:   LAYER_SEGMENTS,
		Fields: []string{FIELD_WAY_ID, FIELD_PATH_TYPE, "description_long"},
		Features: []Feature{
			{Geometry: orb.LineString{{11, 46}, {11.1, 46}}, Attributes: Attributes{{Key: FIELD_WAY_ID, Value: "42"}, {Key: FIELD_PATH_TYPE, Value: "03"}}},
			{Geometry: orb.MultiLineString{{{11, 46}, {11.1, 46}}, {{11.2, 46}, {11.3, 46}}}, Attributes: Attributes{{Key: FIELD_WAY_ID, Value: "43"}, {Key: "description_long", Value: "sentiero"}}},
		},
	}
	err := WriteLayer(layer, filepath.Join(dir, BUNDLE_SEGMENTS), ExportOptions{Format: FORMAT_SHAPEFILE, EPSG: EPSG_WGS84})
	if err != nil {
		t.Error(err)
		return
	}
	for _, ext := range []string{".shp", ".shx", ".dbf", ".prj", ".cpg"} {
		if _, err := os.Stat(filepath.Join(dir, BUNDLE_SEGMENTS+ext)); err != nil {
			t.Errorf("File '%s' must exist: %v", BUNDLE_SEGMENTS+ext, err)
		}
	}
	prj, _ := os.ReadFile(filepath.Join(dir, BUNDLE_SEGMENTS+".prj"))
	if string(prj) != MustProjection(EPSG_WGS84).PRJ() {
		t.Errorf("Projection file must contain WGS84 definition, but got '%s'", prj)
	}
	cpg, _ := os.ReadFile(filepath.Join(dir, BUNDLE_SEGMENTS+".cpg"))
	if string(cpg) != "UTF-8" {
		t.Errorf("Encoding file must contain 'UTF-8', but got '%s'", cpg)
	}

	reader, err := shp.Open(filepath.Join(dir, BUNDLE_SEGMENTS+".shp"))
	if err != nil {
		t.Error(err)
		return
	}
	defer reader.Close()
	fields := reader.Fields()
	if len(fields) != 3 {
		t.Errorf("Number of fields must be 3, but got %d", len(fields))
		return
	}
	if name := strings.Trim(fields[2].String(), "\x00"); name != "descriptio" {
		t.Errorf("Field name must be truncated to 'descriptio', but got '%s'", name)
	}
	rows := 0
	parts := []int32{}
	values := []string{}
	for reader.Next() {
		n, shape := reader.Shape()
		rows++
		if polyline, ok := shape.(*shp.PolyLine); ok {
			parts = append(parts, polyline.NumParts)
		}
		values = append(values, strings.Trim(reader.ReadAttribute(n, 0), " \x00"))
	}
	if rows != 2 {
		t.Errorf("Number of shapes must be 2, but got %d", rows)
		return
	}
	if len(parts) != 2 || parts[0] != 1 || parts[1] != 2 {
		t.Errorf("Number of parts must be [1 2], but got %v", parts)
	}
	if values[0] != "42" || values[1] != "43" {
		t.Errorf("Way IDs must be [42 43], but got %v", values)
	}
}

func TestWriteShapefileLongValues(t *testing.T) {
	dir := t.TempDir()
	layer := &Layer{
		Name:   LAYER_ROUTES,
		Fields: []string{FIELD_WAY_ID, "ascii", "accents"},
		Features: []Feature{
			{Geometry: orb.LineString{{11, 46}, {11.1, 46}}, Attributes: Attributes{
				{Key: FIELD_WAY_ID, Value: "42"},
				{Key: "ascii", Value: strings.Repeat("a", 300)},
				{Key: "accents", Value: strings.Repeat("è", 200)},
			}},
		},
	}
	filename := filepath.Join(dir, "long.shp")
	err := WriteShapefile(layer, filename, MustProjection(EPSG_WGS84), "UTF-8")
	if err != nil {
		t.Error(err)
		return
	}
	if _, err := os.Stat(filepath.Join(dir, "longdbf")); err == nil {
		t.Errorf("Attribute table must not be left as 'longdbf'")
	}
	reader, err := shp.Open(filename)
	if err != nil {
		t.Error(err)
		return
	}
	defer reader.Close()
	if !reader.Next() {
		t.Errorf("Shapefile must contain one shape")
		return
	}
	n, _ := reader.Shape()
	ascii := strings.Trim(reader.ReadAttribute(n, 1), " \x00")
	if ascii != strings.Repeat("a", 254) {
		t.Errorf("Long value must be cut to 254 bytes, but got %d bytes", len(ascii))
	}
	accents := strings.Trim(reader.ReadAttribute(n, 2), " \x00")
	if !utf8.ValidString(accents) {
		t.Errorf("Cut value must be valid UTF-8, but got %q", accents)
	}
	if count := utf8.RuneCountInString(accents); count != 127 {
		t.Errorf("Cut value must keep 127 characters, but got %d", count)
	}
}

func TestWriteShapefileLatin1(t *testing.T) {
	dir := t.TempDir()
	layer := &Layer{
		Name:     LAYER_ROUTES,
		Fields:   []string{"name"},
		Features: []Feature{{Geometry: orb.LineString{{11, 46}, {11.1, 46}}, Attributes: Attributes{{Key: "name", Value: strings.Repeat("è", 300)}}}},
	}
	filename := filepath.Join(dir, "latin.shp")
	err := WriteShapefile(layer, filename, MustProjection(EPSG_WGS84), "ISO-8859-1")
	if err != nil {
		t.Error(err)
		return
	}
	reader, err := shp.Open(filename)
	if err != nil {
		t.Error(err)
		return
	}
	defer reader.Close()
	if !reader.Next() {
		t.Errorf("Shapefile must contain one shape")
		return
	}
	n, _ := reader.Shape()
	value := reader.ReadAttribute(n, 0)
	if value != strings.Repeat("\xe8", 254) {
		t.Errorf("Single-byte value must be cut to 254 characters, but got %d bytes", len(value))
	}
}

func TestShapefileFieldNames(t *testing.T) {
	names := []string{FIELD_WAY_ID, "description_long", "description_short", "DESCRIPTIO", "description", "abcdefghij_1"}
	correct := []string{FIELD_WAY_ID, "descriptio", "descript_1", "DESCRIPT_2", "descript_3", "abcdefghij"}
	fields := shapefileFields(names)
	if len(fields) != len(correct) {
		t.Errorf("Number of fields must be %d, but got %d", len(correct), len(fields))
		return
	}
	for i := range fields {
		if fields[i].String() != correct[i] {
			t.Errorf("Field #%d name must be '%s', but got '%s'", i, correct[i], fields[i].String())
		}
	}
	if fields[0].Fieldtype != 'N' {
		t.Errorf("Way ID field type must be 'N', but got '%c'", fields[0].Fieldtype)
	}
}

func TestTruncateBytes(t *testing.T) {
	if cut := truncateBytes("aèb", 2, true); cut != "a" {
		t.Errorf("Cut must be 'a', but got %q", cut)
	}
	if cut := truncateBytes("aèb", 3, true); cut != "aè" {
		t.Errorf("Cut must be 'aè', but got %q", cut)
	}
	if cut := truncateBytes("abc", 5, true); cut != "abc" {
		t.Errorf("Short value must be kept, but got %q", cut)
	}
}

func TestWriteLayerErrors(t *testing.T) {
	layer := &Layer{Name: LAYER_SEGMENTS}
	err := WriteLayer(layer, filepath.Join(t.TempDir(), "absent", "trt_sent"), ExportOptions{Format: FORMAT_GEOJSON})
	if !errors.Is(err, ErrOutputSink) {
		t.Errorf("Error must be ErrOutputSink, but got %v", err)
	}
	err = WriteLayer(layer, filepath.Join(t.TempDir(), "trt_sent"), ExportOptions{Format: FORMAT_CSV, EPSG: 2154})
	if !errors.Is(err, ErrOutputSink) || !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Error must be both ErrOutputSink and ErrUnsupportedFormat, but got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for str, correct := range map[string]Format{"": FORMAT_SHAPEFILE, "ESRI Shapefile": FORMAT_SHAPEFILE, "GeoJSON": FORMAT_GEOJSON, "csv": FORMAT_CSV} {
		format, err := ParseFormat(str)
		if err != nil {
			t.Error(err)
			continue
		}
		if format != correct {
			t.Errorf("Format of '%s' must be %s, but got %s", str, correct, format)
		}
	}
	if _, err := ParseFormat("kml"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Error must be ErrUnsupportedFormat, but got %v", err)
	}
}
