package caiosm

import (
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

type ClassifierMode uint16

const (
	MODE_PASSTHROUGH = ClassifierMode(iota + 1)
	MODE_INFOMONT
)

func (iotaIdx ClassifierMode) String() string {
	return [...]string{"passthrough", "infomont"}[iotaIdx-1]
}

// ParseClassifierMode parses 'passthrough' / 'infomont'. Empty string means 'infomont'.
func ParseClassifierMode(str string) (ClassifierMode, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "", "infomont":
		return MODE_INFOMONT, nil
	case "passthrough", "raw":
		return MODE_PASSTHROUGH, nil
	default:
		return 0, errors.Errorf("classifier mode '%s' is not handled, expected 'passthrough' or 'infomont'", str)
	}
}

// Classifier derives attributes of ways and routes from their raw tags.
// Mode is fixed at construction.
type Classifier struct {
	mode ClassifierMode
}

// NewClassifier returns classifier for the mode. Unknown mode is treated as MODE_INFOMONT.
func NewClassifier(mode ClassifierMode) *Classifier {
	if mode != MODE_PASSTHROUGH {
		mode = MODE_INFOMONT
	}
	return &Classifier{mode: mode}
}

func (classifier *Classifier) Mode() ClassifierMode {
	return classifier.mode
}

// ClassifyRoute returns route attributes.
//
// MODE_INFOMONT: IDPerc, Nume, Denomi, rwn_name, COD_REI, PerDif, segni. Missing tags are empty.
// MODE_PASSTHROUGH: 'id' plus raw tags sorted by key.
// Returned errors are warnings (ErrUnrecognizedTagValue).
func (classifier *Classifier) ClassifyRoute(route *Route) (Attributes, []error) {
	id := strconv.FormatInt(int64(route.ID), 10)
	if classifier.mode == MODE_PASSTHROUGH {
		return passthroughAttributes("id", id, route.Tags), nil
	}
	tags := route.Tags.Map()
	tags["id"] = id
	attrs := make(Attributes, 0, len(routeFields)+1)
	for _, field := range routeFields {
		attrs = append(attrs, Attribute{Key: field.field, Value: tags[field.tag]})
	}
	waymark, err := ClassifyWaymark(route.Tags)
	attrs = append(attrs, Attribute{Key: FIELD_WAYMARK, Value: waymark.Code()})
	if err != nil {
		return attrs, []error{routeError(route.ID, err)}
	}
	return attrs, nil
}

// ClassifyWay returns way attributes.
//
// MODE_INFOMONT: osm_id_way, TIPOLOGIA, CARATTER.
// MODE_PASSTHROUGH: 'osm_id_way' plus raw tags sorted by key.
// Returned errors are warnings (ErrUnrecognizedTagValue).
func (classifier *Classifier) ClassifyWay(way *Way) (Attributes, []error) {
	id := strconv.FormatInt(int64(way.ID), 10)
	if classifier.mode == MODE_PASSTHROUGH {
		return passthroughAttributes(FIELD_WAY_ID, id, way.Tags), nil
	}
	errs := []error{}
	pathType, err := ClassifyPathType(way.Tags)
	if err != nil {
		errs = append(errs, wayError(way.ID, err))
	}
	surface, err := ClassifySurface(way.Tags)
	if err != nil {
		errs = append(errs, wayError(way.ID, err))
	}
	attrs := Attributes{
		{Key: FIELD_WAY_ID, Value: id},
		{Key: FIELD_PATH_TYPE, Value: pathType.Code()},
		{Key: FIELD_SURFACE, Value: surface.Code()},
	}
	if len(errs) == 0 {
		return attrs, nil
	}
	return attrs, errs
}

// RouteSchema returns field names of routes for MODE_INFOMONT. Nil for MODE_PASSTHROUGH since fields depend on data.
func (classifier *Classifier) RouteSchema() []string {
	if classifier.mode == MODE_PASSTHROUGH {
		return nil
	}
	fields := make([]string, 0, len(routeFields)+1)
	for _, field := range routeFields {
		fields = append(fields, field.field)
	}
	return append(fields, FIELD_WAYMARK)
}

// WaySchema returns field names of ways for MODE_INFOMONT. Nil for MODE_PASSTHROUGH.
func (classifier *Classifier) WaySchema() []string {
	if classifier.mode == MODE_PASSTHROUGH {
		return nil
	}
	return []string{FIELD_WAY_ID, FIELD_PATH_TYPE, FIELD_SURFACE}
}

func passthroughAttributes(idKey, id string, tags osm.Tags) Attributes {
	m := tags.Map()
	m[idKey] = id
	return sortedAttributes(m)
}

// ClassifyPathType maps 'highway' tag. Absent tag gives PATH_OTHER without error.
func ClassifyPathType(tags osm.Tags) (PathType, error) {
	highway := tags.Find("highway")
	if highway == "" {
		return PATH_OTHER, nil
	}
	pathType, ok := getPathType(highway)
	if !ok {
		return pathType, errors.Wrapf(ErrUnrecognizedTagValue, "highway=%s", highway)
	}
	return pathType, nil
}

// ClassifySurface maps 'surface' tag or infers surface from 'highway' when it is absent
func ClassifySurface(tags osm.Tags) (SurfaceType, error) {
	surface := tags.Find("surface")
	if surface != "" {
		surfaceType, ok := getSurfaceType(surface)
		if !ok {
			return surfaceType, errors.Wrapf(ErrUnrecognizedTagValue, "surface=%s", surface)
		}
		return surfaceType, nil
	}
	highway := tags.Find("highway")
	switch highway {
	case "":
		return SURFACE_OTHER, nil
	case "via_ferrata":
		return SURFACE_OTHER, nil
	case "footway":
		for _, key := range pavedFootwayKeys {
			if tags.Find(key) != "" {
				return SURFACE_ASPHALT, nil
			}
		}
		return SURFACE_UNPAVED, nil
	}
	pathType, ok := getPathType(highway)
	if !ok {
		// Unknown highway is reported by ClassifyPathType already
		return SURFACE_OTHER, nil
	}
	return surfaceByHighway[pathType], nil
}

// ClassifyWaymark derives waymark from the first present tag of 'osmc:symbol', 'symbol', 'symbol:it'.
// No tag at all gives WAYMARK_UNMARKED. Markers are matched case-sensitively, so a present tag whose value
// (even empty one) matches nothing gives WAYMARK_OTHER and an error.
func ClassifyWaymark(tags osm.Tags) (WaymarkType, error) {
	for _, source := range symbolSources {
		value, ok := findTag(tags, source.key)
		if !ok {
			continue
		}
		return source.classify(value)
	}
	return WAYMARK_UNMARKED, nil
}

// findTag distinguishes absent tag from tag with empty value
func findTag(tags osm.Tags, key string) (string, bool) {
	for _, tag := range tags {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}

func (source symbolSource) classify(value string) (WaymarkType, error) {
	for _, marker := range source.unmarked {
		if strings.Contains(value, marker) {
			return WAYMARK_UNMARKED, nil
		}
	}
	for _, marker := range source.redWhite {
		if strings.Contains(value, marker) {
			if strings.Contains(value, ";") {
				return WAYMARK_RED_WHITE_MULTIPLE, nil
			}
			return WAYMARK_RED_WHITE, nil
		}
	}
	return WAYMARK_OTHER, errors.Wrapf(ErrUnrecognizedTagValue, "%s=%s", source.key, value)
}
