package caiosm

// Classification tables. Never modified at runtime.
var (
	pathTypeByHighway = map[string]PathType{
		"primary":        PATH_ASPHALT,
		"primary_link":   PATH_ASPHALT,
		"secondary":      PATH_ASPHALT,
		"secondary_link": PATH_ASPHALT,
		"tertiary":       PATH_ASPHALT,
		"tertiary_link":  PATH_ASPHALT,
		"unclassified":   PATH_ASPHALT,
		"residential":    PATH_ASPHALT,
		"service":        PATH_ASPHALT,
		"living_street":  PATH_ASPHALT,
		"road":           PATH_ASPHALT,
		"track":          PATH_TRACK,
		"footway":        PATH_TRAIL,
		"path":           PATH_TRAIL,
		"bridleway":      PATH_TRAIL,
		"cycleway":       PATH_OTHER,
		"pedestrian":     PATH_OTHER,
		"steps":          PATH_OTHER,
		"via_ferrata":    PATH_OTHER,
	}

	surfaceTypes = map[string]SurfaceType{
		"asphalt":               SURFACE_ASPHALT,
		"concrete":              SURFACE_ASPHALT,
		"concrete:plates":       SURFACE_ASPHALT,
		"paved":                 SURFACE_ASPHALT,
		"compacted":             SURFACE_UNPAVED,
		"dirt":                  SURFACE_UNPAVED,
		"grass":                 SURFACE_UNPAVED,
		"gravel":                SURFACE_UNPAVED,
		"ground":                SURFACE_UNPAVED,
		"unpaved":               SURFACE_UNPAVED,
		"fine_gravel":           SURFACE_UNPAVED,
		"earth":                 SURFACE_UNPAVED,
		"rock":                  SURFACE_UNPAVED,
		"mud":                   SURFACE_UNPAVED,
		"stone":                 SURFACE_UNPAVED,
		"cobblestone":           SURFACE_STONE,
		"cobblestone:flattened": SURFACE_STONE,
		"paving_stones":         SURFACE_STONE,
		"pebblestone":           SURFACE_STONE,
		"sett":                  SURFACE_STONE,
		"grass_paver":           SURFACE_STONE,
		"cement":                SURFACE_STONE,
		"metal":                 SURFACE_OTHER,
		"wood":                  SURFACE_OTHER,
		"unknown":               SURFACE_OTHER,
	}

	// Surface of a way without 'surface' tag. Footways are handled separately
	surfaceByHighway = map[PathType]SurfaceType{
		PATH_ASPHALT: SURFACE_ASPHALT,
		PATH_TRACK:   SURFACE_UNPAVED,
		PATH_TRAIL:   SURFACE_UNPAVED,
		PATH_OTHER:   SURFACE_ASPHALT,
	}

	// Footway is paved when it is mapped as sidewalk or crossing
	pavedFootwayKeys = []string{"footway", "sidewalk"}

	// Sources of waymark description in priority order
	symbolSources = []symbolSource{
		{
			key:      "osmc:symbol",
			redWhite: []string{"red:red:white_stripe", "red:red:white_bar"},
		},
		{
			key:      "symbol",
			unmarked: []string{"unmarked"},
			redWhite: []string{"white red flag"},
		},
		{
			key:      "symbol:it",
			unmarked: []string{"non segnalato"},
			redWhite: []string{"su bandierina bianca e rossa", "segnavia bianco e rosso"},
		},
	}

	// Infomont route fields: target field name -> OSM tag
	routeFields = []fieldRename{
		{"IDPerc", "id"},
		{"Nume", "ref"},
		{"Denomi", "name"},
		{"rwn_name", "rwn:name"},
		{"COD_REI", "ref:REI"},
		{"PerDif", "cai_scale"},
	}

	// Columns of delimited routes export
	routeColumns = []string{"id", "name", "ref", "cai_scale", "from", "to", "distance", "source", "source:ref", "maintainer", "description"}
)

const (
	FIELD_ROUTE_ID       = "IDPerc"
	FIELD_WAYMARK        = "segni"
	FIELD_WAY_ID         = "osm_id_way"
	FIELD_PATH_TYPE      = "TIPOLOGIA"
	FIELD_SURFACE        = "CARATTER"
	FIELD_SEGMENT_ID     = "IDTrat"
	FIELD_MEMBER_ROUTE   = "IDPerc"
	FIELD_MEMBER_SEGMENT = "IDtrat"
)

// symbolSource is a tag which may describe waymarks
type symbolSource struct {
	key      string
	unmarked []string
	redWhite []string
}

type fieldRename struct {
	field string
	tag   string
}
