package caiosm

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/pkg/errors"
)

const (
	EPSG_WGS84         = 4326
	EPSG_WEB_MERCATOR  = 3857
	EPSG_LAEA_EUROPE   = 3035
	EPSG_UTM_32N       = 32632
	DEFAULT_LENGTH_SRS = EPSG_LAEA_EUROPE
)

// Projection converts WGS84 (lon, lat) geometries into a planar coordinate system
type Projection struct {
	EPSG    int
	Name    string
	forward orb.Projection
	prj     string
}

// Identity reports whether projection keeps WGS84 coordinates as is
func (proj Projection) Identity() bool {
	return proj.forward == nil
}

// Project returns projected copy of geometry. Input geometry is never modified.
func (proj Projection) Project(g orb.Geometry) orb.Geometry {
	if g == nil {
		return nil
	}
	clone := orb.Clone(g)
	if proj.Identity() {
		return clone
	}
	return project.Geometry(clone, proj.forward)
}

// ProjectPoint returns projected point
func (proj Projection) ProjectPoint(pt orb.Point) orb.Point {
	if proj.Identity() {
		return pt
	}
	return proj.forward(pt)
}

// PRJ returns ESRI WKT definition of the coordinate system (content of '.prj' file)
func (proj Projection) PRJ() string {
	return proj.prj
}

func (proj Projection) String() string {
	return fmt.Sprintf("EPSG:%d (%s)", proj.EPSG, proj.Name)
}

const (
	prjGeogWGS84 = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`
	prjGeogETRS  = `GEOGCS["GCS_ETRS_1989",DATUM["D_ETRS_1989",SPHEROID["GRS_1980",6378137.0,298.257222101]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`
)

// ProjectionByEPSG returns projection for supported EPSG code.
//
// Supported: 4326, 3857, 3035, 32601-32660 / 32701-32760 (WGS84 UTM), 25828-25838 (ETRS89 UTM).
func ProjectionByEPSG(code int) (Projection, error) {
	switch {
	case code == EPSG_WGS84:
		return Projection{EPSG: code, Name: "WGS 84", prj: prjGeogWGS84}, nil
	case code == EPSG_WEB_MERCATOR:
		return Projection{
			EPSG:    code,
			Name:    "WGS 84 / Pseudo-Mercator",
			forward: project.WGS84.ToMercator,
			prj:     `PROJCS["WGS_1984_Web_Mercator_Auxiliary_Sphere",` + prjGeogWGS84 + `,PROJECTION["Mercator_Auxiliary_Sphere"],PARAMETER["False_Easting",0.0],PARAMETER["False_Northing",0.0],PARAMETER["Central_Meridian",0.0],PARAMETER["Standard_Parallel_1",0.0],PARAMETER["Auxiliary_Sphere_Type",0.0],UNIT["Meter",1.0]]`,
		}, nil
	case code == EPSG_LAEA_EUROPE:
		laea := newLAEA(grs80, 52, 10, 4321000, 3210000)
		return Projection{
			EPSG:    code,
			Name:    "ETRS89-extended / LAEA Europe",
			forward: laea.forward,
			prj:     `PROJCS["ETRS_1989_LAEA",` + prjGeogETRS + `,PROJECTION["Lambert_Azimuthal_Equal_Area"],PARAMETER["False_Easting",4321000.0],PARAMETER["False_Northing",3210000.0],PARAMETER["Central_Meridian",10.0],PARAMETER["Latitude_Of_Origin",52.0],UNIT["Meter",1.0]]`,
		}, nil
	case code > 32600 && code <= 32660:
		return utmProjection(code, wgs84, code-32600, false, "WGS 84", "WGS_1984", prjGeogWGS84), nil
	case code > 32700 && code <= 32760:
		return utmProjection(code, wgs84, code-32700, true, "WGS 84", "WGS_1984", prjGeogWGS84), nil
	case code >= 25828 && code <= 25838:
		return utmProjection(code, grs80, code-25800, false, "ETRS89", "ETRS_1989", prjGeogETRS), nil
	default:
		return Projection{}, errors.Wrapf(ErrUnsupportedFormat, "EPSG:%d is not handled yet", code)
	}
}

func utmProjection(code int, ell ellipsoid, zone int, south bool, datumName, esriDatum, geogcs string) Projection {
	hemisphere, falseNorthing := "N", 0.0
	if south {
		hemisphere, falseNorthing = "S", 10000000.0
	}
	tm := newUTM(ell, zone, south)
	return Projection{
		EPSG:    code,
		Name:    fmt.Sprintf("%s / UTM zone %d%s", datumName, zone, hemisphere),
		forward: tm.forward,
		prj: fmt.Sprintf(`PROJCS["%s_UTM_Zone_%d%s",%s,PROJECTION["Transverse_Mercator"],PARAMETER["False_Easting",500000.0],PARAMETER["False_Northing",%.1f],PARAMETER["Central_Meridian",%.1f],PARAMETER["Scale_Factor",0.9996],PARAMETER["Latitude_Of_Origin",0.0],UNIT["Meter",1.0]]`,
			esriDatum, zone, hemisphere, geogcs, falseNorthing, utmCentralMeridian(zone)),
	}
}

// MustProjection is like ProjectionByEPSG but panics on unsupported code
func MustProjection(code int) Projection {
	proj, err := ProjectionByEPSG(code)
	if err != nil {
		panic(err)
	}
	return proj
}
