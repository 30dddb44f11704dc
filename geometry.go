package caiosm

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// BuildWayGeometry returns line of the way.
//
// Way with less than 2 points, less than 2 distinct points or with coordinates outside of
// WGS84 range is malformed.
func BuildWayGeometry(way *Way) (orb.LineString, error) {
	if len(way.Geom) < 2 {
		return nil, errors.Wrapf(ErrMalformedGeometry, "way has %d point(s)", len(way.Geom))
	}
	distinct := false
	for i, pt := range way.Geom {
		if !validCoordinate(pt) {
			return nil, errors.Wrapf(ErrMalformedGeometry, "point #%d has bad coordinates (%f, %f)", i, pt.Lon(), pt.Lat())
		}
		if !pt.Equal(way.Geom[0]) {
			distinct = true
		}
	}
	if !distinct {
		return nil, errors.Wrap(ErrMalformedGeometry, "way has no distinct points")
	}
	return way.Geom.Clone(), nil
}

func validCoordinate(pt orb.Point) bool {
	lon, lat := pt.Lon(), pt.Lat()
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return false
	}
	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}

// BuildRouteGeometry concatenates lines of route members in members order.
//
// Duplicated members are kept. Member which is absent in store fails the whole route with
// ErrMissingMemberWay. Member which has been received but is malformed is excluded from the
// geometry, its ID is returned in the second value.
func BuildRouteGeometry(route *Route, store *Store) (orb.MultiLineString, []osm.WayID, error) {
	for _, wayID := range route.Members {
		if !store.hasWay(wayID) {
			return nil, nil, errors.Wrapf(ErrMissingMemberWay, "way %d", wayID)
		}
	}
	geom := make(orb.MultiLineString, 0, len(route.Members))
	excluded := []osm.WayID{}
	for _, wayID := range route.Members {
		way, ok := store.Way(wayID)
		if !ok {
			excluded = append(excluded, wayID)
			continue
		}
		geom = append(geom, way.Geom)
	}
	return geom, excluded, nil
}
