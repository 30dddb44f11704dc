package caiosm

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

type Unit uint16

const (
	UNIT_METERS = Unit(iota + 1)
	UNIT_KILOMETERS
)

func (iotaIdx Unit) String() string {
	return [...]string{"m", "km"}[iotaIdx-1]
}

// ParseUnit parses 'm' / 'km' (case insensitive). Empty string means meters.
func ParseUnit(str string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "", "m", "meters":
		return UNIT_METERS, nil
	case "km", "kilometers":
		return UNIT_KILOMETERS, nil
	default:
		return 0, errors.Errorf("unit '%s' is not handled, expected 'm' or 'km'", str)
	}
}

// Length returns length of geometry reprojected into target coordinate system.
// Meters are rounded to integer, kilometers are rounded to one decimal place.
func Length(geom orb.MultiLineString, target Projection, unit Unit) float64 {
	return convertLength(projectedLength(geom, target), unit)
}

func projectedLength(geom orb.MultiLineString, target Projection) float64 {
	if len(geom) == 0 {
		return 0
	}
	return planar.Length(target.Project(geom))
}

func convertLength(meters float64, unit Unit) float64 {
	switch unit {
	case UNIT_KILOMETERS:
		return math.Round(math.Round(meters)/1000*10) / 10
	default:
		return math.Round(meters)
	}
}

// RouteLength returns length of route. Each distinct member way is counted once.
func RouteLength(route *Route, store *Store, target Projection, unit Unit) (float64, error) {
	geom := make(orb.MultiLineString, 0, len(route.Members))
	for _, wayID := range route.distinctMembers() {
		if !store.hasWay(wayID) {
			return 0, errors.Wrapf(ErrMissingMemberWay, "way %d", wayID)
		}
		if way, ok := store.Way(wayID); ok {
			geom = append(geom, way.Geom)
		}
	}
	return Length(geom, target, unit), nil
}

// TotalLength returns length of all given routes. Way shared by several routes is counted once.
// Routes with missing members are not counted, their errors are returned.
func TotalLength(routes []*Route, store *Store, target Projection, unit Unit) (float64, []error) {
	errs := []error{}
	seen := make(map[osm.WayID]struct{})
	geom := orb.MultiLineString{}
	for _, route := range routes {
		members := route.distinctMembers()
		missing := false
		for _, wayID := range members {
			if !store.hasWay(wayID) {
				errs = append(errs, routeError(route.ID, errors.Wrapf(ErrMissingMemberWay, "way %d", wayID)))
				missing = true
				break
			}
		}
		if missing {
			continue
		}
		for _, wayID := range members {
			if _, ok := seen[wayID]; ok {
				continue
			}
			seen[wayID] = struct{}{}
			if way, ok := store.Way(wayID); ok {
				geom = append(geom, way.Geom)
			}
		}
	}
	return Length(geom, target, unit), errs
}
