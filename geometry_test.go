package caiosm

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

func TestBuildWayGeometry(t *testing.T) {
	way := &Way{ID: 1, Geom: orb.LineString{{11, 46}, {11.1, 46.1}, {11.2, 46.1}}}
	line, err := BuildWayGeometry(way)
	if err != nil {
		t.Error(err)
		return
	}
	if !line.Equal(way.Geom) {
		t.Errorf("Line must be %v, but got %v", way.Geom, line)
	}
	line[0] = orb.Point{0, 0}
	if way.Geom[0].Equal(orb.Point{0, 0}) {
		t.Errorf("Returned line must not share memory with the way")
	}

	malformed := []orb.LineString{
		nil,
		{{11, 46}},
		{{11, 46}, {11, 46}},
		{{11, 46}, {181, 46}},
		{{11, 46}, {11, math.NaN()}},
	}
	for i, geom := range malformed {
		_, err := BuildWayGeometry(&Way{ID: osm.WayID(i), Geom: geom})
		if !errors.Is(err, ErrMalformedGeometry) {
			t.Errorf("Line #%d must be malformed, but got %v", i, err)
		}
	}
}

func TestBuildRouteGeometry(t *testing.T) {
	store := NewStore()
	store.AddWay(&Way{ID: 1, Geom: orb.LineString{{11, 46}, {11.1, 46}}})
	store.AddWay(&Way{ID: 2, Geom: orb.LineString{{11.1, 46}, {11.2, 46}}})
	store.AddWay(&Way{ID: 3, Geom: orb.LineString{{11.2, 46}}})

	route := &Route{ID: 10, Members: []osm.WayID{2, 1, 3, 2}}
	geom, excluded, err := BuildRouteGeometry(route, store)
	if err != nil {
		t.Error(err)
		return
	}
	if len(geom) != 3 {
		t.Errorf("Number of lines must be 3, but got %d", len(geom))
		return
	}
	if !geom[0].Equal(geom[2]) || geom[0][0].Lon() != 11.1 {
		t.Errorf("Lines must follow members order, but got %v", geom)
	}
	if len(excluded) != 1 || excluded[0] != 3 {
		t.Errorf("Excluded members must be [3], but got %v", excluded)
	}

	route = &Route{ID: 20, Members: []osm.WayID{1, 4}}
	_, _, err = BuildRouteGeometry(route, store)
	if !errors.Is(err, ErrMissingMemberWay) {
		t.Errorf("Error must be ErrMissingMemberWay, but got %v", err)
	}
}
