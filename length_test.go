package caiosm

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

func TestParseUnit(t *testing.T) {
	for str, correct := range map[string]Unit{"": UNIT_METERS, "m": UNIT_METERS, "KM": UNIT_KILOMETERS} {
		unit, err := ParseUnit(str)
		if err != nil {
			t.Error(err)
			continue
		}
		if unit != correct {
			t.Errorf("Unit of '%s' must be %s, but got %s", str, correct, unit)
		}
	}
	if _, err := ParseUnit("mi"); err == nil {
		t.Errorf("Unit 'mi' must not be parsed")
	}
}

func TestConvertLength(t *testing.T) {
	if v := convertLength(1234.5678, UNIT_METERS); v != 1235 {
		t.Errorf("Meters must be 1235, but got %v", v)
	}
	if v := convertLength(1234.5678, UNIT_KILOMETERS); v != 1.2 {
		t.Errorf("Kilometers must be 1.2, but got %v", v)
	}
	if v := convertLength(1250, UNIT_KILOMETERS); v != 1.3 {
		t.Errorf("Kilometers must be 1.3, but got %v", v)
	}
}

func TestLength(t *testing.T) {
	proj := MustProjection(EPSG_LAEA_EUROPE)
	geom := orb.MultiLineString{
		{{11, 46}, {11, 46.01}},
		{{11, 46}, {11.01, 46}},
	}
	// 1110.13 + 775.60
	if v := Length(geom, proj, UNIT_METERS); v != 1886 {
		t.Errorf("Length must be 1886 m, but got %v", v)
	}
	if v := Length(geom, proj, UNIT_KILOMETERS); v != 1.9 {
		t.Errorf("Length must be 1.9 km, but got %v", v)
	}
	if v := Length(nil, proj, UNIT_METERS); v != 0 {
		t.Errorf("Length of empty geometry must be 0, but got %v", v)
	}
	// Pure: the same result on repeated calls
	if v := Length(geom, proj, UNIT_METERS); v != 1886 {
		t.Errorf("Repeated length must be 1886 m, but got %v", v)
	}
}

func lengthFixture() *Store {
	store := NewStore()
	store.AddWay(&Way{ID: 1, Geom: orb.LineString{{11, 46}, {11, 46.01}}})
	store.AddWay(&Way{ID: 2, Geom: orb.LineString{{11, 46}, {11.01, 46}}})
	store.AddRoute(&Route{ID: 10, Members: []osm.WayID{1, 2, 1}})
	store.AddRoute(&Route{ID: 20, Members: []osm.WayID{2}})
	store.AddRoute(&Route{ID: 30, Members: []osm.WayID{2, 3}})
	return store
}

func TestRouteLength(t *testing.T) {
	store := lengthFixture()
	proj := MustProjection(EPSG_LAEA_EUROPE)
	route, _ := store.Route(10)
	v, err := RouteLength(route, store, proj, UNIT_METERS)
	if err != nil {
		t.Error(err)
		return
	}
	if v != 1886 {
		t.Errorf("Duplicated member must be counted once: length must be 1886 m, but got %v", v)
	}
	route, _ = store.Route(30)
	_, err = RouteLength(route, store, proj, UNIT_METERS)
	if !errors.Is(err, ErrMissingMemberWay) {
		t.Errorf("Error must be ErrMissingMemberWay, but got %v", err)
	}
}

func TestTotalLength(t *testing.T) {
	store := lengthFixture()
	proj := MustProjection(EPSG_LAEA_EUROPE)
	total, errs := TotalLength(store.Routes(), store, proj, UNIT_METERS)
	if total != 1886 {
		t.Errorf("Shared way must be counted once: total must be 1886 m, but got %v", total)
	}
	if len(errs) != 1 {
		t.Errorf("Number of errors must be 1, but got %d", len(errs))
		return
	}
	var entityErr *EntityError
	if !errors.As(errs[0], &entityErr) || entityErr.ID != "30" {
		t.Errorf("Error must be attributed to route 30, but got %v", errs[0])
	}
}
