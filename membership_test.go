package caiosm

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

func TestBuildMembership(t *testing.T) {
	segments := []*Segment{
		{ID: "1", WayID: 1, Geom: orb.LineString{{0, 0}, {1, 0}}},
		{ID: "2", WayID: 1, Geom: orb.LineString{{1, 0}, {2, 0}}},
		{ID: "3", WayID: 2, Geom: orb.LineString{{1, -1}, {1, 0}}},
	}
	routes := []*Route{
		{ID: 10, Members: []osm.WayID{2, 1, 2}},
		{ID: 20, Members: []osm.WayID{1, 99}},
	}
	edges := BuildMembership(routes, segments)
	correct := []struct {
		route   osm.RelationID
		segment string
	}{
		{10, "3"},
		{10, "1"},
		{10, "2"},
		{20, "1"},
		{20, "2"},
	}
	if len(edges) != len(correct) {
		t.Errorf("Number of edges must be %d, but got %d", len(correct), len(edges))
		return
	}
	for i := range correct {
		if edges[i].RouteID != correct[i].route || edges[i].SegmentID != correct[i].segment {
			t.Errorf("Edge #%d must be (%d, %s), but got (%d, %s)", i, correct[i].route, correct[i].segment, edges[i].RouteID, edges[i].SegmentID)
		}
	}

	index := NewMembershipIndex(edges)
	if routes := index.Routes("1"); len(routes) != 2 || routes[0] != 10 || routes[1] != 20 {
		t.Errorf("Routes of segment '1' must be [10 20], but got %v", routes)
	}
	if segs := index.Segments(20); len(segs) != 2 {
		t.Errorf("Route 20 must have 2 segments, but got %v", segs)
	}
	if segs := index.Segments(30); len(segs) != 0 {
		t.Errorf("Unknown route must have no segments, but got %v", segs)
	}
}
