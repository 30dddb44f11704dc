package caiosm

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

func networkFixture() []*Segment {
	a := orb.Point{11, 46}
	b := orb.Point{11.01, 46}
	c := orb.Point{11.01, 46.01}
	e := orb.Point{11.02, 46}
	f := orb.Point{12, 47}
	g := orb.Point{12.01, 47}
	return []*Segment{
		{ID: "S1", Geom: orb.LineString{a, b}},
		{ID: "S2", Geom: orb.LineString{b, c}},
		{ID: "S3", Geom: orb.LineString{b, e}},
		{ID: "S4", Geom: orb.LineString{f, g}},
		// Longer parallel to S1
		{ID: "S5", Geom: orb.LineString{a, {11.005, 46.005}, b}},
		// Closed
		{ID: "S6", Geom: orb.LineString{c, {11.015, 46.015}, {11.01, 46.015}, c}},
	}
}

func TestSegmentNetwork(t *testing.T) {
	segments := networkFixture()
	network, err := NewSegmentNetwork(segments, MustProjection(EPSG_WGS84))
	if err != nil {
		t.Error(err)
		return
	}
	if network.VerticesNum() != 6 {
		t.Errorf("Number of vertices must be 6, but got %d", network.VerticesNum())
	}
	if network.EdgesNum() != 8 {
		t.Errorf("Number of directed edges must be 8, but got %d", network.EdgesNum())
	}

	id, meters, err := network.Nearest(orb.Point{11.0001, 46})
	if err != nil {
		t.Error(err)
		return
	}
	if id != 0 || meters > 10 {
		t.Errorf("Nearest vertex must be 0 within 10 meters, but got %d (%f m)", id, meters)
	}

	cost, path, err := network.ShortestPath(orb.Point{11, 46}, orb.Point{11.01, 46.01})
	if err != nil {
		t.Error(err)
		return
	}
	correctCost := (getSphericalLength(segments[0].Geom) + getSphericalLength(segments[1].Geom)) * 1000.0
	if math.Abs(cost-correctCost) > 1e-6 {
		t.Errorf("Cost must be %f, but got %f", correctCost, cost)
	}
	if len(path) != 2 || path[0] != "S1" || path[1] != "S2" {
		t.Errorf("Path must be [S1 S2], but got %v", path)
	}

	cost, path, err = network.ShortestPath(orb.Point{11.01, 46.01}, orb.Point{11.01, 46.01})
	if err != nil || cost != 0 || len(path) != 0 {
		t.Errorf("Path to itself must be empty, but got %f %v %v", cost, path, err)
	}

	_, _, err = network.ShortestPath(orb.Point{11, 46}, orb.Point{12, 47})
	if !errors.Is(err, ErrNoPath) {
		t.Errorf("Error must be ErrNoPath, but got %v", err)
	}
}

func TestSegmentNetworkEmpty(t *testing.T) {
	network, err := NewSegmentNetwork(nil, MustProjection(EPSG_WGS84))
	if err != nil {
		t.Error(err)
		return
	}
	_, _, err = network.ShortestPath(orb.Point{11, 46}, orb.Point{12, 47})
	if !errors.Is(err, ErrEmptyNetwork) {
		t.Errorf("Error must be ErrEmptyNetwork, but got %v", err)
	}
}
