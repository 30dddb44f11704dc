package caiosm

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

func checkSegments(t *testing.T, segments []*Segment, correct []orb.LineString) {
	t.Helper()
	if len(segments) != len(correct) {
		t.Errorf("Number of segments must be %d, but got %d", len(correct), len(segments))
		return
	}
	for i := range correct {
		if !segments[i].Geom.Equal(correct[i]) {
			t.Errorf("Segment #%d must be %v, but got %v", i, correct[i], segments[i].Geom)
		}
	}
}

func TestSplitCrossing(t *testing.T) {
	inputs := []SplitInput{
		{WayID: 2, Geom: orb.LineString{{1, -1}, {1, 1}}},
		{WayID: 1, Geom: orb.LineString{{0, 0}, {2, 0}}, Attributes: Attributes{{Key: "k", Value: "v"}}},
	}
	segments, err := SplitAtIntersections(inputs, "T")
	if err != nil {
		t.Error(err)
		return
	}
	checkSegments(t, segments, []orb.LineString{
		{{0, 0}, {1, 0}},
		{{1, 0}, {2, 0}},
		{{1, -1}, {1, 0}},
		{{1, 0}, {1, 1}},
	})
	correctIDs := []string{"T1", "T2", "T3", "T4"}
	for i, segment := range segments {
		if segment.ID != correctIDs[i] {
			t.Errorf("ID of segment #%d must be '%s', but got '%s'", i, correctIDs[i], segment.ID)
		}
	}
	if segments[0].WayID != 1 || segments[3].WayID != 2 {
		t.Errorf("Segments must keep way IDs, but got %d and %d", segments[0].WayID, segments[3].WayID)
	}
	segments[0].Attributes[0].Value = "changed"
	if v, _ := segments[1].Attributes.Get("k"); v != "v" {
		t.Errorf("Attributes of segments must be independent, but got '%s'", v)
	}
	if inputs[1].Attributes[0].Value != "v" {
		t.Errorf("Input attributes must not be changed")
	}
}

func TestSplitSharedEndpoint(t *testing.T) {
	inputs := []SplitInput{
		{WayID: 1, Geom: orb.LineString{{0, 0}, {1, 0}}},
		{WayID: 2, Geom: orb.LineString{{1, 0}, {2, 1}}},
	}
	segments, err := SplitAtIntersections(inputs, "")
	if err != nil {
		t.Error(err)
		return
	}
	checkSegments(t, segments, []orb.LineString{
		{{0, 0}, {1, 0}},
		{{1, 0}, {2, 1}},
	})
	if segments[0].ID != "1" || segments[1].ID != "2" {
		t.Errorf("IDs must be '1' and '2', but got '%s' and '%s'", segments[0].ID, segments[1].ID)
	}
}

func TestSplitTJunction(t *testing.T) {
	inputs := []SplitInput{
		{WayID: 1, Geom: orb.LineString{{0, 0}, {2, 0}}},
		{WayID: 2, Geom: orb.LineString{{1, 0}, {1, 1}}},
	}
	segments, err := SplitAtIntersections(inputs, "")
	if err != nil {
		t.Error(err)
		return
	}
	checkSegments(t, segments, []orb.LineString{
		{{0, 0}, {1, 0}},
		{{1, 0}, {2, 0}},
		{{1, 0}, {1, 1}},
	})
}

func TestSplitAtVertex(t *testing.T) {
	inputs := []SplitInput{
		{WayID: 1, Geom: orb.LineString{{0, 0}, {1, 0}, {2, 0}}},
		{WayID: 2, Geom: orb.LineString{{1, -1}, {1, 1}}},
	}
	segments, err := SplitAtIntersections(inputs, "")
	if err != nil {
		t.Error(err)
		return
	}
	checkSegments(t, segments, []orb.LineString{
		{{0, 0}, {1, 0}},
		{{1, 0}, {2, 0}},
		{{1, -1}, {1, 0}},
		{{1, 0}, {1, 1}},
	})
}

func TestSplitCollinearOverlap(t *testing.T) {
	inputs := []SplitInput{
		{WayID: 1, Geom: orb.LineString{{0, 0}, {3, 0}}},
		{WayID: 2, Geom: orb.LineString{{1, 0}, {2, 0}, {2, 1}}},
	}
	points, err := FindIntersections(inputs)
	if err != nil {
		t.Error(err)
		return
	}
	if len(points) != 2 || !points[0].Equal(orb.Point{1, 0}) || !points[1].Equal(orb.Point{2, 0}) {
		t.Errorf("Intersections must be ends of overlap [[1 0] [2 0]], but got %v", points)
	}
	segments, err := SplitAtIntersections(inputs, "")
	if err != nil {
		t.Error(err)
		return
	}
	checkSegments(t, segments, []orb.LineString{
		{{0, 0}, {1, 0}},
		{{1, 0}, {2, 0}},
		{{2, 0}, {3, 0}},
		{{1, 0}, {2, 0}},
		{{2, 0}, {2, 1}},
	})
}

func TestSplitNoIntersections(t *testing.T) {
	inputs := []SplitInput{
		{WayID: 1, Geom: orb.LineString{{0, 0}, {1, 0}, {2, 0.5}}},
		{WayID: 2, Geom: orb.LineString{{0, 1}, {1, 1}, {2, 1.5}}},
	}
	segments, err := SplitAtIntersections(inputs, "")
	if err != nil {
		t.Error(err)
		return
	}
	checkSegments(t, segments, []orb.LineString{inputs[0].Geom, inputs[1].Geom})
}

func TestSplitIdempotent(t *testing.T) {
	inputs := []SplitInput{
		{WayID: 1, Geom: orb.LineString{{0, 0}, {2, 0}, {2, 2}}},
		{WayID: 2, Geom: orb.LineString{{1, -1}, {1, 1}, {3, 1}}},
	}
	first, err := SplitAtIntersections(inputs, "S")
	if err != nil {
		t.Error(err)
		return
	}
	again := make([]SplitInput, len(first))
	for i, segment := range first {
		again[i] = SplitInput{WayID: segment.WayID, Geom: segment.Geom}
	}
	second, err := SplitAtIntersections(again, "S")
	if err != nil {
		t.Error(err)
		return
	}
	if len(first) != len(second) {
		t.Errorf("Number of segments must be %d, but got %d", len(first), len(second))
		return
	}
	for i := range first {
		if first[i].ID != second[i].ID || !first[i].Geom.Equal(second[i].Geom) {
			t.Errorf("Segment #%d must be %s %v, but got %s %v", i, first[i].ID, first[i].Geom, second[i].ID, second[i].Geom)
		}
	}
}

func TestSplitMalformed(t *testing.T) {
	inputs := []SplitInput{
		{WayID: 1, Geom: orb.LineString{{0, 0}, {1, 0}}},
		{WayID: 2, Geom: orb.LineString{{1, 0}}},
	}
	_, err := SplitAtIntersections(inputs, "")
	if !errors.Is(err, ErrMalformedGeometry) {
		t.Errorf("Error must be ErrMalformedGeometry, but got %v", err)
	}
}

func TestSplitLine(t *testing.T) {
	line := orb.LineString{{0, 0}, {4, 0}}
	parts := SplitLine(line, orb.MultiPoint{{3, 0}, {1, 0}, {0, 0}, {5, 5}, {1, 0}})
	correct := []orb.LineString{
		{{0, 0}, {1, 0}},
		{{1, 0}, {3, 0}},
		{{3, 0}, {4, 0}},
	}
	if len(parts) != len(correct) {
		t.Errorf("Number of parts must be %d, but got %d", len(correct), len(parts))
		return
	}
	for i := range correct {
		if !parts[i].Equal(correct[i]) {
			t.Errorf("Part #%d must be %v, but got %v", i, correct[i], parts[i])
		}
	}
}
