package caiosm

import (
	"math"
	"sort"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// SplitInput is a way line with its classified attributes
type SplitInput struct {
	WayID      osm.WayID
	Geom       orb.LineString
	Attributes Attributes
}

// Segment is a part of single way between intersections
type Segment struct {
	ID         string
	WayID      osm.WayID
	Geom       orb.LineString
	Attributes Attributes
}

// SplitAtIntersections splits every line at every point of the cumulative intersection set which lies on it.
//
// Segment IDs are sequential across the batch starting from 1 (in way ID order, then in split order)
// and prefixed with given prefix. Input is not modified.
func SplitAtIntersections(inputs []SplitInput, prefix string) ([]*Segment, error) {
	sorted, err := prepareSplitInputs(inputs)
	if err != nil {
		return nil, err
	}
	points := findIntersections(sorted)
	index := newPointIndex(sorted, points)

	segments := make([]*Segment, 0, len(sorted))
	seq := 0
	for _, input := range sorted {
		for _, part := range splitLine(input.Geom, index) {
			seq++
			segments = append(segments, &Segment{
				ID:         prefix + strconv.Itoa(seq),
				WayID:      input.WayID,
				Geom:       part,
				Attributes: input.Attributes.Clone(),
			})
		}
	}
	return segments, nil
}

// FindIntersections returns cumulative set of intersection points of given lines ordered by (lon, lat).
// Overlapping collinear parts contribute their two ends only.
func FindIntersections(inputs []SplitInput) (orb.MultiPoint, error) {
	sorted, err := prepareSplitInputs(inputs)
	if err != nil {
		return nil, err
	}
	return findIntersections(sorted), nil
}

// SplitLine splits line at given points. Points which are not on the line or match its ends are ignored.
func SplitLine(line orb.LineString, points orb.MultiPoint) []orb.LineString {
	if len(line) < 2 {
		return nil
	}
	input := []SplitInput{{Geom: line}}
	return splitLine(line, newPointIndex(input, points))
}

func prepareSplitInputs(inputs []SplitInput) ([]SplitInput, error) {
	sorted := make([]SplitInput, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WayID < sorted[j].WayID
	})
	for _, input := range sorted {
		if len(input.Geom) < 2 {
			return nil, wayError(input.WayID, errors.Wrapf(ErrMalformedGeometry, "can't split line of %d point(s)", len(input.Geom)))
		}
	}
	return sorted, nil
}

// findIntersections sweeps bounds of lines by longitude to get candidate pairs
func findIntersections(inputs []SplitInput) orb.MultiPoint {
	bounds := make([]orb.Bound, len(inputs))
	order := make([]int, len(inputs))
	for i := range inputs {
		bounds[i] = inputs[i].Geom.Bound().Pad(splitTolerance)
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return bounds[order[i]].Min.X() < bounds[order[j]].Min.X()
	})

	set := newPointSet()
	for a := 0; a < len(order); a++ {
		i := order[a]
		for b := a + 1; b < len(order); b++ {
			j := order[b]
			if bounds[j].Min.X() > bounds[i].Max.X() {
				break
			}
			if !bounds[i].Intersects(bounds[j]) {
				continue
			}
			first, second := i, j
			if inputs[second].WayID < inputs[first].WayID {
				first, second = second, first
			}
			for _, pt := range linesIntersection(inputs[first].Geom, inputs[second].Geom) {
				set.add(pt)
			}
		}
	}
	return set.sorted()
}

// overlapInterval is a collinear overlap of two lines. Positions are measured along the first line
// as segment index plus fraction.
type overlapInterval struct {
	from, to   float64
	fromP, toP orb.Point
}

type linePoint struct {
	pos float64
	pt  orb.Point
}

// linesIntersection returns intersection points of two lines.
// Consecutive collinear overlaps are merged and only the ends of merged overlaps are returned.
func linesIntersection(l1, l2 orb.LineString) []orb.Point {
	points := []linePoint{}
	overlaps := []overlapInterval{}
	for i := 0; i < len(l1)-1; i++ {
		b1 := segmentBound(l1[i], l1[i+1])
		for j := 0; j < len(l2)-1; j++ {
			if !b1.Intersects(segmentBound(l2[j], l2[j+1])) {
				continue
			}
			res := intersect(l1[i], l1[i+1], l2[j], l2[j+1])
			switch res.kind {
			case INTERSECTION_POINT:
				points = append(points, linePoint{pos: float64(i) + res.t[0], pt: res.points[0]})
			case INTERSECTION_OVERLAP:
				overlaps = append(overlaps, overlapInterval{
					from:  float64(i) + res.t[0],
					to:    float64(i) + res.t[1],
					fromP: res.points[0],
					toP:   res.points[1],
				})
			}
		}
	}
	if len(overlaps) == 0 {
		ans := make([]orb.Point, len(points))
		for i := range points {
			ans[i] = points[i].pt
		}
		return ans
	}

	merged := mergeOverlaps(overlaps)
	ans := make([]orb.Point, 0, len(points)+2*len(merged))
	for _, interval := range merged {
		ans = append(ans, interval.fromP, interval.toP)
	}
	for _, p := range points {
		inside := false
		for _, interval := range merged {
			if p.pos >= interval.from-splitTolerance && p.pos <= interval.to+splitTolerance {
				inside = true
				break
			}
		}
		if !inside {
			ans = append(ans, p.pt)
		}
	}
	return ans
}

func mergeOverlaps(overlaps []overlapInterval) []overlapInterval {
	sort.Slice(overlaps, func(i, j int) bool {
		return overlaps[i].from < overlaps[j].from
	})
	merged := []overlapInterval{overlaps[0]}
	for _, interval := range overlaps[1:] {
		last := &merged[len(merged)-1]
		if interval.from <= last.to+splitTolerance {
			if interval.to > last.to {
				last.to, last.toP = interval.to, interval.toP
			}
			continue
		}
		merged = append(merged, interval)
	}
	return merged
}

// pointSet deduplicates points within tolerance
type pointSet struct {
	points map[[2]int64]orb.Point
}

func newPointSet() *pointSet {
	return &pointSet{points: make(map[[2]int64]orb.Point)}
}

func pointKey(pt orb.Point) [2]int64 {
	return [2]int64{int64(math.Round(pt[0] / splitTolerance)), int64(math.Round(pt[1] / splitTolerance))}
}

func (set *pointSet) add(pt orb.Point) {
	key := pointKey(pt)
	if _, ok := set.points[key]; ok {
		return
	}
	set.points[key] = pt
}

func (set *pointSet) sorted() orb.MultiPoint {
	ans := make(orb.MultiPoint, 0, len(set.points))
	for _, pt := range set.points {
		ans = append(ans, pt)
	}
	sort.Slice(ans, func(i, j int) bool {
		if ans[i][0] != ans[j][0] {
			return ans[i][0] < ans[j][0]
		}
		return ans[i][1] < ans[j][1]
	})
	return ans
}

// pointIndex is a quadtree over split points
type pointIndex struct {
	tree  *quadtree.Quadtree
	empty bool
}

func newPointIndex(inputs []SplitInput, points orb.MultiPoint) *pointIndex {
	if len(points) == 0 {
		return &pointIndex{empty: true}
	}
	bound := points.Bound()
	for _, input := range inputs {
		bound = bound.Union(input.Geom.Bound())
	}
	tree := quadtree.New(bound.Pad(splitTolerance))
	for _, pt := range points {
		// Can't fail: bound contains every point
		_ = tree.Add(pt)
	}
	return &pointIndex{tree: tree}
}

func (index *pointIndex) inBound(bound orb.Bound) []orb.Pointer {
	if index.empty {
		return nil
	}
	return index.tree.InBound(nil, bound)
}

// splitLine splits line at indexed points lying on it. Ends of the line never split it.
func splitLine(line orb.LineString, index *pointIndex) []orb.LineString {
	last := float64(len(line) - 1)
	cuts := []linePoint{}
	for i := 0; i < len(line)-1; i++ {
		for _, found := range index.inBound(segmentBound(line[i], line[i+1])) {
			pt := found.Point()
			t, ok := locateOnSegment(line[i], line[i+1], pt)
			if !ok {
				continue
			}
			pos := float64(i) + t
			if pos <= splitTolerance || pos >= last-splitTolerance {
				continue
			}
			switch t {
			case 0:
				pt = line[i]
			case 1:
				pt = line[i+1]
			}
			cuts = append(cuts, linePoint{pos: pos, pt: pt})
		}
	}
	if len(cuts) == 0 {
		return []orb.LineString{line.Clone()}
	}
	sort.Slice(cuts, func(i, j int) bool {
		return cuts[i].pos < cuts[j].pos
	})

	parts := []orb.LineString{}
	current := orb.LineString{line[0]}
	c := 0
	for i := 0; i < len(line)-1; i++ {
		for c < len(cuts) && cuts[c].pos < float64(i+1)-splitTolerance {
			pt := cuts[c].pt
			c++
			if !pt.Equal(current[len(current)-1]) {
				current = append(current, pt)
			}
			if len(current) < 2 {
				continue
			}
			parts = append(parts, current)
			current = orb.LineString{pt}
		}
		if !line[i+1].Equal(current[len(current)-1]) {
			current = append(current, line[i+1])
		}
		// Cut at the vertex which ends current segment
		for c < len(cuts) && cuts[c].pos <= float64(i+1)+splitTolerance {
			c++
			if len(current) < 2 {
				continue
			}
			parts = append(parts, current)
			current = orb.LineString{line[i+1]}
		}
	}
	if len(current) >= 2 {
		parts = append(parts, current)
	}
	return parts
}
