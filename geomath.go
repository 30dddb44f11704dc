package caiosm

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	earthRadius = 6370.986884258304

	// Tolerance (degrees / segment fraction) for intersections and split points
	splitTolerance = 1e-9
)

// greatCircleDistance returns distance between two geo-points (kilometers)
func greatCircleDistance(p, q orb.Point) float64 {
	lat1 := degreesToRadians(p.Lat())
	lon1 := degreesToRadians(p.Lon())
	lat2 := degreesToRadians(q.Lat())
	lon2 := degreesToRadians(q.Lon())
	diffLat := lat2 - lat1
	diffLon := lon2 - lon1
	a := math.Pow(math.Sin(diffLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(diffLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	ans := c * earthRadius
	return ans
}

// getSphericalLength returns length for given line (kilometers)
func getSphericalLength(line orb.LineString) float64 {
	totalLength := 0.0
	if len(line) < 2 {
		return totalLength
	}
	for i := 1; i < len(line); i++ {
		totalLength += greatCircleDistance(line[i-1], line[i])
	}
	return totalLength
}

// findDistance returns distance between two points (assuming they are Euclidean: Lon == X, Lat == Y)
func findDistance(p, q orb.Point) float64 {
	xdistance := p.Lon() - q.Lon()
	ydistance := p.Lat() - q.Lat()
	return math.Sqrt(xdistance*xdistance + ydistance*ydistance)
}

// pointOnSegmentByFraction returns a point on given segment using fraction of its length
func pointOnSegmentByFraction(p, q orb.Point, fraction float64) orb.Point {
	return orb.Point{
		(1-fraction)*p.Lon() + (fraction * q.Lon()),
		(1-fraction)*p.Lat() + (fraction * q.Lat()),
	}
}

type intersectionKind uint16

const (
	INTERSECTION_NONE = intersectionKind(iota + 1)
	INTERSECTION_POINT
	INTERSECTION_OVERLAP
)

// segmentsIntersection is a result of two segments intersection.
// For INTERSECTION_POINT only first elements of points/t are set.
// For INTERSECTION_OVERLAP points are ends of the overlap ordered along the first segment.
// t holds positions of points on the first segment (fraction of its length).
type segmentsIntersection struct {
	kind   intersectionKind
	points [2]orb.Point
	t      [2]float64
}

func cross(a, b orb.Point) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

func dot(a, b orb.Point) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

func sub(a, b orb.Point) orb.Point {
	return orb.Point{a[0] - b[0], a[1] - b[1]}
}

// snapFraction moves fraction to 0 or 1 when it is close enough
func snapFraction(t float64) float64 {
	if math.Abs(t) <= splitTolerance {
		return 0
	}
	if math.Abs(t-1) <= splitTolerance {
		return 1
	}
	return t
}

// intersect checks if two segments intersect
// p1, p2 - first segment
// p3, p4 - second segment
// Note: Euclidean space
func intersect(p1, p2, p3, p4 orb.Point) segmentsIntersection {
	none := segmentsIntersection{kind: INTERSECTION_NONE}
	d1 := sub(p2, p1)
	d2 := sub(p4, p3)
	len1 := math.Sqrt(dot(d1, d1))
	len2 := math.Sqrt(dot(d2, d2))
	if len1 == 0 || len2 == 0 {
		return none
	}
	r := sub(p3, p1)
	denom := cross(d1, d2)
	if math.Abs(denom) > splitTolerance*len1*len2 {
		t := cross(r, d2) / denom
		u := cross(r, d1) / denom
		if t < -splitTolerance || t > 1+splitTolerance || u < -splitTolerance || u > 1+splitTolerance {
			return none
		}
		t, u = snapFraction(t), snapFraction(u)
		// Prefer existing vertices over computed coordinates
		var pt orb.Point
		switch {
		case t == 0:
			pt = p1
		case t == 1:
			pt = p2
		case u == 0:
			pt = p3
		case u == 1:
			pt = p4
		default:
			pt = pointOnSegmentByFraction(p1, p2, t)
		}
		return segmentsIntersection{kind: INTERSECTION_POINT, points: [2]orb.Point{pt}, t: [2]float64{t}}
	}
	// Parallel: only collinear segments can touch or overlap
	if math.Abs(cross(r, d1))/len1 > splitTolerance {
		return none
	}
	sq := dot(d1, d1)
	t3 := snapFraction(dot(sub(p3, p1), d1) / sq)
	t4 := snapFraction(dot(sub(p4, p1), d1) / sq)
	lo, loPt := t3, p3
	hi, hiPt := t4, p4
	if lo > hi {
		lo, loPt, hi, hiPt = hi, hiPt, lo, loPt
	}
	if lo < 0 {
		lo, loPt = 0, p1
	}
	if hi > 1 {
		hi, hiPt = 1, p2
	}
	if lo > hi+splitTolerance {
		return none
	}
	if hi-lo <= splitTolerance {
		return segmentsIntersection{kind: INTERSECTION_POINT, points: [2]orb.Point{loPt}, t: [2]float64{lo}}
	}
	return segmentsIntersection{kind: INTERSECTION_OVERLAP, points: [2]orb.Point{loPt, hiPt}, t: [2]float64{lo, hi}}
}

// locateOnSegment returns fraction of segment [p, q] where the point lies.
// Second value is false when the point is farther than tolerance from the segment.
func locateOnSegment(p, q, pt orb.Point) (float64, bool) {
	d := sub(q, p)
	sq := dot(d, d)
	if sq == 0 {
		return 0, false
	}
	t := dot(sub(pt, p), d) / sq
	if t < -splitTolerance || t > 1+splitTolerance {
		return 0, false
	}
	t = snapFraction(math.Max(0, math.Min(1, t)))
	var proj orb.Point
	switch t {
	case 0:
		proj = p
	case 1:
		proj = q
	default:
		proj = pointOnSegmentByFraction(p, q, t)
	}
	if findDistance(proj, pt) > splitTolerance {
		return 0, false
	}
	return t, true
}

// segmentBound returns bound of segment padded by tolerance
func segmentBound(p, q orb.Point) orb.Bound {
	return orb.Bound{Min: p, Max: p}.Extend(q).Pad(splitTolerance)
}
