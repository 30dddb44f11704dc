package caiosm

import (
	"math"
	"sort"

	"github.com/LdDl/ch"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/quadtree"
	"github.com/pkg/errors"
)

var (
	// ErrNoPath Vertices of the network are not connected
	ErrNoPath = errors.New("no path")
	// ErrEmptyNetwork Network has no segments
	ErrEmptyNetwork = errors.New("empty network")
)

// Precision of vertices coordinates (degrees)
const vertexSnapping = 1e-7

// SegmentNetwork is a routable graph: vertices are ends of segments, edges are segments in both directions
type SegmentNetwork struct {
	graph    ch.Graph
	vertices map[[2]int64]int64
	points   []orb.Point
	edges    map[[2]int64]networkEdge
	tree     *quadtree.Quadtree
	prepared bool
}

type networkEdge struct {
	segmentID string
	meters    float64
}

type vertexPointer struct {
	id int64
	pt orb.Point
}

func (vertex vertexPointer) Point() orb.Point {
	return vertex.pt
}

// NewSegmentNetwork builds graph from segments. Weights are lengths in meters measured in projection proj
// (great circle distance for WGS84). Parallel segments between the same vertices keep the shortest one.
func NewSegmentNetwork(segments []*Segment, proj Projection) (*SegmentNetwork, error) {
	network := &SegmentNetwork{
		graph:    ch.Graph{},
		vertices: make(map[[2]int64]int64),
		points:   []orb.Point{},
		edges:    make(map[[2]int64]networkEdge),
	}
	if len(segments) == 0 {
		return network, nil
	}
	for _, segment := range segments {
		if len(segment.Geom) < 2 {
			continue
		}
		source, err := network.vertex(segment.Geom[0])
		if err != nil {
			return nil, err
		}
		target, err := network.vertex(segment.Geom[len(segment.Geom)-1])
		if err != nil {
			return nil, err
		}
		if source == target {
			// Closed way: useless for routing
			continue
		}
		meters := segmentMeters(segment.Geom, proj)
		for _, pair := range [][2]int64{{source, target}, {target, source}} {
			if existing, ok := network.edges[pair]; ok && existing.meters <= meters {
				continue
			}
			network.edges[pair] = networkEdge{segmentID: segment.ID, meters: meters}
		}
	}
	pairs := make([][2]int64, 0, len(network.edges))
	for pair := range network.edges {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	for _, pair := range pairs {
		err := network.graph.AddEdge(pair[0], pair[1], network.edges[pair].meters)
		if err != nil {
			return nil, errors.Wrap(err, "Can not wrap Source and Target vertices as Edge")
		}
	}

	bound := orb.MultiPoint(network.points).Bound().Pad(vertexSnapping)
	network.tree = quadtree.New(bound)
	for id, pt := range network.points {
		err := network.tree.Add(vertexPointer{id: int64(id), pt: pt})
		if err != nil {
			return nil, errors.Wrap(err, "Can't index vertex")
		}
	}
	return network, nil
}

func segmentMeters(line orb.LineString, proj Projection) float64 {
	if proj.Identity() {
		return getSphericalLength(line) * 1000.0
	}
	return planar.Length(proj.Project(line))
}

func (network *SegmentNetwork) vertex(pt orb.Point) (int64, error) {
	key := [2]int64{int64(math.Round(pt[0] / vertexSnapping)), int64(math.Round(pt[1] / vertexSnapping))}
	if id, ok := network.vertices[key]; ok {
		return id, nil
	}
	id := int64(len(network.points))
	err := network.graph.CreateVertex(id)
	if err != nil {
		return 0, errors.Wrap(err, "Can not create vertex")
	}
	network.vertices[key] = id
	network.points = append(network.points, pt)
	return id, nil
}

// VerticesNum returns number of vertices
func (network *SegmentNetwork) VerticesNum() int {
	return len(network.points)
}

// EdgesNum returns number of directed edges
func (network *SegmentNetwork) EdgesNum() int {
	return len(network.edges)
}

// Nearest returns vertex closest to the point and distance to it in meters
func (network *SegmentNetwork) Nearest(pt orb.Point) (int64, float64, error) {
	if network.tree == nil {
		return 0, 0, ErrEmptyNetwork
	}
	found := network.tree.Find(pt)
	if found == nil {
		return 0, 0, ErrEmptyNetwork
	}
	vertex := found.(vertexPointer)
	return vertex.id, greatCircleDistance(pt, vertex.pt) * 1000.0, nil
}

// ShortestPath snaps both points to the nearest vertices and returns length of the path in meters
// and IDs of segments along it. Contraction hierarchies are prepared on first call.
func (network *SegmentNetwork) ShortestPath(from, to orb.Point) (float64, []string, error) {
	source, _, err := network.Nearest(from)
	if err != nil {
		return 0, nil, err
	}
	target, _, err := network.Nearest(to)
	if err != nil {
		return 0, nil, err
	}
	if source == target {
		return 0, []string{}, nil
	}
	if !network.prepared {
		network.graph.PrepareContractionHierarchies()
		network.prepared = true
	}
	cost, path := network.graph.ShortestPath(source, target)
	if cost < 0 || len(path) < 2 {
		return 0, nil, errors.Wrapf(ErrNoPath, "from vertex %d to vertex %d", source, target)
	}
	segmentIDs := make([]string, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		edge, ok := network.edges[[2]int64{path[i-1], path[i]}]
		if !ok {
			return 0, nil, errors.Errorf("path goes through unknown edge %d -> %d", path[i-1], path[i])
		}
		segmentIDs = append(segmentIDs, edge.segmentID)
	}
	return cost, segmentIDs, nil
}
