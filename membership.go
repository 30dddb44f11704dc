package caiosm

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// MembershipEdge binds route to one of the segments of its member ways
type MembershipEdge struct {
	RouteID   osm.RelationID
	SegmentID string
	WayID     osm.WayID
	Geom      orb.LineString
}

// BuildMembership emits one edge for every segment of every distinct member way of every route.
// Edges follow order of routes, then order of members, then split order. Member ways
// without segments (missing or malformed) produce no edges.
func BuildMembership(routes []*Route, segments []*Segment) []MembershipEdge {
	byWay := make(map[osm.WayID][]*Segment)
	for _, segment := range segments {
		byWay[segment.WayID] = append(byWay[segment.WayID], segment)
	}
	edges := []MembershipEdge{}
	for _, route := range routes {
		for _, wayID := range route.distinctMembers() {
			for _, segment := range byWay[wayID] {
				edges = append(edges, MembershipEdge{
					RouteID:   route.ID,
					SegmentID: segment.ID,
					WayID:     wayID,
					Geom:      segment.Geom,
				})
			}
		}
	}
	return edges
}

// MembershipIndex answers which segments belong to a route and which routes pass a segment
type MembershipIndex struct {
	segmentsByRoute map[osm.RelationID][]string
	routesBySegment map[string][]osm.RelationID
}

// NewMembershipIndex indexes given edges
func NewMembershipIndex(edges []MembershipEdge) *MembershipIndex {
	index := &MembershipIndex{
		segmentsByRoute: make(map[osm.RelationID][]string),
		routesBySegment: make(map[string][]osm.RelationID),
	}
	for _, edge := range edges {
		index.segmentsByRoute[edge.RouteID] = append(index.segmentsByRoute[edge.RouteID], edge.SegmentID)
		index.routesBySegment[edge.SegmentID] = append(index.routesBySegment[edge.SegmentID], edge.RouteID)
	}
	return index
}

// Segments returns segment IDs of the route
func (index *MembershipIndex) Segments(routeID osm.RelationID) []string {
	return index.segmentsByRoute[routeID]
}

// Routes returns IDs of routes passing the segment
func (index *MembershipIndex) Routes(segmentID string) []osm.RelationID {
	return index.routesBySegment[segmentID]
}
