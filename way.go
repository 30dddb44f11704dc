package caiosm

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// Way is an OSM way with coordinates already resolved
type Way struct {
	ID   osm.WayID
	Geom orb.LineString
	Tags osm.Tags
}

// Route is an OSM relation of hiking route. Only way-typed members are kept
type Route struct {
	ID      osm.RelationID
	Members []osm.WayID
	Tags    osm.Tags
}

// distinctMembers returns members of route with duplicates removed (first occurrence wins)
func (route *Route) distinctMembers() []osm.WayID {
	seen := make(map[osm.WayID]struct{}, len(route.Members))
	members := make([]osm.WayID, 0, len(route.Members))
	for _, wayID := range route.Members {
		if _, ok := seen[wayID]; ok {
			continue
		}
		seen[wayID] = struct{}{}
		members = append(members, wayID)
	}
	return members
}
