package caiosm

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PrimitiveHandler receives OSM primitives from a reader.
//
// Readers of this package deliver every Way before any Relation. Store doesn't rely on it:
// Routes keep way ids only and geometry is resolved after loading, so Validate reports
// references which are still unresolved once the stream is over.
type PrimitiveHandler interface {
	OnWay(way *osm.Way)
	OnRelation(relation *osm.Relation)
}

// Store holds Ways and Routes of single processing session
type Store struct {
	ways      map[osm.WayID]*Way
	malformed map[osm.WayID]*wayFailure
	routes    map[osm.RelationID]*Route
	logger    *zap.Logger
}

type wayFailure struct {
	way *Way
	err error
}

// NewStore returns empty store
func NewStore(options ...func(*Store)) *Store {
	store := &Store{
		ways:      make(map[osm.WayID]*Way),
		malformed: make(map[osm.WayID]*wayFailure),
		routes:    make(map[osm.RelationID]*Route),
		logger:    zap.NewNop(),
	}
	for _, option := range options {
		option(store)
	}
	return store
}

func WithStoreLogger(logger *zap.Logger) func(*Store) {
	return func(store *Store) {
		if logger != nil {
			store.logger = logger
		}
	}
}

// OnWay stores way. Way with an existing ID replaces the previous one.
func (store *Store) OnWay(way *osm.Way) {
	prepared := &Way{
		ID:   way.ID,
		Geom: make(orb.LineString, 0, len(way.Nodes)),
		Tags: make(osm.Tags, len(way.Tags)),
	}
	copy(prepared.Tags, way.Tags)
	for _, node := range way.Nodes {
		prepared.Geom = append(prepared.Geom, orb.Point{node.Lon, node.Lat})
	}
	store.AddWay(prepared)
}

// AddWay stores already prepared way
func (store *Store) AddWay(way *Way) {
	delete(store.ways, way.ID)
	delete(store.malformed, way.ID)
	if _, err := BuildWayGeometry(way); err != nil {
		store.logger.Warn("Way skipped", zap.Int64("way_id", int64(way.ID)), zap.Error(err))
		store.malformed[way.ID] = &wayFailure{way: way, err: err}
		return
	}
	store.ways[way.ID] = way
}

// OnRelation stores route. Members of other types than 'way' are dropped.
func (store *Store) OnRelation(relation *osm.Relation) {
	route := &Route{
		ID:      relation.ID,
		Members: make([]osm.WayID, 0, len(relation.Members)),
		Tags:    make(osm.Tags, len(relation.Tags)),
	}
	copy(route.Tags, relation.Tags)
	for _, member := range relation.Members {
		if member.Type != osm.TypeWay {
			continue
		}
		route.Members = append(route.Members, osm.WayID(member.Ref))
	}
	store.AddRoute(route)
}

// AddRoute stores already prepared route
func (store *Store) AddRoute(route *Route) {
	store.routes[route.ID] = route
}

// Way returns valid way by its ID
func (store *Store) Way(id osm.WayID) (*Way, bool) {
	way, ok := store.ways[id]
	return way, ok
}

// Route returns route by its ID
func (store *Store) Route(id osm.RelationID) (*Route, bool) {
	route, ok := store.routes[id]
	return route, ok
}

// hasWay reports whether way has been received (even if it is malformed)
func (store *Store) hasWay(id osm.WayID) bool {
	if _, ok := store.ways[id]; ok {
		return true
	}
	_, ok := store.malformed[id]
	return ok
}

// Ways returns valid ways sorted by ID
func (store *Store) Ways() []*Way {
	ways := make([]*Way, 0, len(store.ways))
	for _, way := range store.ways {
		ways = append(ways, way)
	}
	sort.Slice(ways, func(i, j int) bool {
		return ways[i].ID < ways[j].ID
	})
	return ways
}

// Routes returns routes sorted by ID
func (store *Store) Routes() []*Route {
	routes := make([]*Route, 0, len(store.routes))
	for _, route := range store.routes {
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].ID < routes[j].ID
	})
	return routes
}

// WaysNum returns number of valid ways
func (store *Store) WaysNum() int {
	return len(store.ways)
}

// RoutesNum returns number of routes
func (store *Store) RoutesNum() int {
	return len(store.routes)
}

// Errors returns malformed ways errors sorted by way ID
func (store *Store) Errors() []error {
	ids := make([]osm.WayID, 0, len(store.malformed))
	for id := range store.malformed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	errs := make([]error, 0, len(ids))
	for _, id := range ids {
		errs = append(errs, wayError(id, store.malformed[id].err))
	}
	return errs
}

// Validate checks that every way referenced by routes has been received
func (store *Store) Validate() []error {
	errs := []error{}
	for _, route := range store.Routes() {
		for _, wayID := range route.distinctMembers() {
			if !store.hasWay(wayID) {
				errs = append(errs, routeError(route.ID, errors.Wrapf(ErrMissingMemberWay, "way %d", wayID)))
			}
		}
	}
	return errs
}
