package caiosm

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// RouteFilter selects relations to be read. Nil filter accepts every relation.
type RouteFilter func(relation *osm.Relation) bool

var hikingRouteTypes = map[string]struct{}{
	"hiking": {},
	"foot":   {},
}

// HikingRoutes accepts 'type=route' relations with 'route' tag 'hiking' or 'foot'
func HikingRoutes(relation *osm.Relation) bool {
	if relation.Tags.Find("type") != "route" {
		return false
	}
	_, ok := hikingRouteTypes[relation.Tags.Find("route")]
	return ok
}

type readerConfig struct {
	filter RouteFilter
	logger *zap.Logger
}

type ReaderOption func(*readerConfig)

// WithReaderFilter sets filter of relations. Nil means every relation.
func WithReaderFilter(filter RouteFilter) ReaderOption {
	return func(cfg *readerConfig) {
		cfg.filter = filter
	}
}

func WithReaderLogger(logger *zap.Logger) ReaderOption {
	return func(cfg *readerConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func newReaderConfig(options ...ReaderOption) *readerConfig {
	cfg := &readerConfig{
		filter: HikingRoutes,
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

func (cfg *readerConfig) accept(relation *osm.Relation) bool {
	return cfg.filter == nil || cfg.filter(relation)
}

// ReadOSMFile reads routes and their member ways from '.osm'/'.xml', '.pbf' or Overpass '.json' file.
//
// Every Way is delivered to handler before any Relation; both are ordered by ID.
// Coordinates of way nodes are resolved: nodes without coordinates are dropped from the way.
func ReadOSMFile(filename string, handler PrimitiveHandler, options ...ReaderOption) error {
	cfg := newReaderConfig(options...)
	cfg.logger.Info("Opening file", zap.String("filename", filename))
	var raw *rawData
	var err error
	switch fileExtension(filename) {
	case ".json":
		raw, err = readOverpassJSON(filename, cfg)
	case ".osm", ".xml", ".pbf", ".osm.pbf":
		raw, err = readOSMScanner(filename, cfg)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "File extension '%s' for file '%s' is not handled yet", filepath.Ext(filename), filename)
	}
	if err != nil {
		return err
	}
	raw.deliver(handler, cfg)
	return nil
}

func fileExtension(filename string) string {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".osm.pbf") {
		return ".osm.pbf"
	}
	return filepath.Ext(lower)
}

func newScanner(ctx context.Context, filename string, file io.Reader) (OSMScanner, error) {
	switch fileExtension(filename) {
	case ".osm", ".xml":
		return osmxml.New(ctx, file), nil
	case ".pbf", ".osm.pbf":
		return osmpbf.New(ctx, file, 4), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "File extension '%s' for file '%s' is not handled yet", filepath.Ext(filename), filename)
	}
}

// rawData is everything needed to deliver routes with resolved way geometries
type rawData struct {
	nodes     map[osm.NodeID]orb.Point
	ways      map[osm.WayID]*osm.Way
	relations map[osm.RelationID]*osm.Relation
}

func newRawData() *rawData {
	return &rawData{
		nodes:     make(map[osm.NodeID]orb.Point),
		ways:      make(map[osm.WayID]*osm.Way),
		relations: make(map[osm.RelationID]*osm.Relation),
	}
}

// readOSMScanner does three passes: relations, their member ways, nodes of those ways
func readOSMScanner(filename string, cfg *readerConfig) (*rawData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open file")
	}
	defer file.Close()

	raw := newRawData()
	memberWays := make(map[osm.WayID]struct{})
	nodesSeen := make(map[osm.NodeID]struct{})

	passes := []struct {
		name  string
		visit func(obj osm.Object)
	}{
		{
			name: "relations",
			visit: func(obj osm.Object) {
				relation, ok := obj.(*osm.Relation)
				if !ok || !cfg.accept(relation) {
					return
				}
				raw.relations[relation.ID] = relation
				for _, member := range relation.Members {
					if member.Type == osm.TypeWay {
						memberWays[osm.WayID(member.Ref)] = struct{}{}
					}
				}
			},
		},
		{
			name: "ways",
			visit: func(obj osm.Object) {
				way, ok := obj.(*osm.Way)
				if !ok {
					return
				}
				if _, ok := memberWays[way.ID]; !ok {
					return
				}
				raw.ways[way.ID] = way
				for _, node := range way.Nodes {
					nodesSeen[node.ID] = struct{}{}
				}
			},
		},
		{
			name: "nodes",
			visit: func(obj osm.Object) {
				node, ok := obj.(*osm.Node)
				if !ok {
					return
				}
				if _, ok := nodesSeen[node.ID]; ok {
					raw.nodes[node.ID] = orb.Point{node.Lon, node.Lat}
				}
			},
		},
	}

	for i, pass := range passes {
		if i > 0 {
			// Seek file to start
			_, err = file.Seek(0, io.SeekStart)
			if err != nil {
				return nil, errors.Wrapf(err, "Can't repeat seeking before %s scanning", pass.name)
			}
		}
		st := time.Now()
		scanner, err := newScanner(context.Background(), filename, file)
		if err != nil {
			return nil, err
		}
		for scanner.Scan() {
			pass.visit(scanner.Object())
		}
		err = scanner.Err()
		scanner.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "Can't scan %s", pass.name)
		}
		cfg.logger.Info("Processing "+pass.name, zap.Duration("done_in", time.Since(st)))
	}
	cfg.logger.Info("File has been read",
		zap.Int("relations", len(raw.relations)),
		zap.Int("ways", len(raw.ways)),
		zap.Int("nodes", len(raw.nodes)),
	)
	return raw, nil
}

// deliver passes ways (sorted by ID) and then relations (sorted by ID) to handler.
// Relations are filtered again and only their member ways are delivered.
func (raw *rawData) deliver(handler PrimitiveHandler, cfg *readerConfig) {
	relationIDs := make([]osm.RelationID, 0, len(raw.relations))
	memberWays := make(map[osm.WayID]struct{})
	for id, relation := range raw.relations {
		if !cfg.accept(relation) {
			continue
		}
		relationIDs = append(relationIDs, id)
		for _, member := range relation.Members {
			if member.Type == osm.TypeWay {
				memberWays[osm.WayID(member.Ref)] = struct{}{}
			}
		}
	}
	sort.Slice(relationIDs, func(i, j int) bool {
		return relationIDs[i] < relationIDs[j]
	})

	wayIDs := make([]osm.WayID, 0, len(memberWays))
	for id := range memberWays {
		if _, ok := raw.ways[id]; ok {
			wayIDs = append(wayIDs, id)
		}
	}
	sort.Slice(wayIDs, func(i, j int) bool {
		return wayIDs[i] < wayIDs[j]
	})

	for _, id := range wayIDs {
		handler.OnWay(raw.resolveWay(raw.ways[id], cfg.logger))
	}
	for _, id := range relationIDs {
		handler.OnRelation(raw.relations[id])
	}
}

// resolveWay returns copy of way with coordinates of every node set.
// Coordinates embedded into the way (e.g. Overpass 'out geom') take precedence.
func (raw *rawData) resolveWay(way *osm.Way, logger *zap.Logger) *osm.Way {
	resolved := *way
	resolved.Nodes = make(osm.WayNodes, 0, len(way.Nodes))
	for _, node := range way.Nodes {
		if node.Lat != 0 || node.Lon != 0 {
			resolved.Nodes = append(resolved.Nodes, node)
			continue
		}
		pt, ok := raw.nodes[node.ID]
		if !ok {
			logger.Warn("Node of way has no coordinates", zap.Int64("way_id", int64(way.ID)), zap.Int64("node_id", int64(node.ID)))
			continue
		}
		node.Lon, node.Lat = pt.Lon(), pt.Lat()
		resolved.Nodes = append(resolved.Nodes, node)
	}
	return &resolved
}
