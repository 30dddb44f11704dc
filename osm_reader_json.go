package caiosm

import (
	"os"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// readOverpassJSON reads Overpass API JSON output ('out body' or 'out geom')
func readOverpassJSON(filename string, cfg *readerConfig) (*rawData, error) {
	st := time.Now()
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read file")
	}
	raw, err := parseOverpassJSON(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't parse file '%s'", filename)
	}
	cfg.logger.Info("Processing overpass JSON",
		zap.Duration("done_in", time.Since(st)),
		zap.Int("relations", len(raw.relations)),
		zap.Int("ways", len(raw.ways)),
		zap.Int("nodes", len(raw.nodes)),
	)
	return raw, nil
}

func parseOverpassJSON(data []byte) (*rawData, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrUnsupportedFormat, "invalid JSON")
	}
	elements := gjson.GetBytes(data, "elements")
	if !elements.IsArray() {
		return nil, errors.Wrap(ErrUnsupportedFormat, "no 'elements' array")
	}
	raw := newRawData()
	elements.ForEach(func(_, element gjson.Result) bool {
		switch element.Get("type").String() {
		case "node":
			raw.nodes[osm.NodeID(element.Get("id").Int())] = orb.Point{element.Get("lon").Float(), element.Get("lat").Float()}
		case "way":
			way := &osm.Way{
				ID:   osm.WayID(element.Get("id").Int()),
				Tags: overpassTags(element.Get("tags")),
			}
			refs := element.Get("nodes").Array()
			geometry := element.Get("geometry").Array()
			for i, ref := range refs {
				node := osm.WayNode{ID: osm.NodeID(ref.Int())}
				if i < len(geometry) && geometry[i].IsObject() {
					node.Lat = geometry[i].Get("lat").Float()
					node.Lon = geometry[i].Get("lon").Float()
				}
				way.Nodes = append(way.Nodes, node)
			}
			raw.ways[way.ID] = way
		case "relation":
			relation := &osm.Relation{
				ID:   osm.RelationID(element.Get("id").Int()),
				Tags: overpassTags(element.Get("tags")),
			}
			element.Get("members").ForEach(func(_, member gjson.Result) bool {
				relation.Members = append(relation.Members, osm.Member{
					Type: osm.Type(member.Get("type").String()),
					Ref:  member.Get("ref").Int(),
					Role: member.Get("role").String(),
				})
				return true
			})
			raw.relations[relation.ID] = relation
		}
		return true
	})
	return raw, nil
}

// overpassTags converts JSON object into tags sorted by key
func overpassTags(obj gjson.Result) osm.Tags {
	tags := osm.Tags{}
	obj.ForEach(func(key, value gjson.Result) bool {
		tags = append(tags, osm.Tag{Key: key.String(), Value: value.String()})
		return true
	})
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Key < tags[j].Key
	})
	return tags
}
