package caiosm

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AssembledRoute is a route with geometry, attributes and length built
type AssembledRoute struct {
	Route      *Route
	Geom       orb.MultiLineString
	Attributes Attributes
	Length     float64
}

// Session is a single processing run: loading, assembling and exporting of one OSM input.
// Sessions share nothing and can be used concurrently with each other.
type Session struct {
	mode             ClassifierMode
	prefix           string
	logger           *zap.Logger
	lengthProjection Projection
	unit             Unit
	readerOptions    []ReaderOption

	store      *Store
	classifier *Classifier

	assembled  bool
	errs       []error
	routes     []*AssembledRoute
	segments   []*Segment
	membership []MembershipEdge
}

func (session *Session) String() string {
	return fmt.Sprintf(`
Session parameters:
	mode: '%s'
	prefix: '%s'
	length projection: '%s'
	unit: '%s'
	`,
		session.mode,
		session.prefix,
		session.lengthProjection,
		session.unit,
	)
}

// NewSession returns session with empty store.
// Defaults: MODE_INFOMONT, no prefix, length in meters in EPSG:3035, hiking routes only.
func NewSession(options ...func(*Session)) *Session {
	session := &Session{
		mode:             MODE_INFOMONT,
		logger:           zap.NewNop(),
		lengthProjection: MustProjection(DEFAULT_LENGTH_SRS),
		unit:             UNIT_METERS,
	}
	for _, option := range options {
		option(session)
	}
	session.store = NewStore(WithStoreLogger(session.logger))
	session.classifier = NewClassifier(session.mode)
	return session
}

func WithMode(mode ClassifierMode) func(*Session) {
	return func(session *Session) {
		session.mode = mode
	}
}

// WithPrefix sets prefix of segment IDs
func WithPrefix(prefix string) func(*Session) {
	return func(session *Session) {
		session.prefix = prefix
	}
}

func WithLogger(logger *zap.Logger) func(*Session) {
	return func(session *Session) {
		if logger != nil {
			session.logger = logger
		}
	}
}

// WithLengthProjection sets projection used to measure lengths
func WithLengthProjection(proj Projection) func(*Session) {
	return func(session *Session) {
		session.lengthProjection = proj
	}
}

func WithUnit(unit Unit) func(*Session) {
	return func(session *Session) {
		session.unit = unit
	}
}

// WithRouteFilter sets filter of relations to be loaded. Nil means every relation.
func WithRouteFilter(filter RouteFilter) func(*Session) {
	return func(session *Session) {
		session.readerOptions = append(session.readerOptions, WithReaderFilter(filter))
	}
}

// Store returns primitives loaded so far
func (session *Session) Store() *Store {
	return session.store
}

// Classifier returns classifier of the session mode
func (session *Session) Classifier() *Classifier {
	return session.classifier
}

// Load reads OSM file into the store. Assembled data (if any) is dropped.
func (session *Session) Load(filename string) error {
	st := time.Now()
	options := append([]ReaderOption{WithReaderLogger(session.logger)}, session.readerOptions...)
	err := ReadOSMFile(filename, session.store, options...)
	if err != nil {
		return errors.Wrapf(err, "Can't read file '%s'", filename)
	}
	session.assembled = false
	missing := session.store.Validate()
	if len(missing) > 0 {
		session.logger.Warn("Routes reference absent ways", zap.Int("references", len(missing)))
	}
	session.logger.Info("Loading",
		zap.Duration("done_in", time.Since(st)),
		zap.Int("routes", session.store.RoutesNum()),
		zap.Int("ways", session.store.WaysNum()),
	)
	return nil
}

// Assemble builds route geometries, lengths and attributes, splits ways at intersections and
// builds membership. Failures are collected per entity (see Errors). Repeated calls do nothing
// until new data is loaded.
func (session *Session) Assemble() {
	if session.assembled {
		return
	}
	session.errs = session.store.Errors()
	session.assembleRoutes()
	session.assembleSegments()

	st := time.Now()
	routes := make([]*Route, len(session.routes))
	for i, assembled := range session.routes {
		routes[i] = assembled.Route
	}
	session.membership = BuildMembership(routes, session.segments)
	session.logger.Info("Preparing membership", zap.Duration("done_in", time.Since(st)), zap.Int("edges", len(session.membership)))
	session.assembled = true
}

func (session *Session) assembleRoutes() {
	st := time.Now()
	session.routes = []*AssembledRoute{}
	for _, route := range session.store.Routes() {
		geom, excluded, err := BuildRouteGeometry(route, session.store)
		if err != nil {
			session.logger.Warn("Route skipped", zap.Int64("route_id", int64(route.ID)), zap.Error(err))
			session.errs = append(session.errs, routeError(route.ID, err))
			continue
		}
		for _, wayID := range excluded {
			err := errors.Wrapf(ErrMalformedGeometry, "member way %d excluded", wayID)
			session.logger.Warn("Route member excluded", zap.Int64("route_id", int64(route.ID)), zap.Int64("way_id", int64(wayID)))
			session.errs = append(session.errs, routeError(route.ID, err))
		}
		length, err := RouteLength(route, session.store, session.lengthProjection, session.unit)
		if err != nil {
			session.errs = append(session.errs, routeError(route.ID, err))
			continue
		}
		attrs, warnings := session.classifier.ClassifyRoute(route)
		session.warn(warnings)
		session.routes = append(session.routes, &AssembledRoute{
			Route:      route,
			Geom:       geom,
			Attributes: attrs,
			Length:     length,
		})
	}
	session.logger.Info("Preparing routes", zap.Duration("done_in", time.Since(st)), zap.Int("routes", len(session.routes)))
}

func (session *Session) assembleSegments() {
	st := time.Now()
	ways := session.store.Ways()
	inputs := make([]SplitInput, len(ways))
	for i, way := range ways {
		attrs, warnings := session.classifier.ClassifyWay(way)
		session.warn(warnings)
		inputs[i] = SplitInput{WayID: way.ID, Geom: way.Geom, Attributes: attrs}
	}
	segments, err := SplitAtIntersections(inputs, session.prefix)
	if err != nil {
		session.errs = append(session.errs, err)
		session.segments = []*Segment{}
		return
	}
	if session.mode == MODE_INFOMONT {
		for _, segment := range segments {
			segment.Attributes = segment.Attributes.Set(FIELD_SEGMENT_ID, segment.ID)
		}
	}
	session.segments = segments
	session.logger.Info("Splitting ways", zap.Duration("done_in", time.Since(st)), zap.Int("ways", len(ways)), zap.Int("segments", len(segments)))
}

func (session *Session) warn(warnings []error) {
	for _, warning := range warnings {
		session.logger.Warn("Unrecognized tag value", zap.Error(warning))
	}
	session.errs = append(session.errs, warnings...)
}

// Errors returns every collected failure. Each one is an *EntityError.
func (session *Session) Errors() []error {
	session.Assemble()
	errs := make([]error, len(session.errs))
	copy(errs, session.errs)
	return errs
}

// Routes returns successfully assembled routes ordered by ID
func (session *Session) Routes() []*AssembledRoute {
	session.Assemble()
	return session.routes
}

// Segments returns ways split at intersections
func (session *Session) Segments() []*Segment {
	session.Assemble()
	return session.segments
}

// Membership returns route-segment edges
func (session *Session) Membership() []MembershipEdge {
	session.Assemble()
	return session.membership
}

// MembershipIndex returns index over membership edges
func (session *Session) MembershipIndex() *MembershipIndex {
	return NewMembershipIndex(session.Membership())
}

// TotalLength returns length of every assembled route counting each way once
func (session *Session) TotalLength() float64 {
	routes := session.Routes()
	prepared := make([]*Route, len(routes))
	for i, assembled := range routes {
		prepared[i] = assembled.Route
	}
	total, _ := TotalLength(prepared, session.store, session.lengthProjection, session.unit)
	return total
}

// Network returns routable graph over segments
func (session *Session) Network() (*SegmentNetwork, error) {
	return NewSegmentNetwork(session.Segments(), session.lengthProjection)
}

func (session *Session) RoutesLayer() *Layer {
	return RoutesLayer(session.Routes(), session.classifier.RouteSchema())
}

func (session *Session) SegmentsLayer() *Layer {
	fields := session.classifier.WaySchema()
	if fields != nil {
		fields = append(fields, FIELD_SEGMENT_ID)
	}
	return SegmentsLayer(session.Segments(), fields)
}

func (session *Session) MembershipLayer() *Layer {
	return MembershipLayer(session.Membership())
}

const (
	BUNDLE_ROUTES     = "sent_perc"
	BUNDLE_SEGMENTS   = "trt_sent"
	BUNDLE_MEMBERSHIP = "trt_perc"
)

// WriteRoutesCSV writes raw route attributes of assembled routes
func (session *Session) WriteRoutesCSV(filename string, opts ExportOptions) error {
	opts = opts.withDefaults()
	routes := session.Routes()
	prepared := make([]*Route, len(routes))
	for i, assembled := range routes {
		prepared[i] = assembled.Route
	}
	err := writeFile(filename, func(file *os.File) error {
		return WriteRoutesCSV(file, prepared, opts.Separator, opts.Encoding)
	})
	if err != nil {
		return outputError(filename, err)
	}
	return nil
}

// WriteMembershipCSV writes two-column membership table
func (session *Session) WriteMembershipCSV(filename string, opts ExportOptions) error {
	opts = opts.withDefaults()
	edges := session.Membership()
	err := writeFile(filename, func(file *os.File) error {
		return WriteMembershipCSV(file, edges, opts.Separator)
	})
	if err != nil {
		return outputError(filename, err)
	}
	return nil
}

// WriteAll writes 'sent_perc.csv' (routes attributes), 'trt_sent' (segments in opts.Format)
// and 'trt_perc.csv' (membership) into directory
func (session *Session) WriteAll(dir string, opts ExportOptions) error {
	st := time.Now()
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return outputError(dir, err)
	}
	err = session.WriteRoutesCSV(filepath.Join(dir, BUNDLE_ROUTES+".csv"), opts)
	if err != nil {
		return err
	}
	err = WriteLayer(session.SegmentsLayer(), filepath.Join(dir, BUNDLE_SEGMENTS), opts)
	if err != nil {
		return err
	}
	err = session.WriteMembershipCSV(filepath.Join(dir, BUNDLE_MEMBERSHIP+".csv"), opts)
	if err != nil {
		return err
	}
	session.logger.Info("Writing bundle", zap.String("dir", dir), zap.Duration("done_in", time.Since(st)))
	return nil
}

// WriteAllGeo writes routes, segments and membership as geometry layers in opts.Format into directory
func (session *Session) WriteAllGeo(dir string, opts ExportOptions) error {
	st := time.Now()
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return outputError(dir, err)
	}
	layers := []struct {
		name  string
		layer *Layer
	}{
		{BUNDLE_ROUTES, session.RoutesLayer()},
		{BUNDLE_SEGMENTS, session.SegmentsLayer()},
		{BUNDLE_MEMBERSHIP, session.MembershipLayer()},
	}
	for _, item := range layers {
		err = WriteLayer(item.layer, filepath.Join(dir, item.name), opts)
		if err != nil {
			return err
		}
	}
	session.logger.Info("Writing geo bundle", zap.String("dir", dir), zap.Duration("done_in", time.Since(st)))
	return nil
}
