package caiosm

import (
	"fmt"
	"strconv"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

var (
	// ErrMalformedGeometry Way has less than two distinct points or unusable coordinates
	ErrMalformedGeometry = errors.New("malformed geometry")
	// ErrMissingMemberWay Route references a Way which is not in the store
	ErrMissingMemberWay = errors.New("missing member way")
	// ErrUnrecognizedTagValue Tag value is outside of the classification tables. Never fatal.
	ErrUnrecognizedTagValue = errors.New("unrecognized tag value")
	// ErrOutputSink Output target can't be written
	ErrOutputSink = errors.New("output sink error")
	// ErrUnsupportedFormat Input or output format is not handled
	ErrUnsupportedFormat = errors.New("unsupported format")
)

type EntityType uint16

const (
	ENTITY_WAY = EntityType(iota + 1)
	ENTITY_ROUTE
	ENTITY_OUTPUT
)

func (iotaIdx EntityType) String() string {
	return [...]string{"way", "route", "output"}[iotaIdx-1]
}

// EntityError binds an error to the entity (Way, Route or output target) which caused it
type EntityError struct {
	// Kind is optional. When set errors.Is matches it even if Err doesn't wrap it.
	Kind   error
	Entity EntityType
	ID     string
	Err    error
}

func (e *EntityError) Error() string {
	if e.Kind != nil && !errors.Is(e.Err, e.Kind) {
		return fmt.Sprintf("%s '%s': %s: %s", e.Entity, e.ID, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s '%s': %s", e.Entity, e.ID, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

func (e *EntityError) Is(target error) bool {
	return e.Kind != nil && e.Kind == target
}

func wayError(id osm.WayID, err error) *EntityError {
	return &EntityError{Entity: ENTITY_WAY, ID: strconv.FormatInt(int64(id), 10), Err: err}
}

func routeError(id osm.RelationID, err error) *EntityError {
	return &EntityError{Entity: ENTITY_ROUTE, ID: strconv.FormatInt(int64(id), 10), Err: err}
}

func outputError(target string, err error) *EntityError {
	return &EntityError{Kind: ErrOutputSink, Entity: ENTITY_OUTPUT, ID: target, Err: err}
}
