// Package conditions implements the story condition engine: a closed family of
// boolean predicates evaluated against reader variables, the reader's position
// and other conditions referenced by id.
package conditions

import (
	"encoding/json"
	"time"

	"github.com/jwebster45206/storyplaces/pkg/geo"
)

// Type is the serialized tag of a condition variant.
type Type string

const (
	TypeComparison Type = "comparison"
	TypeCheck      Type = "check"
	TypeLocation   Type = "location"
	TypeLogical    Type = "logical"
	TypeTimePassed Type = "timepassed"
	TypeTimeRange  Type = "timerange"
	TypeTrue       Type = "true"
	TypeFalse      Type = "false"
	TypeOther      Type = "other"
)

// MaxDepth bounds registry-mediated recursion through logical conditions.
const MaxDepth = 64

// Condition is a named boolean predicate gating story content.
type Condition interface {
	ID() string
	Type() Type
	// Evaluate reads (never writes) the collaborators in env.
	Evaluate(env Env) (bool, error)
	json.Marshaler
}

// Resolver looks up conditions by id. Collection implements it.
type Resolver interface {
	Get(id string) (Condition, bool)
}

// LocationResolver looks up named story locations referenced by location conditions.
type LocationResolver interface {
	Geofence(id string) (geo.Geofence, bool)
}

// LocationInformation is a single position fix reported by the device or the map.
type LocationInformation struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Heading   *float64 `json:"heading,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

// LocationProvider reports the current position, ok is false when there is no fix.
type LocationProvider interface {
	Location() (loc LocationInformation, ok bool)
}

// Env carries the collaborators a single evaluation runs against.
type Env struct {
	Variables  VariableAccessor
	Conditions Resolver
	Locations  LocationResolver // optional
	Position   LocationProvider
	Now        func() time.Time // defaults to time.Now
	TimeZone   *time.Location   // zone for time-of-day ranges, defaults to time.Local

	depth int
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Env) zone() *time.Location {
	if e.TimeZone != nil {
		return e.TimeZone
	}
	return time.Local
}

func (e Env) variable(ref VariableReference) (Variable, bool) {
	if e.Variables == nil {
		return Variable{}, false
	}
	return e.Variables.Get(ref)
}

func (e Env) position() (LocationInformation, bool) {
	if e.Position == nil {
		return LocationInformation{}, false
	}
	return e.Position.Location()
}

// evaluateRef resolves id through the registry and evaluates it one level deeper.
func (e Env) evaluateRef(id string) (bool, error) {
	if e.depth >= MaxDepth {
		return false, ErrMaxDepthExceeded
	}
	if e.Conditions == nil {
		return false, &ConditionNotFoundError{ID: id}
	}
	c, ok := e.Conditions.Get(id)
	if !ok {
		return false, &ConditionNotFoundError{ID: id}
	}
	child := e
	child.depth++
	return c.Evaluate(child)
}

type base struct {
	id string
}

func (b base) ID() string { return b.id }
