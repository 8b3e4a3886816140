package conditions

import (
	"encoding/json"

	"github.com/jwebster45206/storyplaces/pkg/geo"
)

// LocationCondition tests the reader's position against a geofence, given
// either inline or as the id of a story location.
type LocationCondition struct {
	base
	inside   bool
	location string
	geofence *geo.Geofence
	variable VariableReference
}

// NewLocation builds a condition over an inline geofence that holds while the reader is inside it.
func NewLocation(id string, fence geo.Geofence) (*LocationCondition, error) {
	if err := fence.Validate(); err != nil {
		return nil, &ValidationError{Field: "geofence", Reason: err.Error()}
	}
	return &LocationCondition{base: base{id: id}, inside: true, geofence: &fence}, nil
}

// NewLocationRef builds a condition over a story location looked up by id.
func NewLocationRef(id, location string) *LocationCondition {
	return &LocationCondition{base: base{id: id}, inside: true, location: location}
}

func (c *LocationCondition) Type() Type { return TypeLocation }

// Inside reports whether the condition holds inside (true) or outside (false) the fence.
func (c *LocationCondition) Inside() bool     { return c.inside }
func (c *LocationCondition) Location() string { return c.location }

// Geofence returns the inline fence, if any.
func (c *LocationCondition) Geofence() (geo.Geofence, bool) {
	if c.geofence == nil {
		return geo.Geofence{}, false
	}
	return *c.geofence, true
}

// ResultVariable names the variable the UI layer may record the last result in.
// The condition itself never writes it.
func (c *LocationCondition) ResultVariable() VariableReference { return c.variable }

// WithInside returns a copy that holds when the reader is inside (true) or outside (false).
func (c *LocationCondition) WithInside(inside bool) *LocationCondition {
	cp := *c
	cp.inside = inside
	return &cp
}

// WithResultVariable returns a copy carrying v as its result variable.
func (c *LocationCondition) WithResultVariable(v VariableReference) *LocationCondition {
	cp := *c
	cp.variable = v
	return &cp
}

// Evaluate returns false without a position fix or when the referenced
// location cannot be resolved.
func (c *LocationCondition) Evaluate(env Env) (bool, error) {
	pos, ok := env.position()
	if !ok {
		return false, nil
	}
	fence, ok := c.fence(env)
	if !ok {
		return false, nil
	}
	in := fence.Contains(geo.Point{Latitude: pos.Latitude, Longitude: pos.Longitude})
	return in == c.inside, nil
}

func (c *LocationCondition) fence(env Env) (geo.Geofence, bool) {
	if c.geofence != nil {
		return *c.geofence, true
	}
	if c.location == "" || env.Locations == nil {
		return geo.Geofence{}, false
	}
	return env.Locations.Geofence(c.location)
}

func (c *LocationCondition) MarshalJSON() ([]byte, error) {
	var variable *VariableReference
	if !c.variable.IsZero() {
		variable = &c.variable
	}
	return json.Marshal(struct {
		ID       string             `json:"id"`
		Type     Type               `json:"type"`
		Bool     bool               `json:"bool"`
		Location string             `json:"location,omitempty"`
		Geofence *geo.Geofence      `json:"geofence,omitempty"`
		Variable *VariableReference `json:"variable,omitempty"`
	}{c.id, TypeLocation, c.inside, c.location, c.geofence, variable})
}

func decodeLocation(f fields) (Condition, error) {
	id, _, err := f.ids()
	if err != nil {
		return nil, err
	}
	c := &LocationCondition{base: base{id: id}, inside: true}
	if err := f.decode("bool", &c.inside, "a boolean"); err != nil {
		return nil, err
	}
	if c.location, err = f.string("location"); err != nil {
		return nil, err
	}
	if err := f.decode("variable", &c.variable, "a variable reference"); err != nil {
		return nil, err
	}
	if f.has("geofence") {
		if c.location != "" {
			return nil, &ValidationError{Field: "geofence", Reason: "cannot be combined with location"}
		}
		var fence geo.Geofence
		if err := f.decode("geofence", &fence, "a geofence object"); err != nil {
			return nil, err
		}
		if err := fence.Validate(); err != nil {
			return nil, &ValidationError{Field: "geofence", Reason: err.Error()}
		}
		c.geofence = &fence
	}
	return c, nil
}
