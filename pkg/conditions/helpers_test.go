package conditions

import (
	"encoding/json"
	"time"
)

// fixedPosition implements LocationProvider for testing
type fixedPosition struct {
	loc *LocationInformation
}

func (p fixedPosition) Location() (LocationInformation, bool) {
	if p.loc == nil {
		return LocationInformation{}, false
	}
	return *p.loc, true
}

func at(lat, lon float64) fixedPosition {
	return fixedPosition{loc: &LocationInformation{Latitude: lat, Longitude: lon}}
}

// spyCondition counts evaluations and returns a fixed result
type spyCondition struct {
	id     string
	result bool
	err    error
	calls  int
}

func (s *spyCondition) ID() string { return s.id }
func (s *spyCondition) Type() Type { return TypeOther }
func (s *spyCondition) Evaluate(Env) (bool, error) {
	s.calls++
	return s.result, s.err
}
func (s *spyCondition) MarshalJSON() ([]byte, error) { return marshalBare(s.id, TypeOther) }

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }
