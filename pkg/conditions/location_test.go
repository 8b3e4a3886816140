package conditions

import (
	"errors"
	"testing"

	"github.com/jwebster45206/storyplaces/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storyLocations implements LocationResolver for testing
type storyLocations map[string]geo.Geofence

func (s storyLocations) Geofence(id string) (geo.Geofence, bool) {
	g, ok := s[id]
	return g, ok
}

func TestLocationCondition_Circle(t *testing.T) {
	cond, err := NewLocation("loc", geo.Circle(geo.Point{Latitude: 0, Longitude: 0}, 1000))
	require.NoError(t, err)

	tests := []struct {
		name     string
		position LocationProvider
		expected bool
	}{
		{"about 555m away", at(0, 0.005), true},
		{"about 2222m away", at(0, 0.02), false},
		{"no fix", fixedPosition{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cond.Evaluate(Env{Position: tt.position})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLocationCondition_Outside(t *testing.T) {
	cond, err := NewLocation("loc", geo.Circle(geo.Point{}, 1000))
	require.NoError(t, err)
	cond = cond.WithInside(false)

	got, _ := cond.Evaluate(Env{Position: at(0, 0.02)})
	assert.True(t, got)

	got, _ = cond.Evaluate(Env{Position: at(0, 0.005)})
	assert.False(t, got)

	got, _ = cond.Evaluate(Env{})
	assert.False(t, got, "no fix never satisfies a location condition")
}

func TestLocationCondition_Polygon(t *testing.T) {
	square := geo.Polygon(
		geo.Point{Latitude: 50.93, Longitude: -1.40},
		geo.Point{Latitude: 50.93, Longitude: -1.39},
		geo.Point{Latitude: 50.94, Longitude: -1.39},
		geo.Point{Latitude: 50.94, Longitude: -1.40},
	)
	cond, err := NewLocation("park", square)
	require.NoError(t, err)

	got, _ := cond.Evaluate(Env{Position: at(50.935, -1.395)})
	assert.True(t, got)

	got, _ = cond.Evaluate(Env{Position: at(50.95, -1.395)})
	assert.False(t, got)
}

func TestLocationCondition_StoryLocationReference(t *testing.T) {
	locations := storyLocations{"quay": geo.Circle(geo.Point{Latitude: 50.89, Longitude: -1.40}, 50)}
	cond := NewLocationRef("at-quay", "quay")

	got, err := cond.Evaluate(Env{Locations: locations, Position: at(50.89, -1.40)})
	require.NoError(t, err)
	assert.True(t, got)

	got, err = NewLocationRef("at-gate", "gate").Evaluate(Env{Locations: locations, Position: at(50.89, -1.40)})
	require.NoError(t, err)
	assert.False(t, got, "unknown location reference degrades to false")

	got, err = cond.Evaluate(Env{Position: at(50.89, -1.40)})
	require.NoError(t, err)
	assert.False(t, got, "no location resolver degrades to false")
}

func TestLocationCondition_Decode(t *testing.T) {
	cond, err := Decode(raw(`{"id":"l","type":"location","geofence":{"center":{"latitude":0,"longitude":0},"radius":1000}}`))
	require.NoError(t, err)
	loc := cond.(*LocationCondition)
	assert.True(t, loc.Inside(), "bool defaults to true")

	got, _ := cond.Evaluate(Env{Position: at(0, 0.005)})
	assert.True(t, got)

	tests := []struct {
		name  string
		json  string
		field string
	}{
		{"bad radius", `{"id":"l","type":"location","geofence":{"center":{"latitude":0,"longitude":0},"radius":-1}}`, "geofence"},
		{"geofence and location", `{"id":"l","type":"location","location":"x","geofence":{"center":{"latitude":0,"longitude":0},"radius":1}}`, "geofence"},
		{"crossing polygon", `{"id":"l","type":"location","geofence":{"polygon":[{"latitude":0,"longitude":0},{"latitude":1,"longitude":1},{"latitude":0,"longitude":1},{"latitude":1,"longitude":0}]}}`, "geofence"},
		{"bool as string", `{"id":"l","type":"location","bool":"yes","location":"x"}`, "bool"},
		{"location as number", `{"id":"l","type":"location","location":7}`, "location"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(raw(tt.json))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
