package story

import (
	"github.com/jwebster45206/storyplaces/pkg/conditions"
	"github.com/jwebster45206/storyplaces/pkg/geo"
)

const (
	LocationCircle  = "circle"
	LocationPolygon = "polygon"
)

// Location is a named place in the story world.
type Location struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`             // "circle" or "polygon"
	Lat     float64     `json:"lat,omitempty"`    // circle centre
	Lon     float64     `json:"lon,omitempty"`    // circle centre
	Radius  float64     `json:"radius,omitempty"` // metres
	Polygon []geo.Point `json:"polygon,omitempty"`
}

// Geofence converts the location into its geofence.
func (l Location) Geofence() geo.Geofence {
	if l.Type == LocationPolygon {
		return geo.Polygon(l.Polygon...)
	}
	return geo.Circle(geo.Point{Latitude: l.Lat, Longitude: l.Lon}, l.Radius)
}

// LocationCollection is the story's list of named locations.
type LocationCollection []Location

// Ensure LocationCollection implements conditions.LocationResolver
var _ conditions.LocationResolver = LocationCollection(nil)

func (c LocationCollection) Get(id string) (Location, bool) {
	for _, l := range c {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}

func (c LocationCollection) Geofence(id string) (geo.Geofence, bool) {
	l, ok := c.Get(id)
	if !ok {
		return geo.Geofence{}, false
	}
	return l.Geofence(), true
}
