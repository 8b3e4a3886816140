// Package geo holds the geofence math used by location conditions.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadius is the mean earth radius in metres.
const EarthRadius = 6371010.0

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p Point) latLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Latitude, p.Longitude)
}

func (p Point) validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", p.Latitude)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", p.Longitude)
	}
	return nil
}

// Distance returns the great-circle distance between a and b in metres.
func Distance(a, b Point) float64 {
	return a.latLng().Distance(b.latLng()).Radians() * EarthRadius
}

// Geofence is either a circle (Center + Radius in metres) or a polygon.
type Geofence struct {
	Center  *Point  `json:"center,omitempty"`
	Radius  float64 `json:"radius,omitempty"`
	Polygon []Point `json:"polygon,omitempty"`
}

// Circle returns a circular geofence.
func Circle(center Point, radius float64) Geofence {
	return Geofence{Center: &center, Radius: radius}
}

// Polygon returns a polygonal geofence. Vertex order does not matter; a
// closing vertex equal to the first is ignored.
func Polygon(vertices ...Point) Geofence {
	return Geofence{Polygon: vertices}
}

// Validate checks that g describes exactly one well-formed shape.
func (g Geofence) Validate() error {
	switch {
	case g.Center != nil && len(g.Polygon) > 0:
		return errors.New("geofence cannot have both a center and a polygon")
	case g.Center != nil:
		if err := g.Center.validate(); err != nil {
			return err
		}
		if !(g.Radius > 0) || math.IsInf(g.Radius, 0) {
			return fmt.Errorf("radius %v must be positive", g.Radius)
		}
	case len(g.Polygon) > 0:
		for i, v := range g.Polygon {
			if err := v.validate(); err != nil {
				return fmt.Errorf("polygon vertex %d: %w", i, err)
			}
		}
		if len(g.vertices()) < 3 {
			return errors.New("polygon needs at least three distinct vertices")
		}
		if g.selfIntersects() {
			return errors.New("polygon edges must not cross")
		}
	default:
		return errors.New("geofence needs a center and radius or a polygon")
	}
	return nil
}

// Contains reports whether p lies inside the fence. Points on a circle's edge are inside.
func (g Geofence) Contains(p Point) bool {
	if g.Center != nil {
		return Distance(*g.Center, p) <= g.Radius
	}
	pts := g.loopPoints()
	// A crossing ring has no well-defined interior.
	if len(pts) < 3 || crosses(pts) {
		return false
	}
	loop := s2.LoopFromPoints(pts)
	// Authors draw in either direction; take the smaller of the two regions.
	loop.Normalize()
	return loop.ContainsPoint(s2.PointFromLatLng(p.latLng()))
}

// vertices drops consecutive duplicates and the closing vertex.
func (g Geofence) vertices() []Point {
	out := make([]Point, 0, len(g.Polygon))
	for _, v := range g.Polygon {
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

func (g Geofence) loopPoints() []s2.Point {
	vs := g.vertices()
	pts := make([]s2.Point, len(vs))
	for i, v := range vs {
		pts[i] = s2.PointFromLatLng(v.latLng())
	}
	return pts
}

func (g Geofence) selfIntersects() bool {
	return crosses(g.loopPoints())
}

// crosses reports whether any two non-adjacent edges of the closed ring pts intersect.
func crosses(pts []s2.Point) bool {
	n := len(pts)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // shares vertex 0
			}
			c, d := pts[j], pts[(j+1)%n]
			if s2.CrossingSign(a, b, c, d) != s2.DoNotCross {
				return true
			}
		}
	}
	return false
}
