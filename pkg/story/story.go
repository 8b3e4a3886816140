// Package story holds the story document: pages gated by conditions, named
// locations and the condition registry.
package story

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/storyplaces/pkg/conditions"
	"gopkg.in/yaml.v3"
)

// Story is a location-based story as authored and published.
type Story struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Author         string                 `json:"author,omitempty"`
	Description    string                 `json:"description,omitempty"`
	Audience       string                 `json:"audience,omitempty"`     // e.g. "general", "family", "advisory"
	PublishState   string                 `json:"publishState,omitempty"` // e.g. "published", "draft"
	Tags           []string               `json:"tags,omitempty"`
	CachedMediaIDs []string               `json:"cachedMediaIds,omitempty"`
	Conditions     *conditions.Collection `json:"conditions"`
	Locations      LocationCollection     `json:"locations,omitempty"`
	Pages          []Page                 `json:"pages"`
	Roles          []Role                 `json:"roles,omitempty"`
}

// Page is a unit of story content, readable once all its conditions hold.
type Page struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Content    string   `json:"content,omitempty"`
	Conditions []string `json:"conditions,omitempty"` // condition ids, all must hold
	Hint       *Hint    `json:"hint,omitempty"`
}

// Hint tells the reader where to go to unlock a page.
type Hint struct {
	Direction string   `json:"direction,omitempty"`
	Locations []string `json:"locations,omitempty"`
}

// Role is a reader role in multi-reader stories.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Parse decodes a story document. Conditions are built from their type tags;
// a malformed condition fails the whole story.
func Parse(data []byte) (*Story, error) {
	var s Story
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse story: %w", err)
	}
	if s.Conditions == nil {
		s.Conditions = conditions.NewCollection()
	}
	return &s, nil
}

// ParseYAML decodes a story authored as YAML using the same field names as JSON.
func ParseYAML(data []byte) (*Story, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse story yaml: %w", err)
	}
	converted, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert story yaml: %w", err)
	}
	return Parse(converted)
}

// Page returns the page with the given id.
func (s *Story) Page(id string) (Page, bool) {
	for _, p := range s.Pages {
		if p.ID == id {
			return p, true
		}
	}
	return Page{}, false
}

// Env returns an evaluation environment bound to this story's conditions and locations.
func (s *Story) Env(vars conditions.VariableAccessor, pos conditions.LocationProvider) conditions.Env {
	return conditions.Env{
		Variables:  vars,
		Conditions: s.Conditions,
		Locations:  s.Locations,
		Position:   pos,
	}
}
