package state

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/storyplaces/pkg/conditions"
	"github.com/jwebster45206/storyplaces/pkg/story"
)

// Reading is one reader's progress through a story: the variable store and
// last known position that conditions are evaluated against.
type Reading struct {
	ID           uuid.UUID                       `json:"id"`                      // Unique ID per reading
	StoryID      string                          `json:"story_id"`                // Story file the reading plays
	Variables    conditions.Variables            `json:"variables,omitempty"`     // Runtime variables
	Position     *conditions.LocationInformation `json:"position,omitempty"`      // Last fix, nil when unknown
	VisiblePages []string                        `json:"visible_pages,omitempty"` // Pages readable at the last refresh
	CreatedAt    time.Time                       `json:"created_at"`
	UpdatedAt    time.Time                       `json:"updated_at"`
}

// Ensure Reading implements the evaluation collaborators
var (
	_ conditions.VariableAccessor = (*Reading)(nil)
	_ conditions.LocationProvider = (*Reading)(nil)
)

func NewReading(storyID string) *Reading {
	now := time.Now()
	return &Reading{
		ID:        uuid.New(),
		StoryID:   storyID,
		Variables: make(conditions.Variables),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Get resolves a variable reference.
func (r *Reading) Get(ref conditions.VariableReference) (conditions.Variable, bool) {
	if r.Variables == nil {
		return conditions.Variable{}, false
	}
	return r.Variables.Get(ref)
}

// Location returns the last position fix.
func (r *Reading) Location() (conditions.LocationInformation, bool) {
	if r.Position == nil {
		return conditions.LocationInformation{}, false
	}
	return *r.Position, true
}

// SetVariable stores value and stamps it with now, which timepassed conditions read back.
func (r *Reading) SetVariable(ref conditions.VariableReference, value string, now time.Time) {
	if r.Variables == nil {
		r.Variables = make(conditions.Variables)
	}
	r.Variables.Set(ref, value, now.Unix())
}

// DeleteVariable removes a variable.
func (r *Reading) DeleteVariable(ref conditions.VariableReference) {
	delete(r.Variables, ref.String())
}

func (r *Reading) SetPosition(loc conditions.LocationInformation) {
	r.Position = &loc
}

func (r *Reading) ClearPosition() {
	r.Position = nil
}

// Env returns the evaluation environment for s against this reading.
func (r *Reading) Env(s *story.Story) conditions.Env {
	return s.Env(r, r)
}

// Refresh recomputes VisiblePages and reports whether the set changed.
func (r *Reading) Refresh(s *story.Story, env conditions.Env) bool {
	var visible []string
	for _, p := range s.VisiblePages(env) {
		visible = append(visible, p.ID)
	}
	changed := !slices.Equal(visible, r.VisiblePages)
	r.VisiblePages = visible
	return changed
}
