package story

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/storyplaces/pkg/conditions"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warn"
)

// Issue is a single authoring problem found by Validate.
type Issue struct {
	Severity Severity
	Subject  string // e.g. "page p1", "condition c3"
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Subject, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks the references between pages, conditions and locations and
// that the logical condition graph is acyclic. Evaluation relies on the latter.
func (s *Story) Validate() []Issue {
	v := &validator{story: s}
	v.locations()
	v.pages()
	v.conditions()
	v.cycles()
	return v.issues
}

type validator struct {
	story  *Story
	issues []Issue
}

func (v *validator) errorf(subject, format string, args ...any) {
	v.issues = append(v.issues, Issue{Severity: SeverityError, Subject: subject, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) warnf(subject, format string, args ...any) {
	v.issues = append(v.issues, Issue{Severity: SeverityWarn, Subject: subject, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) locations() {
	seen := make(map[string]bool)
	for _, l := range v.story.Locations {
		subject := "location " + l.ID
		if strings.TrimSpace(l.ID) == "" {
			v.errorf("location", "id is required")
			continue
		}
		if seen[l.ID] {
			v.errorf(subject, "duplicate location id")
		}
		seen[l.ID] = true

		if l.Type != "" && l.Type != LocationCircle && l.Type != LocationPolygon {
			v.errorf(subject, "unknown location type %q", l.Type)
			continue
		}
		if err := l.Geofence().Validate(); err != nil {
			v.errorf(subject, "%v", err)
		}
	}
}

func (v *validator) pages() {
	seen := make(map[string]bool)
	for _, p := range v.story.Pages {
		subject := "page " + p.ID
		if strings.TrimSpace(p.ID) == "" {
			v.errorf("page", "id is required")
			continue
		}
		if seen[p.ID] {
			v.errorf(subject, "duplicate page id")
		}
		seen[p.ID] = true

		for _, id := range p.Conditions {
			if _, ok := v.story.Conditions.Get(id); !ok {
				v.errorf(subject, "references unknown condition %q", id)
			}
		}
		if p.Hint != nil {
			for _, id := range p.Hint.Locations {
				if _, ok := v.story.Locations.Get(id); !ok {
					v.errorf(subject, "hint references unknown location %q", id)
				}
			}
		}
	}
}

func (v *validator) conditions() {
	for _, c := range v.story.Conditions.All() {
		subject := "condition " + c.ID()
		if strings.TrimSpace(c.ID()) == "" {
			v.errorf("condition", "id is required")
		}
		switch cond := c.(type) {
		case *conditions.LogicalCondition:
			for _, child := range cond.Children() {
				if _, ok := v.story.Conditions.Get(child); !ok {
					v.errorf(subject, "references unknown condition %q", child)
				}
			}
		case *conditions.LocationCondition:
			if _, inline := cond.Geofence(); inline {
				continue
			}
			if cond.Location() == "" {
				v.errorf(subject, "needs a location or a geofence")
			} else if _, ok := v.story.Locations.Get(cond.Location()); !ok {
				v.errorf(subject, "references unknown location %q", cond.Location())
			}
		case *conditions.CheckCondition:
			if cond.Variable().IsZero() {
				v.errorf(subject, "needs a variable")
			}
		case *conditions.TimePassedCondition:
			if cond.Variable().IsZero() {
				v.errorf(subject, "needs a variable")
			}
		case *conditions.TimeRangeCondition:
			if cond.Start() == "" {
				v.warnf(subject, "has no range and will never hold")
			}
		case *conditions.OtherCondition:
			if cond.Tag() != conditions.TypeOther {
				v.warnf(subject, "unknown condition type %q will never hold", cond.Tag())
			}
		}
	}
}

// cycles runs a depth-first search over logical children.
func (v *validator) cycles() {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int)

	var visit func(id string, path []string)
	visit = func(id string, path []string) {
		switch state[id] {
		case inProgress:
			start := 0
			for i, p := range path {
				if p == id {
					start = i
					break
				}
			}
			cycle := append(append([]string(nil), path[start:]...), id)
			v.errorf("condition "+id, "cycle in logical conditions: %s", strings.Join(cycle, " -> "))
			return
		case done:
			return
		}

		state[id] = inProgress
		if c, ok := v.story.Conditions.Get(id); ok {
			if logical, ok := c.(*conditions.LogicalCondition); ok {
				for _, child := range logical.Children() {
					visit(child, append(path, id))
				}
			}
		}
		state[id] = done
	}

	for _, id := range v.story.Conditions.IDs() {
		if state[id] == unvisited {
			visit(id, nil)
		}
	}
}
