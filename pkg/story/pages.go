package story

import (
	"github.com/jwebster45206/storyplaces/pkg/conditions"
)

// PageStatus is the outcome of gating one page.
type PageStatus struct {
	Page    Page
	Visible bool
	Err     error // evaluation error, the page is treated as blocked
}

// EvaluatePages gates every page against env. An error on one page blocks
// that page only; pages without conditions are always visible.
func (s *Story) EvaluatePages(env conditions.Env) []PageStatus {
	if env.Conditions == nil {
		env.Conditions = s.Conditions
	}
	if env.Locations == nil {
		env.Locations = s.Locations
	}

	statuses := make([]PageStatus, 0, len(s.Pages))
	for _, page := range s.Pages {
		status := PageStatus{Page: page, Visible: true}
		for _, id := range page.Conditions {
			ok, err := s.Conditions.Evaluate(id, env)
			if err != nil {
				status.Visible, status.Err = false, err
				break
			}
			if !ok {
				status.Visible = false
				break
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// VisiblePages returns the pages currently readable, in story order.
func (s *Story) VisiblePages(env conditions.Env) []Page {
	var visible []Page
	for _, status := range s.EvaluatePages(env) {
		if status.Visible {
			visible = append(visible, status.Page)
		}
	}
	return visible
}
