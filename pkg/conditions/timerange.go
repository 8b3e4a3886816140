package conditions

import (
	"encoding/json"
	"time"
)

type rangeKind int

const (
	rangeUnset rangeKind = iota
	rangeClock
	rangeAbsolute
)

// TimeRangeCondition holds while now lies in [start, end). Bounds are either
// both times of day ("09:00", "17:30:00"), wrapping midnight when start > end,
// or both RFC 3339 instants.
type TimeRangeCondition struct {
	base
	start, end string

	kind                 rangeKind
	startClock, endClock int // seconds since midnight
	startInst, endInst   time.Time
}

func NewTimeRange(id, start, end string) (*TimeRangeCondition, error) {
	c := &TimeRangeCondition{base: base{id: id}, start: start, end: end}
	if start == "" && end == "" {
		return c, nil
	}

	if s, ok := parseClock(start); ok {
		e, ok := parseClock(end)
		if !ok {
			return nil, &ValidationError{Field: "end", Value: end, Reason: "must be a time of day like start"}
		}
		c.kind, c.startClock, c.endClock = rangeClock, s, e
		return c, nil
	}

	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return nil, &ValidationError{Field: "start", Value: start, Reason: "must be HH:MM or an RFC 3339 time"}
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return nil, &ValidationError{Field: "end", Value: end, Reason: "must be an RFC 3339 time like start"}
	}
	c.kind, c.startInst, c.endInst = rangeAbsolute, s, e
	return c, nil
}

func (c *TimeRangeCondition) Type() Type    { return TypeTimeRange }
func (c *TimeRangeCondition) Start() string { return c.start }
func (c *TimeRangeCondition) End() string   { return c.end }

// WithRange returns a copy over new bounds.
func (c *TimeRangeCondition) WithRange(start, end string) (*TimeRangeCondition, error) {
	return NewTimeRange(c.id, start, end)
}

// Evaluate reads the clock on every call. A range without bounds never holds.
func (c *TimeRangeCondition) Evaluate(env Env) (bool, error) {
	now := env.now()
	switch c.kind {
	case rangeClock:
		local := now.In(env.zone())
		t := local.Hour()*3600 + local.Minute()*60 + local.Second()
		if c.startClock <= c.endClock {
			return c.startClock <= t && t < c.endClock, nil
		}
		return t >= c.startClock || t < c.endClock, nil
	case rangeAbsolute:
		return !now.Before(c.startInst) && now.Before(c.endInst), nil
	}
	return false, nil
}

func (c *TimeRangeCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID    string `json:"id"`
		Type  Type   `json:"type"`
		Start string `json:"start"`
		End   string `json:"end"`
	}{c.id, TypeTimeRange, c.start, c.end})
}

func decodeTimeRange(f fields) (Condition, error) {
	id, _, err := f.ids()
	if err != nil {
		return nil, err
	}
	start, err := f.string("start")
	if err != nil {
		return nil, err
	}
	end, err := f.string("end")
	if err != nil {
		return nil, err
	}
	return NewTimeRange(id, start, end)
}

func parseClock(s string) (int, bool) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*3600 + t.Minute()*60 + t.Second(), true
		}
	}
	return 0, false
}
