package conditions

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimePassedCondition is true once the given number of minutes has elapsed
// since the unix timestamp stored in its variable.
type TimePassedCondition struct {
	base
	variable VariableReference
	minutes  float64
}

func NewTimePassed(id string, variable VariableReference, minutes float64) (*TimePassedCondition, error) {
	if minutes < 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return nil, &ValidationError{Field: "minutes", Value: strconv.FormatFloat(minutes, 'g', -1, 64), Reason: "must be a non-negative number"}
	}
	return &TimePassedCondition{base: base{id: id}, variable: variable, minutes: minutes}, nil
}

func (c *TimePassedCondition) Type() Type                  { return TypeTimePassed }
func (c *TimePassedCondition) Variable() VariableReference { return c.variable }
func (c *TimePassedCondition) Minutes() float64            { return c.minutes }

// WithMinutes returns a copy with a different threshold.
func (c *TimePassedCondition) WithMinutes(minutes float64) (*TimePassedCondition, error) {
	return NewTimePassed(c.id, c.variable, minutes)
}

// Evaluate fails with a MissingVariableError when the timestamp was never
// recorded: an elapsed-time gate has no meaningful default.
func (c *TimePassedCondition) Evaluate(env Env) (bool, error) {
	v, ok := env.variable(c.variable)
	if !ok {
		return false, &MissingVariableError{Variable: c.variable}
	}

	stamp, ok := parseUnix(v.Value)
	if !ok {
		return false, nil
	}

	wait := c.minutes * float64(time.Minute)
	// Beyond the Duration range the threshold cannot have passed.
	if wait >= float64(math.MaxInt64) {
		return false, nil
	}
	earliest := time.Unix(stamp, 0).Add(time.Duration(wait))
	return earliest.Before(env.now()), nil
}

func (c *TimePassedCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       string            `json:"id"`
		Type     Type              `json:"type"`
		Variable VariableReference `json:"variable"`
		Minutes  float64           `json:"minutes"`
	}{c.id, TypeTimePassed, c.variable, c.minutes})
}

func decodeTimePassed(f fields) (Condition, error) {
	id, _, err := f.ids()
	if err != nil {
		return nil, err
	}
	var ref VariableReference
	if err := f.decode("variable", &ref, "a variable reference"); err != nil {
		return nil, err
	}
	minutes, err := f.number("minutes")
	if err != nil {
		return nil, err
	}
	return NewTimePassed(id, ref, minutes)
}

// parseUnix reads a leading integer the way stored timestamps are written:
// "1700000000", "1700000000.5" and " 1700000000" all parse.
func parseUnix(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}
