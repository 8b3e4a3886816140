package conditions

import (
	"encoding/json"
	"slices"
	"strconv"
)

// LogicalOperator combines child conditions.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "and"
	LogicalOr  LogicalOperator = "or"
	LogicalNot LogicalOperator = "not"
)

// LogicalCondition combines other conditions, looked up by id in the registry
// at evaluation time.
type LogicalCondition struct {
	base
	operator LogicalOperator
	children []string
}

func NewLogical(id string, op LogicalOperator, children ...string) (*LogicalCondition, error) {
	switch op {
	case LogicalAnd, LogicalOr:
	case LogicalNot:
		if len(children) != 1 {
			return nil, &ValidationError{Field: "children", Value: strconv.Itoa(len(children)), Reason: "not requires exactly one child"}
		}
	default:
		return nil, &ValidationError{Field: "operator", Value: string(op), Reason: "must be one of and, or, not"}
	}
	return &LogicalCondition{base: base{id: id}, operator: op, children: slices.Clone(children)}, nil
}

func (c *LogicalCondition) Type() Type                { return TypeLogical }
func (c *LogicalCondition) Operator() LogicalOperator { return c.operator }
func (c *LogicalCondition) Children() []string       { return slices.Clone(c.children) }

// WithChildren returns a copy over a different child list.
func (c *LogicalCondition) WithChildren(children ...string) (*LogicalCondition, error) {
	return NewLogical(c.id, c.operator, children...)
}

// Evaluate walks children left to right, stopping at the first false for
// "and" and the first true for "or". An empty "and" holds, an empty "or" does not.
// Errors from children propagate unchanged.
func (c *LogicalCondition) Evaluate(env Env) (bool, error) {
	switch c.operator {
	case LogicalNot:
		v, err := env.evaluateRef(c.children[0])
		if err != nil {
			return false, err
		}
		return !v, nil
	case LogicalAnd:
		for _, id := range c.children {
			v, err := env.evaluateRef(id)
			if err != nil || !v {
				return false, err
			}
		}
		return true, nil
	case LogicalOr:
		for _, id := range c.children {
			v, err := env.evaluateRef(id)
			if err != nil {
				return false, err
			}
			if v {
				return true, nil
			}
		}
		return false, nil
	}
	return false, nil
}

func (c *LogicalCondition) MarshalJSON() ([]byte, error) {
	children := c.children
	if children == nil {
		children = []string{}
	}
	return json.Marshal(struct {
		ID       string          `json:"id"`
		Type     Type            `json:"type"`
		Operator LogicalOperator `json:"operator"`
		Children []string        `json:"children"`
	}{c.id, TypeLogical, c.operator, children})
}

func decodeLogical(f fields) (Condition, error) {
	id, _, err := f.ids()
	if err != nil {
		return nil, err
	}
	op, err := f.string("operator")
	if err != nil {
		return nil, err
	}
	var children []string
	if err := f.decode("children", &children, "an array of condition ids"); err != nil {
		return nil, err
	}
	return NewLogical(id, LogicalOperator(op), children...)
}
