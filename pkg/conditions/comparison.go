package conditions

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Operator is a comparison operator.
type Operator string

const (
	OpEquals             Operator = "equals"
	OpNotEquals          Operator = "notEquals"
	OpGreaterThan        Operator = "greaterThan"
	OpLessThan           Operator = "lessThan"
	OpGreaterThanOrEqual Operator = "greaterThanOrEqual"
	OpLessThanOrEqual    Operator = "lessThanOrEqual"
)

func (o Operator) valid() bool {
	switch o {
	case OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		return true
	}
	return false
}

// Operand is either a variable reference or a literal string, number or bool.
type Operand struct {
	Ref     *VariableReference `json:"ref,omitempty"`
	Literal any                `json:"literal,omitempty"`
}

// RefOperand and LiteralOperand build operands.
func RefOperand(name string) Operand {
	ref := Ref(name)
	return Operand{Ref: &ref}
}

func LiteralOperand(v any) Operand { return Operand{Literal: v} }

func (o Operand) validate(field string) error {
	if o.Ref != nil && o.Literal != nil {
		return &ValidationError{Field: field, Reason: "operand cannot hold both ref and literal"}
	}
	switch o.Literal.(type) {
	case nil, string, float64, int, bool:
		return nil
	}
	return &ValidationError{Field: field, Value: fmt.Sprintf("%v", o.Literal), Reason: "literal must be a string, number or bool"}
}

// resolve returns the operand's value as a string, ok is false when it is undefined.
func (o Operand) resolve(env Env) (string, bool) {
	if o.Ref != nil {
		v, ok := env.variable(*o.Ref)
		return v.Value, ok
	}
	switch v := o.Literal.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

// ComparisonCondition compares two operands, numerically when both parse as numbers.
type ComparisonCondition struct {
	base
	left, right Operand
	operator    Operator
}

func NewComparison(id string, left Operand, op Operator, right Operand) (*ComparisonCondition, error) {
	if !op.valid() {
		return nil, &ValidationError{Field: "operator", Value: string(op), Reason: "unknown comparison operator"}
	}
	if err := left.validate("left"); err != nil {
		return nil, err
	}
	if err := right.validate("right"); err != nil {
		return nil, err
	}
	return &ComparisonCondition{base: base{id: id}, left: left, right: right, operator: op}, nil
}

func (c *ComparisonCondition) Type() Type         { return TypeComparison }
func (c *ComparisonCondition) Operator() Operator { return c.operator }
func (c *ComparisonCondition) Left() Operand      { return c.left }
func (c *ComparisonCondition) Right() Operand     { return c.right }

// WithOperator returns a copy using op.
func (c *ComparisonCondition) WithOperator(op Operator) (*ComparisonCondition, error) {
	return NewComparison(c.id, c.left, op, c.right)
}

// Evaluate returns false, never an error, when either operand is undefined.
func (c *ComparisonCondition) Evaluate(env Env) (bool, error) {
	a, ok := c.left.resolve(env)
	if !ok {
		return false, nil
	}
	b, ok := c.right.resolve(env)
	if !ok {
		return false, nil
	}
	return compare(c.operator, a, b), nil
}

func compare(op Operator, a, b string) bool {
	var order int
	af, aok := parseNumber(a)
	bf, bok := parseNumber(b)
	if aok && bok {
		order = cmp.Compare(af, bf)
	} else {
		order = strings.Compare(a, b)
	}

	switch op {
	case OpEquals:
		return order == 0
	case OpNotEquals:
		return order != 0
	case OpGreaterThan:
		return order > 0
	case OpLessThan:
		return order < 0
	case OpGreaterThanOrEqual:
		return order >= 0
	case OpLessThanOrEqual:
		return order <= 0
	}
	return false
}

func (c *ComparisonCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       string   `json:"id"`
		Type     Type     `json:"type"`
		Left     Operand  `json:"left"`
		Operator Operator `json:"operator"`
		Right    Operand  `json:"right"`
	}{c.id, TypeComparison, c.left, c.operator, c.right})
}

func decodeComparison(f fields) (Condition, error) {
	id, _, err := f.ids()
	if err != nil {
		return nil, err
	}
	var left, right Operand
	if err := f.decode("left", &left, "an operand object"); err != nil {
		return nil, err
	}
	if err := f.decode("right", &right, "an operand object"); err != nil {
		return nil, err
	}
	op, err := f.string("operator")
	if err != nil {
		return nil, err
	}
	return NewComparison(id, left, Operator(op), right)
}

// parseNumber accepts finite decimals only; "NaN" and "Inf" stay strings.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
