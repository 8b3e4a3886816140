package conditions

import "encoding/json"

// CheckCondition is true iff its variable exists in the store, whatever its value.
type CheckCondition struct {
	base
	variable VariableReference
}

func NewCheck(id string, variable VariableReference) *CheckCondition {
	return &CheckCondition{base: base{id: id}, variable: variable}
}

func (c *CheckCondition) Type() Type                  { return TypeCheck }
func (c *CheckCondition) Variable() VariableReference { return c.variable }

// WithVariable returns a copy checking a different variable.
func (c *CheckCondition) WithVariable(v VariableReference) *CheckCondition {
	return NewCheck(c.id, v)
}

func (c *CheckCondition) Evaluate(env Env) (bool, error) {
	_, ok := env.variable(c.variable)
	return ok, nil
}

func (c *CheckCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       string            `json:"id"`
		Type     Type              `json:"type"`
		Variable VariableReference `json:"variable"`
	}{c.id, TypeCheck, c.variable})
}

func decodeCheck(f fields) (Condition, error) {
	id, _, err := f.ids()
	if err != nil {
		return nil, err
	}
	var ref VariableReference
	if err := f.decode("variable", &ref, "a variable reference"); err != nil {
		return nil, err
	}
	return NewCheck(id, ref), nil
}
