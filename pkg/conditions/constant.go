package conditions

import "encoding/json"

// TrueCondition always holds.
type TrueCondition struct{ base }

// FalseCondition never holds.
type FalseCondition struct{ base }

func NewTrue(id string) *TrueCondition   { return &TrueCondition{base{id: id}} }
func NewFalse(id string) *FalseCondition { return &FalseCondition{base{id: id}} }

func (c *TrueCondition) Type() Type                  { return TypeTrue }
func (c *TrueCondition) Evaluate(Env) (bool, error)  { return true, nil }
func (c *FalseCondition) Type() Type                 { return TypeFalse }
func (c *FalseCondition) Evaluate(Env) (bool, error) { return false, nil }

func (c *TrueCondition) MarshalJSON() ([]byte, error)  { return marshalBare(c.id, TypeTrue) }
func (c *FalseCondition) MarshalJSON() ([]byte, error) { return marshalBare(c.id, TypeFalse) }

func marshalBare(id string, t Type) ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Type Type   `json:"type"`
	}{id, t})
}

func decodeTrue(f fields) (Condition, error) {
	id, _, err := f.ids()
	if err != nil {
		return nil, err
	}
	return NewTrue(id), nil
}

func decodeFalse(f fields) (Condition, error) {
	id, _, err := f.ids()
	if err != nil {
		return nil, err
	}
	return NewFalse(id), nil
}
