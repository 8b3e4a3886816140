package conditions

import "encoding/json"

// OtherCondition stands in for placeholder and unrecognised condition types.
// It keeps the original payload so the story round-trips, and never holds.
type OtherCondition struct {
	base
	tag     Type
	payload fields
}

func NewOther(id string) *OtherCondition {
	return &OtherCondition{base: base{id: id}, tag: TypeOther}
}

func (c *OtherCondition) Type() Type { return TypeOther }

// Tag returns the type tag the condition was loaded with, e.g. "bogus".
func (c *OtherCondition) Tag() Type { return c.tag }

func (c *OtherCondition) Evaluate(Env) (bool, error) { return false, nil }

func (c *OtherCondition) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.payload)+2)
	for k, v := range c.payload {
		out[k] = v
	}
	out["id"] = c.id
	out["type"] = c.tag
	return json.Marshal(out)
}

func decodeOther(f fields) (Condition, error) {
	id, err := f.string("id")
	if err != nil {
		return nil, err
	}
	tag := TypeOther
	if s, err := f.string("type"); err == nil && s != "" {
		tag = Type(s)
	}
	return &OtherCondition{base: base{id: id}, tag: tag, payload: f}, nil
}
