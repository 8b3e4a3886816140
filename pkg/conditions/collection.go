package conditions

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Collection is the condition registry of a story: conditions keyed by id,
// kept in insertion order for serialization.
type Collection struct {
	order []string
	items map[string]Condition
}

// Ensure Collection implements Resolver
var _ Resolver = (*Collection)(nil)

// NewCollection returns a collection holding conds, later ids replacing earlier ones.
func NewCollection(conds ...Condition) *Collection {
	c := &Collection{items: make(map[string]Condition)}
	for _, cond := range conds {
		c.Save(cond)
	}
	return c
}

// Get looks a condition up by id.
func (c *Collection) Get(id string) (Condition, bool) {
	if c == nil {
		return nil, false
	}
	cond, ok := c.items[id]
	return cond, ok
}

// Save stores cond. A duplicate id replaces the earlier condition in its original position.
func (c *Collection) Save(cond Condition) {
	if c.items == nil {
		c.items = make(map[string]Condition)
	}
	if _, exists := c.items[cond.ID()]; !exists {
		c.order = append(c.order, cond.ID())
	}
	c.items[cond.ID()] = cond
}

// Load decodes and saves every item. Unknown types become OtherCondition; a
// malformed item aborts the load and leaves the collection unchanged.
func (c *Collection) Load(items []json.RawMessage) error {
	decoded := make([]Condition, 0, len(items))
	for i, item := range items {
		cond, err := Decode(item)
		if err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
		decoded = append(decoded, cond)
	}
	for _, cond := range decoded {
		c.Save(cond)
	}
	return nil
}

// Len returns the number of conditions.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// IDs returns condition ids in insertion order.
func (c *Collection) IDs() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// All returns the conditions in insertion order.
func (c *Collection) All() []Condition {
	if c == nil {
		return nil
	}
	out := make([]Condition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// Evaluate resolves id and evaluates it. env.Conditions defaults to c.
func (c *Collection) Evaluate(id string, env Env) (bool, error) {
	cond, ok := c.Get(id)
	if !ok {
		return false, &ConditionNotFoundError{ID: id}
	}
	if env.Conditions == nil {
		env.Conditions = c
	}
	return cond.Evaluate(env)
}

func (c *Collection) MarshalJSON() ([]byte, error) {
	all := c.All()
	if all == nil {
		all = []Condition{}
	}
	return json.Marshal(all)
}

// UnmarshalJSON replaces the collection contents with the decoded array.
func (c *Collection) UnmarshalJSON(data []byte) error {
	fresh := NewCollection()
	if !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return &ValidationError{Field: "conditions", Value: preview(data), Reason: "must be an array"}
		}
		if err := fresh.Load(items); err != nil {
			return err
		}
	}
	*c = *fresh
	return nil
}
