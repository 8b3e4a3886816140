package conditions

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VariableReference names a runtime variable. It is resolved at evaluation time,
// so a condition always sees the current contents of the store.
type VariableReference struct {
	Namespace string `json:"namespace,omitempty"`
	Variable  string `json:"variable"`
}

// Ref returns a reference to a variable in the default namespace.
func Ref(name string) VariableReference {
	return VariableReference{Variable: name}
}

// ParseReference is the inverse of String: "ns.var" splits on the first dot,
// anything else is a variable in the default namespace.
func ParseReference(s string) VariableReference {
	if ns, name, ok := strings.Cut(s, "."); ok && ns != "" && name != "" {
		return VariableReference{Namespace: ns, Variable: name}
	}
	return VariableReference{Variable: s}
}

// String returns the store key for the reference.
func (r VariableReference) String() string {
	if r.Namespace == "" {
		return r.Variable
	}
	return r.Namespace + "." + r.Variable
}

// IsZero reports whether the reference names nothing.
func (r VariableReference) IsZero() bool {
	return r.Namespace == "" && r.Variable == ""
}

// MarshalJSON writes a bare string unless a namespace is set.
func (r VariableReference) MarshalJSON() ([]byte, error) {
	if r.Namespace == "" {
		return json.Marshal(r.Variable)
	}
	type alias VariableReference
	return json.Marshal(alias(r))
}

// UnmarshalJSON accepts either a plain variable name or a {namespace, variable} object.
func (r *VariableReference) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*r = VariableReference{Variable: name}
		return nil
	}

	type alias VariableReference
	var aux alias
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("variable reference must be a string or object: %w", err)
	}
	*r = VariableReference(aux)
	return nil
}

// Variable is a stored runtime value plus the unix time it was last written.
type Variable struct {
	Value     string `json:"value"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// VariableAccessor resolves references against a variable store.
type VariableAccessor interface {
	Get(ref VariableReference) (Variable, bool)
}

// Variables is a map-backed VariableAccessor keyed by VariableReference.String.
type Variables map[string]Variable

func (v Variables) Get(ref VariableReference) (Variable, bool) {
	val, ok := v[ref.String()]
	return val, ok
}

// Set stores value under ref.
func (v Variables) Set(ref VariableReference, value string, timestamp int64) {
	v[ref.String()] = Variable{Value: value, Timestamp: timestamp}
}
