package conditions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogicalCondition_AndShortCircuits(t *testing.T) {
	first := &spyCondition{id: "c1", result: false}
	second := &spyCondition{id: "c2", result: true}
	and, err := NewLogical("and", LogicalAnd, "c1", "c2")
	require.NoError(t, err)

	reg := NewCollection(first, second, and)
	got, err := reg.Evaluate("and", Env{})
	require.NoError(t, err)

	assert.False(t, got)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "second child must not be evaluated")
}

func TestLogicalCondition_OrShortCircuits(t *testing.T) {
	first := &spyCondition{id: "c1", result: true}
	second := &spyCondition{id: "c2", result: false}
	or, err := NewLogical("or", LogicalOr, "c1", "c2")
	require.NoError(t, err)

	reg := NewCollection(first, second, or)
	got, err := reg.Evaluate("or", Env{})
	require.NoError(t, err)

	assert.True(t, got)
	assert.Equal(t, 0, second.calls)
}

func TestLogicalCondition_Evaluate(t *testing.T) {
	reg := NewCollection(NewTrue("t"), NewFalse("f"))

	tests := []struct {
		name     string
		op       LogicalOperator
		children []string
		expected bool
	}{
		{"and all true", LogicalAnd, []string{"t", "t"}, true},
		{"and one false", LogicalAnd, []string{"t", "f"}, false},
		{"or one true", LogicalOr, []string{"f", "t"}, true},
		{"or all false", LogicalOr, []string{"f", "f"}, false},
		{"not true", LogicalNot, []string{"t"}, false},
		{"not false", LogicalNot, []string{"f"}, true},
		{"empty and", LogicalAnd, nil, true},
		{"empty or", LogicalOr, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := NewLogical("x", tt.op, tt.children...)
			require.NoError(t, err)

			got, err := cond.Evaluate(Env{Conditions: reg})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLogicalCondition_Nested(t *testing.T) {
	vars := Variables{"key": {Value: "1"}}
	inner, _ := NewLogical("inner", LogicalOr, "f", "has-key")
	outer, _ := NewLogical("outer", LogicalAnd, "t", "inner")
	reg := NewCollection(NewTrue("t"), NewFalse("f"), NewCheck("has-key", Ref("key")), inner, outer)

	got, err := reg.Evaluate("outer", Env{Variables: vars})
	require.NoError(t, err)
	assert.True(t, got)

	delete(vars, "key")
	got, err = reg.Evaluate("outer", Env{Variables: vars})
	require.NoError(t, err)
	assert.False(t, got)
}

func TestLogicalCondition_MissingChild(t *testing.T) {
	and, _ := NewLogical("and", LogicalAnd, "t", "ghost")
	reg := NewCollection(NewTrue("t"), and)

	_, err := reg.Evaluate("and", Env{})
	var notFound *ConditionNotFoundError
	require.True(t, errors.As(err, &notFound), "expected ConditionNotFoundError, got %v", err)
	assert.Equal(t, "ghost", notFound.ID)
}

func TestLogicalCondition_PropagatesChildErrors(t *testing.T) {
	tp, _ := NewTimePassed("tp", Ref("started"), 1)
	or, _ := NewLogical("or", LogicalOr, "f", "tp")
	reg := NewCollection(NewFalse("f"), tp, or)

	_, err := reg.Evaluate("or", Env{Variables: Variables{}})
	var missing *MissingVariableError
	assert.True(t, errors.As(err, &missing))
}

func TestLogicalCondition_CycleHitsDepthGuard(t *testing.T) {
	a, _ := NewLogical("a", LogicalAnd, "b")
	b, _ := NewLogical("b", LogicalNot, "a")
	reg := NewCollection(a, b)

	_, err := reg.Evaluate("a", Env{})
	assert.ErrorIs(t, err, ErrMaxDepthExceeded)
}

func TestNewLogical_Validation(t *testing.T) {
	_, err := NewLogical("n", LogicalNot, "a", "b")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "children", verr.Field)

	_, err = NewLogical("n", LogicalNot)
	assert.True(t, errors.As(err, &verr))

	_, err = NewLogical("x", "xor", "a", "b")
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "operator", verr.Field)
}

func TestLogicalCondition_WithChildren(t *testing.T) {
	and, err := NewLogical("a", LogicalAnd, "x")
	require.NoError(t, err)

	wider, err := and.WithChildren("x", "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, wider.Children())
	assert.Equal(t, []string{"x"}, and.Children(), "original is unchanged")

	not, err := NewLogical("n", LogicalNot, "x")
	require.NoError(t, err)
	_, err = not.WithChildren()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "children", verr.Field)
}
