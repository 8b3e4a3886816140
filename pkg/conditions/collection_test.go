package conditions

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_LoadUnknownTag(t *testing.T) {
	reg := NewCollection()
	err := reg.Load([]json.RawMessage{raw(`{"id":"x","type":"bogus","payload":{"a":1}}`)})
	require.NoError(t, err)

	cond, ok := reg.Get("x")
	require.True(t, ok)
	assert.Equal(t, TypeOther, cond.Type())
	assert.Equal(t, Type("bogus"), cond.(*OtherCondition).Tag())

	got, err := cond.Evaluate(Env{})
	require.NoError(t, err)
	assert.False(t, got)

	data, err := json.Marshal(cond)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","type":"bogus","payload":{"a":1}}`, string(data))
}

func TestCollection_LoadMissingOrInvalidTag(t *testing.T) {
	reg := NewCollection()
	require.NoError(t, reg.Load([]json.RawMessage{
		raw(`{"id":"no-type"}`),
		raw(`{"id":"numeric-type","type":5}`),
	}))

	for _, id := range []string{"no-type", "numeric-type"} {
		cond, ok := reg.Get(id)
		require.True(t, ok, id)
		assert.Equal(t, TypeOther, cond.Type())
	}
}

func TestCollection_DuplicateIDsLastWriteWins(t *testing.T) {
	reg := NewCollection()
	require.NoError(t, reg.Load([]json.RawMessage{
		raw(`{"id":"a","type":"true"}`),
		raw(`{"id":"b","type":"true"}`),
		raw(`{"id":"a","type":"false"}`),
	}))

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"a", "b"}, reg.IDs(), "replacement keeps the first insertion slot")

	cond, _ := reg.Get("a")
	assert.Equal(t, TypeFalse, cond.Type())
}

func TestCollection_LoadAugments(t *testing.T) {
	reg := NewCollection(NewTrue("a"))
	require.NoError(t, reg.Load([]json.RawMessage{raw(`{"id":"b","type":"false"}`)}))
	assert.Equal(t, []string{"a", "b"}, reg.IDs())
}

func TestCollection_LoadRejectsMalformedMember(t *testing.T) {
	reg := NewCollection(NewTrue("keep"))
	err := reg.Load([]json.RawMessage{
		raw(`{"id":"ok","type":"true"}`),
		raw(`{"id":"tp","type":"timepassed","variable":"v","minutes":"five"}`),
	})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, "minutes", verr.Field)
	assert.Equal(t, []string{"keep"}, reg.IDs(), "failed load leaves the collection unchanged")
}

func TestDecode_Validation(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		field string
	}{
		{"array payload", `[{"id":"x"}]`, "data"},
		{"string payload", `"x"`, "data"},
		{"numeric id", `{"id":5,"type":"true"}`, "id"},
		{"check variable number", `{"id":"c","type":"check","variable":12}`, "variable"},
		{"logical children not array", `{"id":"l","type":"logical","operator":"and","children":"a"}`, "children"},
		{"logical unknown operator", `{"id":"l","type":"logical","operator":"xor","children":[]}`, "operator"},
		{"comparison operand not object", `{"id":"c","type":"comparison","left":"score","operator":"equals","right":{"literal":1}}`, "left"},
		{"timerange start number", `{"id":"t","type":"timerange","start":9,"end":"10:00"}`, "start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(raw(tt.json))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestDecode_AcceptsUndefinedFields(t *testing.T) {
	cond, err := Decode(raw(`{"id":"c","type":"check","variable":null}`))
	require.NoError(t, err)
	assert.True(t, cond.(*CheckCondition).Variable().IsZero())

	cond, err = Decode(raw(`{"type":"true"}`))
	require.NoError(t, err)
	assert.Equal(t, "", cond.ID())
}

func TestCollection_JSON(t *testing.T) {
	data := `[{"id":"b","type":"false"},{"id":"a","type":"true"}]`

	var reg Collection
	require.NoError(t, json.Unmarshal([]byte(data), &reg))
	assert.Equal(t, []string{"b", "a"}, reg.IDs())

	out, err := json.Marshal(&reg)
	require.NoError(t, err)
	assert.JSONEq(t, data, string(out))

	require.NoError(t, json.Unmarshal([]byte(`[{"id":"c","type":"true"}]`), &reg))
	assert.Equal(t, []string{"c"}, reg.IDs(), "unmarshal replaces contents")

	assert.Error(t, json.Unmarshal([]byte(`{"id":"c"}`), &reg))
}

func TestCollection_EvaluateUnknownID(t *testing.T) {
	_, err := NewCollection().Evaluate("nope", Env{})
	var notFound *ConditionNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestCollection_NilSafe(t *testing.T) {
	var reg *Collection
	_, ok := reg.Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.All())
}
