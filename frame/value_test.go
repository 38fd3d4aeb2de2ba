package frame

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAccessors(t *testing.T) {
	i, ok := Int(42).AsInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(42), i)

	f, ok := Float(2.5).AsFloat64()
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	s, ok := String("tumor").AsString()
	assert.True(t, ok)
	assert.Equal(t, "tumor", s)

	b, ok := Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	a, ok := Array([]Value{Int(1), Int(2)}).AsArray()
	assert.True(t, ok)
	assert.Len(t, a, 2)

	assert.True(t, Null().IsNull())
	assert.False(t, Int(1).IsNull())

	// Kind mismatches
	_, ok = Int(1).AsString()
	assert.False(t, ok)
	_, ok = String("x").AsInt64()
	assert.False(t, ok)
	assert.Equal(t, "", Int(1).StringValue())
}

func TestValueKeyStability(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), "null"},
		{Int(-3), "i:-3"},
		{Bool(true), "b:1"},
		{Bool(false), "b:0"},
		{String("Control"), "s:Control"},
		{Array(nil), "a:"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.Key())
	}

	// Distinct values must have distinct keys.
	assert.NotEqual(t, Int(1).Key(), Float(1).Key())
	assert.NotEqual(t, String("1").Key(), Int(1).Key())

	// Same value, same key, independent of construction path.
	assert.Equal(t, Float(0.5).Key(), Float(0.5).Key())
	assert.Equal(t,
		Array([]Value{String("a"), Int(1)}).Key(),
		Array([]Value{String("a"), Int(1)}).Key(),
	)
}

func TestValueJSONRoundTrip(t *testing.T) {
	values := []Value{
		Null(),
		Int(31),
		Float(0.75),
		String("Female"),
		Bool(true),
		Array([]Value{String("a"), Int(2), Null()}),
	}

	for _, v := range values {
		data, err := json.Marshal(v)
		require.NoError(t, err)

		var got Value
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, v.Key(), got.Key(), "round trip changed %s", v.Key())
	}
}

func TestDocumentClone(t *testing.T) {
	doc := Document{
		"group": String("Control"),
		"tags":  Array([]Value{String("a"), String("b")}),
	}

	clone := doc.Clone()
	require.Equal(t, doc["group"].Key(), clone["group"].Key())

	// Mutating the clone's array must not leak into the original.
	arr, _ := clone["tags"].AsArray()
	arr[0] = String("mutated")

	orig, _ := doc["tags"].AsArray()
	assert.Equal(t, "a", orig[0].StringValue())

	var nilDoc Document
	assert.Nil(t, nilDoc.Clone())
}
