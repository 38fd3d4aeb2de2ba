package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldTypeString(t *testing.T) {
	tests := []struct {
		ft       FieldType
		expected string
	}{
		{FieldTypeAny, "Any"},
		{FieldTypeInt, "Int"},
		{FieldTypeFloat, "Float"},
		{FieldTypeString, "String"},
		{FieldTypeBool, "Bool"},
		{FieldTypeArray, "Array"},
		{FieldType(99), "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.ft.String())
	}
}

func TestSchemaValidate(t *testing.T) {
	s := Schema{
		"sex":   FieldTypeString,
		"age":   FieldTypeInt,
		"score": FieldTypeFloat,
		"notes": FieldTypeAny,
	}

	tests := []struct {
		name    string
		doc     Document
		wantErr bool
	}{
		{
			"Valid",
			Document{
				"sex":   String("Female"),
				"age":   Int(31),
				"score": Float(0.5),
				"notes": Bool(true),
			},
			false,
		},
		{
			"Valid_IntAsFloat",
			Document{"score": Int(10)}, // Allowed upgrade
			false,
		},
		{
			"Valid_UnknownField",
			Document{"unknown": Int(1)}, // Should be ignored
			false,
		},
		{
			"Valid_Null",
			Document{"sex": Null()},
			false,
		},
		{
			"Invalid_Type",
			Document{"sex": Int(1)},
			true,
		},
		{
			"Invalid_IntAsBool",
			Document{"age": Bool(true)},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(tt.doc)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	// Nil schema
	var nilSchema Schema
	assert.NoError(t, nilSchema.Validate(Document{"age": Int(1)}))
}

func TestSchemaValidateMap(t *testing.T) {
	s := Schema{
		"sex":   FieldTypeString,
		"age":   FieldTypeInt,
		"score": FieldTypeFloat,
		"case":  FieldTypeBool,
		"tags":  FieldTypeArray,
	}

	tests := []struct {
		name    string
		input   map[string]any
		wantErr bool
	}{
		{
			"Valid",
			map[string]any{
				"sex":   "Female",
				"age":   31,
				"score": 0.5,
				"case":  true,
				"tags":  []any{"a", "b"},
			},
			false,
		},
		{
			"Valid_Subtypes",
			map[string]any{
				"age":   int64(10),
				"score": int(10),
			},
			false,
		},
		{
			"Valid_JSONIntegerAsInt",
			map[string]any{"age": float64(31)}, // JSON numbers arrive as float64
			false,
		},
		{
			"Valid_Null",
			map[string]any{"sex": nil},
			false,
		},
		{
			"Invalid_StringAsInt",
			map[string]any{"age": "not_int"},
			true,
		},
		{
			"Invalid_BoolAsFloat",
			map[string]any{"score": true},
			true,
		},
		{
			"Invalid_FractionAsInt",
			map[string]any{"age": 30.5},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ValidateMap(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	// Nil schema
	var nilSchema Schema
	assert.NoError(t, nilSchema.ValidateMap(map[string]any{"age": 1}))
}
