package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelcheck/modelcheck/pkg/schema"
)

const testSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "threshold": {"type": "number", "maximum": 1}
  },
  "required": ["name"],
  "additionalProperties": false
}`

func TestNewValidator(t *testing.T) {
	t.Parallel()

	v, err := schema.NewValidator("/test.json", []byte(testSchema))
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestNewValidatorBadSchema(t *testing.T) {
	t.Parallel()

	_, err := schema.NewValidator("/test.json", []byte("{not json"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	v := schema.MustNewValidator("/test.json", []byte(testSchema))

	tests := []struct {
		data    any
		name    string
		wantErr bool
	}{
		{
			name: "valid",
			data: map[string]any{"name": "x", "threshold": 0.8},
		},
		{
			name:    "missing required",
			data:    map[string]any{"threshold": 0.8},
			wantErr: true,
		},
		{
			name:    "wrong type",
			data:    map[string]any{"name": 5},
			wantErr: true,
		},
		{
			name:    "out of range",
			data:    map[string]any{"name": "x", "threshold": 2.0},
			wantErr: true,
		},
		{
			name:    "unknown field",
			data:    map[string]any{"name": "x", "extra": true},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := v.Validate(tc.data)

			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidationErrorPath(t *testing.T) {
	t.Parallel()

	v := schema.MustNewValidator("/test.json", []byte(testSchema))

	err := v.Validate(map[string]any{"name": "x", "threshold": 2.0})
	require.Error(t, err)

	var vErr *schema.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.NotNil(t, vErr.Path)
	assert.Contains(t, vErr.Path.String(), "threshold")
}
