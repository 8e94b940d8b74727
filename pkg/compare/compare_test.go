package compare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modelcheck/modelcheck/pkg/compare"
)

func TestEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a    any
		b    any
		name string
		opts []compare.Option
		want bool
	}{
		{name: "identical ints", a: 1, b: 1, want: true},
		{name: "int and float", a: 1, b: 1.0, want: true},
		{name: "numeric strings", a: "300", b: 300, want: true},
		{name: "numeric string both sides", a: "300", b: "300.0", want: true},
		{name: "float noise within tolerance", a: 5300.000000000002, b: 5300.0, want: true},
		{name: "different numbers", a: 300, b: 301, want: false},
		{name: "strings case folded", a: "Fc24", b: "fc24", want: true},
		{name: "strings different", a: "Fc24", b: "Fc30", want: false},
		{
			name: "case sensitive option",
			a:    "Fc24", b: "fc24",
			opts: []compare.Option{compare.CaseSensitive()},
			want: false,
		},
		{name: "yes string equals true", a: "Yes", b: true, want: true},
		{name: "no string equals false", a: "No", b: false, want: true},
		{name: "yes equals true string", a: "yes", b: "TRUE", want: true},
		{name: "bool literals", a: true, b: true, want: true},
		{name: "bool mismatch", a: true, b: false, want: false},
		{
			name: "yes no disabled",
			a:    "Yes", b: true,
			opts: []compare.Option{compare.WithoutYesNo()},
			want: false,
		},
		{
			name: "exact rejects tolerance closeness",
			a:    5300.000000000002, b: 5300.0,
			opts: []compare.Option{compare.Exact(), compare.WithTolerance(0)},
			want: false,
		},
		{
			name: "widened tolerance",
			a:    300.0, b: 300.4,
			opts: []compare.Option{compare.WithTolerance(0.5)},
			want: true,
		},
		{name: "nil equals nil", a: nil, b: nil, want: true},
		{name: "nil not equal to zero", a: nil, b: 0, want: false},
		{name: "string not number", a: "W30", b: 30, want: false},
		{name: "negative numeric string", a: "-5", b: -5.0, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, compare.Equal(tc.a, tc.b, tc.opts...))
		})
	}
}

func TestStrict(t *testing.T) {
	t.Parallel()

	assert.True(t, compare.Strict("W30", "W30"))
	assert.False(t, compare.Strict("W30", "w30"))
	assert.False(t, compare.Strict("Yes", true))
	assert.False(t, compare.Strict(5300.000000000002, 5300.0))
	assert.True(t, compare.Strict(300.0, 300.0))
	assert.True(t, compare.Strict(300, 300.0))

	// Numeric strings parse before the exact comparison.
	assert.True(t, compare.Strict("300", 300))
	assert.True(t, compare.Strict("300", "300.0"))
	assert.False(t, compare.Strict("301", 300))
	assert.False(t, compare.Strict("W30", 30))
}

func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{name: "integer", input: "300", want: 300, ok: true},
		{name: "decimal", input: "3.5", want: 3.5, ok: true},
		{name: "negative", input: "-12.25", want: -12.25, ok: true},
		{name: "surrounding whitespace", input: " 42 ", want: 42, ok: true},
		{name: "two dots", input: "1.2.3", ok: false},
		{name: "scientific notation rejected", input: "1e3", ok: false},
		{name: "word", input: "Walls", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "lone minus", input: "-", ok: false},
		{name: "lone dot", input: ".", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := compare.ParseNumber(tc.input)

			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.InDelta(t, tc.want, got, 0)
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	t.Parallel()

	got, ok := compare.ToFloat(42)
	assert.True(t, ok)
	assert.InDelta(t, 42.0, got, 0)

	got, ok = compare.ToFloat(int64(7))
	assert.True(t, ok)
	assert.InDelta(t, 7.0, got, 0)

	_, ok = compare.ToFloat("42")
	assert.False(t, ok)

	_, ok = compare.ToFloat(nil)
	assert.False(t, ok)
}
