package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	t.Parallel()
	testCases := map[string]struct {
		args     []interface{}
		expected string
	}{
		"joins parts with newlines": {
			args:     []interface{}{"a", "b"},
			expected: "a\nb",
		},
		"single part": {
			args:     []interface{}{"a"},
			expected: "a",
		},
		"no parts": {
			args:     []interface{}{},
			expected: "",
		},
		"interpolates variables": {
			args:     []interface{}{"a", "${x}", vars{"x": "b"}},
			expected: "a\nb",
		},
		"interpolates multiple occurrences": {
			args:     []interface{}{"${x} + ${x} = ${y}", vars{"x": "1", "y": "2"}},
			expected: "1 + 1 = 2",
		},
		"string filter quotes the value": {
			args:     []interface{}{"a", "${x|string}", vars{"x": "b"}},
			expected: "a\n\"b\"",
		},
		"multi-line value re-indented by its own first-line prefix": {
			args:     []interface{}{"a", "${x}", vars{"x": "  b\nc"}},
			expected: "a\n  b\n  c",
		},
		"multi-line value inherits template indentation": {
			args:     []interface{}{"a", "  ${x}", vars{"x": "b\nc"}},
			expected: "a\n  b\n  c",
		},
		"re-indentation applies to every following line": {
			args:     []interface{}{"  ${x}", vars{"x": "b\nc\nd"}},
			expected: "  b\n  c\n  d",
		},
		"substituted values are not re-scanned": {
			args:     []interface{}{"${x}", vars{"x": "${y}"}},
			expected: "${y}",
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, format(tc.args...))
		})
	}
}

func TestFormatUndefinedVariable(t *testing.T) {
	t.Parallel()
	require.PanicsWithError(t, `undefined variable: "x"`, func() {
		format("a", "${x}")
	})
	require.PanicsWithError(t, `undefined variable: "x"`, func() {
		format("${x}", vars{"y": "b"})
	})
}

func TestFormatUnrecognizedFilter(t *testing.T) {
	t.Parallel()
	require.PanicsWithError(t, `unrecognized filter: "nope"`, func() {
		format("a", "${x|nope}", vars{"x": "b"})
	})
}

func TestFormatNonStringPart(t *testing.T) {
	t.Parallel()
	require.Panics(t, func() {
		format(42, vars{})
	})
}
