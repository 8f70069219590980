package cmdutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommaSeparatedList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty string", input: "", expected: nil},
		{name: "single item", input: "jdoe", expected: []string{"jdoe"}},
		{name: "multiple items", input: "jdoe,asmith", expected: []string{"jdoe", "asmith"}},
		{name: "items with spaces", input: "jdoe, asmith ", expected: []string{"jdoe", "asmith"}},
		{name: "empty items filtered", input: "jdoe,,asmith,", expected: []string{"jdoe", "asmith"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCommaSeparatedList(tt.input))
		})
	}
}

func TestBoolToYesNo(t *testing.T) {
	assert.Equal(t, "yes", BoolToYesNo(true))
	assert.Equal(t, "no", BoolToYesNo(false))
}

func TestEmptyOr(t *testing.T) {
	assert.Equal(t, "value", EmptyOr("value", "-"))
	assert.Equal(t, "-", EmptyOr("", "-"))
}

func TestFormatPoints(t *testing.T) {
	assert.Equal(t, "100", FormatPoints(100))
	assert.Equal(t, "42.5", FormatPoints(42.5))
	assert.Equal(t, "0", FormatPoints(0))
}
