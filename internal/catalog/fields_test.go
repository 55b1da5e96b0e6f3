package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"SWE 2020", "swe2020"},
		{"swe2020", "swe2020"},
		{"MAT 1101 A", "mat1101a"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeCode(tt.code))
	}
}

func TestSearchableFields(t *testing.T) {
	fields := SearchableFields("Software Engineering", "swe2020")
	assert.Equal(t, []string{"software", "engineering", "swe2020", "2020"}, fields)
}

func TestSearchableFieldsDeduplicates(t *testing.T) {
	fields := SearchableFields("Math Math", "math")
	// Repeated name tokens collapse and a code without digits adds no
	// numeric token.
	assert.Equal(t, []string{"math"}, fields)
}

func TestLecturerSearchFields(t *testing.T) {
	lowercase, fields := LecturerSearchFields("John Doe")
	assert.Equal(t, "john doe", lowercase)
	assert.Equal(t, []string{"john", "doe"}, fields)
}
