package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOrganization(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Alpine Counseling Group PLLC", true},
		{"Wasatch Behavioral Health Services, Inc.", true},
		{"Canyon Psychiatry LLC", true},
		{"Sarah Jensen", false},
		{"Dr. Miguel Ortega", false},
		{"Incline Family Practice", true}, // PRACTICE token
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := Identity{Name: tt.name}
			assert.Equal(t, tt.want, id.IsOrganization())
		})
	}
}

func TestIsOrganizationDoesNotMatchSubstrings(t *testing.T) {
	// "Incognito" contains "INC" but is not an INC token.
	id := Identity{Name: "Incognito Jensen"}
	assert.False(t, id.IsOrganization())
}

func TestPersonName(t *testing.T) {
	tests := []struct {
		name      string
		wantFirst string
		wantLast  string
	}{
		{"Sarah Jensen", "Sarah", "Jensen"},
		{"Dr. Sarah Jensen", "Sarah", "Jensen"},
		{"Sarah A. Jensen", "Sarah", "Jensen"},
		{"Sarah Jensen LCSW", "Sarah", "Jensen"},
		{"Jensen", "", "Jensen"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := Identity{Name: tt.name}
			first, last := id.PersonName()
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}
