package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformList(t *testing.T) {
	assert.Equal(t, []string{"P1", "P2", "P 3"}, ErrorRecord{Platforms: " P1,P2 ,, P 3 "}.PlatformList())
	assert.Empty(t, ErrorRecord{Platforms: ""}.PlatformList())
}

func TestMatches(t *testing.T) {
	record := ErrorRecord{Code: "42", HMIMessage: "Overheat", Cause: "Fan blocked", Action: "Clean fan", Platforms: "P1, P10"}

	tests := []struct {
		name     string
		query    string
		platform string
		want     bool
	}{
		{"no filter", "", "", true},
		{"code", "42", "", true},
		{"message ignoring case", "OVERHEAT", "", true},
		{"action", "clean", "", true},
		{"platform text", "p10", "", true},
		{"no match", "battery", "", false},
		{"listed platform", "", "P1", true},
		{"second platform", "", "P10", true},
		{"platform prefix only", "", "P", false},
		{"unlisted platform", "", "P2", false},
		{"query and platform", "fan", "P10", true},
		{"query misses with platform", "battery", "P1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, record.Matches(tt.query, tt.platform))
		})
	}
}

func TestUniquePlatforms(t *testing.T) {
	records := []ErrorRecord{
		{Platforms: "P2,P1"},
		{Platforms: "P1"},
		{Platforms: ""},
		{Platforms: "P3, P2"},
	}

	assert.Equal(t, []string{"P2", "P1", "P3"}, UniquePlatforms(records))
	assert.Empty(t, UniquePlatforms(nil))
}
