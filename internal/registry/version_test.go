package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omnieconomy/wiki-mcp/internal/registry"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"0.1.1", "0.1.1", 0},
		{"0.1.0", "0.1.1", -1},
		{"0.2.0", "0.1.9", 1},
		{"1.0", "1.0.0", 0},
		{"garbage", "0.1.0", -1},
		{"0.1.0", "garbage", 1},
		{"garbage", "junk", 0},
	}

	for _, tt := range tests {
		t.Run(tt.v1+"_vs_"+tt.v2, func(t *testing.T) {
			assert.Equal(t, tt.want, registry.CompareVersions(tt.v1, tt.v2))
		})
	}
}

func TestIsOutdated(t *testing.T) {
	current := registry.Page{Meta: &registry.PageMeta{ModVersion: "0.2.0"}}
	old := registry.Page{Meta: &registry.PageMeta{ModVersion: "0.1.1"}}
	missing := registry.Page{}

	assert.False(t, registry.IsOutdated(current, "0.2.0"))
	assert.True(t, registry.IsOutdated(old, "0.2.0"))
	assert.True(t, registry.IsOutdated(missing, "0.2.0"))
}

func TestVersionDifference(t *testing.T) {
	tests := []struct {
		page, current string
		want          string
	}{
		{"0.1.1", "0.1.1", "up to date"},
		{"0.3.0", "0.1.1", "ahead (beta)"},
		{"0.1.1", "0.2.0", "1 minor version behind"},
		{"0.1.1", "0.4.0", "3 minor versions behind"},
		{"1.0.0", "3.0.0", "2 major versions behind"},
		{"0.1.0", "0.1.1", "slightly outdated"},
	}

	for _, tt := range tests {
		t.Run(tt.page+"_vs_"+tt.current, func(t *testing.T) {
			assert.Equal(t, tt.want, registry.VersionDifference(tt.page, tt.current))
		})
	}
}
