package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNavigationTarget(t *testing.T) {
	target, err := ParseNavigationTarget("overview")
	require.NoError(t, err)
	assert.True(t, target.IsOverview())

	target, err = ParseNavigationTarget("settings")
	require.NoError(t, err)
	assert.True(t, target.IsSettings())

	target, err = ParseNavigationTarget("sector:DGGT")
	require.NoError(t, err)
	assert.True(t, target.IsSector())
	assert.Equal(t, "DGGT", target.SectorID)
	assert.Equal(t, "sector:DGGT", target.String())
}

func TestParseNavigationTargetRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "sector:", "dashboard", "SECTOR:DGGT"} {
		_, err := ParseNavigationTarget(raw)
		assert.Error(t, err, raw)
	}
}
