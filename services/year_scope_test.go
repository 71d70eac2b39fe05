package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearPolicyStates(t *testing.T) {
	policy := NewYearPolicy(2025, []int{2024, 2026, 2025})

	assert.Equal(t, YearHistorical, policy.State(2024))
	assert.Equal(t, YearCurrent, policy.State(2025))
	assert.Equal(t, YearPlanning, policy.State(2026))

	assert.Equal(t, "Histórico", YearHistorical.Label())
	assert.Equal(t, "Em Execução", YearCurrent.Label())
	assert.Equal(t, "Planejamento", YearPlanning.Label())

	assert.True(t, policy.ReadOnly(2024))
	assert.False(t, policy.ReadOnly(2025))
	assert.False(t, policy.ReadOnly(2026))
}

func TestYearPolicyChecks(t *testing.T) {
	policy := NewYearPolicy(2025, []int{2026, 2025, 2024})

	assert.NoError(t, policy.CheckSelectable(2024))
	assert.ErrorIs(t, policy.CheckSelectable(2023), ErrYearNotSelectable)

	assert.ErrorIs(t, policy.CheckWritable(2024), ErrReadOnlyYear)
	assert.NoError(t, policy.CheckWritable(2025))
	assert.NoError(t, policy.CheckWritable(2026))
}

func TestYearPolicyYearsNewestFirst(t *testing.T) {
	policy := NewYearPolicy(2025, []int{2024, 2026, 2025})

	years := policy.Years(2024)

	require.Len(t, years, 3)
	assert.Equal(t, 2026, years[0].Year)
	assert.Equal(t, "planning", years[0].State)
	assert.Equal(t, 2024, years[2].Year)
	assert.True(t, years[2].Active)
	assert.True(t, years[2].ReadOnly)
	assert.False(t, years[1].Active)
}
