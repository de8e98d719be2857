package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyTable_RankedStableTieBreak(t *testing.T) {
	c := NewFrequencyCounter()
	c.Add("beta", 2)
	c.Add("alpha", 3)
	c.Add("gamma", 2)
	c.Add("delta", 3)

	ft := c.Table()
	assert.Equal(t, []Entry{
		{"alpha", 3}, {"delta", 3}, {"beta", 2}, {"gamma", 2},
	}, ft.Ranked())

	top, ok := ft.MostCommon()
	require.True(t, ok)
	assert.Equal(t, "alpha", top.Key)
	assert.Equal(t, 10, ft.Total())
	assert.Equal(t, 4, ft.Len())
}

func TestFrequencyTable_SnapshotIsolated(t *testing.T) {
	c := NewFrequencyCounter()
	c.Add("a", 1)
	ft := c.Table()
	c.Add("a", 5)
	c.Add("b", 1)

	assert.Equal(t, 1, ft.Count("a"))
	assert.False(t, ft.Has("b"))
}

func TestFrequencyTable_NilSafe(t *testing.T) {
	var ft *FrequencyTable
	assert.Equal(t, 0, ft.Count("x"))
	assert.Equal(t, 0, ft.Total())
	assert.Empty(t, ft.Ranked())
	_, ok := ft.MostCommon()
	assert.False(t, ok)
}

func TestFrequencyTable_JSONKeepsOrder(t *testing.T) {
	c := NewFrequencyCounter()
	c.Add("z", 1)
	c.Add("a", 2)
	data, err := json.Marshal(c.Table())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"key":"z","count":1},{"key":"a","count":2}]`, string(data))

	var back FrequencyTable
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c.Table().Entries(), back.Entries())
}

func TestUrgencyCounts(t *testing.T) {
	counts := UrgencyCounts([]Recommendation{
		{Urgency: UrgencyHigh}, {Urgency: UrgencyLow}, {Urgency: UrgencyHigh},
	})
	assert.Equal(t, map[Urgency]int{UrgencyHigh: 2, UrgencyMedium: 0, UrgencyLow: 1}, counts)
}
