package golfgenius

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundFromMap(t *testing.T) {
	t.Run("date falls through unusable fields", func(t *testing.T) {
		r := RoundFromMap(map[string]any{
			"id":         json.Number("7"),
			"date":       "TBD",
			"round_date": "",
			"start_date": "2025-07-04 09:00:00",
		}, "e9")
		assert.Equal(t, "7", r.ID)
		require.NotNil(t, r.Date)
		assert.Equal(t, "2025-07-04", r.Date.Format("2006-01-02"))
	})

	t.Run("timezone offsets are kept", func(t *testing.T) {
		r := RoundFromMap(map[string]any{"id": "1", "date": "2025-07-04T23:30:00-05:00"}, "e9")
		require.NotNil(t, r.Date)
		assert.Equal(t, 5, r.Date.UTC().Day())
	})

	t.Run("short tee time is ignored", func(t *testing.T) {
		r := RoundFromMap(map[string]any{"id": "1", "tee_time": "08:30"}, "e9")
		assert.Nil(t, r.Date)
	})

	t.Run("name fallbacks", func(t *testing.T) {
		assert.Equal(t, "Final", RoundFromMap(map[string]any{"name": "Final", "round_name": "R4"}, "e").Name)
		assert.Equal(t, "R4", RoundFromMap(map[string]any{"round_name": "R4"}, "e").Name)
		assert.Equal(t, "Round", RoundFromMap(map[string]any{}, "e").Name)
	})
}

func TestRoundFlag(t *testing.T) {
	r := Round{ID: "1", Name: "Test Round"}
	assert.Equal(t, "Test Round (No Date)", r.String())

	r.Flag("Complete scoring detected: F9=4, B9=4 players")
	assert.True(t, r.IsFlagged)
	assert.Equal(t, "Complete scoring detected: F9=4, B9=4 players", r.FlagReason)
	assert.Equal(t, "Test Round (No Date) [FLAGGED]", r.String())

	r.Unflag()
	assert.False(t, r.IsFlagged)
	assert.Empty(t, r.FlagReason)
}

func TestEventFromMap(t *testing.T) {
	e := EventFromMap(map[string]any{
		"id":         float64(12),
		"name":       "Spring League",
		"season_id":  "s1",
		"start_date": "2025-04-01T00:00:00Z",
		"end_date":   "not a date",
	})
	assert.Equal(t, "12", e.ID)
	assert.Equal(t, "Spring League", e.String())
	assert.NotNil(t, e.StartDate)
	assert.Nil(t, e.EndDate)
}
