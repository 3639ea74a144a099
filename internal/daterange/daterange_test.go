package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-06-01", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"06/15/2025", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"15/06/2025", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"2025-06-01 14:30:00", time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)},
		{"2025-06-01T14:30:00Z", time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)},
		{"  2025-06-01  ", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	t.Run("empty input", func(t *testing.T) {
		_, err := Parse("   ")
		assert.ErrorIs(t, err, ErrEmptyDate)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := Parse("xyzzy")
		assert.Error(t, err)
	})

	t.Run("natural language", func(t *testing.T) {
		fixed := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
		now = func() time.Time { return fixed }
		defer func() { now = time.Now }()

		got, err := Parse("yesterday")
		require.NoError(t, err)
		assert.Equal(t, 9, got.Day())
	})
}

func TestValidateRange(t *testing.T) {
	t.Run("date-only end covers the whole day", func(t *testing.T) {
		r, err := ValidateRange("2025-06-01", "2025-06-30")
		require.NoError(t, err)
		assert.Equal(t, 23, r.End.Hour())

		lateRound := time.Date(2025, 6, 30, 18, 0, 0, 0, time.UTC)
		assert.True(t, r.Contains(&lateRound))
		assert.Equal(t, "2025-06-01 to 2025-06-30", r.String())
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := ValidateRange("2025-07-01", "2025-06-01")
		assert.EqualError(t, err, "start date must be before end date")
	})

	t.Run("invalid start", func(t *testing.T) {
		_, err := ValidateRange("", "2025-06-01")
		assert.ErrorContains(t, err, "invalid start date format")
	})

	t.Run("invalid end", func(t *testing.T) {
		_, err := ValidateRange("2025-06-01", "")
		assert.ErrorContains(t, err, "invalid end date format")
	})
}

func TestRangeContains(t *testing.T) {
	r := Range{
		Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	inside := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	before := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	after := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, r.Contains(&inside))
	assert.True(t, r.Contains(&r.Start))
	assert.True(t, r.Contains(&r.End))
	assert.False(t, r.Contains(&before))
	assert.False(t, r.Contains(&after))
	assert.False(t, r.Contains(nil))
}

func TestFormat(t *testing.T) {
	d := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-01", Format(&d))
	assert.Equal(t, "No Date", Format(nil))
}
