package scoring

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullCard() []any {
	return []any{
		float64(4), float64(5), float64(3), float64(4), float64(5), float64(4), float64(4), float64(3), float64(5),
		float64(4), float64(4), float64(5), float64(3), float64(4), float64(4), float64(5), float64(4), float64(3),
	}
}

func frontOnlyCard() []any {
	card := fullCard()
	for i := 9; i < 18; i++ {
		card[i] = nil
	}
	return card
}

func backOnlyCard() []any {
	card := fullCard()
	for i := 0; i < 9; i++ {
		card[i] = nil
	}
	return card
}

func sheetWithPlayers(players ...map[string]any) TeeSheet {
	list := make([]any, 0, len(players))
	for _, p := range players {
		list = append(list, p)
	}
	return TeeSheet{map[string]any{"players": list}}
}

func TestAnalyzeRound(t *testing.T) {
	analyzer := NewAnalyzer()

	t.Run("empty tee sheet is flagged", func(t *testing.T) {
		v := analyzer.AnalyzeRound(TeeSheet{})
		assert.True(t, v.Flagged)
		assert.Contains(t, v.Reason, "No tee sheet data available")

		v = analyzer.AnalyzeRound(nil)
		assert.True(t, v.Flagged)
		assert.Equal(t, ReasonNoTeeSheet, v.Reason)
	})

	t.Run("complete scoring is flagged", func(t *testing.T) {
		v := analyzer.AnalyzeRound(sheetWithPlayers(map[string]any{"name": "Test Player", "scores": fullCard()}))
		assert.True(t, v.Flagged)
		assert.Equal(t, "Complete scoring detected: F9=1, B9=1 players", v.Reason)
	})

	t.Run("front nine only is not flagged", func(t *testing.T) {
		v := analyzer.AnalyzeRound(sheetWithPlayers(map[string]any{"name": "Test Player", "scores": frontOnlyCard()}))
		assert.False(t, v.Flagged)
		assert.Equal(t, "Only front 9 scores found (1/1 players)", v.Reason)
	})

	t.Run("back nine only is not flagged", func(t *testing.T) {
		v := analyzer.AnalyzeRound(sheetWithPlayers(map[string]any{"name": "Test Player", "scores": backOnlyCard()}))
		assert.False(t, v.Flagged)
		assert.Equal(t, "Only back 9 scores found (1/1 players)", v.Reason)
	})

	t.Run("no scores on either half", func(t *testing.T) {
		v := analyzer.AnalyzeRound(sheetWithPlayers(map[string]any{"name": "Test Player", "scores": make([]any, 18)}))
		assert.False(t, v.Flagged)
		assert.Equal(t, ReasonNoScores, v.Reason)
	})

	t.Run("no players found", func(t *testing.T) {
		v := analyzer.AnalyzeRound(TeeSheet{map[string]any{"tee_time": "08:00"}, "junk", float64(3)})
		assert.False(t, v.Flagged)
		assert.Equal(t, ReasonNoPlayers, v.Reason)
	})

	t.Run("short score list counts the player but no half", func(t *testing.T) {
		v := analyzer.AnalyzeRound(sheetWithPlayers(
			map[string]any{"name": "Short", "scores": []any{float64(4), float64(5)}},
			map[string]any{"name": "Front", "scores": frontOnlyCard()},
		))
		assert.False(t, v.Flagged)
		assert.Equal(t, "Only front 9 scores found (1/2 players)", v.Reason)
	})

	t.Run("scores beyond the eighteenth hole are ignored", func(t *testing.T) {
		card := append(frontOnlyCard(), float64(4), float64(4))
		v := analyzer.AnalyzeRound(sheetWithPlayers(map[string]any{"name": "Extra", "scores": card}))
		assert.Equal(t, "Only front 9 scores found (1/1 players)", v.Reason)
	})

	t.Run("halves are counted across players", func(t *testing.T) {
		v := analyzer.AnalyzeRound(sheetWithPlayers(
			map[string]any{"name": "Front", "scores": frontOnlyCard()},
			map[string]any{"name": "Back", "scores": backOnlyCard()},
		))
		assert.True(t, v.Flagged)
		assert.Equal(t, "Complete scoring detected: F9=1, B9=1 players", v.Reason)
	})

	t.Run("pairing_group wrapper is unwrapped", func(t *testing.T) {
		sheet := TeeSheet{
			map[string]any{"pairing_group": map[string]any{
				"players": []any{map[string]any{"name": "A", "score_array": fullCard()}},
			}},
			map[string]any{"pairing_group": map[string]any{
				"player": map[string]any{"name": "B", "hole_scores": frontOnlyCard()},
			}},
		}
		v := analyzer.AnalyzeRound(sheet)
		assert.True(t, v.Flagged)
		assert.Equal(t, "Complete scoring detected: F9=2, B9=1 players", v.Reason)
	})

	t.Run("non-object players are skipped", func(t *testing.T) {
		sheet := TeeSheet{map[string]any{"players": []any{"ghost", nil, map[string]any{"name": "Real", "scores": backOnlyCard()}}}}
		v := analyzer.AnalyzeRound(sheet)
		assert.Equal(t, "Only back 9 scores found (1/1 players)", v.Reason)
	})

	t.Run("unreadable pairing group is flagged as an error", func(t *testing.T) {
		sheet := TeeSheet{map[string]any{"pairing_group": nil}}
		v := analyzer.AnalyzeRound(sheet)
		assert.True(t, v.Flagged)
		assert.Equal(t, "Error analyzing scores: entry 0: pairing_group is null, not an object", v.Reason)
	})

	t.Run("decoded JSON payload", func(t *testing.T) {
		payload := `[{"pairing_group": {"players": [
			{"name": "A", "scores": [4,5,3,4,5,4,4,3,5,"","","","","","","","",""]},
			{"name": "B", "scores": ["X",null,{},0,"","","","","","{}",{},null,0,"",null,null,null,"NS"]}
		]}}]`
		var sheet TeeSheet
		require.NoError(t, json.Unmarshal([]byte(payload), &sheet))
		v := analyzer.AnalyzeRound(sheet)
		assert.True(t, v.Flagged)
		assert.Equal(t, "Complete scoring detected: F9=2, B9=1 players", v.Reason)
	})

	t.Run("repeated calls are identical and leave input untouched", func(t *testing.T) {
		sheet := sheetWithPlayers(map[string]any{"name": "Test Player", "scores": frontOnlyCard()})
		before, err := json.Marshal(sheet)
		require.NoError(t, err)

		first := analyzer.AnalyzeRound(sheet)
		second := analyzer.AnalyzeRound(sheet)
		assert.Equal(t, first, second)

		after, err := json.Marshal(sheet)
		require.NoError(t, err)
		assert.JSONEq(t, string(before), string(after))
	})

	t.Run("concurrent use", func(t *testing.T) {
		sheet := sheetWithPlayers(map[string]any{"name": "Test Player", "scores": fullCard()})
		var wg sync.WaitGroup
		results := make([]Verdict, 16)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = analyzer.AnalyzeRound(sheet)
			}(i)
		}
		wg.Wait()
		for _, v := range results {
			assert.Equal(t, results[0], v)
		}
	})
}

func TestAnalyzeRound_IncompletePolarity(t *testing.T) {
	analyzer := NewAnalyzer(WithPolarity(PolarityIncomplete))
	require.Equal(t, PolarityIncomplete, analyzer.Polarity())

	t.Run("complete scoring is not flagged", func(t *testing.T) {
		v := analyzer.AnalyzeRound(sheetWithPlayers(map[string]any{"name": "Test Player", "scores": fullCard()}))
		assert.False(t, v.Flagged)
		assert.Contains(t, v.Reason, "Complete scoring")
	})

	t.Run("front nine only is flagged", func(t *testing.T) {
		v := analyzer.AnalyzeRound(sheetWithPlayers(map[string]any{"name": "Test Player", "scores": frontOnlyCard()}))
		assert.True(t, v.Flagged)
		assert.Contains(t, v.Reason, "Only front 9 scores found")
	})

	t.Run("back nine only is flagged", func(t *testing.T) {
		v := analyzer.AnalyzeRound(sheetWithPlayers(map[string]any{"name": "Test Player", "scores": backOnlyCard()}))
		assert.True(t, v.Flagged)
		assert.Contains(t, v.Reason, "Only back 9 scores found")
	})

	t.Run("all null scores are flagged", func(t *testing.T) {
		v := analyzer.AnalyzeRound(sheetWithPlayers(map[string]any{"name": "Test Player", "scores": make([]any, 18)}))
		assert.True(t, v.Flagged)
		assert.Contains(t, v.Reason, "No scores found")
	})

	t.Run("empty data and missing players keep their verdicts", func(t *testing.T) {
		assert.True(t, analyzer.AnalyzeRound(nil).Flagged)
		assert.False(t, analyzer.AnalyzeRound(TeeSheet{map[string]any{}}).Flagged)
	})
}

func TestParsePolarity(t *testing.T) {
	assert.Equal(t, PolarityIncomplete, ParsePolarity("incomplete"))
	assert.Equal(t, PolarityComplete, ParsePolarity("complete"))
	assert.Equal(t, PolarityComplete, ParsePolarity(""))
	assert.Equal(t, PolarityComplete, ParsePolarity("bogus"))
}

func TestDetailedAnalysis(t *testing.T) {
	analyzer := NewAnalyzer()

	t.Run("one complete and one front-only player", func(t *testing.T) {
		sheet := sheetWithPlayers(
			map[string]any{"name": "Complete Player", "scores": fullCard()},
			map[string]any{"name": "Front 9 Only", "scores": frontOnlyCard()},
		)
		d := analyzer.DetailedAnalysis(sheet)
		assert.Equal(t, 2, d.TotalPlayers)
		assert.Equal(t, 1, d.CompletePlayers)
		assert.Equal(t, 1, d.IncompletePlayers)
		assert.Equal(t, 2, d.Front9Players)
		assert.Equal(t, 1, d.Back9Players)
		assert.Equal(t, d.TotalPlayers-d.CompletePlayers, d.IncompletePlayers)
		assert.Equal(t, analyzer.AnalyzeRound(sheet), d.Verdict())
	})

	t.Run("players split across halves are not complete", func(t *testing.T) {
		d := analyzer.DetailedAnalysis(sheetWithPlayers(
			map[string]any{"name": "Front", "scores": frontOnlyCard()},
			map[string]any{"name": "Back", "scores": backOnlyCard()},
			map[string]any{"name": "Short", "scores": []any{float64(4)}},
		))
		assert.Equal(t, 3, d.TotalPlayers)
		assert.Equal(t, 1, d.Front9Players)
		assert.Equal(t, 1, d.Back9Players)
		assert.Equal(t, 0, d.CompletePlayers)
		assert.Equal(t, 3, d.IncompletePlayers)
		assert.True(t, d.Flagged)
	})

	t.Run("empty tee sheet", func(t *testing.T) {
		d := analyzer.DetailedAnalysis(nil)
		assert.Equal(t, DetailedAnalysis{Flagged: true, Reason: ReasonNoTeeSheet}, d)
	})

	t.Run("traversal error zeroes the counts", func(t *testing.T) {
		sheet := TeeSheet{
			map[string]any{"players": []any{map[string]any{"name": "A", "scores": fullCard()}}},
			map[string]any{"pairing_group": float64(7)},
		}
		d := analyzer.DetailedAnalysis(sheet)
		assert.Equal(t, 0, d.TotalPlayers)
		assert.Equal(t, 0, d.IncompletePlayers)
		assert.True(t, d.Flagged)
		assert.Equal(t, "Error analyzing scores: entry 1: pairing_group is a number, not an object", d.Reason)
	})

	t.Run("array or string pairing group has no players", func(t *testing.T) {
		for _, group := range []any{[]any{}, []any{"players"}, "oops"} {
			sheet := TeeSheet{
				map[string]any{"pairing_group": group},
				map[string]any{"players": []any{map[string]any{"name": "A", "scores": frontOnlyCard()}}},
			}
			d := analyzer.DetailedAnalysis(sheet)
			assert.Equal(t, 1, d.TotalPlayers, "group %v", group)
			assert.Equal(t, 1, d.Front9Players, "group %v", group)
			assert.False(t, d.Flagged, "group %v", group)
			assert.Equal(t, "Only front 9 scores found (1/1 players)", d.Reason, "group %v", group)
		}
	})

	t.Run("json field names", func(t *testing.T) {
		d := analyzer.DetailedAnalysis(sheetWithPlayers(map[string]any{"name": "A", "scores": fullCard()}))
		raw, err := json.Marshal(d)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"total_players": 1,
			"front_9_players": 1,
			"back_9_players": 1,
			"complete_players": 1,
			"incomplete_players": 0,
			"is_flagged": true,
			"flag_reason": "Complete scoring detected: F9=1, B9=1 players"
		}`, string(raw))
	})
}
