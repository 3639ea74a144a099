package scoring

// Keys tried, in priority order, when looking for the players of a pairing
// group and for the hole scores of a player.
var (
	playerKeys = []string{"players", "player", "pairing", "members"}
	scoreKeys  = []string{"score_array", "scores", "score", "holes", "hole_scores"}

	// A pairing group carrying one of these is itself a player record.
	implicitPlayerKeys = []string{"name", "scores"}
)

const pairingGroupKey = "pairing_group"

// ExtractPlayers returns the player records of a pairing group. The first
// alias holding a list or an object wins; anything else under an alias is
// ignored. A group that looks like a player is returned as its only player.
func ExtractPlayers(group map[string]any) []any {
	for _, key := range playerKeys {
		value, ok := group[key]
		if !ok {
			continue
		}
		switch players := value.(type) {
		case []any:
			return players
		case map[string]any:
			return []any{players}
		}
	}

	for _, key := range implicitPlayerKeys {
		if _, ok := group[key]; ok {
			return []any{group}
		}
	}
	return []any{}
}

// ExtractScores returns the raw hole scores of a player, or an empty slice
// when no alias holds a list.
func ExtractScores(player map[string]any) []any {
	for _, key := range scoreKeys {
		if scores, ok := player[key].([]any); ok {
			return scores
		}
	}
	return []any{}
}
