package scoring

// TeeSheet is the decoded tee sheet payload for a single round. Each entry is
// either a pairing group object or an object wrapping one under "pairing_group".
type TeeSheet []any

// Verdict is the outcome of analyzing one round.
type Verdict struct {
	Flagged bool   `json:"is_flagged"`
	Reason  string `json:"flag_reason"`
}

// DetailedAnalysis is the per-round breakdown of player completeness.
// IncompletePlayers is always TotalPlayers - CompletePlayers.
type DetailedAnalysis struct {
	TotalPlayers      int    `json:"total_players"`
	Front9Players     int    `json:"front_9_players"`
	Back9Players      int    `json:"back_9_players"`
	CompletePlayers   int    `json:"complete_players"`
	IncompletePlayers int    `json:"incomplete_players"`
	Flagged           bool   `json:"is_flagged"`
	Reason            string `json:"flag_reason"`
}

// Verdict returns the flag decision attached to the analysis.
func (d DetailedAnalysis) Verdict() Verdict {
	return Verdict{Flagged: d.Flagged, Reason: d.Reason}
}

// Polarity selects which half-coverage outcome is flagged for review.
type Polarity string

const (
	// PolarityComplete flags rounds where both halves carry scores.
	PolarityComplete Polarity = "complete"
	// PolarityIncomplete flags rounds where at most one half carries scores.
	PolarityIncomplete Polarity = "incomplete"
)

// ParsePolarity maps a configuration value to a Polarity. Unknown values
// fall back to PolarityComplete.
func ParsePolarity(s string) Polarity {
	if Polarity(s) == PolarityIncomplete {
		return PolarityIncomplete
	}
	return PolarityComplete
}

const (
	holesPerRound = 18
	holesPerHalf  = 9

	minPlausibleScore = 1
	maxPlausibleScore = 15
)

const (
	ReasonNoTeeSheet     = "No tee sheet data available"
	ReasonNoPlayers      = "No players found in tee sheet"
	ReasonNoScores       = "No scores found on either front or back 9"
	reasonErrorPrefix    = "Error analyzing scores: "
	reasonCompleteFormat = "Complete scoring detected: F9=%d, B9=%d players"
	reasonFrontFormat    = "Only front 9 scores found (%d/%d players)"
	reasonBackFormat     = "Only back 9 scores found (%d/%d players)"
)
