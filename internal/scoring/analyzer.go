package scoring

import (
	"encoding/json"
	"fmt"
)

// Analyzer decides whether a round's scoring warrants manual review.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	polarity Polarity
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithPolarity selects which half-coverage outcome is flagged.
func WithPolarity(p Polarity) Option {
	return func(a *Analyzer) {
		a.polarity = p
	}
}

// NewAnalyzer creates an Analyzer. By default rounds with scores on both
// halves are flagged.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{polarity: PolarityComplete}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Polarity returns the configured flag polarity.
func (a *Analyzer) Polarity() Polarity {
	return a.polarity
}

// tally holds the counts gathered in one pass over a tee sheet.
type tally struct {
	players  int
	front9   int
	back9    int
	complete int
}

// MalformedEntryError is returned by the traversal when a pairing_group is
// null, a number or a boolean and cannot be walked at all.
type MalformedEntryError struct {
	Index int
	Got   any
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("entry %d: %s is %s, not an object", e.Index, pairingGroupKey, describe(e.Got))
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case float64, float32, int, int64, json.Number:
		return "a number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// walk counts players and half coverage across all pairing groups.
func walk(sheet TeeSheet) (tally, error) {
	var t tally
	for i, entry := range sheet {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		group := item
		if wrapped, ok := item[pairingGroupKey]; ok {
			switch g := wrapped.(type) {
			case map[string]any:
				group = g
			case []any, string:
				// No player aliases can be found in these, so the entry has
				// no players.
				continue
			default:
				return tally{}, &MalformedEntryError{Index: i, Got: wrapped}
			}
		}

		for _, p := range ExtractPlayers(group) {
			player, ok := p.(map[string]any)
			if !ok {
				continue
			}
			t.players++

			scores := ExtractScores(player)
			if len(scores) < holesPerRound {
				continue
			}
			front := HasValidScores(scores[:holesPerHalf])
			back := HasValidScores(scores[holesPerHalf:holesPerRound])
			if front {
				t.front9++
			}
			if back {
				t.back9++
			}
			if front && back {
				t.complete++
			}
		}
	}
	return t, nil
}

// decide maps the round counts onto a verdict.
func (a *Analyzer) decide(t tally) Verdict {
	if t.players == 0 {
		return Verdict{Flagged: false, Reason: ReasonNoPlayers}
	}

	var v Verdict
	switch {
	case t.front9 > 0 && t.back9 > 0:
		v = Verdict{Flagged: true, Reason: fmt.Sprintf(reasonCompleteFormat, t.front9, t.back9)}
	case t.front9 > 0:
		v = Verdict{Flagged: false, Reason: fmt.Sprintf(reasonFrontFormat, t.front9, t.players)}
	case t.back9 > 0:
		v = Verdict{Flagged: false, Reason: fmt.Sprintf(reasonBackFormat, t.back9, t.players)}
	default:
		v = Verdict{Flagged: false, Reason: ReasonNoScores}
	}

	if a.polarity == PolarityIncomplete {
		v.Flagged = !v.Flagged
	}
	return v
}

func errorVerdict(err error) Verdict {
	return Verdict{Flagged: true, Reason: reasonErrorPrefix + err.Error()}
}

// AnalyzeRound returns the flag decision for one round's tee sheet. It never
// fails: missing data and unreadable entries both produce a flagged verdict.
func (a *Analyzer) AnalyzeRound(sheet TeeSheet) Verdict {
	if len(sheet) == 0 {
		return Verdict{Flagged: true, Reason: ReasonNoTeeSheet}
	}
	t, err := walk(sheet)
	if err != nil {
		return errorVerdict(err)
	}
	return a.decide(t)
}

// DetailedAnalysis returns per-player completeness counts together with the
// round verdict.
func (a *Analyzer) DetailedAnalysis(sheet TeeSheet) DetailedAnalysis {
	if len(sheet) == 0 {
		return DetailedAnalysis{Flagged: true, Reason: ReasonNoTeeSheet}
	}
	t, err := walk(sheet)
	if err != nil {
		v := errorVerdict(err)
		return DetailedAnalysis{Flagged: v.Flagged, Reason: v.Reason}
	}

	v := a.decide(t)
	return DetailedAnalysis{
		TotalPlayers:      t.players,
		Front9Players:     t.front9,
		Back9Players:      t.back9,
		CompletePlayers:   t.complete,
		IncompletePlayers: t.players - t.complete,
		Flagged:           v.Flagged,
		Reason:            v.Reason,
	}
}
