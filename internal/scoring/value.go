package scoring

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ScoreKind classifies a raw hole score value.
type ScoreKind int

const (
	KindNull ScoreKind = iota
	KindEmptyString
	KindZero
	KindEmptyObject
	KindNumber
	KindText
	// KindComposite is a non-empty object or any array.
	KindComposite
)

// HoleScore is a raw hole score normalized once at ingestion.
type HoleScore struct {
	Kind   ScoreKind
	Number int64
	Text   string
}

// NewHoleScore classifies a decoded JSON value.
func NewHoleScore(v any) HoleScore {
	switch val := v.(type) {
	case nil:
		return HoleScore{Kind: KindNull}
	case string:
		return textScore(val)
	case bool:
		if val {
			return HoleScore{Kind: KindNumber, Number: 1}
		}
		return HoleScore{Kind: KindZero}
	case float64:
		return floatScore(val)
	case float32:
		return floatScore(float64(val))
	case int:
		return intScore(int64(val))
	case int32:
		return intScore(int64(val))
	case int64:
		return intScore(val)
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return intScore(n)
		}
		if f, err := val.Float64(); err == nil {
			return floatScore(f)
		}
		return HoleScore{Kind: KindText, Text: val.String()}
	case map[string]any:
		if len(val) == 0 {
			return HoleScore{Kind: KindEmptyObject}
		}
		return HoleScore{Kind: KindComposite}
	case []any:
		return HoleScore{Kind: KindComposite}
	default:
		return HoleScore{Kind: KindComposite}
	}
}

func intScore(n int64) HoleScore {
	if n == 0 {
		return HoleScore{Kind: KindZero}
	}
	return HoleScore{Kind: KindNumber, Number: n}
}

func floatScore(f float64) HoleScore {
	switch {
	case f == 0:
		return HoleScore{Kind: KindZero}
	case math.IsNaN(f) || math.IsInf(f, 0):
		return HoleScore{Kind: KindText, Text: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return HoleScore{Kind: KindNumber, Number: int64(math.Trunc(f))}
}

// textScore reads integer-looking strings as numbers. "0" is a number, not
// KindZero, but is implausible either way.
func textScore(s string) HoleScore {
	if s == "" {
		return HoleScore{Kind: KindEmptyString}
	}
	// On overflow ParseInt clamps to the int64 bounds, which are out of the
	// plausible range anyway.
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return HoleScore{Kind: KindNumber, Number: n}
	}
	return HoleScore{Kind: KindText, Text: s}
}

// Valid reports whether the value is evidence that a score was entered.
func (h HoleScore) Valid() bool {
	switch h.Kind {
	case KindNumber:
		return h.Number >= minPlausibleScore && h.Number <= maxPlausibleScore
	case KindText:
		return strings.TrimSpace(h.Text) != "" && h.Text != "{}"
	case KindComposite:
		return true
	default:
		return false
	}
}

// HasValidScores reports whether at least one raw value in the slice is a
// recorded score.
func HasValidScores(values []any) bool {
	for _, v := range values {
		if NewHoleScore(v).Valid() {
			return true
		}
	}
	return false
}
