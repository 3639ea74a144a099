package golfgenius

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mauv0809/tga-scoring-audit/internal/daterange"
)

// Season is a Golf Genius season.
type Season struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Year        string `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
}

func (s Season) String() string {
	if s.Year != "" {
		return fmt.Sprintf("%s (%s)", s.Name, s.Year)
	}
	return s.Name
}

// Event is a league or tournament within a season.
type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	SeasonID    string     `json:"season_id,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description string     `json:"description,omitempty"`
}

func (e Event) String() string { return e.Name }

// Round is one scheduled round of an event along with its audit outcome.
type Round struct {
	ID         string     `json:"id"`
	EventID    string     `json:"event_id"`
	Name       string     `json:"name"`
	Date       *time.Time `json:"date,omitempty"`
	IsFlagged  bool       `json:"is_flagged"`
	FlagReason string     `json:"flag_reason,omitempty"`
}

// Flag marks the round as needing review.
func (r *Round) Flag(reason string) {
	r.IsFlagged = true
	r.FlagReason = reason
}

// Unflag clears a previous flag.
func (r *Round) Unflag() {
	r.IsFlagged = false
	r.FlagReason = ""
}

func (r Round) String() string {
	s := fmt.Sprintf("%s (%s)", r.Name, daterange.Format(r.Date))
	if r.IsFlagged {
		s += " [FLAGGED]"
	}
	return s
}

// Date fields on a round, in the order they are tried.
var roundDateKeys = []string{"date", "round_date", "start_date", "tee_time"}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// SeasonFromMap builds a Season from one decoded API object.
func SeasonFromMap(data map[string]any) Season {
	return Season{
		ID:          stringField(data, "id"),
		Name:        stringField(data, "name"),
		Year:        stringField(data, "year"),
		Description: stringField(data, "description"),
	}
}

// EventFromMap builds an Event from one decoded API object. Unparseable dates
// are left empty.
func EventFromMap(data map[string]any) Event {
	e := Event{
		ID:          stringField(data, "id"),
		Name:        stringField(data, "name"),
		SeasonID:    stringField(data, "season_id"),
		Description: stringField(data, "description"),
	}
	if t, ok := parseISO(stringField(data, "start_date")); ok {
		e.StartDate = &t
	}
	if t, ok := parseISO(stringField(data, "end_date")); ok {
		e.EndDate = &t
	}
	return e
}

// RoundFromMap builds a Round for the given event. The date comes from the
// first usable of date, round_date, start_date and tee_time.
func RoundFromMap(data map[string]any, eventID string) Round {
	r := Round{
		ID:      stringField(data, "id"),
		EventID: eventID,
		Name:    "Round",
	}
	if v, ok := data["name"]; ok && v != nil {
		r.Name = stringify(v)
	} else if v, ok := data["round_name"]; ok && v != nil {
		r.Name = stringify(v)
	}

	for _, key := range roundDateKeys {
		raw := stringField(data, key)
		if raw == "" {
			continue
		}
		if t, ok := parseRoundDate(raw); ok {
			r.Date = &t
			break
		}
	}
	return r
}

func parseRoundDate(s string) (time.Time, bool) {
	if strings.ContainsAny(s, "T+Z") {
		return parseISO(s)
	}
	if len(s) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, s[:10])
	return t, err == nil
}

func parseISO(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func stringField(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}
	return stringify(v)
}

// stringify renders IDs and names that may arrive as strings or numbers.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
