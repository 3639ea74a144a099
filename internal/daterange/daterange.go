package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DisplayLayout is the layout used for dates in reports.
const DisplayLayout = "2006-01-02"

var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
}

var dateOnlyLayouts = map[string]bool{
	"2006-01-02": true,
	"01/02/2006": true,
	"02/01/2006": true,
}

var ErrEmptyDate = errors.New("date is empty")

// Range is an inclusive time window.
type Range struct {
	Start time.Time
	End   time.Time
}

// now is swapped in tests.
var now = time.Now

// Parse reads a date in one of the fixed layouts, falling back to natural
// language such as "yesterday" or "last monday".
func Parse(s string) (time.Time, error) {
	t, _, err := parse(s)
	return t, err
}

func parse(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, ErrEmptyDate
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, dateOnlyLayouts[layout], nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	r, err := w.Parse(s, now())
	if err != nil {
		log.Debug("Natural language date parse failed", "input", s, "error", err)
	}
	if r == nil {
		return time.Time{}, false, fmt.Errorf("unrecognized date format: %q", s)
	}
	return r.Time, false, nil
}

// ValidateRange parses both ends of a range. An end given as a plain date
// covers that whole day.
func ValidateRange(start, end string) (Range, error) {
	startTime, _, err := parse(start)
	if err != nil {
		return Range{}, fmt.Errorf("invalid start date format: %s: %w", start, err)
	}
	endTime, dateOnly, err := parse(end)
	if err != nil {
		return Range{}, fmt.Errorf("invalid end date format: %s: %w", end, err)
	}
	if dateOnly {
		endTime = endOfDay(endTime)
	}
	if startTime.After(endTime) {
		return Range{}, errors.New("start date must be before end date")
	}
	return Range{Start: startTime, End: endTime}, nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// Contains reports whether t falls inside the range. Undated rounds are never
// in range.
func (r Range) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	return !t.Before(r.Start) && !t.After(r.End)
}

// String renders the range for logs and reports.
func (r Range) String() string {
	return fmt.Sprintf("%s to %s", r.Start.Format(DisplayLayout), r.End.Format(DisplayLayout))
}

// Format renders a date for display.
func Format(t *time.Time) string {
	if t == nil {
		return "No Date"
	}
	return t.Format(DisplayLayout)
}
