package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/xuri/excelize/v2"
)

const (
	// DefaultPrefix names exported report files.
	DefaultPrefix = "tga_scoring_audit"
	// SheetName is the worksheet holding flagged rounds in XLSX exports.
	SheetName = "Flagged Rounds"

	timestampLayout = "20060102_150405"
	tableNameWidth  = 20
	invalidChars    = `<>:"/\|?*`
)

// WriteCSV writes the header row followed by one row per flagged round.
func WriteCSV(w io.Writer, rounds []FlaggedRound) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rounds {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("failed to write csv row for round %s: %w", r.RoundID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the same columns as WriteCSV into a workbook with a
// clickable scorecard link per row.
func WriteXLSX(w io.Writer, rounds []FlaggedRound) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "F1", bold); err != nil {
		return err
	}

	for i, r := range rounds {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := r.Row()
		row := make([]any, len(values))
		for j, v := range values {
			row[j] = v
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for round %s: %w", r.RoundID, err)
		}
		link, _ := excelize.CoordinatesToCellName(len(Columns), i+2)
		if err := f.SetCellHyperLink(SheetName, link, r.ScorecardURL(), "External"); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "D", "E", 40); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteTable prints a console summary of the run.
func WriteTable(w io.Writer, s *Summary) error {
	var b strings.Builder
	b.WriteString("\n=== ANALYSIS COMPLETE ===\n")
	if s.SeasonName != "" {
		fmt.Fprintf(&b, "Season: %s\n", s.SeasonName)
	}
	if !s.Range.Start.IsZero() {
		fmt.Fprintf(&b, "Date range: %s\n", s.Range)
	}
	fmt.Fprintf(&b, "Total rounds analyzed: %d\n", s.TotalRounds)
	fmt.Fprintf(&b, "Flagged rounds: %d\n", len(s.FlaggedRounds))
	fmt.Fprintf(&b, "Clean rounds: %d\n", s.CleanRounds())

	if len(s.FlaggedRounds) == 0 {
		b.WriteString("\nNo scoring issues detected!\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Event ID", "Round ID", "Date", "Round Name", "Issue")
	for _, r := range s.FlaggedRounds {
		t.Row(r.EventID, r.RoundID, r.Row()[2], truncate(r.RoundName, tableNameWidth), r.Issue)
	}
	b.WriteString("\nFLAGGED ROUNDS:\n")
	b.WriteString(t.String())
	b.WriteString("\n\nThese rounds should be reviewed for scoring completeness.\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Filename builds a timestamped report name such as
// tga_scoring_audit_20250701_093000.csv.
func Filename(prefix string, ts time.Time, ext string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return SanitizeFilename(fmt.Sprintf("%s_%s.%s", prefix, ts.Format(timestampLayout), strings.TrimPrefix(ext, ".")))
}

// SanitizeFilename replaces characters that are invalid in file names and
// trims leading and trailing spaces and dots.
func SanitizeFilename(name string) string {
	out := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidChars, r) {
			return '_'
		}
		return r
	}, name)
	out = strings.Trim(out, " .")
	if out == "" {
		return "output"
	}
	return out
}
