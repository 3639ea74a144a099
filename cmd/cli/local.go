package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tga-scoring-audit/internal/audit"
	"github.com/mauv0809/tga-scoring-audit/internal/config"
	"github.com/mauv0809/tga-scoring-audit/internal/database"
	"github.com/mauv0809/tga-scoring-audit/internal/daterange"
	"github.com/mauv0809/tga-scoring-audit/internal/golfgenius"
	"github.com/mauv0809/tga-scoring-audit/internal/metrics"
	"github.com/mauv0809/tga-scoring-audit/internal/notifier/slack"
	"github.com/mauv0809/tga-scoring-audit/internal/pubsub"
	"github.com/mauv0809/tga-scoring-audit/internal/report"
	"github.com/mauv0809/tga-scoring-audit/internal/scoring"
	"github.com/mauv0809/tga-scoring-audit/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var auditOpts struct {
	season   string
	start    string
	end      string
	format   string
	out      string
	polarity string
	workers  int
	dryRun   bool
	save     bool
}

var inspectOpts struct {
	event string
	round string
}

var analyzePolarity string

func init() {
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(seasonsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(inspectCmd)

	f := auditCmd.Flags()
	f.StringVar(&auditOpts.season, "season", "", "Season ID to audit")
	f.StringVar(&auditOpts.start, "start", "", "Start date ("+daterange.DisplayLayout+", MM/DD/YYYY, DD/MM/YYYY or e.g. 'last monday')")
	f.StringVar(&auditOpts.end, "end", "", "End date, inclusive")
	f.StringVar(&auditOpts.format, "format", "csv", "Report format: csv or xlsx")
	f.StringVar(&auditOpts.out, "out", "", "Directory for the report (defaults to OUTPUT_DIR)")
	f.StringVar(&auditOpts.polarity, "polarity", "", "Which rounds to flag: complete or incomplete (defaults to FLAG_POLARITY)")
	f.IntVar(&auditOpts.workers, "workers", 0, "Rounds analyzed concurrently (defaults to AUDIT_WORKERS)")
	f.BoolVar(&auditOpts.dryRun, "dry-run", false, "Do not store, publish or post to Slack")
	f.BoolVar(&auditOpts.save, "save", false, "Store the run in the configured database")
	auditCmd.MarkFlagRequired("season")
	auditCmd.MarkFlagRequired("start")
	auditCmd.MarkFlagRequired("end")

	inspectCmd.Flags().StringVar(&inspectOpts.event, "event", "", "Event ID")
	inspectCmd.Flags().StringVar(&inspectOpts.round, "round", "", "Round ID")
	inspectCmd.MarkFlagRequired("event")
	inspectCmd.MarkFlagRequired("round")

	analyzeCmd.Flags().StringVar(&analyzePolarity, "polarity", "", "Which rounds to flag: complete or incomplete")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit every round of a season within a date range and write a report",
	RunE: func(cmd *cobra.Command, args []string) error {
		if auditOpts.format != "csv" && auditOpts.format != "xlsx" {
			return fmt.Errorf("unsupported format %q", auditOpts.format)
		}
		rng, err := daterange.ValidateRange(auditOpts.start, auditOpts.end)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		cfg := loadConfig()
		provider, err := golfgenius.NewClient(cfg.GolfGenius)
		if err != nil {
			return err
		}
		if !provider.TestConnection(ctx) {
			return errors.New("could not connect to Golf Genius API, check your API key")
		}

		var auditStore audit.Store
		if auditOpts.save && !auditOpts.dryRun {
			db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
			if err != nil {
				return err
			}
			defer teardown()
			auditStore = store.New(db)
		}

		metricsSvc := metrics.NewService(prometheus.NewRegistry())
		pubsubClient, err := pubsub.New(ctx, cfg.ProjectID)
		if err != nil {
			return err
		}
		defer pubsubClient.Close()

		workers := auditOpts.workers
		if workers <= 0 {
			workers = cfg.Audit.Workers
		}
		auditor := audit.New(
			provider,
			newAnalyzer(auditOpts.polarity, cfg),
			auditStore,
			slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc),
			metricsSvc,
			pubsubClient,
			audit.WithWorkers(workers),
		)

		summary, err := auditor.Run(ctx, audit.Request{
			SeasonID:   auditOpts.season,
			SeasonName: seasonName(cmd, provider, auditOpts.season),
			Range:      rng,
			DryRun:     auditOpts.dryRun,
		})
		if err != nil {
			return err
		}

		fmt.Printf("\nSeason: %s\nDate range: %s\nRounds analyzed: %d\nRounds flagged: %d\n\n",
			summary.SeasonName, summary.Range, summary.TotalRounds, len(summary.FlaggedRounds))
		if err := report.WriteTable(os.Stdout, summary); err != nil {
			return err
		}
		if len(summary.FlaggedRounds) == 0 {
			return nil
		}

		dir := auditOpts.out
		if dir == "" {
			dir = cfg.OutputDir
		}
		path, err := writeReportFile(dir, auditOpts.format, summary)
		if err != nil {
			return err
		}
		fmt.Printf("\nReport saved to %s\n", path)
		return nil
	},
}

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "List the seasons available to the API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := golfgenius.NewClient(loadConfig().GolfGenius)
		if err != nil {
			return err
		}
		seasons, err := provider.GetSeasons(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range seasons {
			fmt.Printf("%-12s %s\n", s.ID, s.String())
		}
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <tee_sheet.json>",
	Short: "Analyze a tee sheet saved as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := analyzeFile(args[0], newAnalyzer(analyzePolarity, loadConfig()))
		if err != nil {
			return err
		}
		return printJSON(detail)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Fetch and analyze the tee sheet of a single round",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		provider, err := golfgenius.NewClient(cfg.GolfGenius)
		if err != nil {
			return err
		}
		sheet, err := provider.GetTeeSheet(cmd.Context(), inspectOpts.event, inspectOpts.round)
		if err != nil {
			return err
		}
		return printJSON(newAnalyzer("", cfg).DetailedAnalysis(sheet))
	},
}

func loadConfig() config.Config {
	cfg := config.FromEnv()
	if apiKey != "" {
		cfg.GolfGenius.APIKey = apiKey
	}
	return cfg
}

func newAnalyzer(polarity string, cfg config.Config) *scoring.Analyzer {
	if polarity == "" {
		polarity = cfg.Audit.Polarity
	}
	return scoring.NewAnalyzer(scoring.WithPolarity(scoring.ParsePolarity(polarity)))
}

func seasonName(cmd *cobra.Command, provider golfgenius.Provider, seasonID string) string {
	seasons, err := provider.GetSeasons(cmd.Context())
	if err != nil {
		log.Warn("Could not resolve season name", "season", seasonID, "error", err)
		return seasonID
	}
	for _, s := range seasons {
		if s.ID == seasonID {
			return s.Name
		}
	}
	return seasonID
}

// analyzeFile runs the analyzer over a tee sheet stored on disk. Both the raw
// list and the wrapped API response are accepted.
func analyzeFile(path string, analyzer *scoring.Analyzer) (scoring.DetailedAnalysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return scoring.DetailedAnalysis{}, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return scoring.DetailedAnalysis{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return analyzer.DetailedAnalysis(golfgenius.ParseTeeSheet(body)), nil
}

func writeReportFile(dir, format string, summary *report.Summary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, report.Filename(report.DefaultPrefix, summary.FinishedAt, format))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}

	switch format {
	case "xlsx":
		err = report.WriteXLSX(f, summary.FlaggedRounds)
	default:
		err = report.WriteCSV(f, summary.FlaggedRounds)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
