package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tga-scoring-audit/internal/audit"
	"github.com/mauv0809/tga-scoring-audit/internal/daterange"
	"github.com/mauv0809/tga-scoring-audit/internal/golfgenius"
	"github.com/mauv0809/tga-scoring-audit/internal/pubsub"
	"github.com/mauv0809/tga-scoring-audit/internal/report"
	"github.com/mauv0809/tga-scoring-audit/internal/store"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatXLSX = "xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxAnalyzeBody  = 10 << 20
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// ListSeasonsHandler lists the seasons available to the configured API key.
func (s *Server) ListSeasonsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seasons, err := s.Provider.GetSeasons(r.Context())
		if err != nil {
			log.Error("Failed to fetch seasons", "error", err)
			http.Error(w, "Failed to fetch seasons: "+err.Error(), providerStatus(err))
			return
		}
		writeJSON(w, seasons)
	}
}

// AuditHandler runs a full audit of one season over a date range and returns
// the flagged rounds.
func (s *Server) AuditHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		seasonID := q.Get("season")
		if seasonID == "" {
			http.Error(w, "Missing 'season' parameter", http.StatusBadRequest)
			return
		}
		rng, err := daterange.ValidateRange(q.Get("start"), q.Get("end"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format, ok := parseFormat(q.Get("format"))
		if !ok {
			http.Error(w, "Unsupported format: "+q.Get("format"), http.StatusBadRequest)
			return
		}

		req := audit.Request{
			SeasonID:   seasonID,
			SeasonName: s.seasonName(r, seasonID),
			Range:      rng,
			DryRun:     isDryRunFromContext(r),
		}
		summary, err := s.Auditor.Run(r.Context(), req)
		if err != nil {
			log.Error("Audit failed", "season", seasonID, "error", err)
			http.Error(w, "Audit failed: "+err.Error(), providerStatus(err))
			return
		}

		if format == formatJSON {
			writeJSON(w, summary)
			return
		}
		writeReport(w, format, summary.FlaggedRounds, summary.FinishedAt)
	}
}

// seasonName resolves a season's display name, falling back to its ID.
func (s *Server) seasonName(r *http.Request, seasonID string) string {
	if name := r.URL.Query().Get("season_name"); name != "" {
		return name
	}
	seasons, err := s.Provider.GetSeasons(r.Context())
	if err != nil {
		log.Warn("Could not resolve season name", "season", seasonID, "error", err)
		return seasonID
	}
	for _, season := range seasons {
		if season.ID == seasonID {
			return season.Name
		}
	}
	return seasonID
}

func (s *Server) ListRunsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed <= 0 {
				log.Warn("Invalid 'limit' parameter provided. Using default.", "limit_param", limitStr)
			} else {
				limit = parsed
			}
		}

		runs, err := s.Store.ListRuns(r.Context(), limit)
		if err != nil {
			http.Error(w, "Failed to get audit runs", http.StatusInternalServerError)
			log.Error("Failed to get audit runs from store", "error", err)
			return
		}
		writeJSON(w, runs)
	}
}

// FlaggedRoundsHandler exports the flagged rounds of a stored run.
func (s *Server) FlaggedRoundsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := r.PathValue("id")
		format, ok := parseFormat(r.URL.Query().Get("format"))
		if !ok {
			http.Error(w, "Unsupported format: "+r.URL.Query().Get("format"), http.StatusBadRequest)
			return
		}

		run, err := s.Store.GetRun(r.Context(), runID)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Audit run not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to get audit run", http.StatusInternalServerError)
			log.Error("Failed to get audit run from store", "run", runID, "error", err)
			return
		}

		stored, err := s.Store.GetFlaggedRounds(r.Context(), runID)
		if err != nil {
			http.Error(w, "Failed to get flagged rounds", http.StatusInternalServerError)
			log.Error("Failed to get flagged rounds from store", "run", runID, "error", err)
			return
		}
		rounds := make([]report.FlaggedRound, 0, len(stored))
		for _, sr := range stored {
			rounds = append(rounds, report.FlaggedRound{
				EventID:   sr.EventID,
				EventName: sr.EventName,
				RoundID:   sr.RoundID,
				RoundName: sr.RoundName,
				Date:      sr.RoundDate,
				Issue:     sr.Reason,
			})
		}

		if format == formatJSON {
			writeJSON(w, rounds)
			return
		}
		writeReport(w, format, rounds, run.FinishedAt)
	}
}

// AnalyzeHandler analyzes a tee sheet posted as JSON.
func (s *Server) AnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxAnalyzeBody))
		dec.UseNumber()
		var body any
		if err := dec.Decode(&body); err != nil {
			log.Warn("Failed to decode tee sheet", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		sheet := golfgenius.ParseTeeSheet(body)
		writeJSON(w, s.Analyzer.DetailedAnalysis(sheet))
	}
}

// InspectHandler fetches and analyzes a single round.
func (s *Server) InspectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.URL.Query().Get("event")
		roundID := r.URL.Query().Get("round")
		if eventID == "" || roundID == "" {
			http.Error(w, "Missing 'event' or 'round' parameter", http.StatusBadRequest)
			return
		}

		detail, err := s.Auditor.Inspect(r.Context(), eventID, roundID)
		if err != nil {
			log.Error("Failed to inspect round", "event", eventID, "round", roundID, "error", err)
			http.Error(w, "Failed to inspect round: "+err.Error(), providerStatus(err))
			return
		}
		writeJSON(w, detail)
	}
}

// RoundFlaggedHandler receives round-flagged events pushed by Pub/Sub and
// re-checks the round, so a correction made after the audit is noticed.
func (s *Server) RoundFlaggedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received round flagged message", "body", string(bodyBytes))

		var envelope pushEnvelope
		if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		var event pubsub.FlaggedRoundEvent
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			log.Error("Failed to decode round flagged event", "error", err)
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if event.EventID == "" || event.RoundID == "" {
			http.Error(w, "Message is missing event or round", http.StatusBadRequest)
			return
		}

		detail, err := s.Auditor.Inspect(r.Context(), event.EventID, event.RoundID)
		if err != nil {
			// A non-2xx response makes Pub/Sub redeliver.
			log.Error("Failed to re-check flagged round", "event", event.EventID, "round", event.RoundID, "error", err)
			http.Error(w, "Failed to re-check round", http.StatusInternalServerError)
			return
		}
		if detail.Flagged {
			log.Info("Round still needs review", "run", event.RunID, "round", event.RoundID, "reason", detail.Reason)
		} else {
			log.Info("Flagged round has been resolved", "run", event.RunID, "round", event.RoundID, "reason", detail.Reason)
		}
		w.Write([]byte("OK"))
	}
}

func parseFormat(f string) (string, bool) {
	switch f {
	case "", formatJSON:
		return formatJSON, true
	case formatCSV, formatXLSX:
		return f, true
	default:
		return "", false
	}
}

// providerStatus maps a Golf Genius failure onto a response status.
func providerStatus(err error) int {
	var (
		apiErr        *golfgenius.APIError
		validationErr *golfgenius.ValidationError
	)
	switch {
	case errors.Is(err, golfgenius.ErrAuthentication), errors.Is(err, golfgenius.ErrRateLimited),
		errors.As(err, &apiErr), errors.As(err, &validationErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func writeReport(w http.ResponseWriter, format string, rounds []report.FlaggedRound, ts time.Time) {
	name := report.Filename(report.DefaultPrefix, ts, format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	var err error
	switch format {
	case formatCSV:
		w.Header().Set("Content-Type", "text/csv")
		err = report.WriteCSV(w, rounds)
	case formatXLSX:
		w.Header().Set("Content-Type", xlsxContentType)
		err = report.WriteXLSX(w, rounds)
	}
	if err != nil {
		log.Error("Failed to write report", "format", format, "error", err)
	}
}
