package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const defaultListLimit = 20

type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new AuditStore backed by db.
func New(db *sql.DB) AuditStore {
	return &store{db: db}
}

// SaveRun inserts a run or replaces the totals of an existing one.
func (s *store) SaveRun(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_runs (id, season_id, season_name, range_start, range_end, polarity, total_rounds, flagged_rounds, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_rounds = excluded.total_rounds,
			flagged_rounds = excluded.flagged_rounds,
			finished_at = excluded.finished_at;
	`, run.ID, run.SeasonID, run.SeasonName, run.RangeStart.Unix(), run.RangeEnd.Unix(), run.Polarity,
		run.TotalRounds, run.FlaggedRounds, run.StartedAt.Unix(), run.FinishedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// SaveRounds writes all rounds of a run in one transaction.
func (s *store) SaveRounds(ctx context.Context, runID string, rounds []AuditedRound) error {
	if len(rounds) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO audited_rounds (run_id, event_id, event_name, round_id, round_name, round_date, is_flagged, flag_reason, total_players, front_9_players, back_9_players, complete_players)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, event_id, round_id) DO UPDATE SET
			is_flagged = excluded.is_flagged,
			flag_reason = excluded.flag_reason,
			total_players = excluded.total_players,
			front_9_players = excluded.front_9_players,
			back_9_players = excluded.back_9_players,
			complete_players = excluded.complete_players;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range rounds {
		var date sql.NullInt64
		if r.RoundDate != nil {
			date = sql.NullInt64{Int64: r.RoundDate.Unix(), Valid: true}
		}
		_, err := stmt.ExecContext(ctx, runID, r.EventID, r.EventName, r.RoundID, r.RoundName, date,
			r.Flagged, r.Reason, r.TotalPlayers, r.Front9Players, r.Back9Players, r.CompletePlayers)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save round %s/%s: %w", r.EventID, r.RoundID, err)
		}
	}
	return tx.Commit()
}

// GetRun returns a single run or ErrNotFound.
func (s *store) GetRun(ctx context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, season_id, season_name, range_start, range_end, polarity, total_rounds, flagged_rounds, started_at, finished_at
		FROM audit_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	return run, err
}

// ListRuns returns the most recent runs first.
func (s *store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, season_id, season_name, range_start, range_end, polarity, total_rounds, flagged_rounds, started_at, finished_at
		FROM audit_runs
		ORDER BY started_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			log.Error("Failed to scan run row", "error", err)
			continue
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetFlaggedRounds returns the flagged rounds of a run ordered by date.
func (s *store) GetFlaggedRounds(ctx context.Context, runID string) ([]AuditedRound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, event_id, event_name, round_id, round_name, round_date, is_flagged, flag_reason, total_players, front_9_players, back_9_players, complete_players
		FROM audited_rounds
		WHERE run_id = ? AND is_flagged = 1
		ORDER BY round_date IS NULL, round_date, event_id, round_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := []AuditedRound{}
	for rows.Next() {
		var (
			r    AuditedRound
			date sql.NullInt64
		)
		if err := rows.Scan(&r.RunID, &r.EventID, &r.EventName, &r.RoundID, &r.RoundName, &date, &r.Flagged,
			&r.Reason, &r.TotalPlayers, &r.Front9Players, &r.Back9Players, &r.CompletePlayers); err != nil {
			log.Error("Failed to scan round row", "error", err)
			continue
		}
		if date.Valid {
			t := time.Unix(date.Int64, 0).UTC()
			r.RoundDate = &t
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

func scanRun(scanner interface{ Scan(...any) error }) (Run, error) {
	var (
		run                                  Run
		rangeStart, rangeEnd, started, ended int64
	)
	err := scanner.Scan(&run.ID, &run.SeasonID, &run.SeasonName, &rangeStart, &rangeEnd, &run.Polarity,
		&run.TotalRounds, &run.FlaggedRounds, &started, &ended)
	if err != nil {
		return Run{}, err
	}
	run.RangeStart = time.Unix(rangeStart, 0).UTC()
	run.RangeEnd = time.Unix(rangeEnd, 0).UTC()
	run.StartedAt = time.Unix(started, 0).UTC()
	run.FinishedAt = time.Unix(ended, 0).UTC()
	return run, nil
}
