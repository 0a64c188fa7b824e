// Package sqlite persists match summaries in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/q3log/q3log-go/pkg/q3log/pipeline"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a run or match does not exist.
var ErrNotFound = errors.New("not found")

// Store writes summaries grouped by run. A run is one invocation over one
// feed; its matches are numbered like the command output.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// BeginRun records a new run reading source and returns its id.
func (s *Store) BeginRun(ctx context.Context, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO runs (id, source, started_at) VALUES (?, ?, ?)`,
		id, source, s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// PutSummary stores summary as match game of run runID.
func (s *Store) PutSummary(ctx context.Context, runID string, game int, summary *pipeline.MatchSummary) (err error) {
	if summary == nil {
		return fmt.Errorf("summary is required")
	}
	if game <= 0 {
		return fmt.Errorf("game number must be positive, got %d", game)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO matches (run_id, game, total_kills) VALUES (?, ?, ?)`,
		runID, game, summary.TotalKills,
	); err != nil {
		return fmt.Errorf("put match %d: %w", game, err)
	}

	for _, name := range summary.PlayerNames() {
		var frags sql.NullInt64
		if n, ok := summary.Kills[name]; ok {
			frags = sql.NullInt64{Int64: int64(n), Valid: true}
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO match_players (run_id, game, name, frags) VALUES (?, ?, ?, ?)`,
			runID, game, name, frags,
		); err != nil {
			return fmt.Errorf("put player %q: %w", name, err)
		}
	}
	for reason, deaths := range summary.MeansOfDeath {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO means_of_death (run_id, game, reason, deaths) VALUES (?, ?, ?, ?)`,
			runID, game, reason, deaths,
		); err != nil {
			return fmt.Errorf("put mean of death %q: %w", reason, err)
		}
	}
	for name, frags := range summary.ReportedScores {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO reported_scores (run_id, game, name, frags) VALUES (?, ?, ?, ?)`,
			runID, game, name, frags,
		); err != nil {
			return fmt.Errorf("put reported score %q: %w", name, err)
		}
	}
	for i, d := range summary.Disconnected {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO disconnections (run_id, game, position, client_id, name, frags) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, game, i, d.ID, d.Name, d.Frags,
		); err != nil {
			return fmt.Errorf("put disconnection %q: %w", d.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit match %d: %w", game, err)
	}
	return nil
}

// LatestRun returns the id of the most recently started run.
func (s *Store) LatestRun(ctx context.Context) (string, error) {
	var id string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("latest run: %w", ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("latest run: %w", err)
	}
	return id, nil
}

// Games returns the stored match numbers of run runID, ascending.
func (s *Store) Games(ctx context.Context, runID string) ([]int, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT game FROM matches WHERE run_id = ? ORDER BY game`, runID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []int
	for rows.Next() {
		var g int
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// GetSummary loads match game of run runID.
func (s *Store) GetSummary(ctx context.Context, runID string, game int) (*pipeline.MatchSummary, error) {
	summary := &pipeline.MatchSummary{
		Players: make(map[string]struct{}),
		Kills:   make(map[string]int),
	}

	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT total_kills FROM matches WHERE run_id = ? AND game = ?`, runID, game,
	).Scan(&summary.TotalKills)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s game %d: %w", runID, game, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}

	err = s.scan(ctx, `SELECT name, frags FROM match_players WHERE run_id = ? AND game = ?`, runID, game,
		func(rows *sql.Rows) error {
			var name string
			var frags sql.NullInt64
			if err := rows.Scan(&name, &frags); err != nil {
				return err
			}
			summary.Players[name] = struct{}{}
			if frags.Valid {
				summary.Kills[name] = int(frags.Int64)
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}

	err = s.scan(ctx, `SELECT reason, deaths FROM means_of_death WHERE run_id = ? AND game = ?`, runID, game,
		func(rows *sql.Rows) error {
			var reason string
			var deaths int
			if err := rows.Scan(&reason, &deaths); err != nil {
				return err
			}
			if summary.MeansOfDeath == nil {
				summary.MeansOfDeath = make(map[string]int)
			}
			summary.MeansOfDeath[reason] = deaths
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("get means of death: %w", err)
	}

	err = s.scan(ctx, `SELECT name, frags FROM reported_scores WHERE run_id = ? AND game = ?`, runID, game,
		func(rows *sql.Rows) error {
			var name string
			var frags int
			if err := rows.Scan(&name, &frags); err != nil {
				return err
			}
			if summary.ReportedScores == nil {
				summary.ReportedScores = make(map[string]int)
			}
			summary.ReportedScores[name] = frags
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("get reported scores: %w", err)
	}

	err = s.scan(ctx, `SELECT client_id, name, frags FROM disconnections WHERE run_id = ? AND game = ? ORDER BY position`, runID, game,
		func(rows *sql.Rows) error {
			var d pipeline.DisconnectedPlayer
			if err := rows.Scan(&d.ID, &d.Name, &d.Frags); err != nil {
				return err
			}
			summary.Disconnected = append(summary.Disconnected, d)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("get disconnections: %w", err)
	}
	return summary, nil
}

func (s *Store) scan(ctx context.Context, query, runID string, game int, fn func(*sql.Rows) error) error {
	rows, err := s.sqlDB.QueryContext(ctx, query, runID, game)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
