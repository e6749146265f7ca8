// Package storage persists odds snapshots so line movement between fetches
// can be inspected later. Wager history is deliberately not stored.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/luiso2/betbridge/internal/pkg/models"
)

// SnapshotRecorder upserts one row per (game, market, side) each time a
// live schedule is fetched.
type SnapshotRecorder struct {
	db *sql.DB
}

func NewSnapshotRecorder(dsn string) (*SnapshotRecorder, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	r := &SnapshotRecorder{db: db}
	if err := r.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("odds snapshot storage initialized")
	return r, nil
}

func (r *SnapshotRecorder) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS odds_snapshots (
		id SERIAL PRIMARY KEY,
		league_id INTEGER NOT NULL,
		game_id VARCHAR(50) NOT NULL,
		game_name VARCHAR(500) NOT NULL,
		market VARCHAR(20) NOT NULL,
		side SMALLINT NOT NULL,
		line VARCHAR(20) NOT NULL,
		odds VARCHAR(20) NOT NULL,
		recorded_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(game_id, market, side)
	);

	CREATE INDEX IF NOT EXISTS idx_odds_snapshots_league ON odds_snapshots(league_id);
	CREATE INDEX IF NOT EXISTS idx_odds_snapshots_game ON odds_snapshots(game_id);
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

// RecordSchedule stores the current lines of every game in a live schedule.
// Fallback schedules carry no games and record nothing.
func (r *SnapshotRecorder) RecordSchedule(ctx context.Context, schedule models.Schedule) error {
	if schedule.Source != models.SourceLive {
		return nil
	}
	now := time.Now().UTC()
	for _, game := range schedule.Games {
		name := fmt.Sprintf("%s @ %s", game.Visiting.Name, game.Home.Name)
		rows := []struct {
			market string
			side   int
			line   string
			odds   string
		}{
			{"spread", 0, game.Spread.VisitorLine, game.Spread.VisitorOdds},
			{"spread", 1, game.Spread.HomeLine, game.Spread.HomeOdds},
			{"total", 0, game.Total.Line, game.Total.OverOdds},
			{"total", 1, game.Total.Line, game.Total.UnderOdds},
			{"moneyline", 0, "0", game.Moneyline.VisitorOdds},
			{"moneyline", 1, "0", game.Moneyline.HomeOdds},
		}
		for _, row := range rows {
			if err := r.upsert(ctx, schedule.LeagueID, game.ID, name, row.market, row.side, row.line, row.odds, now); err != nil {
				return fmt.Errorf("failed to store snapshot for game %s: %w", game.ID, err)
			}
		}
	}
	return nil
}

func (r *SnapshotRecorder) upsert(ctx context.Context, leagueID int, gameID, name, market string, side int, line, odds string, recordedAt time.Time) error {
	query := `
	INSERT INTO odds_snapshots (
		league_id, game_id, game_name, market, side, line, odds, recorded_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (game_id, market, side) DO UPDATE SET
		league_id = EXCLUDED.league_id,
		game_name = EXCLUDED.game_name,
		line = EXCLUDED.line,
		odds = EXCLUDED.odds,
		recorded_at = EXCLUDED.recorded_at
	`
	_, err := r.db.ExecContext(ctx, query, leagueID, gameID, name, market, side, line, odds, recordedAt)
	return err
}

func (r *SnapshotRecorder) Close() error {
	return r.db.Close()
}
