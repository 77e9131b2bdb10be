package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coinTossServer/config"
	"coinTossServer/game"
	"coinTossServer/state"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var (
	// PostgresPool is the global PostgreSQL connection pool
	PostgresPool *pgxpool.Pool
)

// InitPostgres initializes the PostgreSQL connection pool
func InitPostgres(databaseURL string) error {
	log.Info("🔌 Connecting to PostgreSQL...")

	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = config.MaxOpenConns
	poolConfig.MinConns = config.MinIdleConns
	poolConfig.MaxConnLifetime = config.ConnMaxLifetime

	PostgresPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := PostgresPool.Ping(ctx); err != nil {
		PostgresPool.Close()
		PostgresPool = nil
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("✅ PostgreSQL connected successfully")

	if err := InitSchema(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// ClosePostgres closes the PostgreSQL connection pool
func ClosePostgres() {
	if PostgresPool != nil {
		log.Info("🔌 Closing PostgreSQL connection...")
		PostgresPool.Close()
		PostgresPool = nil
	}
}

// InitSchema creates the database tables if they don't exist
func InitSchema(ctx context.Context) error {
	log.Info("📋 Initializing database schema...")

	matchCommitmentsSchema := `
	CREATE TABLE IF NOT EXISTS match_commitments (
		match_id TEXT PRIMARY KEY,
		server_seed TEXT NOT NULL,
		server_seed_hash TEXT NOT NULL,
		trial_count INTEGER NOT NULL,
		endgame1 TEXT NOT NULL,
		endgame2 TEXT NOT NULL,
		bin_count INTEGER NOT NULL,
		tie_break TEXT NOT NULL,
		max_draws INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	-- Index on created_at for recent matches
	CREATE INDEX IF NOT EXISTS idx_match_commitments_created_at ON match_commitments(created_at DESC);
	`

	if _, err := PostgresPool.Exec(ctx, matchCommitmentsSchema); err != nil {
		return fmt.Errorf("failed to create match_commitments table: %w", err)
	}

	log.Info("✅ Database schema initialized")
	return nil
}

/* =========================
   MATCH COMMITMENTS
========================= */

// StoreMatchCommitment records the seed and config of a played match
func StoreMatchCommitment(ctx context.Context, m *state.MatchCommitment) error {
	if PostgresPool == nil {
		log.Debug("⚠️  PostgreSQL not initialized, skipping match commitment storage")
		return nil
	}

	query := `
		INSERT INTO match_commitments
			(match_id, server_seed, server_seed_hash, trial_count, endgame1, endgame2, bin_count, tie_break, max_draws, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (match_id) DO NOTHING
	`

	_, err := PostgresPool.Exec(ctx, query,
		m.MatchID,
		m.ServerSeed,
		m.ServerSeedHash,
		m.Config.TrialCount,
		m.Config.Endgame1,
		m.Config.Endgame2,
		m.Config.BinCount,
		string(m.Config.TieBreak),
		m.Config.MaxDraws,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store match commitment: %w", err)
	}

	log.WithField("matchId", m.MatchID).Debug("💾 Stored match commitment")
	return nil
}

// GetMatchCommitment loads a match commitment, returning nil when it does not exist
func GetMatchCommitment(ctx context.Context, matchID string) (*state.MatchCommitment, error) {
	if PostgresPool == nil {
		return nil, nil
	}

	query := `
		SELECT match_id, server_seed, server_seed_hash, trial_count, endgame1, endgame2, bin_count, tie_break, max_draws, created_at
		FROM match_commitments
		WHERE match_id = $1
	`

	var (
		m        state.MatchCommitment
		tieBreak string
	)
	err := PostgresPool.QueryRow(ctx, query, matchID).Scan(
		&m.MatchID,
		&m.ServerSeed,
		&m.ServerSeedHash,
		&m.Config.TrialCount,
		&m.Config.Endgame1,
		&m.Config.Endgame2,
		&m.Config.BinCount,
		&tieBreak,
		&m.Config.MaxDraws,
		&m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match commitment: %w", err)
	}
	m.Config.TieBreak = game.TieBreak(tieBreak)

	return &m, nil
}

// GetRecentMatchCommitments returns the newest commitments, newest first
func GetRecentMatchCommitments(ctx context.Context, limit int) ([]state.MatchCommitment, error) {
	if PostgresPool == nil {
		return nil, nil
	}

	query := `
		SELECT match_id, server_seed, server_seed_hash, trial_count, endgame1, endgame2, bin_count, tie_break, max_draws, created_at
		FROM match_commitments
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := PostgresPool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match commitments: %w", err)
	}
	defer rows.Close()

	var matches []state.MatchCommitment
	for rows.Next() {
		var (
			m        state.MatchCommitment
			tieBreak string
		)
		if err := rows.Scan(
			&m.MatchID,
			&m.ServerSeed,
			&m.ServerSeedHash,
			&m.Config.TrialCount,
			&m.Config.Endgame1,
			&m.Config.Endgame2,
			&m.Config.BinCount,
			&tieBreak,
			&m.Config.MaxDraws,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match commitment: %w", err)
		}
		m.Config.TieBreak = game.TieBreak(tieBreak)
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match commitments: %w", err)
	}

	return matches, nil
}

// HealthCheckPostgres checks if PostgreSQL is healthy
func HealthCheckPostgres(ctx context.Context) error {
	if PostgresPool == nil {
		return fmt.Errorf("PostgreSQL not initialized")
	}
	return PostgresPool.Ping(ctx)
}
