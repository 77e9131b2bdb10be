package config

import "time"

/* =========================
   GAME MECHANICS - COIN TOSS
========================= */

const (
	// Slider range for the number of games simulated per player
	DefaultTrialCount = 200
	MinTrialCount     = 1
	MaxTrialCount     = 5000

	// Histogram resolution, default in game.DefaultBinCount
	MaxBinCount = 500

	// Endgames offered on first load
	DefaultEndgame1 = "HTH"
	DefaultEndgame2 = "HHH"

	// Longest endgame accepted from the dashboard or API
	MaxEndgameLength = 16

	// Per-trial toss cap, 0 = unbounded
	DefaultMaxDraws = 0

	// Keep last 50 match commitments in memory
	MaxMatchHistory = 50
)

/* =========================
   REDIS TTL CONFIGURATION
========================= */

const (
	// Match commitment cache TTL (2 hours)
	// Key: match:{matchId}
	MatchCommitmentTTL = 2 * time.Hour

	RedisMatchKey = "match:%s" // match:{matchId}
)

/* =========================
   POSTGRESQL CONFIGURATION
========================= */

const (
	// Connection pool settings
	MaxOpenConns    = 25
	MinIdleConns    = 5
	ConnMaxLifetime = 5 * time.Minute
)

/* =========================
   API CONFIGURATION
========================= */

const (
	// Server settings
	ServerPort = "8080"
	ServerHost = "0.0.0.0"

	// CORS settings
	AllowOrigin = "*"

	// Request body limit for POST endpoints
	MaxRequestBytes = 16 * 1024
)

/* =========================
   WEBSOCKET CONFIGURATION
========================= */

const (
	// WebSocket settings
	WSReadDeadline  = 60 * time.Second
	WSWriteDeadline = 10 * time.Second
	WSPingInterval  = 30 * time.Second

	// Buffer sizes
	WSReadBufferSize  = 1024
	WSWriteBufferSize = 1024
	WSSendQueueSize   = 32

	// Message size limits
	MaxMessageSize = 64 * 1024 // 64KB
)
