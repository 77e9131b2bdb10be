package db

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"coinTossServer/game"
	"coinTossServer/state"

	"github.com/joho/godotenv"
	"gotest.tools/assert"
)

func testCommitment(id string) *state.MatchCommitment {
	return &state.MatchCommitment{
		MatchID:        id,
		ServerSeed:     "seed-" + id,
		ServerSeedHash: "hash-" + id,
		Config: game.MatchConfig{
			TrialCount: 200,
			Endgame1:   "HTH",
			Endgame2:   "HHH",
			BinCount:   50,
			TieBreak:   game.FewerTosses,
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestUninitializedStoresAreSkipped(t *testing.T) {
	ctx := context.Background()
	m := testCommitment("offline")

	assert.NilError(t, StoreMatchCommitment(ctx, m))
	assert.NilError(t, CacheMatchCommitment(ctx, m))

	got, err := GetMatchCommitment(ctx, m.MatchID)
	assert.NilError(t, err)
	assert.Assert(t, got == nil)

	cached, err := GetCachedMatchCommitment(ctx, m.MatchID)
	assert.NilError(t, err)
	assert.Assert(t, cached == nil)

	assert.ErrorContains(t, HealthCheck(ctx), "not initialized")
	assert.ErrorContains(t, HealthCheckPostgres(ctx), "not initialized")
}

func TestMatchCommitmentsPostgres(t *testing.T) {
	_ = godotenv.Load("../.env")

	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := InitPostgres(os.Getenv("DATABASE_URL")); err != nil {
		t.Fatalf("Failed to init postgres: %v", err)
	}
	defer ClosePostgres()

	ctx := context.Background()
	m := testCommitment("test-" + strconv.FormatInt(time.Now().UnixNano(), 10))

	_, _ = PostgresPool.Exec(ctx, "DELETE FROM match_commitments WHERE match_id = $1", m.MatchID)
	defer PostgresPool.Exec(ctx, "DELETE FROM match_commitments WHERE match_id = $1", m.MatchID)

	t.Run("StoreAndGet", func(t *testing.T) {
		assert.NilError(t, StoreMatchCommitment(ctx, m))

		got, err := GetMatchCommitment(ctx, m.MatchID)
		assert.NilError(t, err)
		assert.Assert(t, got != nil)
		assert.Equal(t, got.ServerSeed, m.ServerSeed)
		assert.Equal(t, got.Config.Endgame1, "HTH")
		assert.Equal(t, got.Config.TieBreak, game.FewerTosses)
	})

	t.Run("DuplicateIsIgnored", func(t *testing.T) {
		assert.NilError(t, StoreMatchCommitment(ctx, m))
	})

	t.Run("Recent", func(t *testing.T) {
		recent, err := GetRecentMatchCommitments(ctx, 5)
		assert.NilError(t, err)
		assert.Assert(t, len(recent) >= 1)
	})

	t.Run("Missing", func(t *testing.T) {
		got, err := GetMatchCommitment(ctx, "does-not-exist")
		assert.NilError(t, err)
		assert.Assert(t, got == nil)
	})
}

func TestMatchCommitmentsRedis(t *testing.T) {
	_ = godotenv.Load("../.env")

	if os.Getenv("REDIS_URL") == "" {
		t.Skip("REDIS_URL not set")
	}

	if err := InitRedis(os.Getenv("REDIS_URL"), os.Getenv("REDIS_PASSWORD"), 0); err != nil {
		t.Fatalf("Failed to init redis: %v", err)
	}
	defer CloseRedis()

	ctx := context.Background()
	m := testCommitment("redis-" + strconv.FormatInt(time.Now().UnixNano(), 10))

	assert.NilError(t, CacheMatchCommitment(ctx, m))

	got, err := GetCachedMatchCommitment(ctx, m.MatchID)
	assert.NilError(t, err)
	assert.Assert(t, got != nil)
	assert.Equal(t, got.ServerSeedHash, m.ServerSeedHash)
	assert.Equal(t, got.Config.TrialCount, 200)

	RedisClient.Del(ctx, "match:"+m.MatchID)
}
