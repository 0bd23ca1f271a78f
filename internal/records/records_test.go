package records

import (
	"context"
	"testing"
	"time"

	"MiniFlush/internal/game/deck"
	"MiniFlush/internal/game/hand"
	"MiniFlush/internal/game/table"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(winners ...string) *WinRecord {
	seats := map[string]*table.Seat{}
	for _, w := range winners {
		seats[w] = &table.Seat{
			Active: true,
			Hand:   []deck.Card{{Rank: 4, Suit: 'S'}, {Rank: 5, Suit: 'S'}, {Rank: 6, Suit: 'S'}},
			Result: "win",
		}
	}
	return &WinRecord{
		ID:                uuid.NewString(),
		Winners:           winners,
		DealerHand:        []deck.Card{{Rank: 13, Suit: 'H'}, {Rank: 13, Suit: 'D'}, {Rank: 2, Suit: 'C'}},
		DealerCombination: hand.Pair,
		DealerQualifies:   true,
		Seats:             seats,
		TableNumber:       1,
		Timestamp:         time.Now().UTC(),
	}
}

// repo 行为契约，对内存与 redis 实现各跑一遍
func runRepoContract(t *testing.T, repo Repo) {
	ctx := context.Background()

	require.NoError(t, repo.Ping(ctx))

	// 空库：删最新应是 no-op
	deleted, err := repo.DeleteLatest(ctx)
	require.NoError(t, err)
	assert.False(t, deleted)

	first := sampleRecord("seat-1")
	second := sampleRecord("seat-2", "seat-4")
	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))

	// 倒序：最新在前
	recs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, second.ID, recs[0].ID)
	assert.Equal(t, []string{"seat-2", "seat-4"}, recs[0].Winners)
	assert.Equal(t, hand.Pair, recs[0].DealerCombination)
	assert.Equal(t, first.ID, recs[1].ID)

	// 座位快照要完整往返
	require.Contains(t, recs[1].Seats, "seat-1")
	assert.Equal(t, "win", recs[1].Seats["seat-1"].Result)
	assert.Len(t, recs[1].Seats["seat-1"].Hand, 3)

	// 删最新
	deleted, err = repo.DeleteLatest(ctx)
	require.NoError(t, err)
	assert.True(t, deleted)

	recs, err = repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, first.ID, recs[0].ID)

	// 删全部带计数
	require.NoError(t, repo.Insert(ctx, sampleRecord("seat-3")))
	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	recs, err = repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recs)

	// Clear 幂等
	require.NoError(t, repo.Insert(ctx, sampleRecord("seat-5")))
	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx))
	recs, err = repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func Test_MemoryRepo_Contract(t *testing.T) {
	runRepoContract(t, NewMemoryRepo())
}

func Test_RedisRepo_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	runRepoContract(t, NewRedisRepo(rdb))
}

func Test_RedisRepo_ListRecentLimit(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := NewRedisRepo(rdb)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, sampleRecord("seat-1")))
	}
	recs, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}
