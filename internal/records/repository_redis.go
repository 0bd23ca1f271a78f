package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// key 约定：
//
//	list: miniflush:wins  -> JSON 记录，LPUSH 入队（index 0 永远是最新一条）
const winsKey = "miniflush:wins"

type redisRepo struct {
	rdb *redis.Client
}

func NewRedisRepo(rdb *redis.Client) Repo {
	return &redisRepo{rdb: rdb}
}

func (r *redisRepo) Insert(ctx context.Context, rec *WinRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal win record: %w", err)
	}
	return r.rdb.LPush(ctx, winsKey, data).Err()
}

func (r *redisRepo) DeleteLatest(ctx context.Context) (bool, error) {
	_, err := r.rdb.LPop(ctx, winsKey).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisRepo) DeleteAll(ctx context.Context) (int64, error) {
	// LLEN + DEL 非原子，但删除竞争的后果只是计数偏差
	n, err := r.rdb.LLen(ctx, winsKey).Result()
	if err != nil {
		return 0, err
	}
	if err := r.rdb.Del(ctx, winsKey).Err(); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *redisRepo) Clear(ctx context.Context) error {
	return r.rdb.Del(ctx, winsKey).Err()
}

func (r *redisRepo) ListRecent(ctx context.Context, n int) ([]*WinRecord, error) {
	raw, err := r.rdb.LRange(ctx, winsKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*WinRecord, 0, len(raw))
	for _, item := range raw {
		var rec WinRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal win record: %w", err)
		}
		out = append(out, &rec)
	}
	return out, nil
}

func (r *redisRepo) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
