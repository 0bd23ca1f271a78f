package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var Rdb *redis.Client

// InitRedis 建立连接并做一次连通性检查。
// 赢局记录库启动时必须可达，失败由调用方直接退出进程。
func InitRedis(addr, password string, db int) error {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return Rdb.Ping(ctx).Err()
}
