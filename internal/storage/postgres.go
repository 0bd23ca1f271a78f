package storage

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

// InitPostgres 打开连接并做一次连通性检查
func InitPostgres(dsn string) error {
	var err error
	DB, err = sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return DB.PingContext(ctx)
}
