package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type postgresRepo struct {
	db *sql.DB
}

// NewPostgresRepo 包一层已建立的连接（storage.InitPostgres），并确保表结构存在
func NewPostgresRepo(db *sql.DB) (Repo, error) {
	r := &postgresRepo{db: db}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *postgresRepo) ensureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS game_wins (
			id         TEXT PRIMARY KEY,
			record     JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`)
	return err
}

func (r *postgresRepo) Insert(ctx context.Context, rec *WinRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal win record: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO game_wins (id, record, created_at) VALUES ($1, $2, $3)`,
		rec.ID, data, rec.Timestamp)
	return err
}

func (r *postgresRepo) DeleteLatest(ctx context.Context) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM game_wins
		WHERE id = (SELECT id FROM game_wins ORDER BY created_at DESC LIMIT 1)`)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *postgresRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM game_wins`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *postgresRepo) Clear(ctx context.Context) error {
	_, err := r.DeleteAll(ctx)
	return err
}

func (r *postgresRepo) ListRecent(ctx context.Context, n int) ([]*WinRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT record FROM game_wins ORDER BY created_at DESC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*WinRecord, 0, n)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var rec WinRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal win record: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
