package records

import (
	"context"
	"sync"
)

// memoryRepo 内存实现，测试与本地开发用
type memoryRepo struct {
	mu   sync.Mutex
	recs []*WinRecord // 按插入顺序，末尾最新
}

func NewMemoryRepo() Repo {
	return &memoryRepo{}
}

func (r *memoryRepo) Insert(ctx context.Context, rec *WinRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs = append(r.recs, rec)
	return nil
}

func (r *memoryRepo) DeleteLatest(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.recs) == 0 {
		return false, nil
	}
	r.recs = r.recs[:len(r.recs)-1]
	return true, nil
}

func (r *memoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.recs))
	r.recs = nil
	return n, nil
}

func (r *memoryRepo) Clear(ctx context.Context) error {
	_, err := r.DeleteAll(ctx)
	return err
}

func (r *memoryRepo) ListRecent(ctx context.Context, n int) ([]*WinRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > len(r.recs) {
		n = len(r.recs)
	}
	out := make([]*WinRecord, 0, n)
	for i := len(r.recs) - 1; i >= len(r.recs)-n; i-- {
		out = append(out, r.recs[i])
	}
	return out, nil
}

func (r *memoryRepo) Ping(ctx context.Context) error {
	return nil
}
