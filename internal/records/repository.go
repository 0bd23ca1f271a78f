package records

import "context"

// Repo 定义对赢局记录存储的抽象操作。
// 核心只依赖这四个写操作 + 查询，不绑定具体存储。
type Repo interface {
	// Insert 追加一条赢局记录
	Insert(ctx context.Context, rec *WinRecord) error
	// DeleteLatest 删除最近一条记录；没有记录时 deleted=false
	DeleteLatest(ctx context.Context) (deleted bool, err error)
	// DeleteAll 删除全部记录并返回删除条数
	DeleteAll(ctx context.Context) (int64, error)
	// Clear 清空全部记录（不关心条数）
	Clear(ctx context.Context) error
	// ListRecent 按时间倒序返回最近 n 条
	ListRecent(ctx context.Context, n int) ([]*WinRecord, error)
	// Ping 启动连通性检查；失败视为致命错误
	Ping(ctx context.Context) error
}
