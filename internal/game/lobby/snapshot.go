package lobby

import (
	"context"

	"github.com/palemoky/reversi/internal/game/board"
)

// Snapshot 可持久化的大厅状态（仅对局中的大厅会被保存）
type Snapshot struct {
	ID        int
	Status    Status
	Names     [2]string
	Board     board.Board
	Active    int
	Winner    int
	UpdatedAt int64
}

// Store 大厅快照存储，服务重启后据此恢复暂停的对局
type Store interface {
	SaveLobby(ctx context.Context, s Snapshot) error
	DeleteLobby(ctx context.Context, id int) error
	LoadLobbies(ctx context.Context) ([]Snapshot, error)
}
