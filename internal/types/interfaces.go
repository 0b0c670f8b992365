package types

import (
	"github.com/palemoky/reversi/internal/protocol"
)

// ClientInterface 服务端的一条玩家连接（用于打破循环依赖）
type ClientInterface interface {
	GetID() string
	GetName() string
	SetName(name string)
	GetLobby() int
	SetLobby(id int)
	SendMessage(msg *protocol.Message)
	Close()
}

// ServerInterface 处理器需要的服务器能力
type ServerInterface interface {
	GetOnlineCount() int
	GetClientByID(id string) ClientInterface
}
