// Package apperrors holds the error taxonomy shared by client and server.
package apperrors

import "errors"

// 错误码
const (
	CodeTransport         = 1000 // 传输层错误，可通过重连恢复
	CodeProtocolViolation = 1001 // 缺少协议前缀或参数错误
	CodeRuleViolation     = 3001 // 非法落子
	CodeNotYourTurn       = 3002
	CodeSessionDesync     = 3003 // 消息与当前阶段不符
	CodeInvalidIntent     = 3004
	CodeLobbyNotFound     = 2001
	CodeLobbyFull         = 2002
	CodeNotInLobby        = 2003
)

// GameError 带错误码的错误（客户端与服务端共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Is 按错误码比较，使包装后的错误也能用 errors.Is 匹配
func (e *GameError) Is(target error) bool {
	var t *GameError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// 预定义错误
var (
	ErrTransport         = &GameError{Code: CodeTransport, Message: "connection lost"}
	ErrProtocolViolation = &GameError{Code: CodeProtocolViolation, Message: "malformed message"}
	ErrRuleViolation     = &GameError{Code: CodeRuleViolation, Message: "illegal move"}
	ErrNotYourTurn       = &GameError{Code: CodeNotYourTurn, Message: "not your turn"}
	ErrSessionDesync     = &GameError{Code: CodeSessionDesync, Message: "message does not match session phase"}
	ErrInvalidIntent     = &GameError{Code: CodeInvalidIntent, Message: "action not available in current phase"}
	ErrLobbyNotFound     = &GameError{Code: CodeLobbyNotFound, Message: "lobby does not exist"}
	ErrLobbyFull         = &GameError{Code: CodeLobbyFull, Message: "lobby is full"}
	ErrNotInLobby        = &GameError{Code: CodeNotInLobby, Message: "not seated in a lobby"}
)

// CodeOf 提取错误码，非 GameError 返回 0
func CodeOf(err error) int {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return 0
}
