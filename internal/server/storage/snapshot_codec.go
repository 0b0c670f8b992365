package storage

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/palemoky/reversi/internal/game/board"
	"github.com/palemoky/reversi/internal/game/lobby"
)

// 快照字段编号，与 protobuf message LobbySnapshot 保持一致
const (
	fieldID        protowire.Number = 1
	fieldStatus    protowire.Number = 2
	fieldName1     protowire.Number = 3
	fieldName2     protowire.Number = 4
	fieldBoard     protowire.Number = 5
	fieldActive    protowire.Number = 6
	fieldWinner    protowire.Number = 7
	fieldUpdatedAt protowire.Number = 8
)

// encodeSnapshot 以 protobuf wire 格式编码快照，棋盘使用与 STATE 相同的 64 字符编码
func encodeSnapshot(s lobby.Snapshot) []byte {
	b := make([]byte, 0, 128)
	b = appendVarint(b, fieldID, uint64(s.ID))
	b = appendVarint(b, fieldStatus, uint64(s.Status))
	b = appendString(b, fieldName1, s.Names[0])
	b = appendString(b, fieldName2, s.Names[1])
	b = appendString(b, fieldBoard, s.Board.Encode())
	b = appendVarint(b, fieldActive, uint64(s.Active))
	b = appendVarint(b, fieldWinner, uint64(s.Winner))
	b = appendVarint(b, fieldUpdatedAt, uint64(s.UpdatedAt))
	return b
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// decodeSnapshot 解码快照，未知字段跳过
func decodeSnapshot(data []byte) (lobby.Snapshot, error) {
	var s lobby.Snapshot
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return s, fmt.Errorf("snapshot tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return s, fmt.Errorf("snapshot field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
			switch num {
			case fieldID:
				s.ID = int(v)
			case fieldStatus:
				s.Status = lobby.Status(v)
			case fieldActive:
				s.Active = int(v)
			case fieldWinner:
				s.Winner = int(v)
			case fieldUpdatedAt:
				s.UpdatedAt = int64(v)
			}
		case typ == protowire.BytesType:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return s, fmt.Errorf("snapshot field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
			switch num {
			case fieldName1:
				s.Names[0] = v
			case fieldName2:
				s.Names[1] = v
			case fieldBoard:
				b, err := board.Decode(v)
				if err != nil {
					return s, fmt.Errorf("snapshot board: %w", err)
				}
				s.Board = b
			}
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return s, fmt.Errorf("snapshot field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
		}
	}
	return s, nil
}
