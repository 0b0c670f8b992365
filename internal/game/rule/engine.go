package rule

import (
	"fmt"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/game/board"
)

// Direction 八个扫描方向之一
type Direction struct {
	DX int
	DY int
}

// Directions 除 (0,0) 外的全部单位向量
var Directions = [8]Direction{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// CaptureSet 每个方向上需要翻转的对手棋子数
type CaptureSet map[Direction]int

// Total 翻转总数
func (cs CaptureSet) Total() int {
	n := 0
	for _, run := range cs {
		n += run
	}
	return n
}

// Unit 是否为八个扫描方向之一
func (d Direction) Unit() bool {
	return d != Direction{} && d.DX >= -1 && d.DX <= 1 && d.DY >= -1 && d.DY <= 1
}

// Move 一次落子
type Move struct {
	board.Pos
	Color board.Color
}

func step(p board.Pos, d Direction) board.Pos {
	return board.Pos{Col: p.Col + d.DX, Row: p.Row + d.DY}
}

// scan 沿一个方向数连续的对手棋子，只有以己方棋子收尾时才算吃子
func scan(b *board.Board, from board.Pos, d Direction, color board.Color) int {
	own, opp := color.Cell(), color.Opponent().Cell()
	run := 0
	for p := step(from, d); p.InBounds(); p = step(p, d) {
		switch b.At(p) {
		case opp:
			run++
		case own:
			return run
		default:
			return 0
		}
	}
	return 0
}

// Captures 计算在 pos 落子时各方向的吃子数，非法落子返回 nil
func Captures(b board.Board, pos board.Pos, color board.Color) CaptureSet {
	if !pos.InBounds() || !b.IsOpen(pos) || !color.Valid() {
		return nil
	}
	var cs CaptureSet
	for _, d := range Directions {
		if run := scan(&b, pos, d, color); run > 0 {
			if cs == nil {
				cs = make(CaptureSet, 2)
			}
			cs[d] = run
		}
	}
	return cs
}

// LegalMoves 返回 color 的所有合法落点及其吃子集合
func LegalMoves(b board.Board, color board.Color) map[board.Pos]CaptureSet {
	moves := make(map[board.Pos]CaptureSet)
	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			pos := board.Pos{Col: col, Row: row}
			if cs := Captures(b, pos, color); len(cs) > 0 {
				moves[pos] = cs
			}
		}
	}
	return moves
}

// ApplyMove 落子并翻转 cs 记录的棋子，返回新棋盘。
// 校验失败时返回 ErrRuleViolation，原棋盘不变。
func ApplyMove(b board.Board, m Move, cs CaptureSet) (board.Board, error) {
	if !m.Color.Valid() {
		return b, fmt.Errorf("invalid color %d: %w", m.Color, apperrors.ErrRuleViolation)
	}
	if !m.InBounds() || !b.IsOpen(m.Pos) {
		return b, fmt.Errorf("cell (%d,%d) is not empty: %w", m.Col, m.Row, apperrors.ErrRuleViolation)
	}
	if len(cs) == 0 {
		return b, fmt.Errorf("move (%d,%d) captures nothing: %w", m.Col, m.Row, apperrors.ErrRuleViolation)
	}

	own, opp := m.Color.Cell(), m.Color.Opponent().Cell()
	for d, run := range cs {
		if !d.Unit() {
			return b, fmt.Errorf("direction %v is not a unit vector: %w", d, apperrors.ErrRuleViolation)
		}
		if run <= 0 {
			return b, fmt.Errorf("non-positive run %d in direction %v: %w", run, d, apperrors.ErrRuleViolation)
		}
		p := m.Pos
		for i := 0; i < run; i++ {
			p = step(p, d)
			if b.At(p) != opp || !p.InBounds() {
				return b, fmt.Errorf("direction %v run %d does not match board: %w", d, run, apperrors.ErrRuleViolation)
			}
		}
		if end := step(p, d); !end.InBounds() || b.At(end) != own {
			return b, fmt.Errorf("direction %v run %d is not bracketed: %w", d, run, apperrors.ErrRuleViolation)
		}
	}

	next := StripHints(b)
	for d, run := range cs {
		p := m.Pos
		for i := 0; i < run; i++ {
			p = step(p, d)
			next.Set(p, own)
		}
	}
	next.Set(m.Pos, own)
	return next, nil
}

// Play 计算吃子并落子
func Play(b board.Board, m Move) (board.Board, CaptureSet, error) {
	cs := Captures(b, m.Pos, m.Color)
	next, err := ApplyMove(b, m, cs)
	if err != nil {
		return b, nil, err
	}
	return next, cs, nil
}

// HasAnyLegalMove color 是否至少有一个合法落点
func HasAnyLegalMove(b board.Board, color board.Color) bool {
	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			if len(Captures(b, board.Pos{Col: col, Row: row}, color)) > 0 {
				return true
			}
		}
	}
	return false
}

// Score 双方棋子数
func Score(b board.Board) (black, white int) {
	return b.Count(board.BlackStone), b.Count(board.WhiteStone)
}

// IsTerminal 双方都无子可下时对局结束
func IsTerminal(b board.Board) bool {
	return !HasAnyLegalMove(b, board.Black) && !HasAnyLegalMove(b, board.White)
}

// Draw 平局标记，与协议 END 的取值一致
const Draw = 3

// Winner 棋子多者胜，相等返回 Draw
func Winner(b board.Board) int {
	black, white := Score(b)
	switch {
	case black > white:
		return int(board.Black)
	case white > black:
		return int(board.White)
	default:
		return Draw
	}
}

// StripHints 清除所有提示标记
func StripHints(b board.Board) board.Board {
	for i, c := range b {
		if c == board.Hint {
			b[i] = board.Empty
		}
	}
	return b
}

// MarkHints 在 color 的合法落点上标记提示
func MarkHints(b board.Board, color board.Color) board.Board {
	b = StripHints(b)
	for pos := range LegalMoves(b, color) {
		b.Set(pos, board.Hint)
	}
	return b
}
