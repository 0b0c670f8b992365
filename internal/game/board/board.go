// Package board defines the 8x8 Reversi grid and its wire encoding.
package board

import (
	"fmt"
	"strings"
)

// Size 棋盘边长
const Size = 8

// Cells 格子总数
const Cells = Size * Size

// Cell 单个格子的状态，数值与协议中的数字一致
type Cell uint8

const (
	Empty      Cell = iota // 空
	BlackStone             // 黑子
	WhiteStone             // 白子
	Hint                   // 可落子提示（仅用于展示）
)

// Color 棋子颜色
type Color uint8

const (
	Black Color = 1
	White Color = 2
)

// Opponent 返回对手颜色
func (c Color) Opponent() Color {
	if c == Black {
		return White
	}
	return Black
}

// Cell 返回该颜色对应的棋子格
func (c Color) Cell() Cell {
	return Cell(c)
}

// Valid 是否为合法颜色
func (c Color) Valid() bool {
	return c == Black || c == White
}

func (c Color) String() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "None"
	}
}

// Pos 棋盘坐标，Row 0 为最上一行
type Pos struct {
	Col int
	Row int
}

// InBounds 坐标是否在棋盘内
func (p Pos) InBounds() bool {
	return p.Col >= 0 && p.Col < Size && p.Row >= 0 && p.Row < Size
}

func (p Pos) index() int {
	return p.Row*Size + p.Col
}

// Board 按行优先存储的 64 个格子。值类型，复制即深拷贝。
type Board [Cells]Cell

// New 返回标准开局：中心四子，黑白各占一条对角线
func New() Board {
	var b Board
	mid := Size / 2
	b.Set(Pos{Col: mid - 1, Row: mid - 1}, WhiteStone)
	b.Set(Pos{Col: mid, Row: mid}, WhiteStone)
	b.Set(Pos{Col: mid, Row: mid - 1}, BlackStone)
	b.Set(Pos{Col: mid - 1, Row: mid}, BlackStone)
	return b
}

// At 读取格子，越界返回 Empty
func (b Board) At(p Pos) Cell {
	if !p.InBounds() {
		return Empty
	}
	return b[p.index()]
}

// Set 写入格子，越界忽略
func (b *Board) Set(p Pos, c Cell) {
	if !p.InBounds() {
		return
	}
	b[p.index()] = c
}

// IsOpen 格子是否可以落子（空或提示）
func (b Board) IsOpen(p Pos) bool {
	c := b.At(p)
	return c == Empty || c == Hint
}

// Count 统计某种格子的数量
func (b Board) Count(c Cell) int {
	n := 0
	for _, cell := range b {
		if cell == c {
			n++
		}
	}
	return n
}

// Encode 编码为 64 位数字串
func (b Board) Encode() string {
	var sb strings.Builder
	sb.Grow(Cells)
	for _, c := range b {
		sb.WriteByte('0' + byte(c))
	}
	return sb.String()
}

// Decode 解析 64 位数字串，每位必须是 0-3
func Decode(s string) (Board, error) {
	var b Board
	if len(s) != Cells {
		return b, fmt.Errorf("board encoding must be %d characters, got %d", Cells, len(s))
	}
	for i := 0; i < Cells; i++ {
		d := s[i]
		if d < '0' || d > '3' {
			return b, fmt.Errorf("invalid cell %q at index %d", d, i)
		}
		b[i] = Cell(d - '0')
	}
	return b, nil
}

// String 多行文本形式，便于调试
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			switch b.At(Pos{Col: col, Row: row}) {
			case BlackStone:
				sb.WriteByte('B')
			case WhiteStone:
				sb.WriteByte('W')
			case Hint:
				sb.WriteByte('*')
			default:
				sb.WriteByte('.')
			}
		}
		if row < Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
