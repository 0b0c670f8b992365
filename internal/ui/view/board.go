// Package view renders client snapshots as terminal text.
package view

import (
	"strconv"
	"strings"

	"github.com/palemoky/reversi/internal/game/board"
	"github.com/palemoky/reversi/internal/ui/common"
)

// BoardView 渲染棋盘。showCursor 为 true 时光标所在格用方括号包住。
func BoardView(b board.Board, cursor board.Pos, showCursor bool) string {
	var sb strings.Builder

	sb.WriteString("  ")
	for col := 0; col < board.Size; col++ {
		sb.WriteString(" " + strconv.Itoa(col) + " ")
	}
	sb.WriteString("\n")

	for row := 0; row < board.Size; row++ {
		sb.WriteString(strconv.Itoa(row) + " ")
		for col := 0; col < board.Size; col++ {
			p := board.Pos{Col: col, Row: row}
			sb.WriteString(renderCell(b.At(p), showCursor && p == cursor))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderCell(c board.Cell, selected bool) string {
	icon, style := common.EmptyIcon, common.BoardCellStyle
	switch c {
	case board.BlackStone:
		icon, style = common.BlackStoneIcon, common.BlackCellStyle
	case board.WhiteStone:
		icon, style = common.WhiteStoneIcon, common.WhiteCellStyle
	case board.Hint:
		icon, style = common.HintIcon, common.HintCellStyle
	}
	if selected {
		return common.CursorStyle.Render("[" + icon + "]")
	}
	return style.Render(" " + icon + " ")
}

// StoneIcon 玩家编号对应的棋子
func StoneIcon(player int) string {
	if player == int(board.White) {
		return common.WhiteStoneIcon
	}
	return common.BlackStoneIcon
}
