package rule

import "github.com/palemoky/reversi/internal/game/board"

// TurnResult 一步棋之后的轮转结果
type TurnResult struct {
	Next     board.Color // 下一个行动方
	Passed   bool        // 对手无子可下，轮空回到 mover
	Terminal bool        // 双方都无子可下
}

// NextTurn 落子后决定谁行动：对手能下则轮到对手；否则轮空回到 mover；
// mover 也不能下则对局结束。
func NextTurn(b board.Board, mover board.Color) TurnResult {
	opp := mover.Opponent()
	if HasAnyLegalMove(b, opp) {
		return TurnResult{Next: opp}
	}
	if HasAnyLegalMove(b, mover) {
		return TurnResult{Next: mover, Passed: true}
	}
	return TurnResult{Next: mover, Terminal: true}
}
