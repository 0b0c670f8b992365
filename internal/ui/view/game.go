package view

import (
	"fmt"
	"strings"

	"github.com/palemoky/reversi/internal/client"
	"github.com/palemoky/reversi/internal/game/board"
	"github.com/palemoky/reversi/internal/protocol"
	"github.com/palemoky/reversi/internal/ui/common"
)

const nameWidth = 12

// LoginView 用户名输入
func LoginView(input, errMsg string) string {
	var sb strings.Builder
	sb.WriteString(common.TitleStyle("⚫ Reversi ⚪"))
	sb.WriteString("\n\n")
	sb.WriteString("Username:\n")
	sb.WriteString(input)
	sb.WriteString("\n")
	if errMsg != "" {
		sb.WriteString(common.ErrorStyle.Render(errMsg))
		sb.WriteString("\n")
	}
	sb.WriteString(common.PromptStyle.Render(common.DimStyle.Render("enter: connect · esc: quit")))
	return sb.String()
}

// FatalView 致命错误，回车确认后回到登录
func FatalView(fatal string) string {
	body := common.ErrorStyle.Render("✗ "+fatal) + "\n\n" +
		common.DimStyle.Render("enter: back to login · q: quit")
	return common.BoxStyle.Padding(1, 2).Render(body)
}

// LobbyView 大厅列表，cursor 从 0 开始
func LobbyView(s client.Snapshot, cursor int) string {
	var sb strings.Builder
	sb.WriteString(common.TitleStyle(fmt.Sprintf("Welcome, %s", s.Username)))
	sb.WriteString("\n\n")

	for i := 0; i < s.LobbyCount; i++ {
		line := fmt.Sprintf("  Lobby %d", i+1)
		if i == cursor {
			line = common.ActiveStyle.Render(fmt.Sprintf("▸ Lobby %d", i+1))
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	writeNotice(&sb, s.Notice)
	sb.WriteString(common.PromptStyle.Render(common.DimStyle.Render("↑/↓ + enter or 1-9: join · q: quit")))
	return sb.String()
}

// GameView 对局界面：状态栏、棋盘与按键提示
func GameView(s client.Snapshot, cursor board.Pos) string {
	var sb strings.Builder
	sb.WriteString(StatusView(s))
	sb.WriteString("\n\n")

	showCursor := s.Phase == client.PhaseInGame && s.MyTurn
	sb.WriteString(BoardView(s.Board, cursor, showCursor))

	if line := PhaseLine(s); line != "" {
		sb.WriteString("\n")
		sb.WriteString(line)
	}
	writeNotice(&sb, s.Notice)
	sb.WriteString(common.PromptStyle.Render(common.DimStyle.Render(keyHelp(s.Phase))))
	return sb.String()
}

// StatusView 双方名字、比分与当前行动方
func StatusView(s client.Snapshot) string {
	players := make([]string, 2)
	for i := range players {
		name := s.Usernames[i]
		if name == "" {
			name = "…"
		}
		label := fmt.Sprintf("%s %-*s %2d", StoneIcon(i+1), nameWidth, common.TruncateName(name, nameWidth), s.Scores[i])
		if i+1 == s.PlayerNumber {
			label += " (you)"
		}
		if s.Phase == client.PhaseInGame && s.Active == i+1 {
			label = common.ActiveStyle.Render(label)
		}
		players[i] = label
	}
	header := common.TitleStyle(fmt.Sprintf("Lobby %d", s.LobbyID))
	return header + "\n" + players[0] + "\n" + players[1]
}

// PhaseLine 当前阶段的一行说明
func PhaseLine(s client.Snapshot) string {
	switch s.Phase {
	case client.PhaseWaitingForOpponent:
		return "Waiting for an opponent to join..."
	case client.PhaseInGame:
		if s.MyTurn {
			return common.SuccessStyle.Render("Your turn")
		}
		return "Opponent's turn"
	case client.PhasePaused:
		return common.NoticeStyle.Render("Game paused")
	case client.PhaseReconnecting:
		return common.NoticeStyle.Render("Reconnecting...")
	case client.PhaseRematching:
		return "Waiting for the opponent to accept the rematch..."
	case client.PhaseGameOver:
		return ResultLine(s)
	}
	return ""
}

// ResultLine 对局结果
func ResultLine(s client.Snapshot) string {
	switch s.Winner {
	case 0:
		return ""
	case protocol.WinnerDraw:
		return common.NoticeStyle.Render(fmt.Sprintf("Draw %d : %d", s.Scores[0], s.Scores[1]))
	case s.PlayerNumber:
		return common.SuccessStyle.Render(fmt.Sprintf("You win %d : %d", s.Scores[0], s.Scores[1]))
	default:
		return common.ErrorStyle.Render(fmt.Sprintf("You lose %d : %d", s.Scores[0], s.Scores[1]))
	}
}

func keyHelp(p client.Phase) string {
	switch p {
	case client.PhaseInGame:
		return "←↓↑→/hjkl: move · enter: place · q: leave"
	case client.PhaseGameOver:
		return "r: rematch · q: quit"
	default:
		return "q: quit"
	}
}

func writeNotice(sb *strings.Builder, notice string) {
	if notice == "" {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(common.NoticeStyle.Render(notice))
	sb.WriteString("\n")
}
