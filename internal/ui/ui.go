// Package ui provides the main entry point for the UI.
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/reversi/internal/client"
	"github.com/palemoky/reversi/internal/protocol"
	"github.com/palemoky/reversi/internal/ui/model"
)

// NewOnlineModel creates the model for an online session.
func NewOnlineModel(ctx context.Context, ctrl *client.Controller, events <-chan *protocol.Message, opts ...model.Option) *model.OnlineModel {
	return model.NewOnlineModel(ctx, ctrl, events, opts...)
}

// Run 运行全屏 TUI，直到用户退出或 ctx 取消
func Run(ctx context.Context, m *model.OnlineModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
