package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/client"
	"github.com/palemoky/reversi/internal/config"
	"github.com/palemoky/reversi/internal/logger"
	"github.com/palemoky/reversi/internal/sound"
	"github.com/palemoky/reversi/internal/transport"
	"github.com/palemoky/reversi/internal/ui"
	"github.com/palemoky/reversi/internal/ui/model"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	serverAddr := flag.String("server", "", "服务器地址，覆盖配置文件")
	transportName := flag.String("transport", "", "tcp 或 ws，覆盖配置文件")
	username := flag.String("username", "", "预填用户名")
	mute := flag.Bool("mute", false, "关闭音效")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
	}
	if *serverAddr != "" {
		cfg.Client.ServerAddr = *serverAddr
	}
	if *transportName != "" {
		cfg.Client.Transport = *transportName
	}

	logPath := cfg.Log.File
	if logPath == "" {
		if logPath, err = logger.DefaultLogPath(); err != nil {
			log.Fatalf("无法确定日志路径: %v", err)
		}
	}
	// TUI 占用终端，日志只写文件
	if err := logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: logPath}); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Close()
	lg := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialer, err := newDialer(cfg.Client.Transport)
	if err != nil {
		log.Fatal(err)
	}
	tr := transport.NewManager(dialer, transport.Config{
		HeartbeatInterval:    cfg.Client.HeartbeatIntervalDuration(),
		TimeoutLimit:         cfg.Client.TimeoutLimitDuration(),
		ReconnectInterval:    cfg.Client.ReconnectIntervalDuration(),
		MaxReconnectAttempts: cfg.Client.ReconnectAttempts(),
	}, transport.WithLogger(lg))
	defer tr.Close()

	ctrl := client.New(tr, cfg.Client.ServerAddr, client.WithLogger(lg))

	sm := sound.NewSoundManager(sound.DefaultDir)
	sm.SetMuted(cfg.Client.Mute || *mute)
	go func() {
		if err := sm.Init(); err != nil {
			lg.Warn("sound disabled", zap.Error(err))
		}
	}()
	defer sm.Close()

	m := ui.NewOnlineModel(ctx, ctrl, tr.Events(),
		model.WithSound(sm),
		model.WithLogger(lg),
		model.WithUsername(*username),
	)
	if err := ui.Run(ctx, m); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "启动客户端时出错: %v\n", err)
		os.Exit(1)
	}
}

func newDialer(name string) (transport.Dialer, error) {
	switch name {
	case "tcp":
		return transport.TCPDialer{}, nil
	case "ws":
		return transport.WSDialer{}, nil
	}
	return nil, fmt.Errorf("unknown transport %q", name)
}
