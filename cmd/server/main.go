package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/config"
	"github.com/palemoky/reversi/internal/logger"
	"github.com/palemoky/reversi/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}

	if err := logger.Init(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Console: true,
	}); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Close()
	lg := logger.L()

	srv, err := server.NewServer(cfg, server.WithLogger(lg))
	if err != nil {
		lg.Fatal("创建服务器失败", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg.Info("⚫⚪ Reversi 服务器启动中...")
	if err := srv.Start(); err != nil {
		lg.Fatal("服务器启动失败", zap.Error(err))
	}

	<-ctx.Done()
	lg.Info("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()
	srv.Shutdown(shutdownCtx)
}
