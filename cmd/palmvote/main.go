package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"palmvote/internal/app"
	brcfg "palmvote/internal/config"
	"palmvote/internal/logger"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := brcfg.Load(resolveConfigPath())
	if err != nil {
		log.Fatalf("读取配置失败: %v", err)
	}
	logFile, err := setupLogOutput(cfg.App.LogPath)
	if err != nil {
		log.Fatalf("初始化日志文件失败: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.SetLevel(cfg.App.LogLevel)
	if cfg.AI.Verbose {
		f, err := setupLLMLogOutput(cfg.App.LLMLog)
		if err != nil {
			log.Fatalf("初始化 LLM 日志失败: %v", err)
		}
		if f != nil {
			defer f.Close()
		}
	}
	logger.Infof("✓ 配置加载成功（环境=%s，模型=%s）", cfg.App.Env, cfg.AI.Model)

	a, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("初始化应用失败: %v", err)
	}
	if err := a.Run(ctx); err != nil {
		log.Fatalf("运行失败: %v", err)
	}
}

// resolveConfigPath 优先使用 PALMVOTE_CONFIG；默认路径不存在时只用默认值。
func resolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv("PALMVOTE_CONFIG")); p != "" {
		return p
	}
	if _, err := os.Stat(defaultConfigPath); errors.Is(err, os.ErrNotExist) {
		return ""
	}
	return defaultConfigPath
}

func setupLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	f, err := openAppend(trimmed)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stdout, f)
	log.SetOutput(mw)
	logger.SetOutput(mw)
	return f, nil
}

// setupLLMLogOutput 未配置路径时转录写到 stdout。
func setupLLMLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		logger.SetLLMWriter(os.Stdout)
		return nil, nil
	}
	f, err := openAppend(trimmed)
	if err != nil {
		return nil, err
	}
	logger.SetLLMWriter(f)
	return f, nil
}

func openAppend(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
