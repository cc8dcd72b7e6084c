package app

import (
	"context"
	"fmt"

	brcfg "palmvote/internal/config"
	"palmvote/internal/game"
	"palmvote/internal/logger"
	"palmvote/internal/prompt"
	playhttp "palmvote/internal/transport/http/play"

	"golang.org/x/sync/errgroup"
)

// App 负责应用级编排：加载配置→初始化依赖→启动 HTTP 服务。
type App struct {
	cfg     *brcfg.Config
	game    *game.Game
	prompts *prompt.Registry
	http    *playhttp.Server
	Summary *StartupSummary
}

// NewApp 根据配置构建应用对象（不启动）。
func NewApp(cfg *brcfg.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Run 启动 HTTP 服务，直到 ctx 取消。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil || a.http == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Summary != nil {
		a.Summary.Print()
	}
	defer func() {
		if err := a.prompts.Close(); err != nil {
			logger.Warnf("close prompt watcher: %v", err)
		}
	}()
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.http.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// Game exposes the assembled game (for tests and embedding).
func (a *App) Game() *game.Game {
	if a == nil {
		return nil
	}
	return a.game
}
