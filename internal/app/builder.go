package app

import (
	"context"
	"fmt"
	"time"

	brcfg "palmvote/internal/config"
	"palmvote/internal/game"
	"palmvote/internal/gateway/provider"
	"palmvote/internal/logger"
	"palmvote/internal/prompt"
	playhttp "palmvote/internal/transport/http/play"
)

type AppBuilder struct {
	cfg *brcfg.Config

	providerFn func(brcfg.AIConfig) (provider.ModelProvider, error)
	promptsFn  func(brcfg.PromptConfig) (*prompt.Registry, error)
	httpFn     func(brcfg.AppConfig, playhttp.Player) (*playhttp.Server, error)
}

type AppBuilderOption func(*AppBuilder)

// WithProvider 替换补全服务（测试或嵌入时使用）。
func WithProvider(p provider.ModelProvider) AppBuilderOption {
	return func(b *AppBuilder) {
		b.providerFn = func(brcfg.AIConfig) (provider.ModelProvider, error) { return p, nil }
	}
}

func NewAppBuilder(cfg *brcfg.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:        cfg,
		providerFn: buildModelProvider,
		promptsFn:  buildPromptRegistry,
		httpFn:     buildHTTPServer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	cfg := b.cfg

	registry, err := b.promptsFn(cfg.Prompt)
	if err != nil {
		return nil, fmt.Errorf("prompt templates: %w", err)
	}
	mp, err := b.providerFn(cfg.AI)
	if err != nil {
		_ = registry.Close()
		return nil, fmt.Errorf("model provider: %w", err)
	}
	g := game.NewGame(&game.Agent{
		Provider: mp,
		Composer: game.Composer{
			Templates:      registry,
			HintEnabled:    cfg.Game.HintEnabled,
			HintFrontRatio: cfg.Game.HintFrontRatio,
		},
		FlipProbability: cfg.Game.FlipProbability,
		Timeout:         time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		NewRand:         game.NewRand,
	})
	srv, err := b.httpFn(cfg.App, g)
	if err != nil {
		_ = registry.Close()
		return nil, fmt.Errorf("http server: %w", err)
	}
	return &App{
		cfg:     cfg,
		game:    g,
		prompts: registry,
		http:    srv,
		Summary: newStartupSummary(cfg, mp.ID(), registry.Snapshot()),
	}, nil
}

func buildModelProvider(ai brcfg.AIConfig) (provider.ModelProvider, error) {
	timeout := time.Duration(ai.TimeoutSeconds) * time.Second
	mp, err := provider.BuildProvider(provider.ModelCfg{
		Provider:    ai.ProviderName(),
		BaseURL:     ai.BaseURL,
		Model:       ai.Model,
		APIKey:      ai.APIKey,
		Temperature: ai.Temperature,
	}, timeout)
	if err != nil {
		return nil, err
	}
	logger.Infof("✓ 补全服务: %s @ %s", mp.ID(), ai.BaseURL)
	return provider.WithBreaker(mp, ai.BreakerThreshold, time.Duration(ai.BreakerCooldownSeconds)*time.Second), nil
}

func buildPromptRegistry(pc brcfg.PromptConfig) (*prompt.Registry, error) {
	return prompt.NewRegistry(pc.Path)
}

func buildHTTPServer(ac brcfg.AppConfig, p playhttp.Player) (*playhttp.Server, error) {
	return playhttp.NewServer(playhttp.ServerConfig{
		Addr:      ac.HTTPAddr,
		Game:      p,
		StaticDir: ac.StaticDir,
	})
}
