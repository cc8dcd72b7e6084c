package app

import (
	"fmt"
	"strings"

	brcfg "palmvote/internal/config"
	"palmvote/internal/logger"
	"palmvote/internal/prompt"
)

type StartupSummary struct {
	Env             string
	HTTPAddr        string
	StaticDir       string
	ProviderID      string
	BaseURL         string
	Temperature     float64
	Verbose         bool
	TimeoutSeconds  int
	BreakerSummary  string
	FlipProbability float64
	HintSummary     string
	PromptSource    string
	PromptVersion   int64
}

func newStartupSummary(cfg *brcfg.Config, providerID string, snap prompt.Snapshot) *StartupSummary {
	breaker := "关闭"
	if cfg.AI.BreakerThreshold > 0 {
		breaker = fmt.Sprintf("连续失败 %d 次后熔断 %ds", cfg.AI.BreakerThreshold, cfg.AI.BreakerCooldownSeconds)
	}
	hint := "关闭"
	if cfg.Game.HintEnabled {
		hint = fmt.Sprintf("开启（手心提示占比 %.2f）", cfg.Game.HintFrontRatio)
	}
	return &StartupSummary{
		Env:             cfg.App.Env,
		HTTPAddr:        cfg.App.HTTPAddr,
		StaticDir:       cfg.App.StaticDir,
		ProviderID:      providerID,
		BaseURL:         cfg.AI.BaseURL,
		Temperature:     cfg.AI.Temperature,
		Verbose:         cfg.AI.Verbose,
		TimeoutSeconds:  cfg.AI.TimeoutSeconds,
		BreakerSummary:  breaker,
		FlipProbability: cfg.Game.FlipProbability,
		HintSummary:     hint,
		PromptSource:    snap.Source,
		PromptVersion:   snap.Version,
	}
}

func (s *StartupSummary) String() string {
	lines := []string{
		strings.Repeat("=", 60),
		"启动配置摘要 (STARTUP SUMMARY)",
		strings.Repeat("=", 60),
		fmt.Sprintf("环境: %s  监听: %s  静态目录: %s", s.Env, s.HTTPAddr, s.StaticDir),
		fmt.Sprintf("模型: %s @ %s", s.ProviderID, s.BaseURL),
		fmt.Sprintf("温度: %.2f  超时: %ds  转录日志: %t", s.Temperature, s.TimeoutSeconds, s.Verbose),
		fmt.Sprintf("熔断: %s", s.BreakerSummary),
		fmt.Sprintf("翻转概率: %.2f  提示注入: %s", s.FlipProbability, s.HintSummary),
		fmt.Sprintf("提示词: %s (v%d)", s.PromptSource, s.PromptVersion),
		strings.Repeat("=", 60),
	}
	return strings.Join(lines, "\n")
}

func (s *StartupSummary) Print() {
	logger.InfoBlock(s.String())
}
