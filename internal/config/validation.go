package config

import (
	"fmt"
	"strings"
)

// validate 对配置进行基础校验。
func validate(c *Config) error {
	if err := c.AI.validate(); err != nil {
		return err
	}
	return c.Game.validate()
}

func (a *AIConfig) validate() error {
	switch a.ProviderName() {
	case ProviderOllama:
	case ProviderOpenAI:
		if strings.TrimSpace(a.APIKey) == "" {
			return fmt.Errorf("ai.api_key is required for provider %q", ProviderOpenAI)
		}
	default:
		return fmt.Errorf("ai.provider must be %q or %q, got %q", ProviderOllama, ProviderOpenAI, a.Provider)
	}
	if strings.TrimSpace(a.Model) == "" {
		return fmt.Errorf("ai.model cannot be empty")
	}
	if a.Temperature < 0 || a.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be within [0, 2]")
	}
	if a.TimeoutSeconds < 0 {
		return fmt.Errorf("ai.timeout_seconds must be >= 0")
	}
	if a.BreakerThreshold < 0 || a.BreakerCooldownSeconds < 0 {
		return fmt.Errorf("ai.breaker_threshold and ai.breaker_cooldown_seconds must be >= 0")
	}
	return nil
}

func (g *GameConfig) validate() error {
	if g.FlipProbability < 0 || g.FlipProbability > 1 {
		return fmt.Errorf("game.flip_probability must be within [0, 1]")
	}
	if g.HintFrontRatio < 0 || g.HintFrontRatio > 1 {
		return fmt.Errorf("game.hint_front_ratio must be within [0, 1]")
	}
	return nil
}
