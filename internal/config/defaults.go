package config

import "strings"

// 默认值常量
const (
	defaultAppEnv           = "dev"
	defaultAppLogLevel      = "info"
	defaultAppHTTPAddr      = ":3000"
	defaultAppStaticDir     = "public"
	defaultAIProvider       = ProviderOllama
	defaultOllamaBaseURL    = "http://localhost:11434"
	defaultOpenAIBaseURL    = "https://api.openai.com/v1"
	defaultAIModel          = "qwen2.5:7b"
	defaultAITemperature    = 1.5
	defaultAITimeout        = 60
	defaultBreakerThreshold = 5
	defaultBreakerCooldown  = 30
	defaultFlipProbability  = 0.3
	defaultHintFrontRatio   = 0.5
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// applyDefaults 为所有子配置应用默认值。
func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.AI.applyDefaults(keys)
	c.Game.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
		stringFieldDefault("app.static_dir", &a.StaticDir, defaultAppStaticDir),
	)
}

func (a *AIConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("ai.provider", &a.Provider, defaultAIProvider),
		stringFieldDefault("ai.model", &a.Model, defaultAIModel),
		boolFieldDefault("ai.verbose", &a.Verbose, true),
		fieldDefault{
			key:   "ai.temperature",
			need:  func() bool { return a.Temperature == 0 },
			apply: func() { a.Temperature = defaultAITemperature },
		},
		fieldDefault{
			key:   "ai.timeout_seconds",
			need:  func() bool { return a.TimeoutSeconds <= 0 },
			apply: func() { a.TimeoutSeconds = defaultAITimeout },
		},
		fieldDefault{
			key:   "ai.breaker_threshold",
			need:  func() bool { return a.BreakerThreshold == 0 },
			apply: func() { a.BreakerThreshold = defaultBreakerThreshold },
		},
		fieldDefault{
			key:   "ai.breaker_cooldown_seconds",
			need:  func() bool { return a.BreakerCooldownSeconds == 0 },
			apply: func() { a.BreakerCooldownSeconds = defaultBreakerCooldown },
		},
	)
	a.Provider = a.ProviderName()
	if strings.TrimSpace(a.BaseURL) == "" {
		switch a.Provider {
		case ProviderOpenAI:
			a.BaseURL = defaultOpenAIBaseURL
		default:
			a.BaseURL = defaultOllamaBaseURL
		}
	}
}

func (g *GameConfig) applyDefaults(keys keySet) {
	if g == nil {
		return
	}
	applyFieldDefaults(keys,
		boolFieldDefault("game.hint_enabled", &g.HintEnabled, true),
		fieldDefault{
			key:   "game.flip_probability",
			need:  func() bool { return g.FlipProbability == 0 },
			apply: func() { g.FlipProbability = defaultFlipProbability },
		},
		fieldDefault{
			key:   "game.hint_front_ratio",
			need:  func() bool { return g.HintFrontRatio == 0 },
			apply: func() { g.HintFrontRatio = defaultHintFrontRatio },
		},
	)
}

// Helper functions

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func boolFieldDefault(key string, target *bool, def bool) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
