package config

import "strings"

// Config 是 palmvote 的主配置载体。
type Config struct {
	App    AppConfig    `toml:"app"`
	AI     AIConfig     `toml:"ai"`
	Game   GameConfig   `toml:"game"`
	Prompt PromptConfig `toml:"prompt"`
}

type AppConfig struct {
	Env       string `toml:"env"`
	LogLevel  string `toml:"log_level"`
	HTTPAddr  string `toml:"http_addr"`
	LogPath   string `toml:"log_path"`
	LLMLog    string `toml:"llm_log_path"`
	StaticDir string `toml:"static_dir"`
}

// AIConfig 描述补全服务（Ollama 或 OpenAI 兼容接口）。
type AIConfig struct {
	Provider               string  `toml:"provider"`
	BaseURL                string  `toml:"base_url"`
	Model                  string  `toml:"model"`
	APIKey                 string  `toml:"api_key"`
	Temperature            float64 `toml:"temperature"`
	Verbose                bool    `toml:"verbose"`
	TimeoutSeconds         int     `toml:"timeout_seconds"`
	BreakerThreshold       int     `toml:"breaker_threshold"`
	BreakerCooldownSeconds int     `toml:"breaker_cooldown_seconds"`
}

// ProviderName 返回规范化后的 provider 名称。
func (a AIConfig) ProviderName() string {
	return strings.ToLower(strings.TrimSpace(a.Provider))
}

// GameConfig 控制提示词噪声与偏差翻转。
type GameConfig struct {
	FlipProbability float64 `toml:"flip_probability"`
	HintEnabled     bool    `toml:"hint_enabled"`
	HintFrontRatio  float64 `toml:"hint_front_ratio"`
}

type PromptConfig struct {
	Path string `toml:"path"`
}

// keySet 用于追踪配置文件中显式设置的字段路径。
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	_, ok := k[strings.ToLower(strings.TrimSpace(path))]
	return ok
}

type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
