package provider

import "context"

// ChatPayload 是一次补全调用的两段式提示词。
type ChatPayload struct {
	System string
	User   string
}

// ModelProvider 是补全服务的抽象；Call 的任何错误对调用方都是同一种失败。
type ModelProvider interface {
	ID() string
	Call(ctx context.Context, payload ChatPayload) (string, error)
}

// ModelCfg 描述如何构造一个 ModelProvider。
type ModelCfg struct {
	Provider    string
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	Headers     map[string]string
}
