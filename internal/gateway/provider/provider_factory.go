package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"palmvote/internal/pkg/circuit"
)

// BuildProvider 按配置构造补全服务客户端。
func BuildProvider(m ModelCfg, timeout time.Duration) (ModelProvider, error) {
	if strings.TrimSpace(m.Model) == "" {
		return nil, fmt.Errorf("provider %q requires a model", m.Provider)
	}
	httpc := &http.Client{}
	if timeout > 0 {
		httpc.Timeout = timeout
	}
	switch strings.ToLower(strings.TrimSpace(m.Provider)) {
	case "", "ollama":
		c := NewOllamaChatClient(m.BaseURL, m.Model, m.Temperature)
		c.HTTPClient = httpc
		return c, nil
	case "openai":
		return &OpenAIChatClient{
			BaseURL:      m.BaseURL,
			APIKey:       m.APIKey,
			Model:        m.Model,
			Temperature:  m.Temperature,
			ExtraHeaders: m.Headers,
			HTTPClient:   httpc,
		}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", m.Provider)
	}
}

// GuardedProvider 在 ModelProvider 前加熔断；熔断打开时直接返回 circuit.ErrOpen。
type GuardedProvider struct {
	inner   ModelProvider
	breaker *circuit.CircuitBreaker
}

// WithBreaker 包装 p；threshold <= 0 时原样返回。
func WithBreaker(p ModelProvider, threshold int, cooldown time.Duration) ModelProvider {
	if p == nil || threshold <= 0 {
		return p
	}
	return &GuardedProvider{
		inner:   p,
		breaker: circuit.NewCircuitBreaker(p.ID(), threshold, cooldown),
	}
}

func (g *GuardedProvider) ID() string { return g.inner.ID() }

func (g *GuardedProvider) Breaker() *circuit.CircuitBreaker { return g.breaker }

func (g *GuardedProvider) Call(ctx context.Context, payload ChatPayload) (string, error) {
	if !g.breaker.Allow() {
		return "", fmt.Errorf("%s: %w", g.inner.ID(), circuit.ErrOpen)
	}
	out, err := g.inner.Call(ctx, payload)
	if err != nil {
		// 调用方取消不代表后端故障
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			g.breaker.Release()
			return "", err
		}
		g.breaker.RecordFailure()
		return "", err
	}
	g.breaker.RecordSuccess()
	return out, nil
}
