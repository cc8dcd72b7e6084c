package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"palmvote/internal/gateway/provider"
	"palmvote/internal/logger"
	textutil "palmvote/internal/pkg/text"
)

// DefaultFlipProbability 是抵消模型偏好的随机翻转概率。
const DefaultFlipProbability = 0.3

// AgentResult 是一个智体一轮的结果。
type AgentResult struct {
	Choice      Choice `json:"choice"`
	RawResponse string `json:"rawResponse"`
	ParseMethod string `json:"parseMethod"`
}

type agentKey struct{}

// WithAgent 把智体标识放进 ctx，供下游（provider、日志）归属。
func WithAgent(ctx context.Context, agent string) context.Context {
	return context.WithValue(ctx, agentKey{}, agent)
}

// AgentFromContext 取出 WithAgent 写入的标识。
func AgentFromContext(ctx context.Context) string {
	name, _ := ctx.Value(agentKey{}).(string)
	return name
}

// Agent 执行 组装 → 调用 → 解析 → 翻转；任何失败都降级为随机选择，从不返回错误。
type Agent struct {
	Provider        provider.ModelProvider
	Composer        Composer
	FlipProbability float64
	Timeout         time.Duration
	NewRand         RandFactory
}

func (a *Agent) rand() Rand {
	if a.NewRand != nil {
		return a.NewRand()
	}
	return NewRand()
}

// Decide 为 name 产生本轮选择。
func (a *Agent) Decide(ctx context.Context, name string) (res AgentResult) {
	rng := a.rand()
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("智体 %s panic: %v", name, r)
			res = fallbackResult(fmt.Errorf("panic: %v", r), rng)
		}
	}()
	logger.Infof("智体 %s 正在思考...", name)

	req := a.Composer.Compose(name, rng)
	raw, err := a.call(WithAgent(ctx, name), req)
	if err != nil {
		res = fallbackResult(err, rng)
		logger.Warnf("智体 %s 调用失败，随机回退为 %s: %v", name, res.Choice, err)
		return res
	}

	raw = strings.TrimSpace(raw)
	logger.Infof("智体 %s 原始回复: %s", name, textutil.Truncate(raw, 200))

	parsed, method := ParseChoice(raw, rng)
	final, trace, _ := ApplyBiasFlip(parsed, method, rng.Float64(), a.FlipProbability)
	logger.Infof("智体 %s 最终选择: %s (%s)", name, final, trace)
	return AgentResult{Choice: final, RawResponse: raw, ParseMethod: trace}
}

func (a *Agent) call(ctx context.Context, req AgentRequest) (string, error) {
	if a.Provider == nil {
		return "", fmt.Errorf("completion provider not configured")
	}
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	providerID := a.Provider.ID()
	transcript := logger.LLMEnabled()
	if transcript {
		logger.LogLLMRequest(req.Agent, providerID, req.System, req.User)
	}
	start := time.Now()
	out, err := a.Provider.Call(ctx, provider.ChatPayload{System: req.System, User: req.User})
	if err != nil {
		if transcript {
			logger.LogLLMError(req.Agent, providerID, err)
		}
		logger.Debugf("智体 %s provider=%s elapsed=%s err=%v", req.Agent, providerID, time.Since(start).Truncate(time.Millisecond), err)
		return "", err
	}
	if transcript {
		logger.LogLLMResponse(req.Agent, providerID, out)
	}
	return out, nil
}

func fallbackResult(err error, rng Rand) AgentResult {
	return AgentResult{
		Choice:      randomChoice(rng),
		RawResponse: "错误: " + err.Error(),
		ParseMethod: methodFallback,
	}
}
