package game

import (
	"palmvote/internal/prompt"

	"github.com/google/uuid"
)

// AgentRequest 是一次智体调用的提示词，按调用创建，不共享。
type AgentRequest struct {
	Agent  string
	Nonce  string
	Hint   string
	System string
	User   string
}

// TemplateSource 提供当前生效的模板快照。
type TemplateSource interface {
	Snapshot() prompt.Snapshot
}

// Composer 组装 system/user 两段提示词。
type Composer struct {
	Templates      TemplateSource
	HintEnabled    bool
	HintFrontRatio float64
	NewNonce       func() string
}

func (c Composer) templates() prompt.Templates {
	if c.Templates == nil {
		return prompt.Default()
	}
	return c.Templates.Snapshot().Templates
}

// Compose 生成一次请求。启用提示时消耗 rng 的一次抽样。
func (c Composer) Compose(agent string, rng Rand) AgentRequest {
	tpl := c.templates()
	nonce := uuid.NewString()
	if c.NewNonce != nil {
		nonce = c.NewNonce()
	}
	req := AgentRequest{Agent: agent, Nonce: nonce, System: tpl.System}
	seed := nonce
	if c.HintEnabled {
		if rng.Float64() < c.HintFrontRatio {
			req.Hint = tpl.Hints.Front
		} else {
			req.Hint = tpl.Hints.Back
		}
		seed = nonce + " - 提示: " + req.Hint
	}
	req.User = tpl.Render(seed)
	return req
}
