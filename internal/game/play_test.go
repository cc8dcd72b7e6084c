package game

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"palmvote/internal/gateway/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func details(o GameOutcome) map[string]AgentResult {
	return map[string]AgentResult{"A": o.Details.AgentA, "B": o.Details.AgentB, "C": o.Details.AgentC}
}

// assertFlipComposition 校验最终选择与解析结果、翻转轨迹一致。
func assertFlipComposition(t *testing.T, res AgentResult, parsed Choice) {
	t.Helper()
	if strings.Contains(res.ParseMethod, "→ flipped") {
		assert.Equal(t, parsed.Opposite(), res.Choice, res.ParseMethod)
	} else {
		assert.Contains(t, res.ParseMethod, "→ kept")
		assert.Equal(t, parsed, res.Choice, res.ParseMethod)
	}
}

func TestPlayAllFront(t *testing.T) {
	p := funcProvider(func(context.Context, provider.ChatPayload) (string, error) { return "手心", nil })
	g := NewGame(&Agent{Provider: p, FlipProbability: DefaultFlipProbability, NewRand: seededRand(1)})

	out := g.Play(context.Background())

	for label, res := range details(out) {
		assert.True(t, strings.HasPrefix(res.ParseMethod, "matched FRONT → "), label)
		assert.Equal(t, "手心", res.RawResponse)
		assertFlipComposition(t, res, Front)
	}
	assert.Equal(t, out.Details.AgentA.Choice, out.A)
	assert.Equal(t, out.Details.AgentB.Choice, out.B)
	assert.Equal(t, out.Details.AgentC.Choice, out.C)
}

func TestPlayMixedReplies(t *testing.T) {
	p := funcProvider(func(ctx context.Context, _ provider.ChatPayload) (string, error) {
		if AgentFromContext(ctx) == "B" {
			return "手背", nil
		}
		return "maybe?", nil
	})
	g := NewGame(&Agent{Provider: p, FlipProbability: DefaultFlipProbability, NewRand: seededRand(2)})

	for i := 0; i < 50; i++ {
		out := g.Play(context.Background())

		b := out.Details.AgentB
		assert.True(t, strings.HasPrefix(b.ParseMethod, "matched BACK → "), b.ParseMethod)
		assertFlipComposition(t, b, Back)

		for _, res := range []AgentResult{out.Details.AgentA, out.Details.AgentC} {
			assert.True(t, strings.HasPrefix(res.ParseMethod, "unparseable, randomized → "), res.ParseMethod)
			assert.Equal(t, "maybe?", res.RawResponse)
			assert.True(t, res.Choice.Valid())
		}
	}
}

func TestPlayBackendDown(t *testing.T) {
	p := funcProvider(func(context.Context, provider.ChatPayload) (string, error) {
		return "", errors.New("dial tcp 127.0.0.1:11434: connect: connection refused")
	})
	out := NewGame(&Agent{Provider: p, FlipProbability: DefaultFlipProbability}).Play(context.Background())

	for label, res := range details(out) {
		assert.True(t, res.Choice.Valid(), label)
		assert.Equal(t, "exception fallback", res.ParseMethod)
		assert.Contains(t, res.RawResponse, "connection refused")
	}
}

func TestPlayRunsAgentsConcurrently(t *testing.T) {
	var mu sync.Mutex
	arrived := 0
	release := make(chan struct{})
	p := funcProvider(func(ctx context.Context, _ provider.ChatPayload) (string, error) {
		mu.Lock()
		arrived++
		if arrived == len(Labels) {
			close(release)
		}
		mu.Unlock()
		select {
		case <-release:
			return "手心", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	g := NewGame(&Agent{Provider: p, Timeout: 2 * time.Second, FlipProbability: 0})

	out := g.Play(context.Background())

	for label, res := range details(out) {
		assert.NotEqual(t, "exception fallback", res.ParseMethod, label)
		assert.Equal(t, Front, res.Choice, label)
	}
}

func TestPlayWaitsForSlowAgent(t *testing.T) {
	p := funcProvider(func(ctx context.Context, _ provider.ChatPayload) (string, error) {
		if AgentFromContext(ctx) == "C" {
			time.Sleep(30 * time.Millisecond)
			return "手背", nil
		}
		return "", errors.New("fast failure")
	})
	out := NewGame(&Agent{Provider: p, FlipProbability: 0}).Play(context.Background())

	assert.Equal(t, "exception fallback", out.Details.AgentA.ParseMethod)
	assert.Equal(t, "exception fallback", out.Details.AgentB.ParseMethod)
	assert.Equal(t, "手背", out.Details.AgentC.RawResponse)
	assert.Equal(t, Back, out.C)
}

func TestGameOutcomeJSON(t *testing.T) {
	out := GameOutcome{
		A: Front, B: Back, C: Front,
		Details: Details{
			AgentA: AgentResult{Choice: Front, RawResponse: "手心", ParseMethod: "matched FRONT → kept (50% ≥ 30%)"},
			AgentB: AgentResult{Choice: Back, RawResponse: "错误: x", ParseMethod: "exception fallback"},
			AgentC: AgentResult{Choice: Front, RawResponse: "?", ParseMethod: "unparseable, randomized → kept (70% ≥ 30%)"},
		},
	}
	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "手心", doc["a"])
	assert.Equal(t, "手背", doc["b"])
	agentB := doc["details"].(map[string]any)["agentB"].(map[string]any)
	assert.Equal(t, "exception fallback", agentB["parseMethod"])
	assert.Equal(t, "错误: x", agentB["rawResponse"])
	assert.Equal(t, "手背", agentB["choice"])
}
