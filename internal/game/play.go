package game

import (
	"context"
	"time"

	"palmvote/internal/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Labels 是三位智体的固定标识。
var Labels = [3]string{"A", "B", "C"}

// Decider 产生单个智体的结果；实现不得返回无效 Choice。
type Decider interface {
	Decide(ctx context.Context, name string) AgentResult
}

// Details 保存每位智体的完整结果。
type Details struct {
	AgentA AgentResult `json:"agentA"`
	AgentB AgentResult `json:"agentB"`
	AgentC AgentResult `json:"agentC"`
}

// GameOutcome 是一次 /api/play 的响应；a/b/c 为精简字段，details 为完整结果。
type GameOutcome struct {
	A       Choice  `json:"a"`
	B       Choice  `json:"b"`
	C       Choice  `json:"c"`
	Details Details `json:"details"`
}

// Game 并发运行三位智体。
type Game struct {
	decider Decider
}

func NewGame(d Decider) *Game {
	return &Game{decider: d}
}

// Play 等待三位智体全部完成（成功或回退）后合并结果；不会提前取消。
func (g *Game) Play(ctx context.Context) GameOutcome {
	traceID := uuid.NewString()
	start := time.Now()
	var results [len(Labels)]AgentResult
	var eg errgroup.Group
	for i, label := range Labels {
		eg.Go(func() error {
			results[i] = g.decider.Decide(ctx, label)
			return nil
		})
	}
	_ = eg.Wait()

	out := GameOutcome{
		A: results[0].Choice,
		B: results[1].Choice,
		C: results[2].Choice,
		Details: Details{
			AgentA: results[0],
			AgentB: results[1],
			AgentC: results[2],
		},
	}
	logger.Infof("play trace=%s a=%s b=%s c=%s elapsed=%s",
		traceID, out.A, out.B, out.C, time.Since(start).Truncate(time.Millisecond))
	return out
}
