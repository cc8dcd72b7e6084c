package game

import (
	"context"
	"math/rand/v2"
	"sync"

	"palmvote/internal/gateway/provider"

	"github.com/stretchr/testify/mock"
)

// seqRand 依次返回给定值，用尽后返回 0.99；draws 记录抽样次数。
type seqRand struct {
	mu    sync.Mutex
	vals  []float64
	draws int
}

func (s *seqRand) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws++
	if s.draws > len(s.vals) {
		return 0.99
	}
	return s.vals[s.draws-1]
}

func fixedRand(r *seqRand) RandFactory {
	return func() Rand { return r }
}

func seededRand(seed uint64) RandFactory {
	src := rand.New(rand.NewPCG(seed, seed+1))
	var mu sync.Mutex
	return func() Rand {
		mu.Lock()
		defer mu.Unlock()
		return rand.New(rand.NewPCG(src.Uint64(), src.Uint64()))
	}
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) ID() string { return "mock:test" }

func (m *mockProvider) Call(ctx context.Context, payload provider.ChatPayload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

// funcProvider 允许按智体标识返回不同回复。
type funcProvider func(ctx context.Context, payload provider.ChatPayload) (string, error)

func (f funcProvider) ID() string { return "func:test" }

func (f funcProvider) Call(ctx context.Context, payload provider.ChatPayload) (string, error) {
	return f(ctx, payload)
}
