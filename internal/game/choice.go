package game

import "math/rand/v2"

// Choice 是一次出手：手心或手背。JSON 中直接使用该文字。
type Choice string

const (
	Front Choice = "手心"
	Back  Choice = "手背"
)

// Name 返回用于日志与解析轨迹的符号名。
func (c Choice) Name() string {
	switch c {
	case Front:
		return "FRONT"
	case Back:
		return "BACK"
	default:
		return "UNKNOWN"
	}
}

func (c Choice) Valid() bool {
	return c == Front || c == Back
}

// Opposite 返回另一种手势。
func (c Choice) Opposite() Choice {
	if c == Front {
		return Back
	}
	return Front
}

// Rand 是管线所需的随机源；每次智体调用独占一个实例。
type Rand interface {
	Float64() float64
}

// RandFactory 为每次调用创建独立随机源。
type RandFactory func() Rand

// NewRand 以进程级生成器播种一个独立的 PCG。
func NewRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func randomChoice(rng Rand) Choice {
	if rng.Float64() < 0.5 {
		return Front
	}
	return Back
}
