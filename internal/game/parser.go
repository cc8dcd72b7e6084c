package game

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	methodMatchedPrefix = "matched "
	methodUnparseable   = "unparseable, randomized"
	methodFallback      = "exception fallback"
)

// ParseChoice 从模型文本中识别手势；手心优先，两者都没有时随机。
func ParseChoice(raw string, rng Rand) (Choice, string) {
	switch {
	case strings.Contains(raw, string(Front)):
		return Front, methodMatchedPrefix + Front.Name()
	case strings.Contains(raw, string(Back)):
		return Back, methodMatchedPrefix + Back.Name()
	default:
		return randomChoice(rng), methodUnparseable
	}
}

// ApplyBiasFlip 在 f < threshold 时翻转选择，并把判定过程追加到 method。
func ApplyBiasFlip(choice Choice, method string, f, threshold float64) (Choice, string, bool) {
	drawn := formatPercent(f, 0)
	limit := formatPercent(threshold, -1)
	if f < threshold {
		return choice.Opposite(), method + " → flipped (" + drawn + "% < " + limit + "%)", true
	}
	return choice, method + " → kept (" + drawn + "% ≥ " + limit + "%)", false
}

// formatPercent 把 [0,1) 的比例写成百分数；places < 0 表示不舍入。
func formatPercent(ratio float64, places int32) string {
	pct := decimal.NewFromFloat(ratio).Shift(2)
	if places < 0 {
		return pct.String()
	}
	return pct.StringFixed(places)
}
