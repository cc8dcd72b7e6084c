package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 0))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab...", Truncate("abcd", 2))
	assert.Equal(t, "手心...", Truncate("手心手背", 2))
	assert.Equal(t, "手心", Truncate("手心", 2))
}
