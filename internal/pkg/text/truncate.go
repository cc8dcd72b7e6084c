package text

// Truncate 按字符（rune）截断，超出部分以 "..." 结尾。
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i] + "..."
		}
		count++
	}
	return s
}
