package format

// Preview returns a truncated string for logging
func Preview(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length]) + "..."
}
