package textnorm

import "strings"

// Complete returns the first candidate whose normalized form starts with
// the normalized input without being equal to it. It reports false for
// blank input or when nothing extends the input.
func Complete(input string, candidates []string) (string, bool) {
	prefix := Normalize(input)
	if prefix == "" {
		return "", false
	}
	for _, c := range candidates {
		norm := Normalize(c)
		if norm != prefix && strings.HasPrefix(norm, prefix) {
			return c, true
		}
	}
	return "", false
}
