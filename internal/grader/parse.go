package grader

import (
	"encoding/json"
	"strings"
)

const fence = "```"

// ParseVerdicts decodes a model reply into verdicts. A Markdown code fence
// around the JSON array, with or without a language tag, is removed first.
// Anything that is still not a JSON array of verdicts is a *GradeError
// carrying the raw text.
func ParseVerdicts(text string) ([]Verdict, error) {
	cleaned := stripFence(text)

	var verdicts []Verdict
	if err := json.Unmarshal([]byte(cleaned), &verdicts); err != nil {
		return nil, &GradeError{Reason: "invalid JSON from model", Raw: text, Wrapped: err}
	}
	if verdicts == nil {
		return nil, &GradeError{Reason: "model returned null instead of an array", Raw: text}
	}
	return verdicts, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, fence) {
		return s
	}
	s = strings.TrimPrefix(s, fence)
	// The rest of the opening line is the language tag, if any.
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "[{") {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}
