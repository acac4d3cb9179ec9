// Package grader decides open-text answers remotely, either by prompting an
// OpenAI-compatible model or by calling a grading server over HTTP.
package grader

import (
	"context"
	"fmt"
)

// Item is one answer to grade.
type Item struct {
	QuestionText   string   `json:"question_text"`
	UserAnswer     string   `json:"user_answer"`
	CorrectAnswers []string `json:"correct_answers"`
}

// Verdict is the grader's decision on one item. Entries echo the item
// fields so callers can join them back by question text.
type Verdict struct {
	QuestionText   string   `json:"question_text"`
	UserAnswer     string   `json:"user_answer"`
	CorrectAnswers []string `json:"correct_answers"`
	IsCorrect      bool     `json:"is_correct"`
	Explanation    string   `json:"explanation,omitempty"`
}

// Grader grades a batch of open-text answers.
// Implementations may call an LLM, another server, or return canned results (for tests).
type Grader interface {
	// Grade returns verdicts for items. The reply may omit items or carry
	// extra entries; callers match by question text.
	Grade(ctx context.Context, items []Item) ([]Verdict, error)
}

// GradeError is returned when grading fails so the caller can distinguish
// between "grader said no" and "grader was unreachable or talked nonsense."
// Every GradeError is worth retrying.
type GradeError struct {
	Reason     string
	StatusCode int    // HTTP status when the remote answered, else 0
	Raw        string // offending model output, when it could not be parsed
	Wrapped    error
}

func (e *GradeError) Error() string {
	msg := "grading failed: " + e.Reason
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}
	return msg
}

func (e *GradeError) Unwrap() error {
	return e.Wrapped
}
