package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
)

// Keys under which a quiz session persists its state. The first four are the
// ones the browser client historically kept in local storage.
const (
	KeyUserAnswers       = "userAnswers"
	KeyQuizSubmitted     = "quizSubmitted"
	KeyQuizScore         = "quizScore"
	KeySkippedQuestions  = "skippedQuestions"
	KeyParams            = "params"
	KeyQuestionIDs       = "questionIds"
	KeyRenderedChoices   = "renderedChoices"
	KeyCurrentIndex      = "currentIndex"
	KeyEvaluationResults = "evaluationResults"
	KeyReviewState       = "reviewState"
)

// SessionStore is the key/value state of one quiz. Values are stored as
// JSON. Get reports false when the key has never been set or was cleared.
type SessionStore interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Clear(ctx context.Context) error
}
