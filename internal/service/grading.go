// internal/service/grading.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/civicsprep/backend/internal/domain/question"
	"github.com/civicsprep/backend/internal/grader"
	"github.com/civicsprep/backend/internal/metrics"
	"github.com/civicsprep/backend/internal/worker"
)

// DefaultChunkSize bounds how many items one remote grading request carries.
const DefaultChunkSize = 50

const (
	explainCorrect         = "Correct answer"
	explainIncorrect       = "Incorrect answer"
	explainChoiceCorrect   = "Correct answer selected"
	explainChoiceIncorrect = "Incorrect answer selected"
	explainNoAnswer        = "No answer given"
)

// GradingOptions tunes remote grading. Workers above one grade chunks in
// parallel.
type GradingOptions struct {
	ChunkSize int
	Workers   int
}

// GradingService decides whole quizzes: multiple choice locally, open text
// through a local pre-filter and then the remote grader in chunks.
type GradingService struct {
	grader    grader.Grader
	chunkSize int
	workers   int
	logger    *slog.Logger
}

// NewGradingService creates a GradingService. Zero options mean chunks of
// DefaultChunkSize graded one after another.
func NewGradingService(g grader.Grader, opts GradingOptions, logger *slog.Logger) *GradingService {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &GradingService{
		grader:    g,
		chunkSize: opts.ChunkSize,
		workers:   opts.Workers,
		logger:    logger,
	}
}

// IsRetryable reports whether err is a remote grading failure the user can
// retry without re-entering answers.
func IsRetryable(err error) bool {
	var gradeErr *grader.GradeError
	return errors.As(err, &gradeErr)
}

// GradeMultipleChoice evaluates every question against its selections.
func (gs *GradingService) GradeMultipleChoice(questions []*question.Question, answers map[string]question.Answer) question.Results {
	results := make(question.Results, len(questions))
	for _, q := range questions {
		ok := q.Evaluate(answers[q.ID()], true)
		explanation := explainChoiceIncorrect
		if ok {
			explanation = explainChoiceCorrect
		}
		results[q.ID()] = question.Result{IsCorrect: ok, Explanation: explanation}
	}
	return results
}

// GradeOpenText decides typed answers.
//
// An answer is settled locally when it is blank (incorrect), case-insensitively
// identical or normalize-equal to a correct answer, or when the question has
// no incorrect choices at all (correct). Everything else goes to the grader.
// Verdicts join back by question text and answer, or by text alone when
// that is unambiguous; unknown entries are dropped, and a queued question
// the grader never mentions gets no result. Any remote failure fails the
// whole call and returns no results.
func (gs *GradingService) GradeOpenText(ctx context.Context, questions []*question.Question, answers map[string]question.Answer) (question.Results, error) {
	results := make(question.Results, len(questions))
	var queue []grader.Item
	queued := make(map[itemKey][]string) // question text + answer → ids
	byText := make(map[string][]itemKey) // question text → queued keys

	for _, q := range questions {
		answer := answers[q.ID()]
		text := ""
		if answer.IsText {
			text = answer.Text
		}

		switch {
		case strings.TrimSpace(text) == "":
			results[q.ID()] = question.Result{IsCorrect: false, Explanation: explainNoAnswer}
		case definitelyCorrect(q, text):
			results[q.ID()] = question.Result{IsCorrect: true, Explanation: explainCorrect}
		default:
			key := itemKey{q.Text(), text}
			if _, dup := queued[key]; !dup {
				byText[key.question] = append(byText[key.question], key)
				queue = append(queue, grader.Item{
					QuestionText:   q.Text(),
					UserAnswer:     text,
					CorrectAnswers: q.CorrectAnswers(),
				})
			}
			queued[key] = append(queued[key], q.ID())
			continue
		}
		metrics.GradedAnswersTotal.WithLabelValues("local").Inc()
	}

	if len(queue) == 0 {
		return results, nil
	}

	verdicts, err := gs.GradeItems(ctx, queue)
	if err != nil {
		return nil, err
	}

	for _, v := range verdicts {
		ids, ok := queued[itemKey{v.QuestionText, v.UserAnswer}]
		if !ok {
			// Models sometimes reformat the echoed answer; fall back to the
			// question text when it is unambiguous.
			keys := byText[v.QuestionText]
			if len(keys) != 1 {
				gs.logger.Debug("dropping verdict for unknown question", "question_text", v.QuestionText)
				continue
			}
			ids = queued[keys[0]]
		}
		explanation := v.Explanation
		if explanation == "" {
			explanation = explainIncorrect
			if v.IsCorrect {
				explanation = explainCorrect
			}
		}
		for _, id := range ids {
			if _, done := results[id]; done {
				continue
			}
			results[id] = question.Result{IsCorrect: v.IsCorrect, Explanation: explanation}
			metrics.GradedAnswersTotal.WithLabelValues("remote").Inc()
		}
	}

	for _, ids := range queued {
		for _, id := range ids {
			if _, ok := results[id]; !ok {
				gs.logger.Warn("grader returned no verdict", "question_id", id)
			}
		}
	}

	return results, nil
}

// itemKey identifies one queued item. Questions sharing text and answer are
// graded once.
type itemKey struct {
	question string
	answer   string
}

func definitelyCorrect(q *question.Question, text string) bool {
	if !q.HasIncorrectChoices() {
		return true
	}
	for _, c := range q.CorrectAnswers() {
		if strings.EqualFold(c, text) {
			return true
		}
	}
	return q.Evaluate(question.Typed(text), false)
}

// GradeItems sends items to the grader in chunks of at most the configured
// size and concatenates the verdicts in chunk order.
func (gs *GradingService) GradeItems(ctx context.Context, items []grader.Item) ([]grader.Verdict, error) {
	chunks := chunk(items, gs.chunkSize)
	if len(chunks) == 0 {
		return []grader.Verdict{}, nil
	}

	var perChunk [][]grader.Verdict
	if gs.workers == 1 || len(chunks) == 1 {
		perChunk = make([][]grader.Verdict, 0, len(chunks))
		for i, c := range chunks {
			verdicts, err := gs.gradeChunk(ctx, i, c)
			if err != nil {
				return nil, err
			}
			perChunk = append(perChunk, verdicts)
		}
	} else {
		jobs := make([]worker.Job[[]grader.Verdict], len(chunks))
		for i, c := range chunks {
			jobs[i] = func(ctx context.Context) ([]grader.Verdict, error) {
				return gs.gradeChunk(ctx, i, c)
			}
		}
		var err error
		perChunk, err = worker.RunOrdered(ctx, gs.workers, jobs)
		if err != nil {
			return nil, err
		}
	}

	var out []grader.Verdict
	for _, v := range perChunk {
		out = append(out, v...)
	}
	if out == nil {
		out = []grader.Verdict{}
	}
	return out, nil
}

func (gs *GradingService) gradeChunk(ctx context.Context, index int, items []grader.Item) ([]grader.Verdict, error) {
	verdicts, err := gs.grader.Grade(ctx, items)
	if err != nil {
		metrics.GradingChunksTotal.WithLabelValues("error").Inc()
		gs.logger.Error("grading error",
			"chunk", index,
			"items", len(items),
			"error", err,
		)
		if !IsRetryable(err) {
			err = &grader.GradeError{Reason: fmt.Sprintf("chunk %d", index), Wrapped: err}
		}
		return nil, err
	}
	metrics.GradingChunksTotal.WithLabelValues("ok").Inc()
	return verdicts, nil
}

func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for len(items) > 0 {
		n := min(size, len(items))
		out = append(out, items[:n:n])
		items = items[n:]
	}
	return out
}
