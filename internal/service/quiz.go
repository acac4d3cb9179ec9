package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	practicesession "github.com/civicsprep/backend/internal/domain/practice_session"
	"github.com/civicsprep/backend/internal/domain/question"
	"github.com/civicsprep/backend/internal/domain/questionbank"
	"github.com/civicsprep/backend/internal/metrics"
	"github.com/civicsprep/backend/internal/store"
)

var (
	// ErrStaleState means stored progress refers to questions the bank no
	// longer has.
	ErrStaleState = errors.New("stored quiz state does not match the question bank")
	// ErrEvaluating rejects a submit while another one for the same session
	// is still grading.
	ErrEvaluating = errors.New("evaluation already in progress")
)

// QuizService loads, saves and evaluates quiz sessions against a
// SessionStore. The store is passed per call so one service can serve many
// sessions.
type QuizService struct {
	bank    *questionbank.QuestionBank
	grading *GradingService
	logger  *slog.Logger

	mu  sync.Mutex // guards rng
	rng *rand.Rand

	evaluating sync.Map // session id → struct{}
	locks      sync.Map // session id → *sync.Mutex
}

// NewQuizService creates a QuizService. A nil rng is seeded randomly.
func NewQuizService(bank *questionbank.QuestionBank, grading *GradingService, rng *rand.Rand, logger *slog.Logger) *QuizService {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &QuizService{
		bank:    bank,
		grading: grading,
		logger:  logger,
		rng:     rng,
	}
}

func (qs *QuizService) Bank() *questionbank.QuestionBank { return qs.bank }

// Lock serializes load, change and save cycles on one session. Call the
// returned func to release it.
func (qs *QuizService) Lock(id string) (unlock func()) {
	m, _ := qs.locks.LoadOrStore(id, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Forget drops the lock of a deleted session.
func (qs *QuizService) Forget(id string) { qs.locks.Delete(id) }

// Start resumes the stored quiz when params describe the same quiz, and
// otherwise clears the store and begins a fresh one. A view switch keeps
// progress and only updates the stored params.
func (qs *QuizService) Start(ctx context.Context, st store.SessionStore, id string, params practicesession.Params) (*practicesession.PracticeSession, error) {
	s, err := qs.Load(ctx, st, id)
	if err == nil && s.Params.SameQuiz(params) {
		if s.Params != params {
			s.Params = params
			if err := st.Set(ctx, store.KeyParams, s.Params); err != nil {
				return nil, err
			}
		}
		return s, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		if !errors.Is(err, ErrStaleState) {
			return nil, err
		}
		qs.logger.Warn("discarding stored quiz", "session_id", id, "error", err)
	}

	if err := st.Clear(ctx); err != nil {
		return nil, err
	}
	s = qs.fresh(id, params)
	if err := qs.Save(ctx, st, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (qs *QuizService) fresh(id string, params practicesession.Params) *practicesession.PracticeSession {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	return practicesession.New(id, params, practicesession.PickQuestions(qs.bank, params.Mode, qs.rng), qs.rng)
}

type reviewState struct {
	Show        bool `json:"show"`
	SkippedOnly bool `json:"skipped_only"`
}

// Load rebuilds the session from the store. It returns store.ErrNotFound
// when nothing was saved.
func (qs *QuizService) Load(ctx context.Context, st store.SessionStore, id string) (*practicesession.PracticeSession, error) {
	s := &practicesession.PracticeSession{ID: id}

	found, err := st.Get(ctx, store.KeyParams, &s.Params)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, store.ErrNotFound
	}

	var ids []string
	if _, err := st.Get(ctx, store.KeyQuestionIDs, &ids); err != nil {
		return nil, err
	}
	s.Questions, err = qs.bank.Lookup(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStaleState, err)
	}

	if _, err := st.Get(ctx, store.KeyRenderedChoices, &s.Rendered); err != nil {
		return nil, err
	}
	if s.Params.MultipleChoice() && len(s.Rendered) != len(s.Questions) {
		qs.mu.Lock()
		s.Rendered = practicesession.Render(s.Questions, s.Params, qs.rng)
		qs.mu.Unlock()
	}
	if s.Rendered == nil {
		s.Rendered = map[string][]question.Choice{}
	}

	var review reviewState
	fields := []struct {
		key string
		dst any
	}{
		{store.KeyUserAnswers, &s.Answers},
		{store.KeySkippedQuestions, &s.Skipped},
		{store.KeyCurrentIndex, &s.Current},
		{store.KeyQuizSubmitted, &s.Submitted},
		{store.KeyQuizScore, &s.Score},
		{store.KeyEvaluationResults, &s.Results},
		{store.KeyReviewState, &review},
	}
	for _, f := range fields {
		if _, err := st.Get(ctx, f.key, f.dst); err != nil {
			return nil, err
		}
	}
	if s.Answers == nil {
		s.Answers = map[string]question.Answer{}
	}
	s.ShowReview, s.ShowingSkipped = review.Show, review.SkippedOnly
	s.Current = max(0, min(s.Current, len(s.Questions)-1))
	return s, nil
}

// Save writes every key of s. The score is only written once submitted.
func (qs *QuizService) Save(ctx context.Context, st store.SessionStore, s *practicesession.PracticeSession) error {
	skipped := s.Skipped
	if skipped == nil {
		skipped = []string{}
	}
	type entry struct {
		key   string
		value any
	}
	values := []entry{
		{store.KeyParams, s.Params},
		{store.KeyQuestionIDs, s.QuestionIDs()},
		{store.KeyRenderedChoices, s.Rendered},
		{store.KeyUserAnswers, s.Answers},
		{store.KeySkippedQuestions, skipped},
		{store.KeyCurrentIndex, s.Current},
		{store.KeyQuizSubmitted, s.Submitted},
		{store.KeyReviewState, reviewState{Show: s.ShowReview, SkippedOnly: s.ShowingSkipped}},
	}
	if s.Submitted {
		values = append(values,
			entry{store.KeyQuizScore, s.Score},
			entry{store.KeyEvaluationResults, s.Results},
		)
	}

	for _, v := range values {
		if err := st.Set(ctx, v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Clear wipes the store and reloads s with fresh questions and renders.
func (qs *QuizService) Clear(ctx context.Context, st store.SessionStore, s *practicesession.PracticeSession) error {
	if err := st.Clear(ctx); err != nil {
		return err
	}
	qs.mu.Lock()
	s.Reset(practicesession.PickQuestions(qs.bank, s.Params.Mode, qs.rng), qs.rng)
	qs.mu.Unlock()
	return qs.Save(ctx, st, s)
}

// Evaluate grades s and records the outcome. On error neither s nor the
// store is modified, so the user can retry with the same answers.
func (qs *QuizService) Evaluate(ctx context.Context, st store.SessionStore, s *practicesession.PracticeSession) error {
	if s.Submitted {
		return practicesession.ErrSubmitted
	}
	if _, busy := qs.evaluating.LoadOrStore(s.ID, struct{}{}); busy {
		return ErrEvaluating
	}
	defer qs.evaluating.Delete(s.ID)

	var results question.Results
	if s.Params.MultipleChoice() {
		results = qs.grading.GradeMultipleChoice(s.Questions, s.Answers)
	} else {
		var err error
		results, err = qs.grading.GradeOpenText(ctx, s.Questions, s.Answers)
		if err != nil {
			qs.logger.Error("evaluation failed", "session_id", s.ID, "error", err)
			return err
		}
	}

	if err := s.Submit(results); err != nil {
		return err
	}
	metrics.QuizzesSubmitted.WithLabelValues(string(s.Params.AnswerType)).Inc()
	qs.logger.Info("quiz submitted",
		"session_id", s.ID,
		"answer_type", s.Params.AnswerType,
		"score", s.Score,
	)
	return qs.Save(ctx, st, s)
}
