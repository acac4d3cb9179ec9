// Package practicesession holds the state of one quiz: the questions drawn,
// their rendered choices, the user's answers and skips, navigation and the
// submission outcome.
package practicesession

import (
	"errors"
	"math/rand/v2"
	"slices"

	"github.com/civicsprep/backend/internal/domain/question"
	"github.com/civicsprep/backend/internal/domain/questionbank"
	"github.com/civicsprep/backend/internal/textnorm"
)

var (
	ErrSubmitted       = errors.New("quiz already submitted")
	ErrUnknownQuestion = errors.New("question not in this quiz")
	ErrUnknownChoice   = errors.New("choice not offered for this question")
	ErrAnswerType      = errors.New("answer does not match the quiz answer type")
)

// PracticeSession is the main domain entity for one quiz.
type PracticeSession struct {
	ID        string
	Params    Params
	Questions []*question.Question
	// Rendered holds the choices shown per question id. It is filled once per
	// load and kept so option positions stay put between interactions.
	Rendered map[string][]question.Choice

	Answers   map[string]question.Answer
	Skipped   []string
	Current   int
	Submitted bool
	Score     float64
	Results   question.Results

	ShowReview     bool
	ShowingSkipped bool
}

// PickQuestions draws the questions a quiz with mode uses: a uniform sample
// of questionbank.SampleSize for sample mode, the whole bank in order for full.
func PickQuestions(bank *questionbank.QuestionBank, mode QuizMode, rng *rand.Rand) []*question.Question {
	if mode == ModeFull {
		return bank.All()
	}
	return bank.Sample(questionbank.SampleSize, rng)
}

// New starts an empty quiz over questions. Multiple-choice quizzes render
// their options immediately.
func New(id string, params Params, questions []*question.Question, rng question.Shuffler) *PracticeSession {
	s := &PracticeSession{ID: id, Params: params}
	s.Reset(questions, rng)
	return s
}

// Reset clears answers, skips, navigation and results, and renders
// questions afresh.
func (s *PracticeSession) Reset(questions []*question.Question, rng question.Shuffler) {
	s.Questions = questions
	s.Rendered = Render(questions, s.Params, rng)
	s.Answers = map[string]question.Answer{}
	s.Skipped = nil
	s.Current = 0
	s.Submitted = false
	s.Score = 0
	s.Results = nil
	s.ShowReview = false
	s.ShowingSkipped = false
}

// Render selects the multiple-choice options for each question. Open-text
// quizzes render nothing.
func Render(questions []*question.Question, params Params, rng question.Shuffler) map[string][]question.Choice {
	rendered := make(map[string][]question.Choice, len(questions))
	if !params.MultipleChoice() {
		return rendered
	}
	for _, q := range questions {
		if mode, ok := q.MultipleChoiceMode(); ok {
			rendered[q.ID()] = q.SelectChoices(mode, rng)
		}
	}
	return rendered
}

// Question returns the quiz question with id.
func (s *PracticeSession) Question(id string) (*question.Question, error) {
	for _, q := range s.Questions {
		if q.ID() == id {
			return q, nil
		}
	}
	return nil, ErrUnknownQuestion
}

// CurrentQuestion is the question the paginated view shows, nil for an
// empty quiz.
func (s *PracticeSession) CurrentQuestion() *question.Question {
	if s.Current < 0 || s.Current >= len(s.Questions) {
		return nil
	}
	return s.Questions[s.Current]
}

func (s *PracticeSession) mutable(id string) (*question.Question, error) {
	if s.Submitted {
		return nil, ErrSubmitted
	}
	return s.Question(id)
}

// SelectChoice records a click on a rendered option. multiple_correct
// questions toggle the option; others replace the selection.
func (s *PracticeSession) SelectChoice(questionID, text string) error {
	q, err := s.mutable(questionID)
	if err != nil {
		return err
	}
	if !s.Params.MultipleChoice() {
		return ErrAnswerType
	}
	if !slices.ContainsFunc(s.Rendered[questionID], func(c question.Choice) bool { return c.Text == text }) {
		return ErrUnknownChoice
	}

	mode, _ := q.MultipleChoiceMode()
	if mode.SelectionRule == question.MultipleCorrect {
		s.Answers[questionID] = s.Answers[questionID].Toggle(text)
		return nil
	}
	s.Answers[questionID] = question.Selected(text)
	return nil
}

// SetText stores a typed answer and returns the autocomplete suggestion: the
// first correct answer the input is a strict prefix of, or "".
func (s *PracticeSession) SetText(questionID, text string) (string, error) {
	q, err := s.mutable(questionID)
	if err != nil {
		return "", err
	}
	if s.Params.MultipleChoice() {
		return "", ErrAnswerType
	}
	s.Answers[questionID] = question.Typed(text)
	suggestion, _ := textnorm.Complete(text, q.CorrectAnswers())
	return suggestion, nil
}

// ToggleSkip flips whether the question is marked skipped. With goNext in
// the paginated view it also advances.
func (s *PracticeSession) ToggleSkip(questionID string, goNext bool) error {
	if _, err := s.mutable(questionID); err != nil {
		return err
	}
	if i := slices.Index(s.Skipped, questionID); i >= 0 {
		s.Skipped = slices.Delete(s.Skipped, i, i+1)
	} else {
		s.Skipped = append(s.Skipped, questionID)
	}
	if goNext && s.Params.Paginated() {
		s.Next()
	}
	return nil
}

// KeyPress handles Enter on a question: an empty answer is skipped and the
// quiz advances, otherwise it just advances.
func (s *PracticeSession) KeyPress(questionID string) error {
	if _, err := s.mutable(questionID); err != nil {
		return err
	}
	if s.Answers[questionID].IsEmpty() {
		return s.ToggleSkip(questionID, true)
	}
	s.Next()
	return nil
}

// Next moves forward, stopping at the last question.
func (s *PracticeSession) Next() {
	if s.Current < len(s.Questions)-1 {
		s.Current++
	}
}

// Previous moves back, stopping at the first question.
func (s *PracticeSession) Previous() {
	if s.Current > 0 {
		s.Current--
	}
}

// Review opens the review screen, optionally listing only skipped questions.
func (s *PracticeSession) Review(skippedOnly bool) {
	s.ShowReview = true
	s.ShowingSkipped = skippedOnly
}

// Submit records results and the score over every question in the quiz.
func (s *PracticeSession) Submit(results question.Results) error {
	if s.Submitted {
		return ErrSubmitted
	}
	s.Results = results
	s.Score = results.Score(len(s.Questions))
	s.Submitted = true
	return nil
}

// QuestionIDs lists the quiz questions in order.
func (s *PracticeSession) QuestionIDs() []string {
	ids := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.ID()
	}
	return ids
}
