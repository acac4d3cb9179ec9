package question

import (
	"errors"
	"fmt"
)

// ErrInvalidQuestion is wrapped by every ValidationError.
var ErrInvalidQuestion = errors.New("invalid question")

// ValidationError is returned by New when a construction invariant fails.
type ValidationError struct {
	QuestionID   string
	QuestionText string
	Reason       string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %s (%q): %s", e.QuestionID, e.QuestionText, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidQuestion
}

// Choice is one answer option. Choices are compared by text, never identity.
type Choice struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question is immutable once built by New; accessors hand out copies.
type Question struct {
	id            string
	text          string
	hint          string
	numSelections int
	modes         []Mode
	choices       []Choice
}

// Option configures optional Question fields.
type Option func(*Question)

// WithHint attaches a supplementary hint.
func WithHint(hint string) Option { return func(q *Question) { q.hint = hint } }

// WithNumSelections caps how many correct choices a multiple_correct
// render shows. Zero (the default) shows all of them.
func WithNumSelections(n int) Option { return func(q *Question) { q.numSelections = n } }

// New validates and builds a Question. It fails fast on the first broken
// invariant; callers treat the error as fatal configuration.
func New(id, text string, modes []Mode, choices []Choice, opts ...Option) (*Question, error) {
	q := &Question{
		id:      id,
		text:    text,
		modes:   append([]Mode(nil), modes...),
		choices: append([]Choice(nil), choices...),
	}
	for _, o := range opts {
		o(q)
	}
	if err := q.validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Question) invalid(format string, args ...any) error {
	return &ValidationError{QuestionID: q.id, QuestionText: q.text, Reason: fmt.Sprintf(format, args...)}
}

func (q *Question) validate() error {
	if q.text == "" {
		return q.invalid("text must not be empty")
	}
	if len(q.modes) == 0 {
		return q.invalid("must have at least one mode")
	}
	if len(q.choices) == 0 {
		return q.invalid("must have at least one choice")
	}
	if q.numSelections < 0 {
		return q.invalid("num_selections must not be negative")
	}

	correct := len(q.correctChoices())
	if correct == 0 {
		return q.invalid("must have at least one correct choice")
	}

	for _, m := range q.modes {
		switch mode := m.(type) {
		case OpenText:
		case MultipleChoice:
			if mode.NumChoices < correct {
				return q.invalid("num_choices=%d but has %d correct choices", mode.NumChoices, correct)
			}
			switch mode.SelectionRule {
			case SingleCorrect:
				if correct != 1 {
					return q.invalid("single_correct requires exactly one correct choice, has %d", correct)
				}
			case MultipleCorrect:
				if correct < 2 {
					return q.invalid("multiple_correct requires at least two correct choices, has %d", correct)
				}
			case ExactNCorrect:
				if mode.RequiredCorrectCount <= 0 {
					return q.invalid("exact_n_correct requires a positive required_correct_count")
				}
				if mode.RequiredCorrectCount > correct {
					return q.invalid("exact_n_correct requires %d correct choices, has %d", mode.RequiredCorrectCount, correct)
				}
			default:
				return q.invalid("unknown selection rule %q", mode.SelectionRule)
			}
		default:
			return q.invalid("unsupported mode %T", m)
		}
	}
	return nil
}

func (q *Question) ID() string   { return q.id }
func (q *Question) Text() string { return q.text }
func (q *Question) Hint() string { return q.hint }

// NumSelections is the multiple_correct display cap; zero means unset.
func (q *Question) NumSelections() int { return q.numSelections }

func (q *Question) Modes() []Mode { return append([]Mode(nil), q.modes...) }

func (q *Question) Choices() []Choice { return append([]Choice(nil), q.choices...) }

// CorrectAnswers returns the texts of the correct choices in bank order.
func (q *Question) CorrectAnswers() []string {
	var out []string
	for _, c := range q.choices {
		if c.IsCorrect {
			out = append(out, c.Text)
		}
	}
	return out
}

// HasIncorrectChoices reports whether any distractor exists.
func (q *Question) HasIncorrectChoices() bool {
	for _, c := range q.choices {
		if !c.IsCorrect {
			return true
		}
	}
	return false
}

// MultipleChoiceMode returns the first multiple-choice mode, if any.
func (q *Question) MultipleChoiceMode() (MultipleChoice, bool) {
	for _, m := range q.modes {
		if mc, ok := m.(MultipleChoice); ok {
			return mc, true
		}
	}
	return MultipleChoice{}, false
}

// SupportsOpenText reports whether the question can be answered as free text.
func (q *Question) SupportsOpenText() bool {
	for _, m := range q.modes {
		if _, ok := m.(OpenText); ok {
			return true
		}
	}
	return false
}

// ChoiceByText looks a choice up by its exact text.
func (q *Question) ChoiceByText(text string) (Choice, bool) {
	for _, c := range q.choices {
		if c.Text == text {
			return c, true
		}
	}
	return Choice{}, false
}

func (q *Question) correctChoices() []Choice {
	var out []Choice
	for _, c := range q.choices {
		if c.IsCorrect {
			out = append(out, c)
		}
	}
	return out
}

func (q *Question) incorrectChoices() []Choice {
	var out []Choice
	for _, c := range q.choices {
		if !c.IsCorrect {
			out = append(out, c)
		}
	}
	return out
}
