package practicesession

import "net/url"

// QuizMode selects which subset of the bank a quiz draws.
type QuizMode string

const (
	ModeSample QuizMode = "sample"
	ModeFull   QuizMode = "full"
)

// View selects one question per page or all on one page.
type View string

const (
	ViewPaginated  View = "paginated"
	ViewContinuous View = "continuous"
)

// AnswerType selects the evaluation path: easy is multiple choice, hard is
// open text.
type AnswerType string

const (
	AnswerEasy AnswerType = "easy"
	AnswerHard AnswerType = "hard"
)

// Params are the query parameters that shape a quiz.
type Params struct {
	Mode       QuizMode   `json:"mode"`
	View       View       `json:"view"`
	AnswerType AnswerType `json:"answer_type"`
}

// DefaultParams returns sample, paginated, easy.
func DefaultParams() Params {
	return Params{
		Mode:       ModeSample,
		View:       ViewPaginated,
		AnswerType: AnswerEasy,
	}
}

// ParseParams reads mode, view and answerType. Missing or unknown values
// fall back to the defaults.
func ParseParams(v url.Values) Params {
	p := DefaultParams()
	switch m := QuizMode(v.Get("mode")); m {
	case ModeSample, ModeFull:
		p.Mode = m
	}
	switch vw := View(v.Get("view")); vw {
	case ViewPaginated, ViewContinuous:
		p.View = vw
	}
	switch a := AnswerType(v.Get("answerType")); a {
	case AnswerEasy, AnswerHard:
		p.AnswerType = a
	}
	return p
}

// Values encodes p back into query parameters.
func (p Params) Values() url.Values {
	return url.Values{
		"mode":       {string(p.Mode)},
		"view":       {string(p.View)},
		"answerType": {string(p.AnswerType)},
	}
}

func (p Params) MultipleChoice() bool { return p.AnswerType == AnswerEasy }

func (p Params) Paginated() bool { return p.View == ViewPaginated }

// SameQuiz reports whether o describes the same quiz. Switching the view
// keeps progress; switching the mode or answer type does not.
func (p Params) SameQuiz(o Params) bool {
	return p.Mode == o.Mode && p.AnswerType == o.AnswerType
}
