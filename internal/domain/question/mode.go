// Package question holds the question entity together with the rules that
// build a multiple-choice render and decide whether an answer is correct.
package question

// SelectionRule says how many correct choices a multiple-choice question
// expects the user to pick.
type SelectionRule string

const (
	SingleCorrect   SelectionRule = "single_correct"
	MultipleCorrect SelectionRule = "multiple_correct"
	ExactNCorrect   SelectionRule = "exact_n_correct"
)

// Mode is a presentation mode. The set is closed: OpenText and
// MultipleChoice are the only implementations.
type Mode interface {
	Type() string
	isMode()
}

// OpenText asks for a free-text answer.
type OpenText struct{}

func (OpenText) Type() string { return "open_text" }
func (OpenText) isMode()      {}

// MultipleChoice renders NumChoices options picked by SelectionRule.
// RequiredCorrectCount is only meaningful for ExactNCorrect.
type MultipleChoice struct {
	SelectionRule        SelectionRule `json:"selection_rule"`
	RequiredCorrectCount int           `json:"required_correct_count,omitempty"`
	RandomizeChoices     bool          `json:"randomize_choices"`
	NumChoices           int           `json:"num_choices"`
}

func (MultipleChoice) Type() string { return "multiple_choice" }
func (MultipleChoice) isMode()      {}
