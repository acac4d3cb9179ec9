package question

import "github.com/civicsprep/backend/internal/textnorm"

// Evaluate decides whether answer is correct. It is pure and deterministic.
//
//   - single_correct and exact_n_correct: exactly one selection, and it is
//     one of the correct texts (exact match; the texts came from the render).
//   - multiple_correct: the selections, as a set, equal the correct texts a
//     render shows.
//   - open text: the normalized answer equals some normalized correct text.
func (q *Question) Evaluate(answer Answer, multipleChoice bool) bool {
	if !multipleChoice {
		return q.evaluateOpenText(answer)
	}

	mode, ok := q.MultipleChoiceMode()
	if !ok {
		return false
	}
	selections := answer.Selections
	if answer.IsText {
		selections = nil
	}

	switch mode.SelectionRule {
	case SingleCorrect, ExactNCorrect:
		if len(selections) != 1 {
			return false
		}
		for _, c := range q.CorrectAnswers() {
			if c == selections[0] {
				return true
			}
		}
		return false
	case MultipleCorrect:
		correct := q.CorrectAnswers()
		return sameSet(selections, correct[:q.shownCorrectCount(len(correct))])
	default:
		return false
	}
}

func (q *Question) evaluateOpenText(answer Answer) bool {
	if !answer.IsText {
		return false
	}
	user := textnorm.Normalize(answer.Text)
	for _, c := range q.CorrectAnswers() {
		if textnorm.Normalize(c) == user {
			return true
		}
	}
	return false
}

func sameSet(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, s := range a {
		as[s] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, s := range b {
		bs[s] = struct{}{}
	}
	if len(as) == 0 || len(as) != len(bs) {
		return false
	}
	for s := range as {
		if _, ok := bs[s]; !ok {
			return false
		}
	}
	return true
}
