package question

import "math/rand/v2"

// Shuffler is the randomness a render needs; *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// SelectChoices builds the options shown for one multiple-choice render.
//
// The result has mode.NumChoices entries unless the question owns fewer
// choices than that. With RandomizeChoices the distractors are drawn and the
// final order permuted through rng; a nil rng uses the global source. Call it
// once per render and keep the result: reshuffling on every interaction moves
// answers under the user's cursor.
func (q *Question) SelectChoices(mode MultipleChoice, rng Shuffler) []Choice {
	correct := q.correctChoices()

	var selected []Choice
	switch mode.SelectionRule {
	case SingleCorrect:
		selected = correct[:1]
	case MultipleCorrect:
		selected = correct[:q.shownCorrectCount(len(correct))]
	case ExactNCorrect:
		pool := correct
		if mode.RandomizeChoices {
			pool = shuffled(pool, rng)
		}
		selected = pool[:min(mode.RequiredCorrectCount, len(pool))]
	default:
		return nil
	}
	selected = append([]Choice(nil), selected...)

	if need := mode.NumChoices - len(selected); need > 0 {
		distractors := q.incorrectChoices()
		if mode.RandomizeChoices {
			distractors = shuffled(distractors, rng)
		}
		selected = append(selected, distractors[:min(need, len(distractors))]...)
	}
	if len(selected) > mode.NumChoices {
		selected = selected[:mode.NumChoices]
	}

	if mode.RandomizeChoices {
		shuffleInPlace(selected, rng)
	}
	return selected
}

// shownCorrectCount is how many correct choices a multiple_correct render
// includes: all of them unless numSelections caps it.
func (q *Question) shownCorrectCount(available int) int {
	if q.numSelections > 0 && q.numSelections < available {
		return q.numSelections
	}
	return available
}

func shuffled(in []Choice, rng Shuffler) []Choice {
	out := append([]Choice(nil), in...)
	shuffleInPlace(out, rng)
	return out
}

func shuffleInPlace(s []Choice, rng Shuffler) {
	swap := func(i, j int) { s[i], s[j] = s[j], s[i] }
	if rng == nil {
		rand.Shuffle(len(s), swap)
		return
	}
	rng.Shuffle(len(s), swap)
}
