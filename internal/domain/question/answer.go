package question

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Answer is what the user gave for one question: an ordered set of
// selected choice texts, or a single free-text string. It serializes as a
// JSON array or a JSON string respectively.
type Answer struct {
	Selections []string
	Text       string
	IsText     bool
}

// Selected builds a multiple-choice answer.
func Selected(texts ...string) Answer {
	return Answer{Selections: texts}
}

// Typed builds a free-text answer.
func Typed(text string) Answer {
	return Answer{Text: text, IsText: true}
}

// IsEmpty reports whether nothing was selected or only whitespace typed.
func (a Answer) IsEmpty() bool {
	if a.IsText {
		return strings.TrimSpace(a.Text) == ""
	}
	return len(a.Selections) == 0
}

// Toggle adds text to the selections, or removes it when already present.
func (a Answer) Toggle(text string) Answer {
	out := make([]string, 0, len(a.Selections)+1)
	found := false
	for _, s := range a.Selections {
		if s == text {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, text)
	}
	return Answer{Selections: out}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.IsText {
		return json.Marshal(a.Text)
	}
	if a.Selections == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.Selections)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Typed(s)
		return nil
	}
	var sel []string
	if err := json.Unmarshal(data, &sel); err != nil {
		return err
	}
	*a = Selected(sel...)
	return nil
}

// Result is the verdict for one question in one submission.
type Result struct {
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
}

// Results maps question id to its verdict.
type Results map[string]Result

// Correct counts the correct verdicts.
func (r Results) Correct() int {
	n := 0
	for _, res := range r {
		if res.IsCorrect {
			n++
		}
	}
	return n
}

// Score returns the percentage of total questions judged correct. Questions
// without a verdict count as incorrect.
func (r Results) Score(total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(r.Correct()) / float64(total) * 100
}
