// Package questionbank loads the static civics question bank and turns its
// raw records into validated questions.
package questionbank

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"

	"github.com/civicsprep/backend/internal/domain/question"
)

// SampleSize is how many questions a sample quiz draws.
const SampleSize = 5

// minChoices is the floor for how many options a multiple-choice render shows.
const minChoices = 4

//go:embed data/questions_with_hints.json
var bundled embed.FS

// Record is one entry of the bundled JSON bank.
type Record struct {
	QuestionNumber   int      `json:"question_number"`
	QuestionText     string   `json:"question_text"`
	Answers          []string `json:"answers"`
	IncorrectAnswers []string `json:"incorrect_answers"`
	Hint             string   `json:"hint,omitempty"`
}

// QuestionBank is the ordered, validated set of questions.
type QuestionBank struct {
	questions []*question.Question
	byID      map[string]*question.Question
}

// Default parses the bank embedded in the binary.
func Default() (*QuestionBank, error) {
	f, err := bundled.Open("data/questions_with_hints.json")
	if err != nil {
		return nil, fmt.Errorf("open bundled bank: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a JSON array of records and builds the bank. Any invalid
// record fails the whole load.
func Load(r io.Reader) (*QuestionBank, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	return FromRecords(records)
}

// FromRecords builds one question per record, in record order.
func FromRecords(records []Record) (*QuestionBank, error) {
	bank := &QuestionBank{
		questions: make([]*question.Question, 0, len(records)),
		byID:      make(map[string]*question.Question, len(records)),
	}
	for _, rec := range records {
		q, err := rec.Question()
		if err != nil {
			return nil, err
		}
		if _, dup := bank.byID[q.ID()]; dup {
			return nil, &question.ValidationError{
				QuestionID:   q.ID(),
				QuestionText: q.Text(),
				Reason:       "duplicate question_number",
			}
		}
		bank.questions = append(bank.questions, q)
		bank.byID[q.ID()] = q
	}
	return bank, nil
}

// Question converts the record. The multiple-choice mode picks
// single_correct for one answer and multiple_correct otherwise, and shows
// max(4, answers) options capped at the number of choices the record has.
func (r Record) Question() (*question.Question, error) {
	choices := make([]question.Choice, 0, len(r.Answers)+len(r.IncorrectAnswers))
	for _, a := range r.Answers {
		choices = append(choices, question.Choice{Text: a, IsCorrect: true})
	}
	for _, a := range r.IncorrectAnswers {
		choices = append(choices, question.Choice{Text: a})
	}

	rule := question.MultipleCorrect
	if len(r.Answers) == 1 {
		rule = question.SingleCorrect
	}

	modes := []question.Mode{
		question.OpenText{},
		question.MultipleChoice{
			SelectionRule:    rule,
			RandomizeChoices: true,
			NumChoices:       min(max(minChoices, len(r.Answers)), len(choices)),
		},
	}

	var opts []question.Option
	if r.Hint != "" {
		opts = append(opts, question.WithHint(r.Hint))
	}
	return question.New(strconv.Itoa(r.QuestionNumber), r.QuestionText, modes, choices, opts...)
}

// All returns every question in bank order.
func (b *QuestionBank) All() []*question.Question {
	return append([]*question.Question(nil), b.questions...)
}

func (b *QuestionBank) Len() int { return len(b.questions) }

// Get looks a question up by id.
func (b *QuestionBank) Get(id string) (*question.Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Lookup resolves ids in order, failing on the first unknown one.
func (b *QuestionBank) Lookup(ids []string) ([]*question.Question, error) {
	out := make([]*question.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := b.byID[id]
		if !ok {
			return nil, fmt.Errorf("question %s not in bank", id)
		}
		out = append(out, q)
	}
	return out, nil
}

// Sample draws n distinct questions uniformly at random. When n covers the
// whole bank every question is returned, shuffled. A nil rng uses the global
// source.
func (b *QuestionBank) Sample(n int, rng *rand.Rand) []*question.Question {
	perm := b.perm(rng)
	if n > len(perm) {
		n = len(perm)
	}
	if n < 0 {
		n = 0
	}
	out := make([]*question.Question, n)
	for i := 0; i < n; i++ {
		out[i] = b.questions[perm[i]]
	}
	return out
}

func (b *QuestionBank) perm(rng *rand.Rand) []int {
	if rng == nil {
		return rand.Perm(len(b.questions))
	}
	return rng.Perm(len(b.questions))
}
