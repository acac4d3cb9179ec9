package questionbank_test

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/civicsprep/backend/internal/domain/question"
	"github.com/civicsprep/backend/internal/domain/questionbank"
)

func TestDefault(t *testing.T) {
	bank, err := questionbank.Default()
	if err != nil {
		t.Fatalf("bundled bank must load: %v", err)
	}
	if bank.Len() < questionbank.SampleSize {
		t.Fatalf("expected at least %d questions, got %d", questionbank.SampleSize, bank.Len())
	}

	for _, q := range bank.All() {
		if len(q.CorrectAnswers()) == 0 {
			t.Errorf("question %s has no correct answer", q.ID())
		}
		mc, ok := q.MultipleChoiceMode()
		if !ok {
			t.Errorf("question %s has no multiple choice mode", q.ID())
			continue
		}
		if !mc.RandomizeChoices {
			t.Errorf("question %s must randomize choices", q.ID())
		}
		if !q.SupportsOpenText() {
			t.Errorf("question %s must support open text", q.ID())
		}
	}
}

func TestRecordQuestion_SingleCorrect(t *testing.T) {
	rec := questionbank.Record{
		QuestionNumber:   25,
		QuestionText:     "Who was the first President?",
		Answers:          []string{"Washington"},
		IncorrectAnswers: []string{"Lincoln", "Adams", "Jefferson"},
		Hint:             "Father of Our Country",
	}

	q, err := rec.Question()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ID() != "25" {
		t.Errorf("expected id 25, got %q", q.ID())
	}
	if q.Hint() != "Father of Our Country" {
		t.Errorf("unexpected hint %q", q.Hint())
	}

	mc, _ := q.MultipleChoiceMode()
	if mc.SelectionRule != question.SingleCorrect {
		t.Errorf("expected single_correct, got %s", mc.SelectionRule)
	}
	if mc.NumChoices != 4 {
		t.Errorf("expected 4 choices, got %d", mc.NumChoices)
	}
}

func TestRecordQuestion_NumChoices(t *testing.T) {
	tests := []struct {
		name      string
		answers   []string
		incorrect []string
		wantRule  question.SelectionRule
		wantNum   int
	}{
		{"capped by total", []string{"a"}, []string{"b"}, question.SingleCorrect, 2},
		{"floor of four", []string{"a", "b"}, []string{"c", "d", "e"}, question.MultipleCorrect, 4},
		{"more answers than four", []string{"a", "b", "c", "d", "e"}, []string{"f"}, question.MultipleCorrect, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := questionbank.Record{QuestionNumber: 1, QuestionText: "Q", Answers: tt.answers, IncorrectAnswers: tt.incorrect}
			q, err := rec.Question()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			mc, _ := q.MultipleChoiceMode()
			if mc.SelectionRule != tt.wantRule {
				t.Errorf("expected %s, got %s", tt.wantRule, mc.SelectionRule)
			}
			if mc.NumChoices != tt.wantNum {
				t.Errorf("expected %d choices, got %d", tt.wantNum, mc.NumChoices)
			}
		})
	}
}

func TestLoad_InvalidRecord(t *testing.T) {
	input := `[{"question_number": 1, "question_text": "Q", "answers": [], "incorrect_answers": ["x"]}]`

	_, err := questionbank.Load(strings.NewReader(input))
	if !errors.Is(err, question.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
}

func TestLoad_DuplicateNumber(t *testing.T) {
	input := `[
		{"question_number": 1, "question_text": "A", "answers": ["a"], "incorrect_answers": []},
		{"question_number": 1, "question_text": "B", "answers": ["b"], "incorrect_answers": []}
	]`

	_, err := questionbank.Load(strings.NewReader(input))
	if !errors.Is(err, question.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	if _, err := questionbank.Load(strings.NewReader(`{"not": "an array"}`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSample(t *testing.T) {
	bank, err := questionbank.Default()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got := bank.Sample(questionbank.SampleSize, rand.New(rand.NewPCG(1, 2)))
	if len(got) != questionbank.SampleSize {
		t.Fatalf("expected %d questions, got %d", questionbank.SampleSize, len(got))
	}
	seen := map[string]bool{}
	for _, q := range got {
		if seen[q.ID()] {
			t.Errorf("question %s sampled twice", q.ID())
		}
		seen[q.ID()] = true
	}

	again := bank.Sample(questionbank.SampleSize, rand.New(rand.NewPCG(1, 2)))
	for i := range got {
		if got[i].ID() != again[i].ID() {
			t.Fatal("expected the same sample for the same seed")
		}
	}
}

func TestSample_LargerThanBank(t *testing.T) {
	bank, err := questionbank.FromRecords([]questionbank.Record{
		{QuestionNumber: 1, QuestionText: "A", Answers: []string{"a"}},
		{QuestionNumber: 2, QuestionText: "B", Answers: []string{"b"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := bank.Sample(5, nil); len(got) != 2 {
		t.Errorf("expected the whole bank, got %d", len(got))
	}
}

func TestLookup(t *testing.T) {
	bank, err := questionbank.Default()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	qs, err := bank.Lookup([]string{"25", "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qs[0].ID() != "25" || qs[1].ID() != "1" {
		t.Errorf("lookup must keep order, got %s %s", qs[0].ID(), qs[1].ID())
	}

	if _, err := bank.Lookup([]string{"9999"}); err == nil {
		t.Error("expected error for unknown id")
	}
}
