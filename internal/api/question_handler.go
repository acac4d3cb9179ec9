package api

import (
	"net/http"

	"github.com/civicsprep/backend/internal/domain/question"
)

// ── Request / Response types ────────────────────────────────────────────────

type BankQuestion struct {
	ID             string   `json:"id" example:"7"`
	Text           string   `json:"text" example:"How many amendments does the Constitution have?"`
	Hint           string   `json:"hint,omitempty"`
	CorrectAnswers []string `json:"correct_answers"`
	Modes          []string `json:"modes"`
}

type ListQuestionsResponse struct {
	Count     int            `json:"count"`
	Questions []BankQuestion `json:"questions"`
}

func toBankQuestion(q *question.Question) BankQuestion {
	modes := q.Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.Type()
	}
	return BankQuestion{
		ID:             q.ID(),
		Text:           q.Text(),
		Hint:           q.Hint(),
		CorrectAnswers: q.CorrectAnswers(),
		Modes:          names,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listQuestions returns the whole question bank.
// @Summary      List bank questions
// @Description  Returns every question in the loaded bank with its correct answers.
// @Tags         Questions
// @Produce      json
// @Success      200  {object}  ListQuestionsResponse
// @Router       /api/questions [get]
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	all := h.quiz.Bank().All()
	resp := ListQuestionsResponse{
		Count:     len(all),
		Questions: make([]BankQuestion, len(all)),
	}
	for i, q := range all {
		resp.Questions[i] = toBankQuestion(q)
	}
	respondJSON(w, http.StatusOK, resp)
}
