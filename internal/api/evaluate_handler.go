package api

import (
	"fmt"
	"net/http"

	"github.com/civicsprep/backend/internal/grader"
)

// ── Request / Response types ────────────────────────────────────────────────

// EvaluateRequest is the body of POST /api/evaluateQuiz: a bare JSON array.
type EvaluateRequest []grader.Item

func (r *EvaluateRequest) Validate() error {
	for i, it := range *r {
		if it.QuestionText == "" {
			return fmt.Errorf("item %d: question_text is required", i)
		}
	}
	return nil
}

// ── Handlers ────────────────────────────────────────────────────────────────

// evaluateQuiz grades open-text answers with the configured model.
// @Summary      Grade open-text answers
// @Description  Decides each typed answer against its accepted answers. Items are echoed back with is_correct and an optional explanation.
// @Tags         Grading
// @Accept       json
// @Produce      json
// @Param        body  body      []grader.Item  true  "Answers to grade"
// @Success      200   {array}   grader.Verdict
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string  "model unreachable or unparseable reply"
// @Router       /api/evaluateQuiz [post]
func (h *Handler) evaluateQuiz(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	verdicts, err := h.grading.GradeItems(r.Context(), req)
	if err != nil {
		h.logger.Error("evaluate quiz failed",
			"items", len(req),
			"request_id", RequestID(r.Context()),
			"error", err,
		)
		respondError(w, http.StatusBadGateway, "Failed to evaluate quiz")
		return
	}

	respondJSON(w, http.StatusOK, verdicts)
}
