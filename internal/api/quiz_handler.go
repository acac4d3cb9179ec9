package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	practicesession "github.com/civicsprep/backend/internal/domain/practice_session"
	"github.com/civicsprep/backend/internal/domain/question"
	"github.com/civicsprep/backend/internal/service"
	"github.com/civicsprep/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type ChoiceRequest struct {
	Choice string `json:"choice" example:"Washington"`
}

func (r *ChoiceRequest) Validate() error {
	if r.Choice == "" {
		return errors.New("choice is required")
	}
	return nil
}

type TextRequest struct {
	Text string `json:"text" example:"wash"`
}

func (r *TextRequest) Validate() error { return nil }

type SkipRequest struct {
	GoNext bool `json:"go_next"`
}

type NavigateRequest struct {
	Direction string `json:"direction" example:"next" enums:"next,previous"`
}

func (r *NavigateRequest) Validate() error {
	if r.Direction != "next" && r.Direction != "previous" {
		return errors.New(`direction must be "next" or "previous"`)
	}
	return nil
}

type ReviewRequest struct {
	SkippedOnly bool `json:"skipped_only"`
}

type QuizChoice struct {
	Text string `json:"text"`
	// IsCorrect is only revealed once the quiz is submitted.
	IsCorrect *bool `json:"is_correct,omitempty"`
}

type QuizQuestion struct {
	ID            string       `json:"id" example:"25"`
	Text          string       `json:"text"`
	Hint          string       `json:"hint,omitempty"`
	SelectionRule string       `json:"selection_rule,omitempty" example:"single_correct"`
	Choices       []QuizChoice `json:"choices,omitempty"`
	Skipped       bool         `json:"skipped"`
	// CorrectAnswers is only revealed once the quiz is submitted.
	CorrectAnswers []string `json:"correct_answers,omitempty"`
}

type QuizStateResponse struct {
	SessionID      string                     `json:"session_id"`
	Mode           string                     `json:"mode" example:"sample"`
	View           string                     `json:"view" example:"paginated"`
	AnswerType     string                     `json:"answer_type" example:"easy"`
	Questions      []QuizQuestion             `json:"questions"`
	CurrentIndex   int                        `json:"current_index"`
	UserAnswers    map[string]question.Answer `json:"user_answers" swaggertype:"object"`
	Skipped        []string                   `json:"skipped_questions"`
	Submitted      bool                       `json:"quiz_submitted"`
	Score          *float64                   `json:"quiz_score"`
	Results        question.Results           `json:"evaluation_results,omitempty"`
	ShowReview     bool                       `json:"show_review"`
	ShowingSkipped bool                       `json:"showing_skipped"`
	Autocomplete   string                     `json:"autocomplete,omitempty"`
}

func toQuizState(s *practicesession.PracticeSession) QuizStateResponse {
	skipped := make(map[string]bool, len(s.Skipped))
	for _, id := range s.Skipped {
		skipped[id] = true
	}

	questions := make([]QuizQuestion, len(s.Questions))
	for i, q := range s.Questions {
		qq := QuizQuestion{
			ID:      q.ID(),
			Text:    q.Text(),
			Hint:    q.Hint(),
			Skipped: skipped[q.ID()],
		}
		if mode, ok := q.MultipleChoiceMode(); ok && s.Params.MultipleChoice() {
			qq.SelectionRule = string(mode.SelectionRule)
		}
		for _, c := range s.Rendered[q.ID()] {
			choice := QuizChoice{Text: c.Text}
			if s.Submitted {
				choice.IsCorrect = &c.IsCorrect
			}
			qq.Choices = append(qq.Choices, choice)
		}
		if s.Submitted {
			qq.CorrectAnswers = q.CorrectAnswers()
		}
		questions[i] = qq
	}

	resp := QuizStateResponse{
		SessionID:      s.ID,
		Mode:           string(s.Params.Mode),
		View:           string(s.Params.View),
		AnswerType:     string(s.Params.AnswerType),
		Questions:      questions,
		CurrentIndex:   s.Current,
		UserAnswers:    s.Answers,
		Skipped:        s.Skipped,
		Submitted:      s.Submitted,
		Results:        s.Results,
		ShowReview:     s.ShowReview,
		ShowingSkipped: s.ShowingSkipped,
	}
	if resp.Skipped == nil {
		resp.Skipped = []string{}
	}
	if s.Submitted {
		score := s.Score
		resp.Score = &score
	}
	return resp
}

// ── Helpers ─────────────────────────────────────────────────────────────────

// lockQuiz holds the {sessionID} lock until the returned func is called, so
// concurrent requests on one quiz cannot overwrite each other's changes.
func (h *Handler) lockQuiz(r *http.Request) (unlock func()) {
	return h.quiz.Lock(r.PathValue("sessionID"))
}

// loadQuiz resolves {sessionID} to its stored quiz. A quiz whose stored
// questions left the bank is restarted with default params.
func (h *Handler) loadQuiz(w http.ResponseWriter, r *http.Request) (*practicesession.PracticeSession, store.SessionStore, bool) {
	ctx := r.Context()
	id := r.PathValue("sessionID")

	exists, err := h.store.SessionExists(ctx, id)
	if h.handleStoreError(w, err, "session") {
		return nil, nil, false
	}
	if !exists {
		h.quiz.Forget(id)
		respondError(w, http.StatusNotFound, "session not found")
		return nil, nil, false
	}

	st := h.store.Session(id)
	s, err := h.quiz.Load(ctx, st, id)
	if errors.Is(err, service.ErrStaleState) || errors.Is(err, store.ErrNotFound) {
		s, err = h.quiz.Start(ctx, st, id, practicesession.DefaultParams())
	}
	if h.handleStoreError(w, err, "session") {
		return nil, nil, false
	}
	return s, st, true
}

// handleQuizError maps session errors to responses. Returns true if an
// error was handled.
func (h *Handler) handleQuizError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, practicesession.ErrSubmitted), errors.Is(err, service.ErrEvaluating):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, practicesession.ErrUnknownQuestion):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, practicesession.ErrUnknownChoice), errors.Is(err, practicesession.ErrAnswerType):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		return h.handleStoreError(w, err, "session")
	}
	return true
}

// saveAndRespond persists s and writes its state.
func (h *Handler) saveAndRespond(w http.ResponseWriter, r *http.Request, st store.SessionStore, s *practicesession.PracticeSession, resp QuizStateResponse) {
	if err := h.quiz.Save(r.Context(), st, s); err != nil {
		h.logger.Error("failed to save quiz", "session_id", s.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save quiz")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createQuiz starts a new quiz session.
// @Summary      Start a quiz
// @Description  Creates a session and draws its questions. Choices are rendered once for multiple-choice quizzes.
// @Tags         Quiz
// @Produce      json
// @Param        mode        query     string  false  "sample or full"          Enums(sample, full)
// @Param        view        query     string  false  "paginated or continuous" Enums(paginated, continuous)
// @Param        answerType  query     string  false  "easy or hard"            Enums(easy, hard)
// @Success      201         {object}  QuizStateResponse
// @Failure      500         {object}  map[string]string
// @Router       /api/quiz [post]
func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := uuid.NewString()

	if err := h.store.CreateSession(ctx, id); err != nil {
		h.logger.Error("failed to create session", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	s, err := h.quiz.Start(ctx, h.store.Session(id), id, practicesession.ParseParams(r.URL.Query()))
	if err != nil {
		if delErr := h.store.DeleteSession(ctx, id); delErr != nil {
			h.logger.Error("failed to remove session", "session_id", id, "error", delErr)
		}
		h.handleStoreError(w, err, "session")
		return
	}

	h.logger.Info("quiz started",
		"session_id", id,
		"mode", s.Params.Mode,
		"answer_type", s.Params.AnswerType,
		"questions", len(s.Questions),
	)
	respondJSON(w, http.StatusCreated, toQuizState(s))
}

// getQuiz returns the current quiz state.
// @Summary      Get quiz state
// @Tags         Quiz
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  QuizStateResponse
// @Failure      404        {object}  map[string]string
// @Router       /api/quiz/{sessionID} [get]
func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	defer h.lockQuiz(r)()

	s, _, ok := h.loadQuiz(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toQuizState(s))
}

// restartQuiz applies new params. Switching mode or answer type starts
// over; switching view keeps progress.
// @Summary      Change quiz params
// @Tags         Quiz
// @Produce      json
// @Param        sessionID   path      string  true   "Session ID"
// @Param        mode        query     string  false  "sample or full"          Enums(sample, full)
// @Param        view        query     string  false  "paginated or continuous" Enums(paginated, continuous)
// @Param        answerType  query     string  false  "easy or hard"            Enums(easy, hard)
// @Success      200         {object}  QuizStateResponse
// @Failure      404         {object}  map[string]string
// @Router       /api/quiz/{sessionID}/restart [post]
func (h *Handler) restartQuiz(w http.ResponseWriter, r *http.Request) {
	defer h.lockQuiz(r)()

	_, st, ok := h.loadQuiz(w, r)
	if !ok {
		return
	}
	id := r.PathValue("sessionID")
	s, err := h.quiz.Start(r.Context(), st, id, practicesession.ParseParams(r.URL.Query()))
	if h.handleStoreError(w, err, "session") {
		return
	}
	respondJSON(w, http.StatusOK, toQuizState(s))
}

// clearQuiz wipes progress and draws fresh questions.
// @Summary      Clear quiz
// @Tags         Quiz
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  QuizStateResponse
// @Failure      404        {object}  map[string]string
// @Router       /api/quiz/{sessionID} [delete]
func (h *Handler) clearQuiz(w http.ResponseWriter, r *http.Request) {
	defer h.lockQuiz(r)()

	s, st, ok := h.loadQuiz(w, r)
	if !ok {
		return
	}
	if h.handleStoreError(w, h.quiz.Clear(r.Context(), st, s), "session") {
		return
	}
	respondJSON(w, http.StatusOK, toQuizState(s))
}

// POST /api/quiz/{sessionID}/questions/{questionID}/choice
func (h *Handler) selectChoice(w http.ResponseWriter, r *http.Request) {
	defer h.lockQuiz(r)()

	s, st, ok := h.loadQuiz(w, r)
	if !ok {
		return
	}
	var req ChoiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if h.handleQuizError(w, s.SelectChoice(r.PathValue("questionID"), req.Choice)) {
		return
	}
	h.saveAndRespond(w, r, st, s, toQuizState(s))
}

// setText stores a typed answer and offers an autocompletion.
// @Summary      Type an answer
// @Description  Stores the typed answer. When it is a prefix of an accepted answer, the full answer is returned in autocomplete.
// @Tags         Answers
// @Accept       json
// @Produce      json
// @Param        sessionID   path      string       true  "Session ID"
// @Param        questionID  path      string       true  "Question ID"
// @Param        body        body      TextRequest  true  "Typed text"
// @Success      200         {object}  QuizStateResponse
// @Failure      400         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Failure      409         {object}  map[string]string  "quiz already submitted"
// @Router       /api/quiz/{sessionID}/questions/{questionID}/text [put]
func (h *Handler) setText(w http.ResponseWriter, r *http.Request) {
	defer h.lockQuiz(r)()

	s, st, ok := h.loadQuiz(w, r)
	if !ok {
		return
	}
	var req TextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	suggestion, err := s.SetText(r.PathValue("questionID"), req.Text)
	if h.handleQuizError(w, err) {
		return
	}
	resp := toQuizState(s)
	resp.Autocomplete = suggestion
	h.saveAndRespond(w, r, st, s, resp)
}

// POST /api/quiz/{sessionID}/questions/{questionID}/skip
func (h *Handler) toggleSkip(w http.ResponseWriter, r *http.Request) {
	defer h.lockQuiz(r)()

	s, st, ok := h.loadQuiz(w, r)
	if !ok {
		return
	}
	var req SkipRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	if h.handleQuizError(w, s.ToggleSkip(r.PathValue("questionID"), req.GoNext)) {
		return
	}
	h.saveAndRespond(w, r, st, s, toQuizState(s))
}

// POST /api/quiz/{sessionID}/questions/{questionID}/enter
func (h *Handler) pressEnter(w http.ResponseWriter, r *http.Request) {
	defer h.lockQuiz(r)()

	s, st, ok := h.loadQuiz(w, r)
	if !ok {
		return
	}
	if h.handleQuizError(w, s.KeyPress(r.PathValue("questionID"))) {
		return
	}
	h.saveAndRespond(w, r, st, s, toQuizState(s))
}

// POST /api/quiz/{sessionID}/navigate
func (h *Handler) navigate(w http.ResponseWriter, r *http.Request) {
	defer h.lockQuiz(r)()

	s, st, ok := h.loadQuiz(w, r)
	if !ok {
		return
	}
	var req NavigateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Direction == "next" {
		s.Next()
	} else {
		s.Previous()
	}
	h.saveAndRespond(w, r, st, s, toQuizState(s))
}

// POST /api/quiz/{sessionID}/review
func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	defer h.lockQuiz(r)()

	s, st, ok := h.loadQuiz(w, r)
	if !ok {
		return
	}
	var req ReviewRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	s.Review(req.SkippedOnly)
	h.saveAndRespond(w, r, st, s, toQuizState(s))
}

// submitQuiz grades the quiz.
// @Summary      Submit quiz
// @Description  Grades every answer and stores the score. When grading fails nothing is stored and the submit can be retried.
// @Tags         Quiz
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  QuizStateResponse
// @Failure      404        {object}  map[string]string
// @Failure      409        {object}  map[string]string  "already submitted or grading in progress"
// @Failure      502        {object}  map[string]string  "grading failed, retry"
// @Router       /api/quiz/{sessionID}/submit [post]
func (h *Handler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	defer h.lockQuiz(r)()

	s, st, ok := h.loadQuiz(w, r)
	if !ok {
		return
	}

	err := h.quiz.Evaluate(r.Context(), st, s)
	if service.IsRetryable(err) {
		respondError(w, http.StatusBadGateway, "Failed to evaluate quiz. Please try again.")
		return
	}
	if h.handleQuizError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toQuizState(s))
}
