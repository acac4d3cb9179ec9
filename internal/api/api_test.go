package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/civicsprep/backend/internal/api"
	"github.com/civicsprep/backend/internal/domain/questionbank"
	"github.com/civicsprep/backend/internal/grader"
	"github.com/civicsprep/backend/internal/service"
	"github.com/civicsprep/backend/internal/store"
)

// gradeFunc adapts a function to grader.Grader.
type gradeFunc func(ctx context.Context, items []grader.Item) ([]grader.Verdict, error)

func (f gradeFunc) Grade(ctx context.Context, items []grader.Item) ([]grader.Verdict, error) {
	return f(ctx, items)
}

func allCorrect(_ context.Context, items []grader.Item) ([]grader.Verdict, error) {
	out := make([]grader.Verdict, len(items))
	for i, it := range items {
		out[i] = grader.Verdict{
			QuestionText:   it.QuestionText,
			UserAnswer:     it.UserAnswer,
			CorrectAnswers: it.CorrectAnswers,
			IsCorrect:      true,
		}
	}
	return out, nil
}

func failing(context.Context, []grader.Item) ([]grader.Verdict, error) {
	return nil, &grader.GradeError{Reason: "model unreachable", Wrapped: errors.New("connection refused")}
}

func newTestHandler(t *testing.T, g grader.Grader) http.Handler {
	t.Helper()
	return newTestHandlerAt(t, g, filepath.Join(t.TempDir(), "api.db"))
}

func newTestHandlerAt(t *testing.T, g grader.Grader, dbPath string) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := store.NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	bank, err := questionbank.FromRecords([]questionbank.Record{
		{QuestionNumber: 1, QuestionText: "Who was the first President?", Answers: []string{"Washington"}, IncorrectAnswers: []string{"Lincoln", "Adams", "Jefferson"}},
		{QuestionNumber: 2, QuestionText: "Name a First Amendment freedom.", Answers: []string{"speech", "religion"}, IncorrectAnswers: []string{"to bear arms", "to vote"}},
		{QuestionNumber: 3, QuestionText: "What is the supreme law of the land?", Answers: []string{"the Constitution"}, IncorrectAnswers: []string{"the Bill of Rights", "the Declaration of Independence"}},
	})
	if err != nil {
		t.Fatalf("build bank: %v", err)
	}

	grading := service.NewGradingService(g, service.GradingOptions{}, logger)
	quiz := service.NewQuizService(bank, grading, rand.New(rand.NewPCG(7, 7)), logger)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, api.NewHandler(db, quiz, grading, logger))
	return api.Logging(logger)(api.CORS([]string{"*"})(api.Metrics(mux)))
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) api.QuizStateResponse {
	t.Helper()
	var state api.QuizStateResponse
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

func startQuiz(t *testing.T, h http.Handler, query string) api.QuizStateResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/quiz?"+query, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decodeState(t, rec)
}

func quizPath(state api.QuizStateResponse, suffix string) string {
	return "/api/quiz/" + state.SessionID + suffix
}

func TestCreateQuiz(t *testing.T) {
	h := newTestHandler(t, gradeFunc(allCorrect))

	rec := do(t, h, http.MethodPost, "/api/quiz?mode=full", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}

	state := decodeState(t, rec)
	if state.Mode != "full" || state.View != "paginated" || state.AnswerType != "easy" {
		t.Errorf("unexpected params %s/%s/%s", state.Mode, state.View, state.AnswerType)
	}
	if len(state.Questions) != 3 || state.Questions[0].ID != "1" {
		t.Fatalf("expected the full bank in order, got %+v", state.Questions)
	}
	for _, q := range state.Questions {
		if len(q.Choices) < 2 {
			t.Errorf("question %s: expected rendered choices, got %d", q.ID, len(q.Choices))
		}
		for _, c := range q.Choices {
			if c.IsCorrect != nil {
				t.Fatal("correctness must stay hidden before submission")
			}
		}
	}
	if state.Score != nil || state.Submitted {
		t.Error("a fresh quiz has no score")
	}
}

func TestGetQuiz_NotFound(t *testing.T) {
	h := newTestHandler(t, gradeFunc(allCorrect))

	rec := do(t, h, http.MethodGet, "/api/quiz/does-not-exist", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestGetQuiz_ReturnsStoredState(t *testing.T) {
	h := newTestHandler(t, gradeFunc(allCorrect))
	state := startQuiz(t, h, "mode=full")

	do(t, h, http.MethodPost, quizPath(state, "/questions/1/choice"), api.ChoiceRequest{Choice: "Lincoln"})

	got := decodeState(t, do(t, h, http.MethodGet, quizPath(state, ""), nil))
	if sel := got.UserAnswers["1"].Selections; len(sel) != 1 || sel[0] != "Lincoln" {
		t.Errorf("expected stored selection, got %v", sel)
	}
	for i, q := range got.Questions {
		for j, c := range q.Choices {
			if c.Text != state.Questions[i].Choices[j].Text {
				t.Fatal("choices must keep their positions between requests")
			}
		}
	}
}

func TestSelectAndSubmit(t *testing.T) {
	h := newTestHandler(t, gradeFunc(allCorrect))
	state := startQuiz(t, h, "mode=full")

	rec := do(t, h, http.MethodPost, quizPath(state, "/questions/1/choice"), api.ChoiceRequest{Choice: "Washington"})
	if rec.Code != http.StatusOK {
		t.Fatalf("select: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, quizPath(state, "/submit"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeState(t, rec)
	if !got.Submitted || got.Score == nil {
		t.Fatal("expected a submitted quiz with a score")
	}
	if math.Abs(*got.Score-100.0/3) > 1e-9 {
		t.Errorf("expected score 33.3, got %v", *got.Score)
	}
	if !got.Results["1"].IsCorrect || got.Results["2"].IsCorrect {
		t.Errorf("unexpected results %+v", got.Results)
	}
	if got.Questions[0].Choices[0].IsCorrect == nil || len(got.Questions[0].CorrectAnswers) != 1 {
		t.Error("expected answers revealed after submission")
	}

	if rec := do(t, h, http.MethodPost, quizPath(state, "/submit"), nil); rec.Code != http.StatusConflict {
		t.Errorf("second submit: expected 409, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, quizPath(state, "/questions/1/choice"), api.ChoiceRequest{Choice: "Lincoln"}); rec.Code != http.StatusConflict {
		t.Errorf("select after submit: expected 409, got %d", rec.Code)
	}
}

func TestSelectChoice_Errors(t *testing.T) {
	h := newTestHandler(t, gradeFunc(allCorrect))
	state := startQuiz(t, h, "mode=full")

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"unknown choice", "/questions/1/choice", api.ChoiceRequest{Choice: "Nixon"}, http.StatusBadRequest},
		{"unknown question", "/questions/99/choice", api.ChoiceRequest{Choice: "Washington"}, http.StatusNotFound},
		{"missing choice", "/questions/1/choice", api.ChoiceRequest{}, http.StatusBadRequest},
		{"malformed body", "/questions/1/choice", "{", http.StatusBadRequest},
		{"text on easy quiz", "/questions/1/text", api.TextRequest{Text: "Washington"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := http.MethodPost
			if strings.HasSuffix(tt.path, "/text") {
				method = http.MethodPut
			}
			rec := do(t, h, method, quizPath(state, tt.path), tt.body)
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSetText_Autocomplete(t *testing.T) {
	h := newTestHandler(t, gradeFunc(allCorrect))
	state := startQuiz(t, h, "mode=full&answerType=hard")

	rec := do(t, h, http.MethodPut, quizPath(state, "/questions/1/text"), api.TextRequest{Text: "wash"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeState(t, rec)
	if got.Autocomplete != "Washington" {
		t.Errorf("expected autocomplete Washington, got %q", got.Autocomplete)
	}
	if got.UserAnswers["1"].Text != "wash" {
		t.Errorf("expected typed text stored, got %+v", got.UserAnswers["1"])
	}
	if len(got.Questions[0].Choices) != 0 {
		t.Error("open text quizzes show no choices")
	}
}

func TestSubmit_GradingFailureKeepsState(t *testing.T) {
	h := newTestHandler(t, gradeFunc(failing))
	state := startQuiz(t, h, "mode=full&answerType=hard")

	do(t, h, http.MethodPut, quizPath(state, "/questions/1/text"), api.TextRequest{Text: "Lincoln"})

	rec := do(t, h, http.MethodPost, quizPath(state, "/submit"), nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["error"] == "" {
		t.Errorf("expected an error body, got %v (%v)", body, err)
	}

	got := decodeState(t, do(t, h, http.MethodGet, quizPath(state, ""), nil))
	if got.Submitted || got.Score != nil {
		t.Error("a failed submit must not store a score")
	}
	if got.UserAnswers["1"].Text != "Lincoln" {
		t.Errorf("expected the answer kept for a retry, got %+v", got.UserAnswers["1"])
	}
}

func TestSubmit_OpenTextUsesGrader(t *testing.T) {
	var sent []grader.Item
	h := newTestHandler(t, gradeFunc(func(ctx context.Context, items []grader.Item) ([]grader.Verdict, error) {
		sent = append(sent, items...)
		return allCorrect(ctx, items)
	}))
	state := startQuiz(t, h, "mode=full&answerType=hard")

	do(t, h, http.MethodPut, quizPath(state, "/questions/1/text"), api.TextRequest{Text: "washington "})
	do(t, h, http.MethodPut, quizPath(state, "/questions/2/text"), api.TextRequest{Text: "free speech"})

	got := decodeState(t, do(t, h, http.MethodPost, quizPath(state, "/submit"), nil))
	if len(sent) != 1 || sent[0].UserAnswer != "free speech" {
		t.Errorf("expected only the unsettled answer sent, got %+v", sent)
	}
	if !got.Results["1"].IsCorrect || !got.Results["2"].IsCorrect || got.Results["3"].IsCorrect {
		t.Errorf("unexpected results %+v", got.Results)
	}
}

func TestSkipAndNavigate(t *testing.T) {
	h := newTestHandler(t, gradeFunc(allCorrect))
	state := startQuiz(t, h, "mode=full")

	got := decodeState(t, do(t, h, http.MethodPost, quizPath(state, "/questions/1/skip"), api.SkipRequest{GoNext: true}))
	if len(got.Skipped) != 1 || got.Skipped[0] != "1" || got.CurrentIndex != 1 {
		t.Errorf("expected question 1 skipped and index 1, got %v / %d", got.Skipped, got.CurrentIndex)
	}
	if !got.Questions[0].Skipped {
		t.Error("expected the question marked skipped")
	}

	for range 5 {
		got = decodeState(t, do(t, h, http.MethodPost, quizPath(state, "/navigate"), api.NavigateRequest{Direction: "next"}))
	}
	if got.CurrentIndex != 2 {
		t.Errorf("expected index clamped to 2, got %d", got.CurrentIndex)
	}

	got = decodeState(t, do(t, h, http.MethodPost, quizPath(state, "/navigate"), api.NavigateRequest{Direction: "previous"}))
	if got.CurrentIndex != 1 {
		t.Errorf("expected index 1, got %d", got.CurrentIndex)
	}

	if rec := do(t, h, http.MethodPost, quizPath(state, "/navigate"), api.NavigateRequest{Direction: "sideways"}); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestPressEnter_EmptySkips(t *testing.T) {
	h := newTestHandler(t, gradeFunc(allCorrect))
	state := startQuiz(t, h, "mode=full&answerType=hard")

	got := decodeState(t, do(t, h, http.MethodPost, quizPath(state, "/questions/1/enter"), nil))
	if len(got.Skipped) != 1 || got.CurrentIndex != 1 {
		t.Errorf("expected skip and advance, got %v / %d", got.Skipped, got.CurrentIndex)
	}
}

func TestReview(t *testing.T) {
	h := newTestHandler(t, gradeFunc(allCorrect))
	state := startQuiz(t, h, "mode=full")

	do(t, h, http.MethodPost, quizPath(state, "/review"), api.ReviewRequest{SkippedOnly: true})

	got := decodeState(t, do(t, h, http.MethodGet, quizPath(state, ""), nil))
	if !got.ShowReview || !got.ShowingSkipped {
		t.Error("expected the review screen state to persist")
	}
}

func TestRestart(t *testing.T) {
	h := newTestHandler(t, gradeFunc(allCorrect))
	state := startQuiz(t, h, "mode=full")
	do(t, h, http.MethodPost, quizPath(state, "/questions/1/choice"), api.ChoiceRequest{Choice: "Washington"})

	got := decodeState(t, do(t, h, http.MethodPost, quizPath(state, "/restart?mode=full&view=continuous"), nil))
	if got.View != "continuous" || len(got.UserAnswers) != 1 {
		t.Errorf("a view switch must keep answers, got view %s and %d answers", got.View, len(got.UserAnswers))
	}

	got = decodeState(t, do(t, h, http.MethodPost, quizPath(state, "/restart?mode=full&answerType=hard"), nil))
	if got.AnswerType != "hard" || len(got.UserAnswers) != 0 {
		t.Errorf("an answer type switch must clear answers, got %s and %d answers", got.AnswerType, len(got.UserAnswers))
	}
}

func TestClearQuiz(t *testing.T) {
	h := newTestHandler(t, gradeFunc(allCorrect))
	state := startQuiz(t, h, "mode=full")
	do(t, h, http.MethodPost, quizPath(state, "/questions/1/skip"), nil)

	rec := do(t, h, http.MethodDelete, quizPath(state, ""), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeState(t, rec)
	if len(got.Skipped) != 0 || got.CurrentIndex != 0 || got.Submitted {
		t.Errorf("expected a clean quiz, got %+v", got)
	}
	if len(got.Questions) != 3 {
		t.Errorf("expected questions reloaded, got %d", len(got.Questions))
	}
}

func TestEvaluateQuiz(t *testing.T) {
	items := []grader.Item{
		{QuestionText: "Who was the first President?", UserAnswer: "George", CorrectAnswers: []string{"Washington"}},
		{QuestionText: "What is the supreme law of the land?", UserAnswer: "Constitution", CorrectAnswers: []string{"the Constitution"}},
	}

	t.Run("ok", func(t *testing.T) {
		h := newTestHandler(t, gradeFunc(allCorrect))
		rec := do(t, h, http.MethodPost, "/api/evaluateQuiz", items)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var verdicts []grader.Verdict
		if err := json.NewDecoder(rec.Body).Decode(&verdicts); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(verdicts) != 2 || verdicts[1].QuestionText != items[1].QuestionText || !verdicts[0].IsCorrect {
			t.Errorf("unexpected verdicts %+v", verdicts)
		}
	})

	t.Run("bad body", func(t *testing.T) {
		h := newTestHandler(t, gradeFunc(allCorrect))
		if rec := do(t, h, http.MethodPost, "/api/evaluateQuiz", `{"question_text":"x"}`); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if rec := do(t, h, http.MethodPost, "/api/evaluateQuiz", `[{"user_answer":"x"}]`); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for a missing question, got %d", rec.Code)
		}
	})

	t.Run("model failure", func(t *testing.T) {
		h := newTestHandler(t, gradeFunc(failing))
		rec := do(t, h, http.MethodPost, "/api/evaluateQuiz", items)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["error"] != "Failed to evaluate quiz" {
			t.Errorf("unexpected error body %v (%v)", body, err)
		}
	})
}

func TestListQuestions(t *testing.T) {
	h := newTestHandler(t, gradeFunc(allCorrect))

	rec := do(t, h, http.MethodGet, "/api/questions", nil)
	var resp api.ListQuestionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 3 || resp.Questions[1].CorrectAnswers[0] != "speech" {
		t.Errorf("unexpected bank listing %+v", resp)
	}
}

func TestConcurrentAnswersAreKept(t *testing.T) {
	h := newTestHandler(t, gradeFunc(allCorrect))

	for range 10 {
		state := startQuiz(t, h, "mode=full")
		picks := map[string]string{"1": "Washington", "2": "speech", "3": "the Constitution"}

		var wg sync.WaitGroup
		codes := make(chan int, len(picks))
		for id, choice := range picks {
			wg.Add(1)
			go func() {
				defer wg.Done()
				body := `{"choice":"` + choice + `"}`
				codes <- do(t, h, http.MethodPost, quizPath(state, "/questions/"+id+"/choice"), body).Code
			}()
		}
		wg.Wait()
		close(codes)
		for code := range codes {
			if code != http.StatusOK {
				t.Fatalf("expected 200, got %d", code)
			}
		}

		got := decodeState(t, do(t, h, http.MethodGet, quizPath(state, ""), nil))
		if len(got.UserAnswers) != len(picks) {
			t.Fatalf("expected %d answers kept, got %v", len(picks), got.UserAnswers)
		}
	}
}

func TestCreateQuiz_FailedStartRemovesSession(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "api.db")
	h := newTestHandlerAt(t, gradeFunc(allCorrect), dbPath)

	raw, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	if _, err := raw.Exec(`CREATE TRIGGER reject_state BEFORE INSERT ON session_state
		BEGIN SELECT RAISE(ABORT, 'disk full'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	rec := do(t, h, http.MethodPost, "/api/quiz", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
	}

	var n int
	if err := raw.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no orphaned session rows, got %d", n)
	}
}
