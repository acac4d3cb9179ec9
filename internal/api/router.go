// internal/api/router.go
package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Grading
	mux.HandleFunc("POST /api/evaluateQuiz", h.evaluateQuiz)

	// Questions
	mux.HandleFunc("GET /api/questions", h.listQuestions)

	// Quiz sessions
	mux.HandleFunc("POST /api/quiz", h.createQuiz)
	mux.HandleFunc("GET /api/quiz/{sessionID}", h.getQuiz)
	mux.HandleFunc("POST /api/quiz/{sessionID}/restart", h.restartQuiz)
	mux.HandleFunc("DELETE /api/quiz/{sessionID}", h.clearQuiz)
	mux.HandleFunc("POST /api/quiz/{sessionID}/navigate", h.navigate)
	mux.HandleFunc("POST /api/quiz/{sessionID}/review", h.review)
	mux.HandleFunc("POST /api/quiz/{sessionID}/submit", h.submitQuiz)

	// Answers
	mux.HandleFunc("POST /api/quiz/{sessionID}/questions/{questionID}/choice", h.selectChoice)
	mux.HandleFunc("PUT /api/quiz/{sessionID}/questions/{questionID}/text", h.setText)
	mux.HandleFunc("POST /api/quiz/{sessionID}/questions/{questionID}/skip", h.toggleSkip)
	mux.HandleFunc("POST /api/quiz/{sessionID}/questions/{questionID}/enter", h.pressEnter)
}
