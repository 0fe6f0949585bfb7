package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

// QuizHandler serves quiz data and stateless grading over REST.
type QuizHandler struct {
	service       *app.QuizService
	defaultQuizID string
}

func NewQuizHandler(service *app.QuizService, defaultQuizID string) *QuizHandler {
	return &QuizHandler{service: service, defaultQuizID: defaultQuizID}
}

type gradeRequest struct {
	Answers domain.AnswerSheet `json:"answers"`
}

// GetQuiz returns the quiz payload: questions with answer keys and the time limit.
func (h *QuizHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.service.GetQuiz(r.Context(), h.quizID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

// Grade scores the posted answer sheet without opening a session.
func (h *QuizHandler) Grade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "badrequest", "invalid answer sheet")
		return
	}
	result, err := h.service.Grade(r.Context(), h.quizID(r), req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *QuizHandler) quizID(r *http.Request) string {
	if id := mux.Vars(r)["quizId"]; id != "" {
		return id
	}
	return h.defaultQuizID
}
