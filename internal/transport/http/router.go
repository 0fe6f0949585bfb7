package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"timed-quiz-service/internal/app"
)

// NewRouter wires the REST and WebSocket endpoints.
func NewRouter(service *app.QuizService, defaultQuizID string) *mux.Router {
	quizzes := NewQuizHandler(service, defaultQuizID)
	ws := NewWSHandler(service, defaultQuizID)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/quiz", quizzes.GetQuiz).Methods(http.MethodGet)
	r.HandleFunc("/api/quiz/grade", quizzes.Grade).Methods(http.MethodPost)
	r.HandleFunc("/api/quiz/{quizId}", quizzes.GetQuiz).Methods(http.MethodGet)
	r.HandleFunc("/api/quiz/{quizId}/grade", quizzes.Grade).Methods(http.MethodPost)
	r.HandleFunc("/ws", ws.ServeWS)
	return r
}
