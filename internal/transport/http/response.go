package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/golang/glog"

	"timed-quiz-service/internal/domain"
)

// HTTPMessage is the error body returned by the REST endpoints.
type HTTPMessage struct {
	Status  string `json:"status"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		glog.Errorf("encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, messageType, message string) {
	writeJSON(w, status, HTTPMessage{
		Status:  strconv.Itoa(status),
		Type:    messageType,
		Message: message,
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound), errors.Is(err, domain.ErrSessionNotFound):
		writeMessage(w, http.StatusNotFound, "notfound", err.Error())
	case errors.Is(err, domain.ErrInvalidQuiz):
		writeMessage(w, http.StatusUnprocessableEntity, "invalid", err.Error())
	default:
		glog.Errorf("request failed: %v", err)
		writeMessage(w, http.StatusInternalServerError, "error", "internal error")
	}
}
