package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidQuiz is returned when a quiz payload breaks a shape invariant.
	ErrInvalidQuiz = errors.New("invalid quiz")
	// ErrSessionNotFound is returned when a quiz session has not been started.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionClosed is returned when answers change after the sheet was frozen.
	ErrSessionClosed = errors.New("quiz session already submitted")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a submitted option ID is invalid.
	ErrOptionNotFound = errors.New("option not found")
)
