package memory

import (
	"context"

	"timed-quiz-service/internal/domain"
)

// DefaultQuizID is the id the reference quiz is served under.
const DefaultQuizID = "default"

// StaticQuizLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticQuizLoader struct {
	quizzes map[string]domain.QuizSet
}

func NewStaticQuizLoader(quizzes map[string]domain.QuizSet) *StaticQuizLoader {
	return &StaticQuizLoader{quizzes: quizzes}
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.QuizSet, error) {
	if quiz, ok := l.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.QuizSet{}, domain.ErrQuizNotFound
}

// ReferenceQuiz is the built-in three-question quiz with a five minute limit.
func ReferenceQuiz() domain.QuizSet {
	return domain.QuizSet{
		ID: DefaultQuizID,
		Questions: []domain.Question{
			{
				ID:   "1",
				Type: domain.SingleChoice,
				Text: "What is the capital of France?",
				Options: []domain.Option{
					{ID: "a", Text: "London"},
					{ID: "b", Text: "Berlin"},
					{ID: "c", Text: "Paris"},
					{ID: "d", Text: "Madrid"},
				},
				CorrectAnswer: domain.TextAnswer("c"),
			},
			{
				ID:   "2",
				Type: domain.MultipleChoice,
				Text: "Which of the following are primary colors?",
				Options: []domain.Option{
					{ID: "a", Text: "Red"},
					{ID: "b", Text: "Green"},
					{ID: "c", Text: "Blue"},
					{ID: "d", Text: "Yellow"},
				},
				CorrectAnswer: domain.ChoiceAnswer("a", "c", "d"),
			},
			{
				ID:            "3",
				Type:          domain.FillInBlank,
				Text:          "The largest planet in our solar system is ________.",
				CorrectAnswer: domain.TextAnswer("Jupiter"),
			},
		},
		TimeLimit: 300,
	}
}

// ReferenceQuizzes maps DefaultQuizID to ReferenceQuiz.
func ReferenceQuizzes() map[string]domain.QuizSet {
	return map[string]domain.QuizSet{DefaultQuizID: ReferenceQuiz()}
}
