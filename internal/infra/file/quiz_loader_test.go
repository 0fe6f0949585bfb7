package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"timed-quiz-service/internal/domain"
)

const sampleQuiz = `{
  "questions": [
    {"id": "3", "type": "fill-in-the-blank", "text": "Largest planet?", "correctAnswer": "Jupiter"}
  ],
  "timeLimit": 60
}`

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "planets.json"), []byte(sampleQuiz), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	loader := NewQuizLoader(dir, "default")

	quiz, err := loader.LoadQuiz(context.Background(), "planets")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if quiz.ID != "planets" || quiz.TimeLimit != 60 {
		t.Fatalf("unexpected quiz %+v", quiz)
	}

	for _, id := range []string{"missing", "../planets", ".hidden", ""} {
		if _, err := loader.LoadQuiz(context.Background(), id); !errors.Is(err, domain.ErrQuizNotFound) {
			t.Fatalf("%q: expected not found, got %v", id, err)
		}
	}
}

func TestLoadSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.json")
	if err := os.WriteFile(path, []byte(sampleQuiz), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	loader := NewQuizLoader(path, "default")

	if _, err := loader.LoadQuiz(context.Background(), "default"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := loader.LoadQuiz(context.Background(), "other"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoadRejectsInvalidQuiz(t *testing.T) {
	dir := t.TempDir()
	bad := `{"timeLimit": 5, "questions": [{"id": "1", "type": "mcq-single", "text": "x", "options": [{"id": "a", "text": "a"}], "correctAnswer": ["a"]}]}`
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewQuizLoader(dir, "default").LoadQuiz(context.Background(), "bad")
	if !errors.Is(err, domain.ErrInvalidQuiz) {
		t.Fatalf("expected invalid quiz, got %v", err)
	}
}
