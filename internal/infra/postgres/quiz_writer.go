package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"timed-quiz-service/internal/domain"
)

// QuizRow is the quizzes table as seen by bun.
type QuizRow struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID        string          `bun:"id,pk"`
	Data      json.RawMessage `bun:"data,type:jsonb"`
	UpdatedAt time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// QuizWriter upserts quiz documents; it backs the seed command.
type QuizWriter struct {
	db  *bun.DB
	now func() time.Time
}

func NewQuizWriter(db *bun.DB) *QuizWriter {
	return &QuizWriter{db: db, now: time.Now}
}

// SaveQuiz validates quiz and stores it under quiz.ID, replacing any previous version.
func (w *QuizWriter) SaveQuiz(ctx context.Context, quiz domain.QuizSet) error {
	if quiz.ID == "" {
		return errors.Wrap(domain.ErrInvalidQuiz, "quiz id is required")
	}
	if err := quiz.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		return errors.Wrap(err, "marshal quiz")
	}
	row := &QuizRow{ID: quiz.ID, Data: data, UpdatedAt: w.now()}
	_, err = w.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return errors.Wrapf(err, "save quiz %s", quiz.ID)
}
