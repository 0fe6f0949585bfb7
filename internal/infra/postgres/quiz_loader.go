package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/quizschema"
)

// QuizLoader loads quiz JSONB from Postgres.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.QuizSet, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizSet{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.QuizSet{}, errors.Wrap(err, "load quiz")
	}
	quiz, err := quizschema.Decode(raw, quizID)
	if err != nil {
		return domain.QuizSet{}, errors.Wrapf(err, "quiz %s", quizID)
	}
	quiz.ID = quizID
	return quiz, nil
}
