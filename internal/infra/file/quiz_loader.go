package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/quizschema"
)

// QuizLoader reads quiz JSON documents from disk.
//
// When path is a directory each quiz lives in <path>/<quizID>.json. When path
// is a single file it is served under defaultID.
type QuizLoader struct {
	path      string
	defaultID string
}

func NewQuizLoader(path, defaultID string) *QuizLoader {
	return &QuizLoader{path: path, defaultID: defaultID}
}

func (l *QuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.QuizSet, error) {
	file, err := l.resolve(quizID)
	if err != nil {
		return domain.QuizSet{}, err
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.QuizSet{}, domain.ErrQuizNotFound
		}
		return domain.QuizSet{}, errors.Wrapf(err, "read quiz %s", file)
	}
	quiz, err := quizschema.Decode(raw, quizID)
	if err != nil {
		return domain.QuizSet{}, errors.Wrapf(err, "quiz file %s", file)
	}
	quiz.ID = quizID
	glog.V(3).Infof("loaded quiz %s from %s", quizID, file)
	return quiz, nil
}

func (l *QuizLoader) resolve(quizID string) (string, error) {
	if quizID == "" || strings.ContainsAny(quizID, `/\`) || strings.HasPrefix(quizID, ".") {
		return "", domain.ErrQuizNotFound
	}
	info, err := os.Stat(l.path)
	if err != nil {
		return "", errors.Wrapf(err, "quiz path %s", l.path)
	}
	if info.IsDir() {
		return filepath.Join(l.path, quizID+".json"), nil
	}
	if quizID != l.defaultID {
		return "", domain.ErrQuizNotFound
	}
	return l.path, nil
}
