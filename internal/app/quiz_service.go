package app

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/grading"
	"timed-quiz-service/internal/timer"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Save(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.QuizSet, error)
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	sessions  SessionRepository
	quizzes   QuizRepository
	now       func() time.Time
	afterFunc timer.AfterFunc
	newID     func() string
}

func NewQuizService(store SessionRepository, quizzes QuizRepository) *QuizService {
	return NewQuizServiceWithScheduler(store, quizzes, time.Now, timer.RealAfterFunc)
}

// NewQuizServiceWithScheduler is test-only for deterministic ticks and timestamps.
func NewQuizServiceWithScheduler(store SessionRepository, quizzes QuizRepository, now func() time.Time, afterFunc timer.AfterFunc) *QuizService {
	return &QuizService{
		sessions:  store,
		quizzes:   quizzes,
		now:       now,
		afterFunc: afterFunc,
		newID:     func() string { return uuid.NewString() },
	}
}

// GetQuiz returns the full quiz payload, answer keys included.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.QuizSet, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// Start loads the quiz, opens a session for it and starts its countdown.
func (s *QuizService) Start(ctx context.Context, quizID string) (domain.SessionSnapshot, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}

	session := newSession(s.newID(), quiz, s.now, s.afterFunc, time.Second)
	s.sessions.Save(session)
	session.Start()
	glog.V(2).Infof("session %s started for quiz %s (%ds)", session.ID(), quizID, quiz.TimeLimit)
	return session.Snapshot(), nil
}

// AnswerChange records a single answer. It fails with ErrSessionClosed once
// the session was submitted or timed out.
func (s *QuizService) AnswerChange(_ context.Context, sessionID, questionID string, answer domain.Answer) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.setAnswer(questionID, answer)
}

// ToggleOption selects an option the way a radio button or checkbox would.
func (s *QuizService) ToggleOption(_ context.Context, sessionID, questionID, optionID string) (domain.Answer, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Answer{}, domain.ErrSessionNotFound
	}
	return session.toggleOption(questionID, optionID)
}

// Submit stops the countdown and grades the frozen sheet. graded is false when
// the session had already been graded; the stored result is returned as is.
func (s *QuizService) Submit(_ context.Context, sessionID string) (result domain.GradeResult, graded bool, err error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.GradeResult{}, false, domain.ErrSessionNotFound
	}
	result, graded = session.submit()
	if graded {
		glog.V(2).Infof("session %s submitted: %d/%d", sessionID, result.Correct, result.Total)
	}
	return result, graded, nil
}

// Snapshot returns the current session state.
func (s *QuizService) Snapshot(_ context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Subscribe returns a channel that receives session events.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan domain.SessionEvent, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Close stops the countdown and drops the session.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.close()
	s.sessions.Delete(sessionID)
}

// Grade scores a sheet against a quiz without opening a session.
func (s *QuizService) Grade(ctx context.Context, quizID string, sheet domain.AnswerSheet) (domain.GradeResult, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.GradeResult{}, err
	}
	result := grading.Review(quiz, sheet)
	result.Reason = domain.ReasonSubmitted
	result.GradedAt = s.now()
	return result, nil
}

// OverrideTimeLimit wraps repo so every quiz it returns uses seconds as its limit.
func OverrideTimeLimit(repo QuizRepository, seconds int) QuizRepository {
	return timeLimitOverride{repo: repo, seconds: seconds}
}

type timeLimitOverride struct {
	repo    QuizRepository
	seconds int
}

func (o timeLimitOverride) GetQuiz(ctx context.Context, quizID string) (domain.QuizSet, error) {
	quiz, err := o.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return quiz, err
	}
	quiz.TimeLimit = o.seconds
	return quiz, nil
}
