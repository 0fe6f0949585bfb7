package app

import (
	"sync"
	"time"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/grading"
	"timed-quiz-service/internal/timer"
)

// Session is one timed attempt at a quiz: the quiz, the answer sheet and the
// countdown, plus the subscribers that render them.
type Session struct {
	id        string
	quiz      domain.QuizSet
	startedAt time.Time
	now       func() time.Time
	countdown *timer.Countdown

	mu          sync.RWMutex
	answers     domain.AnswerSheet
	result      *domain.GradeResult
	subscribers map[chan domain.SessionEvent]struct{}
}

// NewSession is exported for infrastructure layers and tests that need a
// session without going through QuizService.
func NewSession(id string, quiz domain.QuizSet) *Session {
	return newSession(id, quiz, time.Now, timer.RealAfterFunc, time.Second)
}

// NewSessionWithScheduler is test-only for deterministic ticks and timestamps.
func NewSessionWithScheduler(id string, quiz domain.QuizSet, now func() time.Time, afterFunc timer.AfterFunc) *Session {
	return newSession(id, quiz, now, afterFunc, time.Second)
}

func newSession(id string, quiz domain.QuizSet, now func() time.Time, afterFunc timer.AfterFunc, interval time.Duration) *Session {
	s := &Session{
		id:          id,
		quiz:        quiz,
		startedAt:   now(),
		now:         now,
		answers:     make(domain.AnswerSheet),
		subscribers: make(map[chan domain.SessionEvent]struct{}),
	}
	s.countdown = timer.NewCountdownWithScheduler(quiz.TimeLimit, timer.Hooks{
		OnTick:   s.onTick,
		OnExpire: s.onTimeUp,
	}, interval, afterFunc)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// TimeLimit returns the quiz time limit in seconds.
func (s *Session) TimeLimit() int {
	return s.quiz.TimeLimit
}

// Start begins the countdown.
func (s *Session) Start() {
	s.countdown.Start()
}

// Done is closed when the countdown stops or expires.
func (s *Session) Done() <-chan struct{} {
	return s.countdown.Done()
}

// Frozen reports whether the answer sheet no longer accepts changes.
func (s *Session) Frozen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result != nil
}

func (s *Session) setAnswer(questionID string, answer domain.Answer) error {
	if _, ok := s.quiz.Question(questionID); !ok {
		return domain.ErrQuestionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return domain.ErrSessionClosed
	}
	s.answers[questionID] = answer
	s.broadcastLocked(s.answerEvent(questionID, answer))
	return nil
}

// toggleOption applies radio semantics to single-choice questions and
// checkbox semantics to multiple-choice questions.
func (s *Session) toggleOption(questionID, optionID string) (domain.Answer, error) {
	question, ok := s.quiz.Question(questionID)
	if !ok {
		return domain.Answer{}, domain.ErrQuestionNotFound
	}
	if !question.HasOption(optionID) {
		return domain.Answer{}, domain.ErrOptionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return domain.Answer{}, domain.ErrSessionClosed
	}
	var next domain.Answer
	if question.Type == domain.MultipleChoice {
		next = s.answers[questionID].Toggle(optionID)
	} else {
		next = domain.TextAnswer(optionID)
	}
	s.answers[questionID] = next
	s.broadcastLocked(s.answerEvent(questionID, next))
	return next, nil
}

// submit stops the countdown and grades. Only the first terminal event
// grades; later calls return the stored result with graded=false.
func (s *Session) submit() (domain.GradeResult, bool) {
	s.countdown.Stop()
	reason := domain.ReasonSubmitted
	if s.countdown.State() == domain.TimerExpired {
		// The timer expired before its hook graded; the attempt timed out.
		reason = domain.ReasonTimeUp
	}
	return s.finish(reason)
}

func (s *Session) onTimeUp() {
	s.finish(domain.ReasonTimeUp)
}

func (s *Session) finish(reason domain.GradeReason) (domain.GradeResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return *s.result, false
	}

	result := grading.Review(s.quiz, s.answers)
	result.Reason = reason
	result.GradedAt = s.now()
	s.result = &result

	remaining := s.countdown.Remaining()
	if reason == domain.ReasonTimeUp {
		s.broadcastLocked(domain.SessionEvent{Type: domain.EventTimeUp, SessionID: s.id})
	} else {
		s.broadcastLocked(domain.SessionEvent{Type: domain.EventSubmitted, SessionID: s.id, Remaining: remaining, Display: timer.Format(remaining)})
	}
	s.broadcastLocked(domain.SessionEvent{Type: domain.EventResult, SessionID: s.id, Remaining: remaining, Result: &result})
	return result, true
}

func (s *Session) onTick(remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return
	}
	s.broadcastLocked(domain.SessionEvent{
		Type:      domain.EventTick,
		SessionID: s.id,
		Remaining: remaining,
		Display:   timer.Format(remaining),
	})
}

// close tears the session down without grading.
func (s *Session) close() {
	s.countdown.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() domain.SessionSnapshot {
	remaining := s.countdown.Remaining()
	snap := domain.SessionSnapshot{
		SessionID: s.id,
		QuizID:    s.quiz.ID,
		Questions: s.quiz.Public(),
		TimeLimit: s.quiz.TimeLimit,
		Remaining: remaining,
		Display:   timer.Format(remaining),
		Timer:     s.countdown.State(),
		Answers:   s.answers.Clone(),
		StartedAt: s.startedAt,
	}
	if s.result != nil {
		result := *s.result
		snap.Result = &result
	}
	return snap
}

func (s *Session) answerEvent(questionID string, answer domain.Answer) domain.SessionEvent {
	remaining := s.countdown.Remaining()
	return domain.SessionEvent{
		Type:       domain.EventAnswerChanged,
		SessionID:  s.id,
		QuestionID: questionID,
		Answer:     &answer,
		Remaining:  remaining,
		Display:    timer.Format(remaining),
	}
}

func (s *Session) subscribe() (<-chan domain.SessionEvent, func()) {
	ch := make(chan domain.SessionEvent, 16)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	remaining := s.countdown.Remaining()
	initial := domain.SessionEvent{Type: domain.EventTick, SessionID: s.id, Remaining: remaining, Display: timer.Format(remaining)}
	if s.result != nil {
		result := *s.result
		initial = domain.SessionEvent{Type: domain.EventResult, SessionID: s.id, Remaining: remaining, Result: &result}
	}
	ch <- initial
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked(event domain.SessionEvent) {
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Drop the oldest queued event so a slow reader cannot stall the timer.
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}
