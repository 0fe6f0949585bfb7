package app

import (
	"testing"
	"time"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/timer"
)

func planetQuiz(timeLimit int) domain.QuizSet {
	return domain.QuizSet{
		ID: "planets",
		Questions: []domain.Question{
			{
				ID:   "1",
				Type: domain.SingleChoice,
				Text: "Which planet is closest to the sun?",
				Options: []domain.Option{
					{ID: "a", Text: "Mercury"},
					{ID: "b", Text: "Venus"},
				},
				CorrectAnswer: domain.TextAnswer("a"),
			},
			{
				ID:            "3",
				Type:          domain.FillInBlank,
				Text:          "The largest planet is ________.",
				CorrectAnswer: domain.TextAnswer("Jupiter"),
			},
		},
		TimeLimit: timeLimit,
	}
}

// stepTimer records the latest armed callback so the test can run it.
type stepTimer struct {
	next func()
}

type stopFunc func() bool

func (f stopFunc) Stop() bool { return f() }

func (st *stepTimer) AfterFunc(_ time.Duration, f func()) timer.Stopper {
	st.next = f
	return stopFunc(func() bool { return true })
}

func fixedNow() time.Time {
	return time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
}

func TestSessionFreezesOnSubmit(t *testing.T) {
	st := &stepTimer{}
	session := NewSessionWithScheduler("s1", planetQuiz(300), fixedNow, st.AfterFunc)
	session.Start()

	if session.Frozen() {
		t.Fatalf("expected open sheet before submit")
	}
	if err := session.setAnswer("3", domain.TextAnswer("Jupiter")); err != nil {
		t.Fatalf("answer: %v", err)
	}
	result, graded := session.submit()
	if !graded || result.Correct != 1 || result.Reason != domain.ReasonSubmitted {
		t.Fatalf("expected 1 correct submitted, got graded=%v %+v", graded, result)
	}
	if !session.Frozen() {
		t.Fatalf("expected frozen sheet after submit")
	}
	select {
	case <-session.Done():
	default:
		t.Fatalf("expected countdown done after submit")
	}
}

func TestSubmitBetweenExpiryAndHookCountsAsTimeUp(t *testing.T) {
	st := &stepTimer{}
	quiz := planetQuiz(1)
	session := NewSessionWithScheduler("s2", quiz, fixedNow, st.AfterFunc)

	// Route expiry through a submit first, as when a client submits while
	// the expiry callback is still on its way to the session.
	var submitted domain.GradeResult
	session.countdown = timer.NewCountdownWithScheduler(quiz.TimeLimit, timer.Hooks{
		OnTick: session.onTick,
		OnExpire: func() {
			submitted, _ = session.submit()
			session.onTimeUp()
		},
	}, time.Second, st.AfterFunc)

	events, cancel := session.subscribe()
	defer cancel()

	session.Start()
	st.next()

	if submitted.Reason != domain.ReasonTimeUp {
		t.Fatalf("expected time-up reason, got %q", submitted.Reason)
	}
	timeUps, results := 0, 0
	for done := false; !done; {
		select {
		case ev := <-events:
			switch ev.Type {
			case domain.EventTimeUp:
				timeUps++
			case domain.EventResult:
				results++
			case domain.EventSubmitted:
				t.Fatalf("unexpected submitted event on an expired timer")
			}
		default:
			done = true
		}
	}
	if timeUps != 1 || results != 1 {
		t.Fatalf("expected one timeUp and one result, got %d and %d", timeUps, results)
	}
}
