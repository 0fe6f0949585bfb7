package domain

import (
	"fmt"
	"time"
)

// QuestionType identifies how a question is answered and graded.
type QuestionType string

const (
	SingleChoice   QuestionType = "mcq-single"
	MultipleChoice QuestionType = "mcq-multiple"
	FillInBlank    QuestionType = "fill-in-the-blank"
)

// Option represents a possible answer for a choice question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question models a single quiz item together with its answer key.
type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Text          string       `json:"text"`
	Options       []Option     `json:"options,omitempty"`
	CorrectAnswer Answer       `json:"correctAnswer"`
}

// HasOption reports whether optionID belongs to the question.
func (q Question) HasOption(optionID string) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// PublicQuestion is a question stripped of its answer key.
type PublicQuestion struct {
	ID      string       `json:"id"`
	Type    QuestionType `json:"type"`
	Text    string       `json:"text"`
	Options []Option     `json:"options,omitempty"`
}

// QuizSet is an ordered collection of questions with a time limit in seconds.
type QuizSet struct {
	ID        string     `json:"id,omitempty"`
	Questions []Question `json:"questions"`
	TimeLimit int        `json:"timeLimit"`
}

// Question looks up a question by id.
func (q QuizSet) Question(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// Public returns the questions without their answer keys.
func (q QuizSet) Public() []PublicQuestion {
	out := make([]PublicQuestion, 0, len(q.Questions))
	for _, question := range q.Questions {
		out = append(out, PublicQuestion{
			ID:      question.ID,
			Type:    question.Type,
			Text:    question.Text,
			Options: append([]Option(nil), question.Options...),
		})
	}
	return out
}

// Validate checks that every answer key has the shape its question type expects.
func (q QuizSet) Validate() error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidQuiz)
	}
	if q.TimeLimit < 0 {
		return fmt.Errorf("%w: negative time limit %d", ErrInvalidQuiz, q.TimeLimit)
	}
	seen := make(map[string]struct{}, len(q.Questions))
	for _, question := range q.Questions {
		if question.ID == "" {
			return fmt.Errorf("%w: question without id", ErrInvalidQuiz)
		}
		if _, dup := seen[question.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidQuiz, question.ID)
		}
		seen[question.ID] = struct{}{}
		if err := question.validate(); err != nil {
			return fmt.Errorf("%w: question %q: %v", ErrInvalidQuiz, question.ID, err)
		}
	}
	return nil
}

func (q Question) validate() error {
	switch q.Type {
	case FillInBlank:
		if len(q.Options) > 0 {
			return fmt.Errorf("fill-in-the-blank must not have options")
		}
		if _, ok := q.CorrectAnswer.Text(); !ok {
			return fmt.Errorf("correct answer must be a string")
		}
	case SingleChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("single-choice needs options")
		}
		key, ok := q.CorrectAnswer.Text()
		if !ok {
			return fmt.Errorf("correct answer must be a string")
		}
		if !q.HasOption(key) {
			return fmt.Errorf("correct answer %q is not an option", key)
		}
	case MultipleChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("multiple-choice needs options")
		}
		keys, ok := q.CorrectAnswer.Choices()
		if !ok {
			return fmt.Errorf("correct answer must be a list")
		}
		if len(keys) == 0 {
			return fmt.Errorf("correct answer must not be empty")
		}
		for _, key := range keys {
			if !q.HasOption(key) {
				return fmt.Errorf("correct answer %q is not an option", key)
			}
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}

	ids := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := ids[opt.ID]; dup {
			return fmt.Errorf("duplicate option id %q", opt.ID)
		}
		ids[opt.ID] = struct{}{}
	}
	return nil
}

// AnswerSheet maps question ids to the user's submitted answers.
type AnswerSheet map[string]Answer

// Clone returns a copy that shares no slices with the receiver.
func (s AnswerSheet) Clone() AnswerSheet {
	out := make(AnswerSheet, len(s))
	for id, answer := range s {
		out[id] = answer.clone()
	}
	return out
}

// OptionMark is the highlight an option receives once answers are revealed.
type OptionMark string

const (
	MarkCorrect   OptionMark = "correct"
	MarkIncorrect OptionMark = "incorrect"
	MarkNeutral   OptionMark = "neutral"
)

// OptionFeedback pairs an option with its highlight.
type OptionFeedback struct {
	OptionID string     `json:"optionId"`
	Selected bool       `json:"selected"`
	Mark     OptionMark `json:"mark"`
}

// QuestionFeedback is the per-question review shown after grading.
type QuestionFeedback struct {
	QuestionID string           `json:"questionId"`
	Correct    bool             `json:"correct"`
	Answered   bool             `json:"answered"`
	Answer     Answer           `json:"answer"`
	Expected   Answer           `json:"expected"`
	Options    []OptionFeedback `json:"options,omitempty"`
}

// GradeReason records which terminal event produced a grade.
type GradeReason string

const (
	ReasonSubmitted GradeReason = "submitted"
	ReasonTimeUp    GradeReason = "timeUp"
)

// GradeResult is the number of correct answers out of the total question count.
type GradeResult struct {
	Correct  int                `json:"correct"`
	Total    int                `json:"total"`
	Reason   GradeReason        `json:"reason,omitempty"`
	Feedback []QuestionFeedback `json:"feedback,omitempty"`
	GradedAt time.Time          `json:"gradedAt"`
}

// TimerState is the externally visible state of a countdown.
type TimerState string

const (
	TimerRunning TimerState = "running"
	TimerStopped TimerState = "stopped"
	TimerExpired TimerState = "expired"
)

// EventType names a session notification.
type EventType string

const (
	EventAnswerChanged EventType = "answerChanged"
	EventTick          EventType = "tick"
	EventTimeUp        EventType = "timeUp"
	EventSubmitted     EventType = "submitted"
	EventResult        EventType = "result"
)

// SessionEvent is pushed to session subscribers.
type SessionEvent struct {
	Type       EventType    `json:"type"`
	SessionID  string       `json:"sessionId"`
	QuestionID string       `json:"questionId,omitempty"`
	Answer     *Answer      `json:"answer,omitempty"`
	Remaining  int          `json:"remaining"`
	Display    string       `json:"display,omitempty"`
	Result     *GradeResult `json:"result,omitempty"`
}

// SessionSnapshot is a read-only view of a session's state store.
type SessionSnapshot struct {
	SessionID string           `json:"sessionId"`
	QuizID    string           `json:"quizId"`
	Questions []PublicQuestion `json:"questions"`
	TimeLimit int              `json:"timeLimit"`
	Remaining int              `json:"remaining"`
	Display   string           `json:"display"`
	Timer     TimerState       `json:"timer"`
	Answers   AnswerSheet      `json:"answers"`
	Result    *GradeResult     `json:"result,omitempty"`
	StartedAt time.Time        `json:"startedAt"`
}
