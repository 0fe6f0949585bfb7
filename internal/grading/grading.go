// Package grading compares answers with a quiz's answer keys.
//
// IsCorrect is the only place answers are compared. Grade, Review and the
// option highlights all go through it, so scoring and feedback cannot drift.
package grading

import (
	"sort"
	"strings"

	"timed-quiz-service/internal/domain"
)

// IsCorrect reports whether answer satisfies the question's key. Missing or
// wrongly shaped answers are incorrect, never an error.
func IsCorrect(question domain.Question, answer domain.Answer) bool {
	switch question.Type {
	case domain.FillInBlank:
		got, ok := answer.Text()
		want, keyOK := question.CorrectAnswer.Text()
		if !ok || !keyOK {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want))
	case domain.MultipleChoice:
		got, ok := answer.Choices()
		want, keyOK := question.CorrectAnswer.Choices()
		if !ok || !keyOK {
			return false
		}
		return sameMembers(got, want)
	case domain.SingleChoice:
		got, ok := answer.Text()
		want, keyOK := question.CorrectAnswer.Text()
		return ok && keyOK && got == want
	}
	return false
}

// Grade counts the questions answered correctly. There is no partial credit.
func Grade(quiz domain.QuizSet, sheet domain.AnswerSheet) domain.GradeResult {
	result := domain.GradeResult{Total: len(quiz.Questions)}
	for _, question := range quiz.Questions {
		if IsCorrect(question, sheet[question.ID]) {
			result.Correct++
		}
	}
	return result
}

// Review grades the sheet and attaches per-question feedback.
func Review(quiz domain.QuizSet, sheet domain.AnswerSheet) domain.GradeResult {
	result := domain.GradeResult{
		Total:    len(quiz.Questions),
		Feedback: make([]domain.QuestionFeedback, 0, len(quiz.Questions)),
	}
	for _, question := range quiz.Questions {
		answer := sheet[question.ID]
		fb := domain.QuestionFeedback{
			QuestionID: question.ID,
			Correct:    IsCorrect(question, answer),
			Answered:   !answer.IsZero(),
			Answer:     answer,
			Expected:   question.CorrectAnswer,
		}
		if fb.Correct {
			result.Correct++
		}
		for _, opt := range question.Options {
			fb.Options = append(fb.Options, domain.OptionFeedback{
				OptionID: opt.ID,
				Selected: answer.Contains(opt.ID),
				Mark:     MarkOption(question, answer, opt.ID),
			})
		}
		result.Feedback = append(result.Feedback, fb)
	}
	return result
}

// MarkOption returns the highlight for one option of a choice question:
// key options are always correct, selected non-key options are incorrect.
func MarkOption(question domain.Question, answer domain.Answer, optionID string) domain.OptionMark {
	switch {
	case question.CorrectAnswer.Contains(optionID):
		return domain.MarkCorrect
	case answer.Contains(optionID):
		return domain.MarkIncorrect
	}
	return domain.MarkNeutral
}

// sameMembers compares canonical sorted, deduplicated copies of a and b.
func sameMembers(a, b []string) bool {
	ca, cb := canonical(a), canonical(b)
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return true
}

func canonical(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	n := 0
	for i, id := range out {
		if i > 0 && id == out[n-1] {
			continue
		}
		out[n] = id
		n++
	}
	return out[:n]
}
