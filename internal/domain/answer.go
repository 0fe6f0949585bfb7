package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type answerKind uint8

const (
	answerNone answerKind = iota
	answerText
	answerChoices
)

// Answer holds either a single string or a set of strings, matching the
// `string | string[]` JSON shape used for both answer keys and user answers.
// The zero value means no answer was given.
type Answer struct {
	kind    answerKind
	text    string
	choices []string
}

// TextAnswer builds a single-value answer (single-choice id or free text).
func TextAnswer(s string) Answer {
	return Answer{kind: answerText, text: s}
}

// ChoiceAnswer builds a set answer. The ids are copied.
func ChoiceAnswer(ids ...string) Answer {
	return Answer{kind: answerChoices, choices: append([]string{}, ids...)}
}

// IsZero reports whether no answer was given.
func (a Answer) IsZero() bool {
	return a.kind == answerNone
}

// Text returns the single value and whether the answer has that shape.
func (a Answer) Text() (string, bool) {
	return a.text, a.kind == answerText
}

// Choices returns a copy of the set value and whether the answer has that shape.
func (a Answer) Choices() ([]string, bool) {
	if a.kind != answerChoices {
		return nil, false
	}
	return append([]string{}, a.choices...), true
}

// Contains reports whether id is the single value or a member of the set.
func (a Answer) Contains(id string) bool {
	switch a.kind {
	case answerText:
		return a.text == id
	case answerChoices:
		for _, c := range a.choices {
			if c == id {
				return true
			}
		}
	}
	return false
}

// Toggle returns a set answer with id added if absent or removed if present.
// A non-set receiver is treated as an empty set.
func (a Answer) Toggle(id string) Answer {
	var current []string
	if a.kind == answerChoices {
		current = a.choices
	}
	next := make([]string, 0, len(current)+1)
	found := false
	for _, c := range current {
		if c == id {
			found = true
			continue
		}
		next = append(next, c)
	}
	if !found {
		next = append(next, id)
	}
	return Answer{kind: answerChoices, choices: next}
}

func (a Answer) clone() Answer {
	if a.kind == answerChoices {
		a.choices = append([]string{}, a.choices...)
	}
	return a
}

func (a Answer) String() string {
	switch a.kind {
	case answerText:
		return a.text
	case answerChoices:
		return fmt.Sprint(a.choices)
	}
	return ""
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case answerText:
		return json.Marshal(a.text)
	case answerChoices:
		if a.choices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.choices)
	}
	return []byte("null"), nil
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = Answer{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = TextAnswer(s)
		return nil
	case len(data) > 0 && data[0] == '[':
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return err
		}
		*a = ChoiceAnswer(ids...)
		return nil
	}
	return fmt.Errorf("answer must be a string or a list of strings, got %s", data)
}
