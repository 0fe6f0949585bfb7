// Package quizschema validates raw quiz payloads before they are decoded.
package quizschema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"

	"timed-quiz-service/internal/domain"
)

//go:embed quiz.schema.json
var quizSchema string

var schemaLoader = gojsonschema.NewStringLoader(quizSchema)

// Validate checks raw against the quiz JSON schema.
func Validate(raw []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return errors.Wrap(domain.ErrInvalidQuiz, err.Error())
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.Wrap(domain.ErrInvalidQuiz, strings.Join(msgs, "; "))
}

// Decode validates raw against the schema, decodes it and checks the
// answer-key invariants. fallbackID is used when the payload carries no id.
func Decode(raw []byte, fallbackID string) (domain.QuizSet, error) {
	if err := Validate(raw); err != nil {
		return domain.QuizSet{}, err
	}
	var quiz domain.QuizSet
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.QuizSet{}, errors.Wrap(domain.ErrInvalidQuiz, fmt.Sprintf("decode: %v", err))
	}
	if quiz.ID == "" {
		quiz.ID = fallbackID
	}
	if err := quiz.Validate(); err != nil {
		return domain.QuizSet{}, err
	}
	return quiz, nil
}
