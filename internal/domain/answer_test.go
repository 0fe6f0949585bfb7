package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestAnswerDecodesBothShapes(t *testing.T) {
	var sheet AnswerSheet
	raw := `{"1":"c","2":["d","a","c"],"3":"  jupiter","4":null}`
	if err := json.Unmarshal([]byte(raw), &sheet); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if text, ok := sheet["1"].Text(); !ok || text != "c" {
		t.Fatalf("expected text answer, got %v", sheet["1"])
	}
	if ids, ok := sheet["2"].Choices(); !ok || len(ids) != 3 || ids[0] != "d" {
		t.Fatalf("expected set answer in given order, got %v", sheet["2"])
	}
	if !sheet["4"].IsZero() {
		t.Fatalf("expected null to decode as no answer")
	}

	if err := json.Unmarshal([]byte(`{"1":42}`), &sheet); err == nil {
		t.Fatalf("expected number to be rejected")
	}
}

func TestAnswerEncodesWireShape(t *testing.T) {
	out, err := json.Marshal(map[string]Answer{
		"a": TextAnswer("Jupiter"),
		"b": ChoiceAnswer("a", "c"),
		"c": ChoiceAnswer(),
		"d": {},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"a":"Jupiter","b":["a","c"],"c":[],"d":null}`
	if string(out) != want {
		t.Fatalf("got %s, want %s", out, want)
	}
}

func TestChoicesReturnsCopy(t *testing.T) {
	a := ChoiceAnswer("b", "a")
	ids, _ := a.Choices()
	ids[0] = "z"
	if again, _ := a.Choices(); again[0] != "b" {
		t.Fatalf("answer mutated through returned slice: %v", again)
	}
}

func TestToggle(t *testing.T) {
	a := Answer{}.Toggle("a").Toggle("b").Toggle("a")
	ids, ok := a.Choices()
	if !ok || len(ids) != 1 || ids[0] != "b" {
		t.Fatalf("expected [b], got %v", a)
	}

	orig := ChoiceAnswer("x", "y")
	_ = orig.Toggle("x")
	if ids, _ := orig.Choices(); len(ids) != 2 {
		t.Fatalf("toggle mutated receiver: %v", orig)
	}

	if ids, _ := TextAnswer("x").Toggle("y").Choices(); len(ids) != 1 || ids[0] != "y" {
		t.Fatalf("expected text receiver treated as empty set, got %v", ids)
	}
}

func TestValidateRejectsShapeMismatch(t *testing.T) {
	opts := []Option{{ID: "a"}, {ID: "b"}}
	cases := map[string]QuizSet{
		"empty":           {},
		"negative limit":  {TimeLimit: -1, Questions: []Question{{ID: "1", Type: FillInBlank, CorrectAnswer: TextAnswer("x")}}},
		"multi as string": {Questions: []Question{{ID: "1", Type: MultipleChoice, Options: opts, CorrectAnswer: TextAnswer("a")}}},
		"single as list":  {Questions: []Question{{ID: "1", Type: SingleChoice, Options: opts, CorrectAnswer: ChoiceAnswer("a")}}},
		"unknown key":     {Questions: []Question{{ID: "1", Type: SingleChoice, Options: opts, CorrectAnswer: TextAnswer("z")}}},
		"fill with opts":  {Questions: []Question{{ID: "1", Type: FillInBlank, Options: opts, CorrectAnswer: TextAnswer("a")}}},
		"unknown type":    {Questions: []Question{{ID: "1", Type: "essay", CorrectAnswer: TextAnswer("a")}}},
		"duplicate ids": {Questions: []Question{
			{ID: "1", Type: FillInBlank, CorrectAnswer: TextAnswer("a")},
			{ID: "1", Type: FillInBlank, CorrectAnswer: TextAnswer("b")},
		}},
		"multi without options":  {Questions: []Question{{ID: "1", Type: MultipleChoice, CorrectAnswer: ChoiceAnswer()}}},
		"multi empty key":        {Questions: []Question{{ID: "1", Type: MultipleChoice, Options: opts, CorrectAnswer: ChoiceAnswer()}}},
		"single without options": {Questions: []Question{{ID: "1", Type: SingleChoice, CorrectAnswer: TextAnswer("a")}}},
		"duplicate options":      {Questions: []Question{{ID: "1", Type: SingleChoice, Options: []Option{{ID: "a"}, {ID: "a"}}, CorrectAnswer: TextAnswer("a")}}},
	}
	for name, quiz := range cases {
		if err := quiz.Validate(); !errors.Is(err, ErrInvalidQuiz) {
			t.Fatalf("%s: expected ErrInvalidQuiz, got %v", name, err)
		}
	}
}

func TestPublicOmitsAnswerKeys(t *testing.T) {
	quiz := QuizSet{Questions: []Question{{ID: "1", Type: SingleChoice, Text: "q", Options: []Option{{ID: "a"}}, CorrectAnswer: TextAnswer("a")}}}
	out, err := json.Marshal(quiz.Public())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"id":"1","type":"mcq-single","text":"q","options":[{"id":"a","text":""}]}]`
	if string(out) != want {
		t.Fatalf("got %s, want %s", out, want)
	}
}
