package entity

import (
	"encoding/json"
	"strconv"

	"ai-workflow-be/pkg/store"
)

type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multipleChoice"
	QuestionTypeTrueFalse      QuestionType = "trueFalse"
	QuestionTypeShortAnswer    QuestionType = "shortAnswer"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalse, QuestionTypeShortAnswer:
		return true
	}
	return false
}

// Answer is a correct answer as the model emits it. Models write true/false
// answers as JSON booleans as often as strings, so both decode.
type Answer string

func (a *Answer) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = Answer(s)
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*a = Answer(strconv.FormatBool(v))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = Answer(n.String())
	return nil
}

type Question struct {
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer Answer       `json:"correctAnswer"`
	Explanation   string       `json:"explanation"`
}

type QuizConfig struct {
	NumberOfQuestions int    `json:"numberOfQuestions"`
	Difficulty        string `json:"difficulty"`
	Category          string `json:"category"`
}

type AnswerRecord struct {
	QuestionIndex int    `json:"questionIndex"`
	UserAnswer    string `json:"userAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

// QuizState maps the session cursor onto the shared question pool and keeps
// the graded answers. The question served at cursor c is pool[Offset+c].
type QuizState struct {
	Offset  int            `json:"offset"`
	Answers []AnswerRecord `json:"answers"`
}

// Score counts correct answers, each question at most once.
func (s QuizState) Score() int {
	score := 0
	for _, a := range s.Answers {
		if a.IsCorrect {
			score++
		}
	}
	return score
}

// Record stores the grade for a question, replacing an earlier attempt.
func (s *QuizState) Record(rec AnswerRecord) {
	for i := range s.Answers {
		if s.Answers[i].QuestionIndex == rec.QuestionIndex {
			s.Answers[i] = rec
			return
		}
	}
	s.Answers = append(s.Answers, rec)
}

type QuizSession = store.Session[QuizConfig, Question, QuizState]

func CloneQuizSession(s QuizSession) QuizSession {
	return s.Clone(func(d QuizState) QuizState {
		d.Answers = append([]AnswerRecord(nil), d.Answers...)
		return d
	})
}
