package dto

import "ai-workflow-be/internal/entity"

type StartQuizRequest struct {
	NumberOfQuestions int    `json:"numberOfQuestions" validate:"required,min=1,max=50"`
	Difficulty        string `json:"difficulty" validate:"required"`
	Category          string `json:"category" validate:"required"`
}

type PregenerateRequest struct {
	Difficulty string `json:"difficulty" validate:"required"`
	Category   string `json:"category" validate:"required"`
	Count      int    `json:"count" validate:"required,min=1,max=50"`
}

type PregenerateResponse struct {
	Generated int `json:"generated"`
	PoolSize  int `json:"poolSize"`
}

// QuizQuestionResponse is a served question, or QuizCompleted once the
// session has served all of its questions. The correct answer is withheld.
type QuizQuestionResponse struct {
	Type          entity.QuestionType `json:"type,omitempty"`
	Question      string              `json:"question,omitempty"`
	Options       []string            `json:"options,omitempty"`
	QuestionIndex *int                `json:"questionIndex,omitempty"`
	Total         int                 `json:"total,omitempty"`
	QuizCompleted bool                `json:"quizCompleted,omitempty"`
}

type CheckAnswerRequest struct {
	SessionId     string `json:"sessionId" validate:"required"`
	QuestionIndex *int   `json:"questionIndex" validate:"required,min=0"`
	UserAnswer    string `json:"userAnswer" validate:"required"`
}

type CheckAnswerResponse struct {
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation"`
	CorrectAnswer string `json:"correctAnswer"`
}

type CompleteQuizResponse struct {
	Message string `json:"message"`
	Score   int    `json:"score"`
	Total   int    `json:"total"`
}
