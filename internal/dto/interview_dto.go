package dto

import "ai-workflow-be/internal/entity"

type StartInterviewRequest struct {
	JobRole       string `json:"jobRole" validate:"required"`
	Difficulty    string `json:"difficulty" validate:"required"`
	InterviewType string `json:"interviewType" validate:"required"`
	NumQuestions  int    `json:"numQuestions" validate:"required,min=1,max=50"`
}

type SessionResponse struct {
	SessionId string `json:"sessionId"`
}

type SessionRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
}

// QuestionResponse carries either the next question or Completed.
type QuestionResponse struct {
	Question      string `json:"question,omitempty"`
	QuestionIndex *int   `json:"questionIndex,omitempty"`
	Total         int    `json:"total,omitempty"`
	Completed     bool   `json:"completed,omitempty"`
}

type FeedbackRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
	Answer    string `json:"answer" validate:"required"`
}

type FeedbackResponse struct {
	Feedback []entity.FeedbackSection `json:"feedback"`
}

type InterviewSummaryResponse struct {
	Summary []entity.FeedbackSection `json:"summary"`
}
