package entity

import (
	"time"

	"ai-workflow-be/pkg/store"
)

type InterviewConfig struct {
	JobRole       string `json:"jobRole"`
	Difficulty    string `json:"difficulty"`
	InterviewType string `json:"interviewType"`
	NumQuestions  int    `json:"numQuestions"`
}

// FeedbackSection is one titled block of interview feedback or summary.
type FeedbackSection struct {
	Section string `json:"section"`
	Content string `json:"content"`
}

// InterviewTurn is one asked question, filled in with the candidate's answer
// and its evaluation once feedback is requested.
type InterviewTurn struct {
	Question string            `json:"question"`
	Answer   string            `json:"answer,omitempty"`
	Feedback []FeedbackSection `json:"feedback,omitempty"`
	AskedAt  time.Time         `json:"askedAt"`
}

func (t InterviewTurn) Answered() bool {
	return t.Answer != ""
}

// InterviewState carries no model-derived data.
type InterviewState struct{}

type InterviewSession = store.Session[InterviewConfig, InterviewTurn, InterviewState]

func CloneInterviewSession(s InterviewSession) InterviewSession {
	s = s.Clone(nil)
	for i := range s.History {
		s.History[i].Feedback = append([]FeedbackSection(nil), s.History[i].Feedback...)
	}
	return s
}
