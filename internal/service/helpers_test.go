package service

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"ai-workflow-be/internal/entity"
	"ai-workflow-be/internal/pkg/logger"
	"ai-workflow-be/internal/repository/memory"
	"ai-workflow-be/pkg/llm"
	"ai-workflow-be/pkg/llm/mock"
	"ai-workflow-be/pkg/workflow"
)

func newGateway(provider *mock.Provider) *llm.Gateway {
	return llm.NewGateway(provider, time.Second)
}

func newInterviewEngine(gen llm.Generator) *InterviewEngine {
	repo := memory.NewSessionRepository("interview", 0, entity.CloneInterviewSession)
	return workflow.NewEngine[entity.InterviewConfig, entity.InterviewTurn, entity.InterviewState]("InterviewEngine", repo, gen, nil, logger.NewNopLogger())
}

func newQuizEngine(gen llm.Generator) *QuizEngine {
	repo := memory.NewSessionRepository("quiz", 0, entity.CloneQuizSession)
	return workflow.NewEngine[entity.QuizConfig, entity.Question, entity.QuizState]("QuizEngine", repo, gen, nil, logger.NewNopLogger())
}

func newLabEngine(gen llm.Generator) *LabEngine {
	repo := memory.NewSessionRepository("lab", 0, entity.CloneLabSession)
	return workflow.NewEngine[entity.LabConfig, entity.LabStep, entity.LabState]("LabEngine", repo, gen, nil, logger.NewNopLogger())
}

// questionsJSON renders n multiple choice questions labelled with prefix.
func questionsJSON(t *testing.T, prefix string, n int) string {
	t.Helper()
	questions := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, map[string]any{
			"type":          "multipleChoice",
			"question":      fmt.Sprintf("%s question %d?", prefix, i+1),
			"options":       []string{"A) right", "B) wrong", "C) worse", "D) worst"},
			"correctAnswer": "A) right",
			"explanation":   fmt.Sprintf("%s explanation %d", prefix, i+1),
		})
	}
	b, err := json.Marshal(questions)
	if err != nil {
		t.Fatal(err)
	}
	return "```json\n" + string(b) + "\n```"
}

func intPtr(i int) *int {
	return &i
}
