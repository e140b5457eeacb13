package prompt

import (
	"testing"

	"ai-workflow-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestInterviewQuestionEmbedsContext(t *testing.T) {
	cfg := entity.InterviewConfig{JobRole: "Backend Engineer", Difficulty: "senior", InterviewType: "technical", NumQuestions: 5}
	previous := []entity.InterviewTurn{
		{Question: "How do you design an idempotent API?"},
		{Question: "Explain database isolation levels."},
	}

	p := InterviewQuestion(cfg, 2, previous)

	assert.Contains(t, p, "Backend Engineer")
	assert.Contains(t, p, "senior")
	assert.Contains(t, p, "technical")
	assert.Contains(t, p, "question 3 of 5")
	assert.Contains(t, p, "1. How do you design an idempotent API?")
	assert.Contains(t, p, "2. Explain database isolation levels.")
	assert.Contains(t, p, "skill area")
}

func TestInterviewQuestionFirstHasNoPrevious(t *testing.T) {
	p := InterviewQuestion(entity.InterviewConfig{JobRole: "QA", NumQuestions: 1}, 0, nil)
	assert.Contains(t, p, "question 1 of 1")
	assert.Contains(t, p, "<previous_questions>\n(none)\n</previous_questions>")
}

func TestInterviewSummaryMarksUnanswered(t *testing.T) {
	p := InterviewSummary(entity.InterviewConfig{JobRole: "QA"}, []entity.InterviewTurn{
		{Question: "Q one", Answer: "A one"},
		{Question: "Q two"},
	})
	assert.Contains(t, p, "Q1: Q one\nA1: A one")
	assert.Contains(t, p, "A2: (not answered)")
}

func TestProcessOptimizationIsDeterministic(t *testing.T) {
	steps := entity.ProcessSteps{
		"mixing":  {"temperature": 80, "time": 2},
		"cooling": {"temperature": 4},
	}
	first := ProcessOptimization(steps)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ProcessOptimization(steps))
	}
	assert.Contains(t, first, "Step: cooling\n  - temperature: 4\nStep: mixing\n  - temperature: 80\n  - time: 2\n")
	assert.Contains(t, first, `"optimizations"`)
	assert.Contains(t, first, `"summary"`)
}

func TestQuizQuestionsRequestsCount(t *testing.T) {
	p := QuizQuestions("easy", "hygiene", 5)
	assert.Contains(t, p, "Write 5 easy quiz questions about hygiene.")
	assert.Contains(t, p, "multipleChoice")
}

func TestLabStepListsProgress(t *testing.T) {
	intro := entity.ExperimentIntroduction{Procedure: []string{"Weigh salt", "Dissolve in water"}}
	p := LabStep(entity.LabConfig{ExperimentName: "Salt solution"}, intro, 2, 2, []entity.LabStep{{Number: 1, Instructions: "Weigh 5g of salt"}})
	assert.Contains(t, p, "step 2 of 2")
	assert.Contains(t, p, "Salt solution (beginner level)")
	assert.Contains(t, p, "<completed_steps>\n1. Weigh 5g of salt\n</completed_steps>")
}
