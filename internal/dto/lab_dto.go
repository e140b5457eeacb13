package dto

import "ai-workflow-be/internal/entity"

type StartExperimentRequest struct {
	ExperimentName string `json:"experimentName" validate:"required"`
	Level          string `json:"level"`
	MaxSteps       int    `json:"maxSteps" validate:"omitempty,min=1,max=20"`
}

type StartExperimentResponse struct {
	SessionId    string                        `json:"sessionId"`
	Introduction entity.ExperimentIntroduction `json:"introduction"`
	TotalSteps   int                           `json:"totalSteps"`
}

type SelectEquipmentRequest struct {
	SessionId string   `json:"sessionId" validate:"required"`
	Equipment []string `json:"equipment" validate:"required,min=1,dive,required"`
}

type SelectEquipmentResponse struct {
	Analysis entity.EquipmentAnalysis `json:"analysis"`
}

type NextStepResponse struct {
	Step         int    `json:"step,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	TotalSteps   int    `json:"totalSteps,omitempty"`
	Completed    bool   `json:"completed,omitempty"`
}

type PerformActionRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
	Action    string `json:"action" validate:"required"`
}

type PerformActionResponse struct {
	Step   int                 `json:"step"`
	Result entity.ActionResult `json:"result"`
}

type AskQuestionRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
	Question  string `json:"question" validate:"required"`
}

type AskQuestionResponse struct {
	Answer string `json:"answer"`
}

type CompleteExperimentResponse struct {
	entity.LabSummary
}
