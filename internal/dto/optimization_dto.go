package dto

import (
	"encoding/json"
	"time"

	"ai-workflow-be/internal/entity"
)

// OptimizeRequest keeps the raw process steps; parameter values are checked
// and normalised by the service.
type OptimizeRequest struct {
	ProcessSteps map[string]map[string]json.RawMessage `json:"processSteps" validate:"required,min=1"`
}

type OptimizeResponse struct {
	Optimizations []entity.Optimization       `json:"optimizations"`
	Summary       any                         `json:"summary"`
	Metadata      entity.OptimizationMetadata `json:"metadata"`
	FromCache     bool                        `json:"fromCache"`
}

type OptimizationHistoryItem struct {
	Id        string                    `json:"id"`
	Result    entity.OptimizationResult `json:"result"`
	ExpiresAt time.Time                 `json:"expiresAt"`
}

type DeleteResultResponse struct {
	Message string `json:"message"`
}
