package entity

import "time"

// ProcessSteps maps a step name to its named numeric parameters.
type ProcessSteps map[string]map[string]float64

func (p ProcessSteps) ParameterCount() int {
	n := 0
	for _, params := range p {
		n += len(params)
	}
	return n
}

type Optimization struct {
	Step             string `json:"step"`
	Parameter        string `json:"parameter,omitempty"`
	CurrentValue     any    `json:"currentValue,omitempty"`
	RecommendedValue any    `json:"recommendedValue,omitempty"`
	Suggestion       string `json:"suggestion,omitempty"`
	ExpectedImpact   string `json:"expectedImpact,omitempty"`
}

type OptimizationMetadata struct {
	Id             string    `json:"id"`
	GeneratedAt    time.Time `json:"generatedAt"`
	StepCount      int       `json:"stepCount"`
	ParameterCount int       `json:"parameterCount"`
}

// OptimizationResult is the cached outcome of one analysis.
type OptimizationResult struct {
	ProcessSteps  ProcessSteps         `json:"processSteps"`
	Optimizations []Optimization       `json:"optimizations"`
	Summary       any                  `json:"summary"`
	Metadata      OptimizationMetadata `json:"metadata"`
}
