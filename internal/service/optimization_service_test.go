package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ai-workflow-be/internal/dto"
	"ai-workflow-be/internal/entity"
	"ai-workflow-be/internal/pkg/logger"
	"ai-workflow-be/pkg/apperror"
	"ai-workflow-be/pkg/cache"
	"ai-workflow-be/pkg/llm/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const optimizationJSON = `{
	"optimizations": [
		{"step": "pasteurisation", "parameter": "temperature", "currentValue": 80, "recommendedValue": 72, "suggestion": "HTST is sufficient", "expectedImpact": "lower energy use"}
	],
	"summary": "Lower the pasteurisation temperature."
}`

func newOptimizationService(provider *mock.Provider) IOptimizationService {
	results := cache.NewMemoryCache[entity.OptimizationResult](time.Hour)
	return NewOptimizationService(newGateway(provider), results, time.Hour, nil, logger.NewNopLogger())
}

func optimizeRequest(t *testing.T, body string) *dto.OptimizeRequest {
	t.Helper()
	var req dto.OptimizeRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func TestValidateProcessSteps(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"temperature above max", `{"processSteps": {"heating": {"Temperature": 200}}}`, "processSteps.heating.Temperature"},
		{"negative pressure", `{"processSteps": {"filling": {"pressure": -1}}}`, "processSteps.filling.pressure"},
		{"time over a day", `{"processSteps": {"aging": {"time": 25}}}`, "processSteps.aging.time"},
		{"flow rate alias", `{"processSteps": {"pumping": {"flow_rate": 101}}}`, "processSteps.pumping.flow_rate"},
		{"speed too fast", `{"processSteps": {"mixing": {"Speed": 6000}}}`, "processSteps.mixing.Speed"},
		{"non numeric", `{"processSteps": {"heating": {"temperature": "hot"}}}`, "processSteps.heating.temperature"},
		{"boolean", `{"processSteps": {"heating": {"temperature": true}}}`, "processSteps.heating.temperature"},
		{"null value", `{"processSteps": {"heating": {"temperature": null}}}`, "processSteps.heating.temperature"},
		{"unknown negative", `{"processSteps": {"heating": {"humidity": -5}}}`, "processSteps.heating.humidity"},
		{"step without parameters", `{"processSteps": {"heating": {}}}`, "processSteps.heating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateProcessSteps(optimizeRequest(t, tt.body).ProcessSteps)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrValidation)

			var appErr *apperror.Error
			require.True(t, errors.As(err, &appErr))
			assert.Contains(t, appErr.Details, tt.wantErr)
		})
	}
}

func TestValidateProcessStepsAcceptsBoundsAndNumericStrings(t *testing.T) {
	steps, err := ValidateProcessSteps(optimizeRequest(t, `{"processSteps": {
		"heating": {"temperature": 150, "time": "0.5"},
		"mixing": {"speed": 0, "Flow Rate": 100, "humidity": 40}
	}}`).ProcessSteps)
	require.NoError(t, err)
	assert.Equal(t, 0.5, steps["heating"]["time"])
	assert.Equal(t, float64(40), steps["mixing"]["humidity"])
	assert.Equal(t, 5, steps.ParameterCount())
}

func TestOptimizeRejectsBeforeGenerating(t *testing.T) {
	provider := mock.NewProvider(optimizationJSON)
	svc := newOptimizationService(provider)

	_, err := svc.Optimize(context.Background(), optimizeRequest(t, `{"processSteps": {"heating": {"Temperature": 200}}}`))
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Zero(t, provider.Calls())
}

func TestOptimizeRejectsNullWithoutGenerating(t *testing.T) {
	provider := mock.NewProvider(optimizationJSON)
	svc := newOptimizationService(provider)

	_, err := svc.Optimize(context.Background(), optimizeRequest(t, `{"processSteps": {"heating": {"temperature": null}}}`))
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Zero(t, provider.Calls())
}

func TestOptimizeCachesIdenticalInput(t *testing.T) {
	ctx := context.Background()
	provider := mock.NewProvider(optimizationJSON)
	svc := newOptimizationService(provider)

	first, err := svc.Optimize(ctx, optimizeRequest(t, `{"processSteps": {"pasteurisation": {"temperature": 80, "time": 1}}}`))
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	require.Len(t, first.Optimizations, 1)
	assert.Equal(t, "pasteurisation", first.Optimizations[0].Step)
	assert.Equal(t, "Lower the pasteurisation temperature.", first.Summary)
	assert.Equal(t, 1, first.Metadata.StepCount)
	assert.Equal(t, 2, first.Metadata.ParameterCount)
	assert.NotEmpty(t, first.Metadata.Id)

	// same steps, different key order and a numeric string
	second, err := svc.Optimize(ctx, optimizeRequest(t, `{"processSteps": {"pasteurisation": {"time": "1", "temperature": 80}}}`))
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Metadata, second.Metadata)
	assert.Equal(t, 1, provider.Calls())

	result, err := svc.GetResult(ctx, first.Metadata.Id)
	require.NoError(t, err)
	assert.Equal(t, float64(80), result.ProcessSteps["pasteurisation"]["temperature"])

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, first.Metadata.Id, history[0].Id)

	require.NoError(t, svc.DeleteResult(ctx, first.Metadata.Id))
	assert.ErrorIs(t, svc.DeleteResult(ctx, first.Metadata.Id), apperror.ErrNotFound)
	_, err = svc.GetResult(ctx, first.Metadata.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestOptimizeInvalidResponseIsNotCached(t *testing.T) {
	ctx := context.Background()
	provider := mock.NewProvider(`{"optimizations": []}`, "sorry, I cannot help")
	svc := newOptimizationService(provider)
	req := `{"processSteps": {"heating": {"temperature": 90}}}`

	_, err := svc.Optimize(ctx, optimizeRequest(t, req))
	assert.ErrorIs(t, err, apperror.ErrInvalidResponseShape)

	_, err = svc.Optimize(ctx, optimizeRequest(t, req))
	assert.ErrorIs(t, err, apperror.ErrMalformedResponse)

	history, err := svc.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, 2, provider.Calls())
}
