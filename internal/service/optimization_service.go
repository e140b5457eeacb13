package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"ai-workflow-be/internal/dto"
	"ai-workflow-be/internal/entity"
	"ai-workflow-be/internal/pkg/logger"
	"ai-workflow-be/pkg/apperror"
	"ai-workflow-be/pkg/cache"
	"ai-workflow-be/pkg/events"
	"ai-workflow-be/pkg/extract"
	"ai-workflow-be/pkg/llm"
	"ai-workflow-be/pkg/prompt"
)

const optimizationModule = "OptimizationService"

var optimizationSchema = extract.Schema{
	Name: "optimization",
	Kind: extract.Object,
	Fields: map[string]extract.ValueKind{
		"optimizations": extract.Array,
		"summary":       extract.Any,
	},
}

type parameterBound struct {
	min, max float64
}

// parameterBounds is keyed by the normalised parameter name.
var parameterBounds = map[string]parameterBound{
	"temperature": {0, 150},
	"pressure":    {0, 10},
	"time":        {0, 24},
	"speed":       {0, 5000},
	"flowrate":    {0, 100},
}

func normalizeParameterName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(name)
}

func parseParameterValue(raw json.RawMessage) (float64, bool) {
	var num *float64
	if err := json.Unmarshal(raw, &num); err == nil {
		if num == nil {
			return 0, false
		}
		return *num, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ValidateProcessSteps checks every parameter against its bounds and returns
// the steps with numeric values. All violations are reported together.
func ValidateProcessSteps(raw map[string]map[string]json.RawMessage) (entity.ProcessSteps, error) {
	problems := make(map[string]string)
	steps := make(entity.ProcessSteps, len(raw))

	for step, params := range raw {
		if strings.TrimSpace(step) == "" {
			problems["processSteps"] = "step names must not be empty"
			continue
		}
		if len(params) == 0 {
			problems["processSteps."+step] = "must have at least one parameter"
			continue
		}
		values := make(map[string]float64, len(params))
		for name, value := range params {
			field := fmt.Sprintf("processSteps.%s.%s", step, name)
			n, ok := parseParameterValue(value)
			if !ok {
				problems[field] = "must be numeric"
				continue
			}
			bound, known := parameterBounds[normalizeParameterName(name)]
			if !known {
				bound = parameterBound{0, math.MaxFloat64}
			}
			if n < bound.min || n > bound.max {
				if known {
					problems[field] = fmt.Sprintf("must be between %g and %g", bound.min, bound.max)
				} else {
					problems[field] = "must not be negative"
				}
				continue
			}
			values[name] = n
		}
		steps[step] = values
	}

	if len(problems) > 0 {
		fields := make([]string, 0, len(problems))
		for f := range problems {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		return nil, apperror.Validation(fmt.Sprintf("invalid process parameters: %s", strings.Join(fields, ", ")), problems)
	}
	return steps, nil
}

type IOptimizationService interface {
	Optimize(ctx context.Context, request *dto.OptimizeRequest) (*dto.OptimizeResponse, error)
	History(ctx context.Context) ([]*dto.OptimizationHistoryItem, error)
	GetResult(ctx context.Context, id string) (*entity.OptimizationResult, error)
	DeleteResult(ctx context.Context, id string) error
}

type optimizationService struct {
	gen       llm.Generator
	results   cache.ResultCache[entity.OptimizationResult]
	ttl       time.Duration
	publisher events.Publisher
	logger    logger.ILogger
}

func NewOptimizationService(
	gen llm.Generator,
	results cache.ResultCache[entity.OptimizationResult],
	ttl time.Duration,
	publisher events.Publisher,
	log logger.ILogger,
) IOptimizationService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &optimizationService{
		gen:       gen,
		results:   results,
		ttl:       ttl,
		publisher: publisher,
		logger:    log,
	}
}

func toOptimizeResponse(result entity.OptimizationResult, fromCache bool) *dto.OptimizeResponse {
	return &dto.OptimizeResponse{
		Optimizations: result.Optimizations,
		Summary:       result.Summary,
		Metadata:      result.Metadata,
		FromCache:     fromCache,
	}
}

func (s *optimizationService) Optimize(ctx context.Context, request *dto.OptimizeRequest) (*dto.OptimizeResponse, error) {
	steps, err := ValidateProcessSteps(request.ProcessSteps)
	if err != nil {
		s.logger.Warn(optimizationModule, "Process steps rejected", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	key, err := cache.Key(steps)
	if err != nil {
		return nil, err
	}
	cached, found, err := s.results.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if found {
		s.logger.Debug(optimizationModule, "Cache hit", map[string]interface{}{"id": key})
		return toOptimizeResponse(cached, true), nil
	}

	raw, err := s.gen.Generate(ctx, prompt.ProcessOptimization(steps))
	if err != nil {
		s.logger.Error(optimizationModule, "Optimization generation failed", map[string]interface{}{"id": key, "error": err.Error()})
		return nil, err
	}
	var out struct {
		Optimizations []entity.Optimization `json:"optimizations"`
		Summary       any                   `json:"summary"`
	}
	if err := extract.Decode(raw, optimizationSchema, &out); err != nil {
		s.logger.Error(optimizationModule, "Optimization response rejected", map[string]interface{}{"id": key, "error": err.Error()})
		return nil, err
	}

	result := entity.OptimizationResult{
		ProcessSteps:  steps,
		Optimizations: out.Optimizations,
		Summary:       out.Summary,
		Metadata: entity.OptimizationMetadata{
			Id:             key,
			GeneratedAt:    time.Now().UTC(),
			StepCount:      len(steps),
			ParameterCount: steps.ParameterCount(),
		},
	}
	if err := s.results.Set(ctx, key, result, s.ttl); err != nil {
		return nil, err
	}

	s.logger.Info(optimizationModule, "Optimization generated", map[string]interface{}{"id": key, "optimizations": len(result.Optimizations)})
	if err := s.publisher.Publish(ctx, events.New(events.TypeOptimizationGenerated, map[string]interface{}{
		"id":    key,
		"steps": len(steps),
	})); err != nil {
		s.logger.Warn(optimizationModule, "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}
	return toOptimizeResponse(result, false), nil
}

func (s *optimizationService) History(ctx context.Context) ([]*dto.OptimizationHistoryItem, error) {
	entries, err := s.results.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.OptimizationHistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, &dto.OptimizationHistoryItem{Id: e.Key, Result: e.Value, ExpiresAt: e.ExpiresAt})
	}
	return items, nil
}

func (s *optimizationService) GetResult(ctx context.Context, id string) (*entity.OptimizationResult, error) {
	result, found, err := s.results.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("optimization result %s not found", id)
	}
	return &result, nil
}

func (s *optimizationService) DeleteResult(ctx context.Context, id string) error {
	deleted, err := s.results.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("optimization result %s not found", id)
	}
	s.logger.Info(optimizationModule, "Optimization result deleted", map[string]interface{}{"id": id})
	return nil
}
