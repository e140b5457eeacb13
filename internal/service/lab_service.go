package service

import (
	"context"
	"strings"
	"time"

	"ai-workflow-be/internal/dto"
	"ai-workflow-be/internal/entity"
	"ai-workflow-be/internal/pkg/logger"
	"ai-workflow-be/pkg/apperror"
	"ai-workflow-be/pkg/extract"
	"ai-workflow-be/pkg/prompt"
	"ai-workflow-be/pkg/workflow"
)

const labModule = "LabService"

var (
	introductionSchema = extract.Schema{
		Name: "introduction",
		Kind: extract.Object,
		Fields: map[string]extract.ValueKind{
			"title":      extract.String,
			"objective":  extract.String,
			"background": extract.String,
			"procedure":  extract.Array,
			"safety":     extract.Array,
		},
	}
	equipmentSchema = extract.Schema{
		Name: "equipment",
		Kind: extract.Object,
		Fields: map[string]extract.ValueKind{
			"suitable":        extract.Bool,
			"analysis":        extract.String,
			"missing":         extract.Array,
			"recommendations": extract.Array,
		},
	}
	actionSchema = extract.Schema{
		Name: "action",
		Kind: extract.Object,
		Fields: map[string]extract.ValueKind{
			"outcome":      extract.String,
			"observations": extract.String,
			"correct":      extract.Bool,
			"feedback":     extract.String,
		},
	}
	labSummarySchema = extract.Schema{
		Name: "summary",
		Kind: extract.Object,
		Fields: map[string]extract.ValueKind{
			"summary":     extract.String,
			"conclusions": extract.Array,
			"score":       extract.Number,
		},
	}
)

type LabEngine = workflow.Engine[entity.LabConfig, entity.LabStep, entity.LabState]

type ILabService interface {
	StartExperiment(ctx context.Context, request *dto.StartExperimentRequest) (*dto.StartExperimentResponse, error)
	SelectEquipment(ctx context.Context, request *dto.SelectEquipmentRequest) (*dto.SelectEquipmentResponse, error)
	NextStep(ctx context.Context, sessionId string) (*dto.NextStepResponse, error)
	PerformAction(ctx context.Context, request *dto.PerformActionRequest) (*dto.PerformActionResponse, error)
	AskQuestion(ctx context.Context, request *dto.AskQuestionRequest) (*dto.AskQuestionResponse, error)
	CompleteExperiment(ctx context.Context, sessionId string) (*dto.CompleteExperimentResponse, error)
	ActiveSessions() int
}

type labService struct {
	engine *LabEngine
	logger logger.ILogger
}

func NewLabService(engine *LabEngine, log logger.ILogger) ILabService {
	return &labService{engine: engine, logger: log}
}

func (s *labService) StartExperiment(ctx context.Context, request *dto.StartExperimentRequest) (*dto.StartExperimentResponse, error) {
	cfg := entity.LabConfig{
		ExperimentName: request.ExperimentName,
		Level:          request.Level,
		MaxSteps:       request.MaxSteps,
	}
	if strings.TrimSpace(cfg.Level) == "" {
		cfg.Level = "beginner"
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = entity.DefaultLabMaxSteps
	}

	raw, err := s.engine.Generate(ctx, prompt.LabIntroduction(cfg))
	if err != nil {
		s.logger.Error(labModule, "Introduction generation failed", map[string]interface{}{"experiment": cfg.ExperimentName, "error": err.Error()})
		return nil, err
	}
	var intro entity.ExperimentIntroduction
	if err := extract.Decode(raw, introductionSchema, &intro); err != nil {
		s.logger.Error(labModule, "Introduction rejected", map[string]interface{}{"experiment": cfg.ExperimentName, "error": err.Error()})
		return nil, err
	}

	total := len(intro.Procedure)
	if total == 0 {
		total = cfg.MaxSteps
	}
	id := s.engine.Start(ctx, cfg, total, entity.LabState{Introduction: intro})
	return &dto.StartExperimentResponse{SessionId: id, Introduction: intro, TotalSteps: total}, nil
}

func (s *labService) SelectEquipment(ctx context.Context, request *dto.SelectEquipmentRequest) (*dto.SelectEquipmentResponse, error) {
	var analysis entity.EquipmentAnalysis

	err := s.engine.Refine(ctx, request.SessionId,
		func(session entity.LabSession) (string, error) {
			return prompt.LabEquipment(session.Config, session.Derived.Introduction, request.Equipment), nil
		},
		func(raw string, session *entity.LabSession) error {
			if err := extract.Decode(raw, equipmentSchema, &analysis); err != nil {
				return err
			}
			result := analysis
			session.Derived.Equipment = &result
			session.Derived.SelectedEquipment = append([]string(nil), request.Equipment...)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return &dto.SelectEquipmentResponse{Analysis: analysis}, nil
}

func (s *labService) NextStep(ctx context.Context, sessionId string) (*dto.NextStepResponse, error) {
	var total, number int
	step, index, err := s.engine.Advance(ctx, sessionId,
		func(session entity.LabSession) (string, error) {
			total = session.Max
			number = session.Cursor + 1
			return prompt.LabStep(session.Config, session.Derived.Introduction, number, session.Max, session.History), nil
		},
		func(raw string) (entity.LabStep, error) {
			instructions, err := extract.DecodeTextField(raw, "instructions")
			if err != nil {
				return entity.LabStep{}, err
			}
			return entity.LabStep{Number: number, Instructions: instructions}, nil
		},
	)
	if workflow.IsCompleted(err) {
		return &dto.NextStepResponse{Completed: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &dto.NextStepResponse{Step: index + 1, Instructions: step.Instructions, TotalSteps: total}, nil
}

func (s *labService) PerformAction(ctx context.Context, request *dto.PerformActionRequest) (*dto.PerformActionResponse, error) {
	var result entity.ActionResult
	var stepNumber int

	err := s.engine.Refine(ctx, request.SessionId,
		func(session entity.LabSession) (string, error) {
			step, ok := session.Last()
			if !ok {
				return "", apperror.Validation("no step has been started yet", nil)
			}
			return prompt.LabAction(session.Config, step, request.Action), nil
		},
		func(raw string, session *entity.LabSession) error {
			if err := extract.Decode(raw, actionSchema, &result); err != nil {
				return err
			}
			result.Action = request.Action
			last := &session.History[len(session.History)-1]
			last.Actions = append(last.Actions, result)
			stepNumber = last.Number
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return &dto.PerformActionResponse{Step: stepNumber, Result: result}, nil
}

func (s *labService) AskQuestion(ctx context.Context, request *dto.AskQuestionRequest) (*dto.AskQuestionResponse, error) {
	var answer string

	err := s.engine.Refine(ctx, request.SessionId,
		func(session entity.LabSession) (string, error) {
			var current *entity.LabStep
			if step, ok := session.Last(); ok {
				current = &step
			}
			return prompt.LabQuestion(session.Config, current, request.Question), nil
		},
		func(raw string, session *entity.LabSession) error {
			text, err := extract.DecodeTextField(raw, "answer")
			if err != nil {
				return err
			}
			answer = text
			session.Derived.Questions = append(session.Derived.Questions, entity.LabQuestion{
				Step:     session.Cursor,
				Question: request.Question,
				Answer:   text,
				AskedAt:  time.Now(),
			})
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return &dto.AskQuestionResponse{Answer: answer}, nil
}

func (s *labService) CompleteExperiment(ctx context.Context, sessionId string) (*dto.CompleteExperimentResponse, error) {
	var summary entity.LabSummary

	err := s.engine.Complete(ctx, sessionId,
		func(session entity.LabSession) (string, error) {
			return prompt.LabCompletion(session.Config, session.Derived.Introduction, session.History), nil
		},
		func(raw string, _ entity.LabSession) error {
			return extract.Decode(raw, labSummarySchema, &summary)
		},
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info(labModule, "Experiment completed", map[string]interface{}{"session_id": sessionId, "score": summary.Score})
	return &dto.CompleteExperimentResponse{LabSummary: summary}, nil
}

func (s *labService) ActiveSessions() int {
	return s.engine.Active()
}
