package service

import (
	"context"
	"time"

	"ai-workflow-be/internal/dto"
	"ai-workflow-be/internal/entity"
	"ai-workflow-be/internal/pkg/logger"
	"ai-workflow-be/pkg/apperror"
	"ai-workflow-be/pkg/extract"
	"ai-workflow-be/pkg/prompt"
	"ai-workflow-be/pkg/workflow"
)

const interviewModule = "InterviewService"

var sectionsSchema = extract.Schema{
	Kind:     extract.Array,
	MinItems: 1,
	Item: &extract.Schema{
		Kind:   extract.Object,
		Fields: map[string]extract.ValueKind{"section": extract.String, "content": extract.String},
	},
}

type InterviewEngine = workflow.Engine[entity.InterviewConfig, entity.InterviewTurn, entity.InterviewState]

type IInterviewService interface {
	StartInterview(ctx context.Context, request *dto.StartInterviewRequest) (*dto.SessionResponse, error)
	NextQuestion(ctx context.Context, sessionId string) (*dto.QuestionResponse, error)
	Feedback(ctx context.Context, request *dto.FeedbackRequest) (*dto.FeedbackResponse, error)
	Summary(ctx context.Context, sessionId string) (*dto.InterviewSummaryResponse, error)
	ActiveSessions() int
}

type interviewService struct {
	engine *InterviewEngine
	logger logger.ILogger
}

func NewInterviewService(engine *InterviewEngine, log logger.ILogger) IInterviewService {
	return &interviewService{engine: engine, logger: log}
}

func (s *interviewService) StartInterview(ctx context.Context, request *dto.StartInterviewRequest) (*dto.SessionResponse, error) {
	cfg := entity.InterviewConfig{
		JobRole:       request.JobRole,
		Difficulty:    request.Difficulty,
		InterviewType: request.InterviewType,
		NumQuestions:  request.NumQuestions,
	}
	id := s.engine.Start(ctx, cfg, cfg.NumQuestions, entity.InterviewState{})
	return &dto.SessionResponse{SessionId: id}, nil
}

func (s *interviewService) NextQuestion(ctx context.Context, sessionId string) (*dto.QuestionResponse, error) {
	var total int
	turn, index, err := s.engine.Advance(ctx, sessionId,
		func(session entity.InterviewSession) (string, error) {
			total = session.Max
			return prompt.InterviewQuestion(session.Config, session.Cursor, session.History), nil
		},
		func(raw string) (entity.InterviewTurn, error) {
			question, err := extract.DecodeTextField(raw, "question")
			if err != nil {
				return entity.InterviewTurn{}, err
			}
			return entity.InterviewTurn{Question: question, AskedAt: time.Now()}, nil
		},
	)
	if workflow.IsCompleted(err) {
		return &dto.QuestionResponse{Completed: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &dto.QuestionResponse{Question: turn.Question, QuestionIndex: &index, Total: total}, nil
}

func (s *interviewService) Feedback(ctx context.Context, request *dto.FeedbackRequest) (*dto.FeedbackResponse, error) {
	var feedback []entity.FeedbackSection

	err := s.engine.Refine(ctx, request.SessionId,
		func(session entity.InterviewSession) (string, error) {
			turn, ok := session.Last()
			if !ok {
				return "", apperror.Validation("no question has been asked yet", nil)
			}
			return prompt.InterviewFeedback(session.Config, turn.Question, request.Answer), nil
		},
		func(raw string, session *entity.InterviewSession) error {
			var sections []entity.FeedbackSection
			if err := extract.Decode(raw, sectionsSchema, &sections); err != nil {
				return err
			}
			last := &session.History[len(session.History)-1]
			last.Answer = request.Answer
			last.Feedback = sections
			feedback = sections
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return &dto.FeedbackResponse{Feedback: feedback}, nil
}

func (s *interviewService) Summary(ctx context.Context, sessionId string) (*dto.InterviewSummaryResponse, error) {
	var summary []entity.FeedbackSection

	err := s.engine.Complete(ctx, sessionId,
		func(session entity.InterviewSession) (string, error) {
			return prompt.InterviewSummary(session.Config, session.History), nil
		},
		func(raw string, _ entity.InterviewSession) error {
			return extract.Decode(raw, sectionsSchema, &summary)
		},
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info(interviewModule, "Interview summarised", map[string]interface{}{"session_id": sessionId, "sections": len(summary)})
	return &dto.InterviewSummaryResponse{Summary: summary}, nil
}

func (s *interviewService) ActiveSessions() int {
	return s.engine.Active()
}
