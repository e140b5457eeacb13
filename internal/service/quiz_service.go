package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"ai-workflow-be/internal/dto"
	"ai-workflow-be/internal/entity"
	"ai-workflow-be/internal/pkg/logger"
	"ai-workflow-be/pkg/apperror"
	"ai-workflow-be/pkg/cache"
	"ai-workflow-be/pkg/events"
	"ai-workflow-be/pkg/extract"
	"ai-workflow-be/pkg/prompt"
	"ai-workflow-be/pkg/workflow"
)

const quizModule = "QuizService"

var questionsSchema = extract.Schema{
	Name:     "questions",
	Kind:     extract.Array,
	MinItems: 1,
	Item: &extract.Schema{
		Kind: extract.Object,
		Fields: map[string]extract.ValueKind{
			"type":          extract.String,
			"question":      extract.String,
			"correctAnswer": extract.Any,
		},
	},
}

type QuizEngine = workflow.Engine[entity.QuizConfig, entity.Question, entity.QuizState]

type IQuizService interface {
	StartQuiz(ctx context.Context, request *dto.StartQuizRequest) (*dto.SessionResponse, error)
	Pregenerate(ctx context.Context, request *dto.PregenerateRequest) (*dto.PregenerateResponse, error)
	GenerateQuestion(ctx context.Context, sessionId string) (*dto.QuizQuestionResponse, error)
	CheckAnswer(ctx context.Context, request *dto.CheckAnswerRequest) (*dto.CheckAnswerResponse, error)
	CompleteQuiz(ctx context.Context, sessionId string) (*dto.CompleteQuizResponse, error)
	ActiveSessions() int
}

type quizService struct {
	engine    *QuizEngine
	pools     cache.ResultCache[[]entity.Question]
	poolTTL   time.Duration
	publisher events.Publisher
	logger    logger.ILogger

	// serialises read-append-write of the question pools
	poolMu sync.Mutex
}

func NewQuizService(
	engine *QuizEngine,
	pools cache.ResultCache[[]entity.Question],
	poolTTL time.Duration,
	publisher events.Publisher,
	log logger.ILogger,
) IQuizService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &quizService{
		engine:    engine,
		pools:     pools,
		poolTTL:   poolTTL,
		publisher: publisher,
		logger:    log,
	}
}

func poolKey(difficulty, category string) (string, error) {
	return cache.Key("quiz", strings.ToLower(strings.TrimSpace(difficulty)), strings.ToLower(strings.TrimSpace(category)))
}

// parseQuestions decodes a generated batch, dropping questions that cannot be
// rendered or graded.
func parseQuestions(raw string, limit int) ([]entity.Question, error) {
	var batch []entity.Question
	if err := extract.Decode(raw, questionsSchema, &batch); err != nil {
		return nil, err
	}

	questions := make([]entity.Question, 0, len(batch))
	for _, q := range batch {
		if !q.Type.Valid() || strings.TrimSpace(q.Question) == "" || q.CorrectAnswer == "" {
			continue
		}
		if q.Type == entity.QuestionTypeMultipleChoice && len(q.Options) < 2 {
			continue
		}
		questions = append(questions, q)
		if len(questions) == limit {
			break
		}
	}
	if len(questions) == 0 {
		return nil, apperror.InvalidShape("questions: no usable question in response", raw)
	}
	return questions, nil
}

// pregenerate generates count questions and appends them to the pool of
// (difficulty, category). It returns the pool and the index at which the new
// questions start.
func (s *quizService) pregenerate(ctx context.Context, difficulty, category string, count int) ([]entity.Question, int, error) {
	key, err := poolKey(difficulty, category)
	if err != nil {
		return nil, 0, err
	}

	raw, err := s.engine.Generate(ctx, prompt.QuizQuestions(difficulty, category, count))
	if err != nil {
		s.logger.Error(quizModule, "Question generation failed", map[string]interface{}{"difficulty": difficulty, "category": category, "error": err.Error()})
		return nil, 0, err
	}
	generated, err := parseQuestions(raw, count)
	if err != nil {
		s.logger.Error(quizModule, "Question batch rejected", map[string]interface{}{"difficulty": difficulty, "category": category, "error": err.Error()})
		return nil, 0, err
	}

	s.poolMu.Lock()
	defer s.poolMu.Unlock()

	existing, _, err := s.pools.Get(ctx, key)
	if err != nil {
		return nil, 0, err
	}
	pool := make([]entity.Question, 0, len(existing)+len(generated))
	pool = append(pool, existing...)
	pool = append(pool, generated...)
	if err := s.pools.Set(ctx, key, pool, s.poolTTL); err != nil {
		return nil, 0, err
	}

	s.logger.Info(quizModule, "Question pool extended", map[string]interface{}{"difficulty": difficulty, "category": category, "generated": len(generated), "pool_size": len(pool)})
	if err := s.publisher.Publish(ctx, events.New(events.TypeQuestionPoolGenerated, map[string]interface{}{
		"difficulty": difficulty,
		"category":   category,
		"generated":  len(generated),
		"pool_size":  len(pool),
	})); err != nil {
		s.logger.Warn(quizModule, "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}
	return pool, len(existing), nil
}

func (s *quizService) pool(ctx context.Context, cfg entity.QuizConfig) ([]entity.Question, error) {
	key, err := poolKey(cfg.Difficulty, cfg.Category)
	if err != nil {
		return nil, err
	}
	pool, _, err := s.pools.Get(ctx, key)
	return pool, err
}

func (s *quizService) StartQuiz(ctx context.Context, request *dto.StartQuizRequest) (*dto.SessionResponse, error) {
	_, start, err := s.pregenerate(ctx, request.Difficulty, request.Category, request.NumberOfQuestions)
	if err != nil {
		return nil, err
	}

	cfg := entity.QuizConfig{
		NumberOfQuestions: request.NumberOfQuestions,
		Difficulty:        request.Difficulty,
		Category:          request.Category,
	}
	id := s.engine.Start(ctx, cfg, cfg.NumberOfQuestions, entity.QuizState{Offset: start})
	return &dto.SessionResponse{SessionId: id}, nil
}

func (s *quizService) Pregenerate(ctx context.Context, request *dto.PregenerateRequest) (*dto.PregenerateResponse, error) {
	pool, start, err := s.pregenerate(ctx, request.Difficulty, request.Category, request.Count)
	if err != nil {
		return nil, err
	}
	return &dto.PregenerateResponse{Generated: len(pool) - start, PoolSize: len(pool)}, nil
}

func (s *quizService) GenerateQuestion(ctx context.Context, sessionId string) (*dto.QuizQuestionResponse, error) {
	session, err := s.engine.Get(sessionId)
	if err != nil {
		return nil, err
	}
	if session.Completed() {
		return &dto.QuizQuestionResponse{QuizCompleted: true}, nil
	}

	pool, err := s.pool(ctx, session.Config)
	if err != nil {
		return nil, err
	}
	if i := session.Derived.Offset + session.Cursor; i < 0 || i >= len(pool) {
		// pool exhausted or expired: top up with what the session still needs
		remaining := session.Max - session.Cursor
		_, start, err := s.pregenerate(ctx, session.Config.Difficulty, session.Config.Category, remaining)
		if err != nil {
			return nil, err
		}
		err = s.engine.Mutate(sessionId, func(cur *entity.QuizSession) error {
			cur.Derived.Offset = start - cur.Cursor
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	question, index, err := s.engine.Serve(ctx, sessionId, func(ctx context.Context, cur entity.QuizSession) (entity.Question, error) {
		pool, err := s.pool(ctx, cur.Config)
		if err != nil {
			return entity.Question{}, err
		}
		i := cur.Derived.Offset + cur.Cursor
		if i < 0 || i >= len(pool) {
			return entity.Question{}, apperror.InvalidShape(fmt.Sprintf("question pool has no question at position %d", i), "")
		}
		return pool[i], nil
	})
	if workflow.IsCompleted(err) {
		return &dto.QuizQuestionResponse{QuizCompleted: true}, nil
	}
	if err != nil {
		return nil, err
	}

	return &dto.QuizQuestionResponse{
		Type:          question.Type,
		Question:      question.Question,
		Options:       question.Options,
		QuestionIndex: &index,
		Total:         session.Max,
	}, nil
}

func (s *quizService) CheckAnswer(ctx context.Context, request *dto.CheckAnswerRequest) (*dto.CheckAnswerResponse, error) {
	index := *request.QuestionIndex
	var response dto.CheckAnswerResponse

	err := s.engine.Mutate(request.SessionId, func(session *entity.QuizSession) error {
		if index >= len(session.History) {
			return apperror.Validation(
				fmt.Sprintf("question %d has not been served", index),
				map[string]string{"questionIndex": fmt.Sprintf("must be less than %d", len(session.History))},
			)
		}
		question := session.History[index]
		correct := GradeAnswer(question, request.UserAnswer)
		session.Derived.Record(entity.AnswerRecord{
			QuestionIndex: index,
			UserAnswer:    request.UserAnswer,
			IsCorrect:     correct,
		})
		response = dto.CheckAnswerResponse{
			IsCorrect:     correct,
			Explanation:   question.Explanation,
			CorrectAnswer: string(question.CorrectAnswer),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (s *quizService) CompleteQuiz(ctx context.Context, sessionId string) (*dto.CompleteQuizResponse, error) {
	session, err := s.engine.Finish(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	score := session.Derived.Score()
	total := session.Config.NumberOfQuestions
	s.logger.Info(quizModule, "Quiz completed", map[string]interface{}{"session_id": sessionId, "score": score, "total": total})
	return &dto.CompleteQuizResponse{
		Message: fmt.Sprintf("Quiz completed! You scored %d out of %d.", score, total),
		Score:   score,
		Total:   total,
	}, nil
}

func (s *quizService) ActiveSessions() int {
	return s.engine.Active()
}
