package bootstrap

import (
	"context"
	"fmt"
	"time"

	"ai-workflow-be/internal/config"
	"ai-workflow-be/internal/controller"
	"ai-workflow-be/internal/entity"
	"ai-workflow-be/internal/pkg/logger"
	"ai-workflow-be/internal/repository/memory"
	"ai-workflow-be/internal/service"
	"ai-workflow-be/pkg/cache"
	"ai-workflow-be/pkg/events"
	"ai-workflow-be/pkg/llm"
	"ai-workflow-be/pkg/llm/factory"
	pktNats "ai-workflow-be/pkg/nats"
	"ai-workflow-be/pkg/workflow"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
)

const containerModule = "Container"

type Container struct {
	// Controllers
	InterviewController    controller.IInterviewController
	QuizController         controller.IQuizController
	OptimizationController controller.IOptimizationController
	LabController          controller.ILabController
	HealthController       controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires the application from configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	llmProvider, err := factory.NewLLMProvider(factory.Settings{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		GeminiAPIKey:  cfg.Ai.GoogleGemini,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	sysLogger.Info(containerModule, "Using LLM provider", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})

	activityLogger := logger.NewIsolatedLogger(cfg.App.ActivityLogPath)
	return NewContainerWithProvider(cfg, llmProvider, sysLogger, activityLogger), nil
}

// NewContainerWithProvider wires the application around an existing provider.
func NewContainerWithProvider(cfg *config.Config, provider llm.LLMProvider, sysLogger, activityLogger logger.ILogger) *Container {
	c := &Container{Logger: sysLogger}

	gateway := llm.NewGateway(provider, cfg.Ai.GatewayTimeout)

	// Event bus
	bus := events.NewBus(cfg.Events.Topic, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = bus.Close() })

	var forwarder events.Publisher
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			sysLogger.Warn(containerModule, "Failed to connect to NATS, events stay in process", map[string]interface{}{"error": err.Error()})
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}
	c.ConsumerService = service.NewConsumerService(bus, forwarder, activityLogger)

	// Result caches
	questionPools, optimizationResults := c.newCaches(cfg, sysLogger)

	// Engines over per-family session stores
	interviewEngine := workflow.NewEngine[entity.InterviewConfig, entity.InterviewTurn, entity.InterviewState](
		"InterviewEngine",
		memory.NewSessionRepository("interview", cfg.Session.TTL, entity.CloneInterviewSession),
		gateway, bus, sysLogger,
	)
	quizEngine := workflow.NewEngine[entity.QuizConfig, entity.Question, entity.QuizState](
		"QuizEngine",
		memory.NewSessionRepository("quiz", cfg.Session.TTL, entity.CloneQuizSession),
		gateway, bus, sysLogger,
	)
	labEngine := workflow.NewEngine[entity.LabConfig, entity.LabStep, entity.LabState](
		"LabEngine",
		memory.NewSessionRepository("lab", cfg.Session.TTL, entity.CloneLabSession),
		gateway, bus, sysLogger,
	)

	// Services
	interviewService := service.NewInterviewService(interviewEngine, sysLogger)
	quizService := service.NewQuizService(quizEngine, questionPools, cfg.Cache.TTL, bus, sysLogger)
	optimizationService := service.NewOptimizationService(gateway, optimizationResults, cfg.Cache.TTL, bus, sysLogger)
	labService := service.NewLabService(labEngine, sysLogger)

	// Controllers
	c.InterviewController = controller.NewInterviewController(interviewService)
	c.QuizController = controller.NewQuizController(quizService)
	c.OptimizationController = controller.NewOptimizationController(optimizationService)
	c.LabController = controller.NewLabController(labService)
	c.HealthController = controller.NewHealthController(map[string]controller.SessionCounter{
		"interview": interviewService,
		"quiz":      quizService,
		"lab":       labService,
	}, c.ConsumerService)

	return c
}

func (c *Container) newCaches(cfg *config.Config, log logger.ILogger) (cache.ResultCache[[]entity.Question], cache.ResultCache[entity.OptimizationResult]) {
	if cfg.Cache.Backend == "redis" {
		opt, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			log.Warn(containerModule, "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.Cache.RedisURL}
		}
		rdb := redis.NewClient(opt)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn(containerModule, "Failed to connect to Redis, using in-memory cache", map[string]interface{}{"error": err.Error()})
			_ = rdb.Close()
		} else {
			c.closers = append(c.closers, func() { _ = rdb.Close() })
			log.Info(containerModule, "Using Redis result cache", map[string]interface{}{"addr": opt.Addr})
			return cache.NewRedisCache[[]entity.Question](rdb, "quiz:pool", cfg.Cache.TTL),
				cache.NewRedisCache[entity.OptimizationResult](rdb, "optimization:result", cfg.Cache.TTL)
		}
	}
	return cache.NewMemoryCache[[]entity.Question](cfg.Cache.TTL),
		cache.NewMemoryCache[entity.OptimizationResult](cfg.Cache.TTL)
}

// Close releases external connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
