package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/controller"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/pkg/chatflow"
	"ai-assistant-be/pkg/chatflow/generate"
	"ai-assistant-be/pkg/chatflow/retrieval"
	"ai-assistant-be/pkg/chatflow/session"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/llm/pool"

	pkgNats "ai-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	CompanyController controller.ICompanyController
	CrewController    controller.ICrewController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Chat flow trace log stays out of the main log.
	flowLogger := log.New(&lumberjack.Logger{
		Filename:   "logs/chatflow.log",
		MaxSize:    10, // Megabytes
		MaxBackups: 5,
		MaxAge:     30, // Days
		Compress:   true,
	}, "", log.LstdFlags)

	// 2. Event Bus (in-process embed pipeline)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// 3. Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	llmPool, err := pool.NewRoundRobin(cfg.Chat.LLMEndpoints, cfg.Chat.LLMModel)
	if err != nil {
		log.Fatalf("[FATAL] Failed to build LLM endpoint pool: %v", err)
	}
	log.Printf("[INFO] LLM pool: %d endpoint(s), model %s", llmPool.Size(), cfg.Chat.LLMModel)

	// 4. Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	sessionTTL := time.Duration(cfg.Chat.SessionTTLMinutes) * time.Minute
	var sessionStore session.Store
	if cfg.Chat.SessionStore == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionStore = session.NewRedisStore(rdb, sessionTTL)
		log.Printf("[INFO] Session store: redis (ttl %s)", sessionTTL)
	} else {
		sessionStore = session.NewMemoryStore(sessionTTL)
		log.Printf("[INFO] Session store: memory (ttl %s)", sessionTTL)
	}

	// 5. Repositories
	documentRepo := repository.NewDocumentRepository(db)
	crewRepo := repository.NewCrewRepository(db)

	// 6. Chat flow assembly
	retriever := service.NewChatRetriever(embeddingProvider, documentRepo)
	aggregator := retrieval.NewAggregator(retriever, flowLogger)
	generator := generate.NewGenerator(llmPool, cfg.Chat.LLMTemperature, flowLogger)
	flow := chatflow.NewFlow(aggregator, generator, cfg.Chat.MaxFeedbackRounds, flowLogger)

	// 7. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedDocumentTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Keys.EmbedDocumentTopic, documentRepo, embeddingProvider)

	chatService := service.NewChatService(flow, sessionStore, natsPub, sysLogger)
	companyService := service.NewCompanyService(documentRepo, publisherService, embeddingProvider, sysLogger)
	crewService := service.NewCrewService(crewRepo, llmPool, sysLogger)

	return &Container{
		ChatController:    controller.NewChatController(chatService),
		CompanyController: controller.NewCompanyController(companyService),
		CrewController:    controller.NewCrewController(crewService),

		ConsumerService: consumerService,
	}
}
