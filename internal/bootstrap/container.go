package bootstrap

import (
	"log"
	"time"

	"campus-chatbot-be/internal/config"
	"campus-chatbot-be/internal/controller"
	"campus-chatbot-be/internal/pkg/logger"
	"campus-chatbot-be/internal/repository/unitofwork"
	"campus-chatbot-be/internal/service"
	"campus-chatbot-be/pkg/embedding"
	"campus-chatbot-be/pkg/extract"
	"campus-chatbot-be/pkg/index"

	pktNats "campus-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	EditorController  controller.IEditorController
	AdminController   controller.IAdminController
	ChatbotController controller.IChatbotController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// CommitService is exposed so main.go can restore the active index
	// version before serving traffic.
	CommitService service.ICommitService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Embedding Provider based on Config
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 4. Index infrastructure shared between commit and query paths
	activeIndex := index.NewActive()
	queryCache := cache.New(cfg.Index.QueryCacheTTL, 5*time.Minute)
	changeTracker := service.NewChangeTracker()
	extractor := extract.NewRegistry()

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.ChangeTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.ChangeTopic,
		changeTracker,
		sysLogger,
	)

	documentService := service.NewDocumentService(uowFactory, publisherService, natsPub, extractor, sysLogger)
	auditService := service.NewAuditService(uowFactory)
	staffService := service.NewStaffService(uowFactory, 12*time.Hour)

	commitService := service.NewCommitService(
		uowFactory,
		embeddingProvider,
		extractor,
		activeIndex,
		queryCache,
		changeTracker,
		natsPub,
		sysLogger,
		service.CommitServiceOptions{
			ChunkSize:    cfg.Index.ChunkSize,
			ChunkOverlap: cfg.Index.ChunkOverlap,
			BuildTimeout: cfg.Index.BuildTimeout,
		},
	)

	queryService := service.NewQueryService(
		uowFactory,
		embeddingProvider,
		activeIndex,
		queryCache,
		cfg.Index.TopK,
	)

	// 6. Controllers
	authController := controller.NewAuthController(staffService)
	editorController := controller.NewEditorController(documentService, commitService)
	adminController := controller.NewAdminController(auditService, staffService)
	chatbotController := controller.NewChatbotController(queryService)

	return &Container{
		AuthController:    authController,
		EditorController:  editorController,
		AdminController:   adminController,
		ChatbotController: chatbotController,
		ConsumerService:   consumerService,
		CommitService:     commitService,
	}
}
