package bootstrap

import (
	"context"
	"log"

	"kb-platform-be/internal/config"
	"kb-platform-be/internal/controller"
	"kb-platform-be/internal/pkg/logger"
	"kb-platform-be/internal/repository/unitofwork"
	"kb-platform-be/internal/service"
	"kb-platform-be/pkg/embedding"
	"kb-platform-be/pkg/parser"
	"kb-platform-be/pkg/storage"

	pktNats "kb-platform-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	KnowledgeBaseController controller.IKnowledgeBaseController
	FileController          controller.IFileController
	TaskController          controller.ITaskController
	SearchController        controller.ISearchController

	// Background services (exposed for main.go to run)
	PipelineService service.IPipelineService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding provider
	embeddingProvider := embedding.NewOpenAIProvider(
		cfg.Embedding.APIKey,
		cfg.Embedding.BaseURL,
		cfg.Embedding.Model,
		cfg.Embedding.Dimensions,
	)
	embedder := embedding.NewEmbedder(embeddingProvider)
	log.Printf("[INFO] Using embedding model %s (%d dims)", embedder.Model(), embedder.Dimensions())

	// Blob storage. S3 in real deployments; in-memory fallback keeps
	// local development running without credentials.
	var blobs storage.BlobStore
	s3Store, err := storage.NewS3Store(context.Background(), storage.S3Config{
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Region:    cfg.Storage.Region,
		Bucket:    cfg.Storage.Bucket,
	})
	if err != nil {
		log.Printf("[WARN] S3 storage unavailable: %v. Using in-memory blob store", err)
		blobs = storage.NewMemoryStore()
	} else {
		blobs = s3Store
	}

	// NATS (lifecycle events, optional)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis (query-embedding cache, optional)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// Services
	progressCache := service.NewProgressCache()
	publisherService := service.NewPublisherService(cfg.Pipeline.ProcessFileTopic, pubSub)

	taskService := service.NewTaskService(uowFactory, publisherService, progressCache, blobs)
	fileService := service.NewFileService(uowFactory, taskService)
	knowledgeBaseService := service.NewKnowledgeBaseService(uowFactory, natsPub)
	searchService := service.NewSearchService(uowFactory, embedder, rdb)

	pipelineService := service.NewPipelineService(
		pubSub,
		cfg.Pipeline.ProcessFileTopic,
		uowFactory,
		parser.New(blobs),
		embedder,
		progressCache,
		natsPub,
	)

	return &Container{
		KnowledgeBaseController: controller.NewKnowledgeBaseController(knowledgeBaseService),
		FileController:          controller.NewFileController(fileService),
		TaskController:          controller.NewTaskController(taskService),
		SearchController:        controller.NewSearchController(searchService),

		PipelineService: pipelineService,
		Logger:          sysLogger,
	}
}
