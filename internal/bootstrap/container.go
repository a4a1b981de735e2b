package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ai-outfit-planner-be/internal/config"
	"ai-outfit-planner-be/internal/controller"
	"ai-outfit-planner-be/internal/handler"
	"ai-outfit-planner-be/internal/pkg/logger"
	"ai-outfit-planner-be/internal/repository/implementation"
	"ai-outfit-planner-be/internal/repository/session"
	"ai-outfit-planner-be/internal/service"
	"ai-outfit-planner-be/internal/websocket"
	"ai-outfit-planner-be/pkg/catalog"
	"ai-outfit-planner-be/pkg/llm/factory"
	pktNats "ai-outfit-planner-be/pkg/nats"
	"ai-outfit-planner-be/pkg/planner/contextfile"
	"ai-outfit-planner-be/pkg/planner/demo"
	"ai-outfit-planner-be/pkg/planner/generator"
	"ai-outfit-planner-be/pkg/store"
	"ai-outfit-planner-be/pkg/weather"
)

// catalogCacheTTL bounds how stale a reloaded catalog may be.
const catalogCacheTTL = 5 * time.Minute

type Container struct {
	// Controllers
	PlannerController controller.IPlannerController
	ClosetController  controller.IClosetController

	// Background services (run from main)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub    *websocket.Hub
	ProgressHandler *handler.ProgressHandler

	// Held for graceful shutdown
	NatsPublisher *pktNats.Publisher
	Logger        logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Keyed session store
	var kv store.KeyedStore
	var rdb *redis.Client
	if cfg.Store.Backend == "redis" {
		opt, err := redis.ParseURL(cfg.Store.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.Store.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		kv = store.NewRedisStore(rdb)
		log.Printf("[INFO] Using session store: REDIS")
	} else {
		kv = store.NewMemoryStore()
		log.Printf("[INFO] Using session store: MEMORY")
	}

	states := session.NewStateRepository(kv, session.DefaultTTL)
	accumulator := contextfile.NewAccumulator(kv, contextfile.DefaultTTL, sysLogger)

	// 4. Planning pipeline
	loader := catalog.NewLoader(catalogCacheTTL, sysLogger)
	demoGen := demo.NewGenerator(loader, cfg.Catalog.DemoPath, sysLogger)

	agent, err := factory.NewAgentInvoker(factory.Config{
		Provider:  cfg.Ai.Provider,
		BaseURL:   cfg.Ai.BaseURL,
		ModelName: cfg.Ai.ModelName,
		AgentId:   cfg.Ai.AgentId,
		AliasId:   cfg.Ai.AliasId,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.ModelName)

	outfitGenerator := generator.NewGenerator(accumulator, loader, cfg.Catalog.Path, demoGen, agent, sysLogger)
	weatherProvider := weather.NewClient(cfg.Weather.GeocodeURL, cfg.Weather.ForecastURL, sysLogger)

	// 5. Persistent repositories
	closetRepo := implementation.NewClosetRepository(db)
	tripPlanRepo := implementation.NewTripPlanRepository(db)
	closetService := service.NewClosetService(closetRepo, sysLogger)
	tripPlanService := service.NewTripPlanService(tripPlanRepo, sysLogger)

	// 6. NATS (optional)
	var natsPub *pktNats.Publisher
	var bus service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
		} else {
			bus = natsPub
		}
	}

	// 7. WebSocket hub
	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	// 8. Services
	publisherService := service.NewPublisherService(pubSub, sysLogger)
	consumerService := service.NewConsumerService(pubSub, wsHub, tripPlanService, bus)

	plannerService := service.NewPlannerService(
		states,
		accumulator,
		weatherProvider,
		outfitGenerator,
		closetRepo,
		publisherService,
		sysLogger,
	)

	// 9. Controllers and handlers
	plannerController := controller.NewPlannerController(plannerService, tripPlanService, cfg.App.JwtSecret)
	closetController := controller.NewClosetController(closetService, cfg.App.JwtSecret)
	progressHandler := handler.NewProgressHandler(wsHub, cfg.App.JwtSecret, sysLogger)

	return &Container{
		PlannerController: plannerController,
		ClosetController:  closetController,
		ConsumerService:   consumerService,
		WebSocketHub:      wsHub,
		ProgressHandler:   progressHandler,
		NatsPublisher:     natsPub,
		Logger:            sysLogger,
	}
}
