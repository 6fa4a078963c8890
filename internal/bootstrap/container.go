package bootstrap

import (
	"context"
	"log"

	"cloess-chatbot-be/internal/config"
	"cloess-chatbot-be/internal/constant"
	"cloess-chatbot-be/internal/controller"
	"cloess-chatbot-be/internal/pkg/logger"
	"cloess-chatbot-be/internal/repository/unitofwork"
	"cloess-chatbot-be/internal/service"
	"cloess-chatbot-be/internal/websocket"
	pktNats "cloess-chatbot-be/pkg/nats"
	"cloess-chatbot-be/pkg/observability"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	CatalogController   controller.ICatalogController
	AnalyticsController controller.IAnalyticsController

	// Background services, started by main
	ConsumerService   service.IConsumerService
	EventAuditService service.IEventAuditService // nil without NATS

	WebSocketHub *websocket.Hub
	Metrics      *observability.Metrics
	Logger       logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	analyticsLogger := logger.NewIsolatedLogger(cfg.App.AnalyticsLogPath)
	metrics := observability.NewMetrics(cfg.App.MetricsNamespace, nil)

	c := &Container{Metrics: metrics, Logger: sysLogger}

	// 2. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	var eventPublisher service.EventPublisher
	var eventSubscriber service.EventSubscriber
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			eventSubscriber = natsSub
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	rdb := connectRedis(cfg.App.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// 4. Conversation pipeline
	pipeline := NewChatPipeline(uowFactory, cfg, rdb, eventPublisher, metrics, sysLogger)

	// 5. Catalog and analytics
	catalogService := service.NewCatalogService(uowFactory)

	geolocation := service.NewGeolocationService(cfg.Geo.BaseURL, cfg.Geo.Timeout, cfg.Geo.CacheTTL, analyticsLogger)
	publisherService := service.NewPublisherService(constant.TopicProductInteraction, pubSub)
	analyticsService := service.NewAnalyticsService(
		uowFactory,
		publisherService,
		geolocation,
		eventPublisher,
		metrics,
		analyticsLogger,
		cfg.App.AnalyticsLogPath,
	)
	c.ConsumerService = service.NewConsumerService(pubSub, constant.TopicProductInteraction, analyticsService, analyticsLogger)
	if eventSubscriber != nil {
		c.EventAuditService = service.NewEventAuditService(eventSubscriber, analyticsLogger)
	}

	// 6. WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/chat_socket.log")
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger, metrics)
	go c.WebSocketHub.Run()

	// 7. Controllers
	c.ChatController = controller.NewChatController(pipeline.Chatbot, c.WebSocketHub)
	c.CatalogController = controller.NewCatalogController(catalogService)
	c.AnalyticsController = controller.NewAnalyticsController(analyticsService, cfg.Keys.AnalyticsJWTSecret)

	return c
}

// connectRedis returns nil when Redis is unreachable; the hub then serves
// local sockets only.
func connectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// Close releases bus and cache connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
