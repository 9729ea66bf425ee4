package bootstrap

import (
	"context"
	"log"

	"workalone-be/internal/config"
	"workalone-be/internal/constant"
	"workalone-be/internal/controller"
	"workalone-be/internal/events"
	"workalone-be/internal/pkg/logger"
	"workalone-be/internal/pkg/mailer"
	"workalone-be/internal/repository/memory"
	"workalone-be/internal/repository/unitofwork"
	"workalone-be/internal/service"
	"workalone-be/internal/websocket"
	"workalone-be/pkg/clock"
	"workalone-be/pkg/gateway"

	pktNats "workalone-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WebhookController controller.IWebhookController
	OpsController     controller.IOpsController

	// Background Services (Exposed for main.go to run)
	EscalationService service.IEscalationService
	DispatchService   service.IDispatchService

	// WebSockets
	WebSocketHub *websocket.Hub

	// Infrastructure handles for graceful shutdown
	Logger         logger.ILogger
	NatsPublisher  *pktNats.Publisher
	NatsSubscriber *pktNats.Subscriber
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.SMTP.OnCallEmail,
	)

	// 2. Event Bus (in-process dispatch pipeline)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS. The engine runs without it; events then only reach dashboards.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis (fans dashboard events out across instances)
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
	}

	// WebSocket Hub
	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	// Engine events go to NATS and are mirrored onto the dashboard feed.
	eventPublisher := events.NewNatsPublisher(natsPub, wsHub, sysLogger)

	// SMS Gateway
	var gw gateway.Gateway
	if cfg.Gateway.Provider == "memory" {
		gw = gateway.NewMemoryGateway()
		log.Printf("[INFO] Using SMS Gateway: MEMORY (nothing leaves the process)")
	} else {
		gw = gateway.NewTwilioGateway(
			cfg.Gateway.AccountSid,
			cfg.Gateway.AuthToken,
			cfg.Gateway.FromNumber,
			cfg.Gateway.TwilioBaseURL,
			cfg.Engine.SendTimeout,
		)
		log.Printf("[INFO] Using SMS Gateway: TWILIO (from %s)", cfg.Gateway.FromNumber)
	}

	engineClock := clock.New()

	// 3. Services
	inboundPublisher := service.NewPublisherService(constant.TopicInbound, pubSub)
	deadlinePublisher := service.NewPublisherService(constant.TopicDeadline, pubSub)

	outboundService := service.NewOutboundService(
		uowFactory,
		gw,
		engineClock,
		sysLogger,
		cfg.Engine.SendTimeout,
		uint(cfg.Engine.StoreMaxAttempts),
	)
	escalationService := service.NewEscalationService(
		uowFactory,
		outboundService,
		eventPublisher,
		deadlinePublisher,
		engineClock,
		sysLogger,
		uint(cfg.Engine.StoreMaxAttempts),
		cfg.Engine.StoreRetryInterval,
	)
	commandService := service.NewCommandService(
		uowFactory,
		escalationService,
		outboundService,
		eventPublisher,
		sysLogger,
		uint(cfg.Engine.StoreMaxAttempts),
	)
	dispatchService := service.NewDispatchService(
		pubSub,
		constant.TopicInbound,
		constant.TopicDeadline,
		commandService,
		escalationService,
		cfg.Engine.WorkerCount,
	)

	authService := service.NewAuthService(cfg.Ops.Username, cfg.Ops.PasswordHash)
	monitorService := service.NewMonitorService(uowFactory, db, sysLogger, engineClock, gw.Name())

	// 3.5 Ops Notifier (email alerts for events that need a human)
	notifierService := service.NewNotifierService(natsSub, emailService, sysLogger)
	if natsSub != nil {
		go notifierService.Start()
	}

	// Webhook dedupe cache
	dedupeRepo := memory.NewInboundDedupeRepository(constant.InboundDedupeTTL)

	// 4. Controllers
	return &Container{
		WebhookController: controller.NewWebhookController(
			inboundPublisher,
			dedupeRepo,
			sysLogger,
			cfg.Gateway.AuthToken,
			cfg.Gateway.WebhookURL,
			cfg.Gateway.ValidateSignature,
		),
		OpsController: controller.NewOpsController(authService, monitorService, wsHub, sysLogger),

		EscalationService: escalationService,
		DispatchService:   dispatchService,
		WebSocketHub:      wsHub,

		Logger:         sysLogger,
		NatsPublisher:  natsPub,
		NatsSubscriber: natsSub,
	}
}
