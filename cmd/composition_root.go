package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	httpin "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/out/eventbus"
	"fooddelivery/internal/adapters/out/kafka"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/redisrelay"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/jobs"
	"fooddelivery/internal/pkg/metrics"
	"fooddelivery/internal/realtime"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot owns every long lived component of the service and wires
// them together.
type CompositionRoot struct {
	config     Config
	logger     *slog.Logger
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	metrics     *metrics.Registry
	broadcaster *realtime.Broadcaster
	publisher   ports.OrderEventPublisher
	jobManager  *jobs.JobManager

	redisClient    *redis.Client
	subscriber     *redisrelay.Subscriber
	kafkaPublisher *kafka.Publisher
}

// NewCompositionRoot builds the object graph. Status events reach local
// streams either directly or, with Redis configured, through the relay so
// every instance delivers to its own connections exactly once.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	registry := metrics.NewRegistry()
	broadcaster := realtime.NewBroadcaster(logger.With("component", "broadcaster"), realtime.WithMetrics(registry))

	c := &CompositionRoot{
		config:      config,
		logger:      logger,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		metrics:     registry,
		broadcaster: broadcaster,
		jobManager:  jobs.NewJobManager(broadcaster, config.HeartbeatInterval, logger),
	}

	publishers := make([]ports.OrderEventPublisher, 0, 2)
	if config.RedisAddr != "" {
		c.redisClient = redisrelay.NewClient(config.RedisAddr)
		c.subscriber = redisrelay.NewSubscriber(c.redisClient, config.RedisChannel, broadcaster, logger)
		publishers = append(publishers, redisrelay.NewPublisher(c.redisClient, config.RedisChannel))
	} else {
		publishers = append(publishers, realtime.NewNotifier(broadcaster))
	}

	if len(kafka.SplitBrokers(config.KafkaBrokers)) > 0 {
		writer := kafka.NewWriter(config.KafkaBrokers, config.KafkaTopic, logger)
		c.kafkaPublisher = kafka.NewPublisher(writer, config.KafkaProducer)
		publishers = append(publishers, c.kafkaPublisher)
	}

	c.publisher = eventbus.NewFanOut(publishers...)
	return c
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.CheckoutUoWFactory = FuncCheckoutUoWFactory(func() commands.CheckoutUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateGetMyOrdersQueryHandler() queries.GetMyOrdersQueryHandler {
	return queries.NewGetMyOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateGetMyOrdersQueryHandler(),
		c.CreateGetOrderQueryHandler(),
		c.broadcaster,
		c.logger,
	)
}

// CreateRouter returns the echo instance serving the API.
func (c *CompositionRoot) CreateRouter(ctx context.Context) (*echo.Echo, error) {
	return httpin.NewRouter(ctx, c.CreateServer(), httpin.RouterConfig{
		Verifier:    httpin.NewTokenVerifier(c.config.JWTSecret),
		Metrics:     c.metrics,
		Logger:      c.logger,
		CORSOrigins: c.config.CORSOrigins,
	})
}

// ConfigureServer applies the server timeouts and ends open order streams
// when the server shuts down. The write timeout stays unset because streams
// are long lived responses; each stream frame carries its own deadline.
// Request contexts are untouched, so in-flight requests drain normally.
func (c *CompositionRoot) ConfigureServer(srv *http.Server) {
	srv.ReadHeaderTimeout = 10 * time.Second
	srv.IdleTimeout = 120 * time.Second
	srv.RegisterOnShutdown(c.broadcaster.CloseAll)
}

// StartBackground starts the scheduled jobs and, when configured, the Redis
// relay loop. The relay stops when ctx is cancelled.
func (c *CompositionRoot) StartBackground(ctx context.Context) error {
	if err := c.jobManager.StartAll(); err != nil {
		return err
	}

	if c.subscriber != nil {
		go func() {
			if err := c.subscriber.Run(ctx); err != nil {
				c.logger.Error("redis relay stopped", "error", err)
			}
		}()
	}
	return nil
}

// Close stops background work and releases external clients.
func (c *CompositionRoot) Close() error {
	c.jobManager.StopAll()

	var errs []error
	if c.kafkaPublisher != nil {
		errs = append(errs, c.kafkaPublisher.Close())
	}
	if c.redisClient != nil {
		errs = append(errs, c.redisClient.Close())
	}
	if sqlDB, err := c.gormDB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCheckoutUoWFactory func() commands.CheckoutUoW

func (f FuncCheckoutUoWFactory) Create() commands.CheckoutUoW {
	return f()
}
