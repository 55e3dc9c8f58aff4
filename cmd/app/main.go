package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/IBM/sarama"

	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/cart"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/config"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/handler"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/kafka"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/service"
	pg "github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/storage/postgres"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/storage/redis"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/pkg/logger"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type Components struct {
	HttpServer    *handler.Server
	Postgres      *pg.Postgres
	Redis         *redis.Redis
	KafkaConsumer *kafka.KafkaConsumer
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {

	redisClient, err := redis.NewRedis(&cfg.Redis, logger)
	if err != nil {
		logger.Error("redis error", "error", err.Error())
		return nil, fmt.Errorf("components.init.InitComponents.redis failed: %v", err)
	}

	postgres, err := pg.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("postgres error", "error", err.Error())
		return nil, fmt.Errorf("components.init.InitComponents.postgres failed: %w", err)
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	marketService := service.NewService(logger, postgres, postgres, cart.NewManager(), redisClient)

	templatesDir := cfg.Http.TemplatesDir
	if templatesDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			logger.Error("failed to get current directory", "error", err.Error())
			return nil, err
		}
		templatesDir = cwd + "/templates"
	}
	render := service.New(templatesDir, logger)

	consumer, err := sarama.NewConsumer(cfg.Kafka.BrokerList, saramaConfig)
	if err != nil {
		logger.Error("components.init.InitComponents.consumer: failed to create consumer client", "error", err.Error())
		return nil, fmt.Errorf("components.init.InitComponent: consumer client failed to init: %w", err)
	}
	kafkaConsumer := kafka.NewKafkaConsumer(*cfg, logger, consumer, postgres)

	httpServer := handler.NewServer(ctx, cfg, logger, marketService, marketService, postgres, render)

	return &Components{
		Postgres:      postgres,
		Redis:         redisClient,
		KafkaConsumer: kafkaConsumer,
		HttpServer:    httpServer,
	}, nil
}

func (c *Components) Shutdown() error {
	var errs []error
	c.Postgres.CloseConnection()
	if err := c.Redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
	}
	if err := c.KafkaConsumer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close kafka client: %w", err))
	}

	if err := c.HttpServer.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close Http Server: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	return nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case envDev:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		return logger.SetupPrettySlog()
	}
}
