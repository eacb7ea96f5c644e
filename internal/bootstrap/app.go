package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"botdeck/internal/config"
	"botdeck/internal/model"
	dbClient "botdeck/internal/platform/db"
	rabbitmqClient "botdeck/internal/platform/rabbitmq"
	redisClient "botdeck/internal/platform/redis"
	"botdeck/internal/repository"
	"botdeck/internal/worker"
)

// App owns the long-lived resources: they are opened once here and shared by
// reference across request handlers for the life of the process.
type App struct {
	Config           *config.Config
	DB               *gorm.DB
	Redis            *redis.Client    // nil when the settings cache is disabled
	MQConn           *amqp.Connection // nil when the transcript log is disabled
	TranscriptWorker *worker.TranscriptWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	db, err := dbClient.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Idempotent create-if-absent migration of the two core tables plus the
	// transcript log.
	if err := db.AutoMigrate(&model.Bot{}, &model.Document{}, &model.Transcript{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	app := &App{
		Config:    cfg,
		DB:        db,
		StartedAt: time.Now(),
	}

	if cfg.RedisEnabled() {
		redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		app.Redis = redisCli
	}

	if cfg.RabbitMQEnabled() {
		mqConn, err := rabbitmqClient.New(cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
		app.MQConn = mqConn

		transcriptRepo := repository.NewTranscriptRepository(db)
		app.TranscriptWorker = worker.NewTranscriptWorker(mqConn, transcriptRepo, cfg.RabbitMQ.TranscriptQueue)
		if err := app.TranscriptWorker.Start(ctx); err != nil {
			return nil, fmt.Errorf("start transcript worker failed: %w", err)
		}
	}

	if !cfg.InferenceEnabled() {
		log.Println("no inference credential configured, chat falls back to local heuristics")
	}

	return app, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.TranscriptWorker != nil {
		a.TranscriptWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
