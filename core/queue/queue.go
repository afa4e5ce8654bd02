package queue

import (
	"fmt"

	"availability-service/core/logger"

	"github.com/hibiken/asynq"
)

type QueueConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
}

var client *asynq.Client

func GetClient() *asynq.Client {
	return client
}

func InitQueue(config QueueConfig) *asynq.Client {
	client = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})
	logger.Info("Queue client initialized", "addr", config.RedisAddr)
	return client
}

func CloseClient() {
	if client != nil {
		if err := client.Close(); err != nil {
			logger.Error("Queue:CloseClient:Error", "error", err)
		}
	}
}

// NewServer builds the worker that processes background tasks. Handlers are
// registered on the returned mux by each module's Init.
func NewServer(config QueueConfig) (*asynq.Server, *asynq.ServeMux) {
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		},
		asynq.Config{
			Concurrency: concurrency,
			Logger:      asynqLogger{},
		},
	)
	return srv, asynq.NewServeMux()
}

// asynqLogger routes asynq's internal logging through the service logger.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...any) { logger.Debug(fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...any)  { logger.Info(fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...any)  { logger.Warn(fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...any) { logger.Error(fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...any) { logger.Error(fmt.Sprint(args...)) }
