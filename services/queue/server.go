package queuesvc

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/deadlines/core"
)

// NewServer creates the asynq server consuming the deadline queue.
func NewServer(rdb redis.UniversalClient, conf *core.Config, logger core.Logger) *asynq.Server {
	return asynq.NewServerFromRedisClient(rdb, asynq.Config{
		Concurrency:     conf.Queue.Concurrency,
		Queues:          map[string]int{conf.Queue.Name: 1},
		ShutdownTimeout: conf.Server.ShutdownTimeout,
		Logger:          asynqLogger{logger},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, t *asynq.Task, err error) {
			logger.Error(fmt.Sprintf("task %s failed", t.Type()), err, map[string]interface{}{"payload": string(t.Payload())})
		}),
	})
}

// NewServeMux routes deadline tasks to h.
func NewServeMux(h *Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDeadline, h.HandleDeadlineTask)
	return mux
}

// NewClient creates an asynq client enqueuing through rdb.
func NewClient(rdb redis.UniversalClient) *asynq.Client {
	return asynq.NewClientFromRedisClient(rdb)
}

// asynqLogger forwards asynq's own logs to the app logger.
type asynqLogger struct {
	logger core.Logger
}

var _ asynq.Logger = asynqLogger{}

func (l asynqLogger) Debug(args ...interface{}) { l.logger.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.logger.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.logger.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.logger.Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.logger.Fatal(fmt.Sprint(args...)) }
