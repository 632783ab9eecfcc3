package submit

import (
	"NYCU-SDC/checkin-backend/internal/form/shared"
	"context"
	"encoding/json"
	"fmt"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Pusher is the part of the Redis client the sink needs
type Pusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisSink queues each submission as JSON on a Redis list for a downstream consumer
type RedisSink struct {
	logger *zap.Logger
	client Pusher
	key    string
}

func NewRedisSink(logger *zap.Logger, client Pusher, key string) *RedisSink {
	return &RedisSink{
		logger: logger,
		client: client,
		key:    key,
	}
}

func (s *RedisSink) Deliver(ctx context.Context, payload shared.SubmissionPayload) error {
	logger := logutil.WithContext(ctx, s.logger)

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal submission %s: %w", payload.ID(), err)
	}

	length, err := s.client.RPush(ctx, s.key, data).Result()
	if err != nil {
		return fmt.Errorf("push submission %s to %s: %w", payload.ID(), s.key, err)
	}

	logger.Debug("Queued submission", zap.String("submission_id", payload.ID().String()), zap.String("key", s.key), zap.Int64("queue_length", length))
	return nil
}

// NewRedisClient connects to url and checks the connection
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
