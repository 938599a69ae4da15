package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const RedisReminderKeyPrefix = "subscription:notified:"

// ReminderMarker records which subscriptions were already told they are about to lapse.
type ReminderMarker interface {
	// Mark returns true only for the first caller per subscription within ttl.
	Mark(ctx context.Context, subscriptionID uuid.UUID) (bool, error)
	// Unmark clears the marker so the next run can retry.
	Unmark(ctx context.Context, subscriptionID uuid.UUID) error
}

type redisReminderMarker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReminderMarker(client *redis.Client, ttl time.Duration) ReminderMarker {
	return &redisReminderMarker{client: client, ttl: ttl}
}

func (m *redisReminderMarker) Mark(ctx context.Context, subscriptionID uuid.UUID) (bool, error) {
	return m.client.SetNX(ctx, RedisReminderKeyPrefix+subscriptionID.String(), time.Now().Unix(), m.ttl).Result()
}

func (m *redisReminderMarker) Unmark(ctx context.Context, subscriptionID uuid.UUID) error {
	return m.client.Del(ctx, RedisReminderKeyPrefix+subscriptionID.String()).Err()
}
