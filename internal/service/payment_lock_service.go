package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrLockHeld is returned when another request already holds the lock.
var ErrLockHeld = errors.New("lock is held by another request")

// RedisPayLockKeyPrefix namespaces the per-appointment payment lock.
const RedisPayLockKeyPrefix = "appointment:pay:"

// releaseLockScript deletes the key only when it still carries our token, so a
// lock that expired and was taken by someone else is never released by us.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// PaymentLocker serialises pay attempts for one appointment.
type PaymentLocker interface {
	// Acquire returns a release func, or ErrLockHeld when the lock is taken.
	Acquire(ctx context.Context, appointmentID uuid.UUID) (release func(), err error)
}

type redisPaymentLocker struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewRedisPaymentLocker(client *redis.Client, ttl time.Duration, log *logrus.Logger) PaymentLocker {
	return &redisPaymentLocker{client: client, ttl: ttl, log: log}
}

func (l *redisPaymentLocker) Acquire(ctx context.Context, appointmentID uuid.UUID) (func(), error) {
	key := RedisPayLockKeyPrefix + appointmentID.String()
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire pay lock: %w", err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func() { l.release(key, token) }
	return release, nil
}

// release runs detached from the request so a cancelled ctx still frees the lock.
// A failed release leaves the key until its TTL expires.
func (l *redisPaymentLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	deleted, err := releaseLockScript.Run(ctx, l.client, []string{key}, token).Int64()
	if err != nil {
		l.log.Warnf("Failed to release pay lock %s, it expires in %s: %v", key, l.ttl, err)
		return
	}
	if deleted == 0 {
		l.log.Debugf("Pay lock %s expired before release", key)
	}
}
