package repository

import (
	"context"
	"time"

	"go-telehealth/internal/domain/entity"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.Subscription) error
	// FindLatestActive returns the matching row with the furthest end that is not
	// before now, or nil when there is none.
	FindLatestActive(ctx context.Context, userID uuid.UUID, wallet string, now time.Time) (*entity.Subscription, error)
	FindEndingBetween(ctx context.Context, from, to time.Time) ([]entity.Subscription, error)
}
