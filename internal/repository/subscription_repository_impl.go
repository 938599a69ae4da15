package repository

import (
	"context"
	"errors"
	"time"

	"go-telehealth/internal/domain/entity"
	domainRepo "go-telehealth/internal/domain/repository"
	"go-telehealth/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) domainRepo.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) error {
	return database.Conn(ctx, r.db).Omit("User").Create(sub).Error
}

func (r *subscriptionRepository) FindLatestActive(ctx context.Context, userID uuid.UUID, wallet string, now time.Time) (*entity.Subscription, error) {
	var sub entity.Subscription
	err := database.Conn(ctx, r.db).
		Where("user_id = ? AND wallet_address = ? AND subscription_end >= ?", userID, wallet, now).
		Order("subscription_end DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindEndingBetween(ctx context.Context, from, to time.Time) ([]entity.Subscription, error) {
	var subs []entity.Subscription
	err := database.Conn(ctx, r.db).
		Where("subscription_end BETWEEN ? AND ?", from, to).
		// A renewal for the same user and wallet supersedes the older row.
		Where(`NOT EXISTS (
			SELECT 1 FROM user_subscription later
			WHERE later.user_id = user_subscription.user_id
			AND later.wallet_address = user_subscription.wallet_address
			AND later.subscription_end > user_subscription.subscription_end
		)`).
		Order("subscription_end ASC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}
