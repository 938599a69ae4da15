package usecase

import (
	"context"
	"errors"
	"time"

	"go-telehealth/internal/converter"
	"go-telehealth/internal/delivery/dto"
	"go-telehealth/internal/domain/entity"
	"go-telehealth/internal/domain/repository"
	"go-telehealth/internal/service"
	"go-telehealth/pkg/rabbitmq"

	"github.com/sirupsen/logrus"
)

var ErrSubscriptionInactive = errors.New("an active subscription is required")

// SubscriptionUsecase decides chat access. Access is recomputed on every call;
// nothing is cached and rows are never extended in place.
type SubscriptionUsecase interface {
	CheckAccess(ctx context.Context, session *entity.Session) (*dto.SubscriptionStatusResponse, error)
	Subscribe(ctx context.Context, session *entity.Session) (*dto.SubscriptionResponse, error)
	ChatSession(ctx context.Context, session *entity.Session) (*dto.ChatSessionResponse, error)
}

type subscriptionUsecase struct {
	log              *logrus.Logger
	transactor       repository.Transactor
	subscriptionRepo repository.SubscriptionRepository
	userRepo         repository.UserRepository
	auditService     service.AuditService
	publisher        rabbitmq.Publisher
	period           time.Duration
	now              func() time.Time
}

func NewSubscriptionUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	subscriptionRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	publisher rabbitmq.Publisher,
	period time.Duration,
) SubscriptionUsecase {
	return &subscriptionUsecase{
		log:              log,
		transactor:       transactor,
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		auditService:     auditService,
		publisher:        publisher,
		period:           period,
		now:              time.Now,
	}
}

// CheckAccess reports whether the session's user holds an unexpired subscription
// bought from the currently connected wallet. No wallet means no access, not an error.
// A store failure is returned so callers deny access.
func (u *subscriptionUsecase) CheckAccess(ctx context.Context, session *entity.Session) (*dto.SubscriptionStatusResponse, error) {
	if !session.HasWallet() {
		return &dto.SubscriptionStatusResponse{Active: false}, nil
	}

	sub, err := u.active(ctx, session)
	if err != nil {
		return nil, err
	}

	status := &dto.SubscriptionStatusResponse{WalletAddress: session.ConnectedWallet}
	if sub != nil {
		end := sub.SubscriptionEnd
		status.Active = true
		status.SubscriptionEnd = &end
	}
	return status, nil
}

// Subscribe starts a new period from now. Existing rows are left alone even if
// they overlap.
func (u *subscriptionUsecase) Subscribe(ctx context.Context, session *entity.Session) (*dto.SubscriptionResponse, error) {
	if !session.HasWallet() {
		return nil, ErrWalletNotConnected
	}

	start := u.now()
	sub := &entity.Subscription{
		UserID:            session.UserID,
		WalletAddress:     session.ConnectedWallet,
		SubscriptionStart: start,
		SubscriptionEnd:   start.Add(u.period),
	}

	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.subscriptionRepo.Create(ctx, sub); err != nil {
			u.log.Warnf("Failed to create subscription: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, session.UserID, entity.AuditActionSubscriptionCreate, "subscription", sub.ID.String(), map[string]interface{}{
			"wallet_address":   sub.WalletAddress,
			"subscription_end": sub.SubscriptionEnd,
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Subscription %s created for %s until %s", sub.ID, session.UserID, sub.SubscriptionEnd.Format(time.RFC3339))
	event := rabbitmq.SubscriptionEvent{
		SubscriptionID:  sub.ID,
		UserID:          sub.UserID,
		WalletAddress:   sub.WalletAddress,
		SubscriptionEnd: sub.SubscriptionEnd,
		Timestamp:       start,
	}
	if err := u.publisher.Publish(ctx, rabbitmq.RoutingSubscriptionCreated, event); err != nil {
		u.log.Warnf("Failed to publish subscription event: %+v", err)
	}

	return converter.SubscriptionToResponse(sub), nil
}

func (u *subscriptionUsecase) ChatSession(ctx context.Context, session *entity.Session) (*dto.ChatSessionResponse, error) {
	if !session.HasWallet() {
		return nil, ErrWalletNotConnected
	}

	sub, err := u.active(ctx, session)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionInactive
	}

	user, err := u.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return &dto.ChatSessionResponse{
		UserID:          user.ID,
		FullName:        user.FullName,
		WalletAddress:   session.ConnectedWallet,
		SubscriptionEnd: sub.SubscriptionEnd,
	}, nil
}

func (u *subscriptionUsecase) active(ctx context.Context, session *entity.Session) (*entity.Subscription, error) {
	now := u.now()
	sub, err := u.subscriptionRepo.FindLatestActive(ctx, session.UserID, session.ConnectedWallet, now)
	if err != nil {
		u.log.Warnf("Failed to check subscription: %+v", err)
		return nil, err
	}
	if sub == nil || !sub.IsActiveFor(session.UserID, session.ConnectedWallet, now) {
		return nil, nil
	}
	return sub, nil
}
