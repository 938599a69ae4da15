package converter

import (
	"go-telehealth/internal/delivery/dto"
	"go-telehealth/internal/domain/entity"
)

func SubscriptionToResponse(s *entity.Subscription) *dto.SubscriptionResponse {
	if s == nil {
		return nil
	}
	return &dto.SubscriptionResponse{
		ID:                s.ID,
		UserID:            s.UserID,
		WalletAddress:     s.WalletAddress,
		SubscriptionStart: s.SubscriptionStart,
		SubscriptionEnd:   s.SubscriptionEnd,
	}
}
