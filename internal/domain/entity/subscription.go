package entity

import (
	"time"

	"github.com/google/uuid"
)

// Subscription grants chat access to one user from one wallet for a fixed window.
// Rows are never updated; expiry is decided at read time.
type Subscription struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	WalletAddress     string    `gorm:"type:varchar(64);not null;index" json:"wallet_address"`
	SubscriptionStart time.Time `gorm:"not null" json:"subscription_start"`
	SubscriptionEnd   time.Time `gorm:"not null;index" json:"subscription_end"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Subscription) TableName() string {
	return "user_subscription"
}

// IsActiveFor applies the access rule: not expired, same user, same wallet.
func (s *Subscription) IsActiveFor(userID uuid.UUID, wallet string, now time.Time) bool {
	return s.UserID == userID && s.WalletAddress == wallet && !now.After(s.SubscriptionEnd)
}
