package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatusResponse struct {
	Active          bool       `json:"active"`
	WalletAddress   string     `json:"wallet_address,omitempty"`
	SubscriptionEnd *time.Time `json:"subscription_end,omitempty"`
}

type SubscriptionResponse struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	WalletAddress     string    `json:"wallet_address"`
	SubscriptionStart time.Time `json:"subscription_start"`
	SubscriptionEnd   time.Time `json:"subscription_end"`
}

// ChatSessionResponse is the handshake the chat client performs before opening a conversation.
type ChatSessionResponse struct {
	UserID          uuid.UUID `json:"user_id"`
	FullName        string    `json:"full_name"`
	WalletAddress   string    `json:"wallet_address"`
	SubscriptionEnd time.Time `json:"subscription_end"`
}
