package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents the centralized account table for patients and doctors
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password      string    `gorm:"type:text;not null" json:"-"`
	FullName      string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone         string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Role          Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	WalletAddress *string   `gorm:"type:varchar(64)" json:"wallet_address,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	DoctorProfile  *DoctorProfile  `gorm:"foreignKey:UserID" json:"doctor_profile,omitempty"`
	PatientProfile *PatientProfile `gorm:"foreignKey:UserID" json:"patient_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// RegisteredWallet returns the wallet address bound to the account, or "" if none.
func (u *User) RegisteredWallet() string {
	if u.WalletAddress == nil {
		return ""
	}
	return *u.WalletAddress
}
