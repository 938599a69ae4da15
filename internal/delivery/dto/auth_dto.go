package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterPatientRequest registers an account with role user and its patient profile.
type RegisterPatientRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	FullName      string `json:"full_name" validate:"required,min=2"`
	Phone         string `json:"phone" validate:"omitempty,min=6,max=20"`
	WalletAddress string `json:"wallet_address" validate:"omitempty,eth_addr"`
	Age           *int   `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender        string `json:"gender" validate:"omitempty,oneof=male female other"`
	DeviceID      string `json:"device_id" validate:"omitempty,max=100"`
}

// RegisterDoctorRequest registers an account with role doctor and its doctor profile.
type RegisterDoctorRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	FullName       string `json:"full_name" validate:"required,min=2"`
	Phone          string `json:"phone" validate:"omitempty,min=6,max=20"`
	WalletAddress  string `json:"wallet_address" validate:"omitempty,eth_addr"`
	Specialization string `json:"specialization" validate:"required,max=100"`
	RegistrationID string `json:"registration_id" validate:"required,max=50"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID             uuid.UUID               `json:"id"`
	Email          string                  `json:"email"`
	FullName       string                  `json:"full_name"`
	Phone          string                  `json:"phone,omitempty"`
	Role           string                  `json:"role"`
	WalletAddress  string                  `json:"wallet_address,omitempty"`
	DoctorProfile  *DoctorProfileResponse  `json:"doctor_profile,omitempty"`
	PatientProfile *PatientProfileResponse `json:"patient_profile,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}
