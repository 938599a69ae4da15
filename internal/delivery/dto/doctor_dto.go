package dto

import "github.com/google/uuid"

type DoctorResponse struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Specialization string    `json:"specialization"`
	IsVerified     bool      `json:"is_verified"`
	WalletAddress  string    `json:"wallet_address,omitempty"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
