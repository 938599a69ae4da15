package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionResponse struct {
	ID            uuid.UUID       `json:"id"`
	AppointmentID *uuid.UUID      `json:"appointment_id,omitempty"`
	DoctorID      uuid.UUID       `json:"doctor_id"`
	DoctorName    string          `json:"doctor_name,omitempty"`
	PatientID     uuid.UUID       `json:"patient_id"`
	PatientName   string          `json:"patient_name,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Hash          string          `json:"hash"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}
