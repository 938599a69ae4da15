package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID string           `json:"doctor_id" validate:"required,uuid"`
	Date     string           `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string           `json:"time" validate:"required"` // HH:MM or HH:MM:SS
	Type     string           `json:"type" validate:"omitempty,max=50"`
	Fee      *decimal.Decimal `json:"fee,omitempty"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

type PayAppointmentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID        `json:"id"`
	DoctorID    uuid.UUID        `json:"doctor_id"`
	DoctorName  string           `json:"doctor_name,omitempty"`
	PatientID   uuid.UUID        `json:"patient_id"`
	PatientName string           `json:"patient_name,omitempty"`
	Date        string           `json:"date"`
	Time        string           `json:"time"`
	Type        string           `json:"type"`
	Status      string           `json:"status"`
	MeetingID   *string          `json:"meeting_id,omitempty"`
	Fee         *decimal.Decimal `json:"fee,omitempty"`
	Version     int              `json:"version"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type PayAppointmentResponse struct {
	Appointment AppointmentResponse `json:"appointment"`
	Transaction TransactionResponse `json:"transaction"`
}

type MeetingResponse struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	MeetingID     string    `json:"meeting_id"`
	URL           string    `json:"url"`
}
