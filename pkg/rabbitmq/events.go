package rabbitmq

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Routing keys on the telehealth events exchange.
const (
	RoutingAppointmentRequested = "appointment.requested"
	RoutingAppointmentAccepted  = "appointment.accepted"
	RoutingAppointmentRejected  = "appointment.rejected"
	RoutingAppointmentPaid      = "appointment.paid"
	RoutingAppointmentCompleted = "appointment.completed"
	RoutingSubscriptionCreated  = "subscription.created"
	RoutingSubscriptionExpiring = "subscription.expiring"
)

// AppointmentEvent is published on every appointment status change.
type AppointmentEvent struct {
	AppointmentID uuid.UUID        `json:"appointment_id"`
	DoctorID      uuid.UUID        `json:"doctor_id"`
	PatientID     uuid.UUID        `json:"patient_id"`
	Status        string           `json:"status"`
	Date          string           `json:"date"`
	Time          string           `json:"time"`
	MeetingID     string           `json:"meeting_id,omitempty"`
	TransactionID *uuid.UUID       `json:"transaction_id,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

// SubscriptionEvent is published when a subscription is bought or is about to lapse.
type SubscriptionEvent struct {
	SubscriptionID  uuid.UUID `json:"subscription_id"`
	UserID          uuid.UUID `json:"user_id"`
	WalletAddress   string    `json:"wallet_address"`
	SubscriptionEnd time.Time `json:"subscription_end"`
	Timestamp       time.Time `json:"timestamp"`
}
