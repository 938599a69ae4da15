package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is written from the doctor's side of the ledger.
type TransactionType string

const (
	TransactionTypeSent     TransactionType = "sent"
	TransactionTypeReceived TransactionType = "received"
)

const TransactionStatusCompleted = "completed"

// Transaction records one wallet payment. Rows are insert-only.
type Transaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID *uuid.UUID      `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	DoctorID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Type          TransactionType `gorm:"type:varchar(20);not null" json:"type"`
	Hash          string          `gorm:"type:varchar(66);uniqueIndex;not null" json:"hash"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	Status        string          `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Doctor  *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// IsParty reports whether userID paid or received this transaction.
func (t *Transaction) IsParty(userID uuid.UUID) bool {
	return t.DoctorID == userID || t.PatientID == userID
}
