package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog is one append-only audit trail row. Entity and values live in Metadata.
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON is a jsonb column holding audit details such as old and new values.
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("audit metadata: unsupported scan type %T", value)
	}

	out := JSON{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("audit metadata: %w", err)
	}
	*j = out
	return nil
}

// Common audit actions
const (
	AuditActionUserRegister        = "user.register"
	AuditActionUserLogin           = "user.login"
	AuditActionProfileUpdate       = "profile.update"
	AuditActionAppointmentRequest  = "appointment.request"
	AuditActionAppointmentAccept   = "appointment.accept"
	AuditActionAppointmentReject   = "appointment.reject"
	AuditActionAppointmentPay      = "appointment.pay"
	AuditActionAppointmentComplete = "appointment.complete"
	AuditActionSubscriptionCreate  = "subscription.create"
)
