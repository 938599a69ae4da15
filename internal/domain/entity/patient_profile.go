package entity

import "github.com/google/uuid"

// PatientProfile represents patient-specific profile data
type PatientProfile struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Age      *int      `json:"age,omitempty"`
	Gender   string    `gorm:"type:varchar(16)" json:"gender,omitempty"`
	DeviceID string    `gorm:"type:varchar(100)" json:"device_id,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

// Gender constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)
