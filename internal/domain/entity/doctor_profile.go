package entity

import "github.com/google/uuid"

// DoctorProfile represents doctor-specific profile data.
// RegistrationID and IsVerified are maintained by operators and never edited by the doctor.
type DoctorProfile struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Specialization string    `gorm:"type:varchar(100);not null;index" json:"specialization"`
	RegistrationID string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"registration_id"`
	IsVerified     bool      `gorm:"not null;default:false" json:"is_verified"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
