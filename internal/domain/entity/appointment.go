package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusAccepted  AppointmentStatus = "accepted"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
	AppointmentStatusPaid      AppointmentStatus = "paid"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Appointment types offered by the booking form. Type is free text, these are only defaults.
const (
	AppointmentTypeConsultation = "Consultation"
	AppointmentTypeFollowUp     = "Follow-up"
	AppointmentTypeEmergency    = "Emergency"
)

// appointmentTransitions lists every forward edge of the lifecycle.
// rejected and completed have no outgoing edges.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:  {AppointmentStatusAccepted, AppointmentStatusRejected},
	AppointmentStatusAccepted: {AppointmentStatusPaid},
	AppointmentStatusPaid:     {AppointmentStatusCompleted},
}

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusAccepted, AppointmentStatusRejected,
		AppointmentStatusPaid, AppointmentStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is reachable from s.
func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// HasMeeting reports whether a status carries a provisioned meeting id.
func (s AppointmentStatus) HasMeeting() bool {
	return s == AppointmentStatusPaid || s == AppointmentStatusCompleted
}

// Appointment is a patient's request for a doctor's time.
// Version is bumped on every status write and used as a compare-and-swap token.
type Appointment struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	Date      time.Time         `gorm:"type:date;not null" json:"date"`
	Time      string            `gorm:"type:varchar(8);not null" json:"time"` // HH:MM:SS
	Type      string            `gorm:"type:varchar(50);not null" json:"type"`
	Status    AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	MeetingID *string           `gorm:"type:varchar(64)" json:"meeting_id,omitempty"`
	Fee       *decimal.Decimal  `gorm:"type:decimal(12,2)" json:"fee,omitempty"`
	Version   int               `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

func (a *Appointment) IsAccepted() bool {
	return a.Status == AppointmentStatusAccepted
}

// IsParty reports whether userID is the appointment's doctor or patient.
func (a *Appointment) IsParty(userID uuid.UUID) bool {
	return a.DoctorID == userID || a.PatientID == userID
}

// MeetingRoom returns the meeting id, or "" before payment.
func (a *Appointment) MeetingRoom() string {
	if a.MeetingID == nil {
		return ""
	}
	return *a.MeetingID
}
