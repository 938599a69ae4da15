package repository

import (
	"context"

	"go-telehealth/internal/domain/entity"

	"github.com/google/uuid"
)

// StatusChange describes a compare-and-swap status write.
// The row is only touched while it still has status From and version Version.
type StatusChange struct {
	ID        uuid.UUID
	From      entity.AppointmentStatus
	To        entity.AppointmentStatus
	Version   int
	MeetingID *string
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error)
	// UpdateStatus returns the number of rows affected: 0 means the row moved on.
	UpdateStatus(ctx context.Context, change StatusChange) (int64, error)
}
