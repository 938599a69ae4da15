package repository

import (
	"context"
	"errors"

	"go-telehealth/internal/domain/entity"
	domainRepo "go-telehealth/internal/domain/repository"
	"go-telehealth/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return database.Conn(ctx, r.db).Omit("Doctor", "Patient").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := database.Conn(ctx, r.db).
		Preload("Doctor").Preload("Patient").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := database.Conn(ctx, r.db).
		Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := database.Conn(ctx, r.db).
		Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateStatus moves an appointment only if it is still at the expected status and version.
// Returns affected rows: 1 = applied, 0 = someone else changed the row first.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, change domainRepo.StatusChange) (int64, error) {
	updates := map[string]interface{}{
		"status":     change.To,
		"version":    gorm.Expr("version + 1"),
		"updated_at": gorm.Expr("NOW()"),
	}
	if change.MeetingID != nil {
		updates["meeting_id"] = *change.MeetingID
	}

	result := database.Conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("id = ? AND status = ? AND version = ?", change.ID, change.From, change.Version).
		Updates(updates)
	return result.RowsAffected, result.Error
}
